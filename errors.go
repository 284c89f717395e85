package proclus

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a Config field is out of range.
	ErrInvalidConfig = errors.New("proclus: invalid config")

	// ErrDimensionality is returned when L exceeds the data dimensionality.
	// It is raised before any sampling takes place.
	ErrDimensionality = errors.New("proclus: dimensionality of data < parameter l")

	// ErrMedoidPoolExhausted is returned when more distinct medoids are
	// requested than there are candidates left to draw from.
	ErrMedoidPoolExhausted = errors.New("proclus: medoid pool exhausted")

	// ErrEmptyDataset is returned when clustering is asked for on no points.
	ErrEmptyDataset = errors.New("proclus: empty dataset")

	// ErrDimensionMismatch is returned for ragged input rows.
	ErrDimensionMismatch = errors.New("proclus: dimension mismatch")

	// ErrNotStarted is returned by Run.Finish before any iteration ran.
	ErrNotStarted = errors.New("proclus: no iteration has run")
)

// DimensionalityError reports that the configured average subspace
// dimensionality L is larger than the data dimensionality.
type DimensionalityError struct {
	L    int
	Dims int
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("proclus: dimensionality of data < parameter l (%d < %d)", e.Dims, e.L)
}

func (e *DimensionalityError) Unwrap() error { return ErrDimensionality }

// configError wraps ErrInvalidConfig with a descriptive message.
func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
