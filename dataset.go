package proclus

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// Neighbor is one result of a range query.
type Neighbor struct {
	ID       int
	Distance float64
}

// Relation is the dataset collaborator PROCLUS runs against. Identifiers
// are non-negative and must fit in a uint32. Implementations must be safe
// for concurrent reads if they are shared between parallel runs.
type Relation interface {
	// Size returns the number of points.
	Size() int
	// Dimensionality returns the length of every vector.
	Dimensionality() int
	// Get returns the vector for id. Callers must not modify it.
	Get(id int) []float64
	// IDs yields every identifier. The sequence is finite and restartable.
	IDs() iter.Seq[int]
	// Distance returns the configured metric between two points.
	Distance(a, b int) float64
	// RangeQuery returns all points within radius of id, inclusive. The
	// result contains id itself.
	RangeQuery(id int, radius float64) []Neighbor
}

// Dataset is an in-memory Relation over a dense matrix. Identifiers are
// row indices 0..n-1.
type Dataset struct {
	data   []float64 // flat row-major (n * dims)
	n      int
	dims   int
	metric DistanceMetric
	index  IndexKind
	tree   SpatialTree // nil for IndexBrute
}

type datasetOptions struct {
	metric   DistanceMetric
	index    IndexKind
	leafSize int
}

// DatasetOption configures NewDataset.
type DatasetOption func(*datasetOptions)

// WithMetric sets the metric used for Distance and RangeQuery.
// If nil is passed, EuclideanMetric is used.
func WithMetric(m DistanceMetric) DatasetOption {
	return func(o *datasetOptions) {
		if m == nil {
			m = EuclideanMetric{}
		}
		o.metric = m
	}
}

// WithIndex selects the range query index. Default: IndexAuto.
func WithIndex(kind IndexKind) DatasetOption {
	return func(o *datasetOptions) { o.index = kind }
}

// WithLeafSize sets the maximum number of points per tree leaf. Default: 40.
func WithLeafSize(n int) DatasetOption {
	return func(o *datasetOptions) { o.leafSize = n }
}

// NewDataset copies points into a Dataset. All rows must have the same
// dimensionality.
func NewDataset(points [][]float64, opts ...DatasetOption) (*Dataset, error) {
	if len(points) == 0 {
		return nil, ErrEmptyDataset
	}
	dims := len(points[0])
	flat := make([]float64, len(points)*dims)
	for i, row := range points {
		if len(row) != dims {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrDimensionMismatch, i, len(row), dims)
		}
		copy(flat[i*dims:], row)
	}
	return newDatasetFlat(flat, len(points), dims, opts...)
}

// NewDatasetFlat builds a Dataset from flat row-major data with n rows of
// dims columns. The slice is copied.
func NewDatasetFlat(data []float64, n, dims int, opts ...DatasetOption) (*Dataset, error) {
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if len(data) != n*dims {
		return nil, fmt.Errorf("%w: data length %d does not match n*dims = %d", ErrDimensionMismatch, len(data), n*dims)
	}
	return newDatasetFlat(slices.Clone(data), n, dims, opts...)
}

func newDatasetFlat(flat []float64, n, dims int, opts ...DatasetOption) (*Dataset, error) {
	o := datasetOptions{metric: EuclideanMetric{}, index: IndexAuto, leafSize: 40}
	for _, fn := range opts {
		fn(&o)
	}

	kind, err := selectIndex(o.index, o.metric, dims)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{data: flat, n: n, dims: dims, metric: o.metric, index: kind}
	switch kind {
	case IndexKDTree:
		ds.tree = NewKDTree(flat, n, dims, o.metric, o.leafSize)
	case IndexBallTree:
		ds.tree = NewBallTree(flat, n, dims, o.metric, o.leafSize)
	}
	return ds, nil
}

func (d *Dataset) Size() int              { return d.n }
func (d *Dataset) Dimensionality() int    { return d.dims }
func (d *Dataset) Metric() DistanceMetric { return d.metric }

// Index reports the resolved range query index.
func (d *Dataset) Index() IndexKind { return d.index }

func (d *Dataset) Get(id int) []float64 {
	return d.data[id*d.dims : (id+1)*d.dims : (id+1)*d.dims]
}

func (d *Dataset) IDs() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < d.n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func (d *Dataset) Distance(a, b int) float64 {
	return d.metric.Distance(d.Get(a), d.Get(b))
}

func (d *Dataset) RangeQuery(id int, radius float64) []Neighbor {
	query := d.Get(id)
	if d.tree != nil {
		return d.tree.QueryRadius(query, radius)
	}
	var out []Neighbor
	for i := 0; i < d.n; i++ {
		if dist := d.metric.Distance(query, d.Get(i)); dist <= radius {
			out = append(out, Neighbor{ID: i, Distance: dist})
		}
	}
	sortNeighbors(out)
	return out
}

// sortNeighbors orders range query results by (distance, id).
func sortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
