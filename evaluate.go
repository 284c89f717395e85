package proclus

import (
	"fmt"
	"slices"
)

// PairFMeasure returns the pair-counting F1 score between a reference
// labelling and a predicted one: the harmonic mean of the precision and
// recall of "same cluster" decisions over all point pairs. Labels are
// opaque; a noise label is treated as one more group. Both slices must
// have the same length. Two labellings without any co-clustered pair
// score 1.
func PairFMeasure(reference, predicted []int) (float64, error) {
	if len(reference) != len(predicted) {
		return 0, fmt.Errorf("%w: %d reference labels, %d predicted", ErrDimensionMismatch, len(reference), len(predicted))
	}

	type cell struct{ ref, pred int }
	cells := make(map[cell]int)
	refSizes := make(map[int]int)
	predSizes := make(map[int]int)
	for i := range reference {
		cells[cell{reference[i], predicted[i]}]++
		refSizes[reference[i]]++
		predSizes[predicted[i]]++
	}

	var inBoth, inRef, inPred float64
	for _, c := range cells {
		inBoth += pairs(c)
	}
	for _, c := range refSizes {
		inRef += pairs(c)
	}
	for _, c := range predSizes {
		inPred += pairs(c)
	}
	if inRef+inPred == 0 {
		return 1, nil
	}
	return 2 * inBoth / (inRef + inPred), nil
}

func pairs(n int) float64 {
	return float64(n) * float64(n-1) / 2
}

// SortedSizes returns the cluster sizes of r in ascending order, the shape
// golden results are usually stated in.
func SortedSizes(r *Result) []int {
	sizes := r.Sizes()
	slices.Sort(sizes)
	return sizes
}
