package proclus

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func TestNewDataset(t *testing.T) {
	points := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	ds, err := NewDataset(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Size() != 3 || ds.Dimensionality() != 2 {
		t.Fatalf("Size/Dimensionality = %d/%d, want 3/2", ds.Size(), ds.Dimensionality())
	}
	if !slices.Equal(ds.Get(1), []float64{3, 4}) {
		t.Errorf("Get(1) = %v, want [3 4]", ds.Get(1))
	}
	if ids := slices.Collect(ds.IDs()); !slices.Equal(ids, []int{0, 1, 2}) {
		t.Errorf("IDs() = %v, want [0 1 2]", ids)
	}
	if ds.Index() != IndexKDTree {
		t.Errorf("Index() = %q, want auto to resolve to kdtree", ds.Index())
	}

	// The dataset owns a copy of the input.
	points[0][0] = 100
	if ds.Get(0)[0] != 1 {
		t.Error("dataset aliases the caller's slice")
	}
}

func TestNewDataset_Errors(t *testing.T) {
	if _, err := NewDataset(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty input: got %v, want ErrEmptyDataset", err)
	}
	if _, err := NewDataset([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ragged input: got %v, want ErrDimensionMismatch", err)
	}
	if _, err := NewDatasetFlat([]float64{1, 2, 3}, 2, 2); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short flat input: got %v, want ErrDimensionMismatch", err)
	}
	if _, err := NewDatasetFlat(nil, 0, 2); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty flat input: got %v, want ErrEmptyDataset", err)
	}
	_, err := NewDataset([][]float64{{1, 0}}, WithMetric(CosineMetric{}), WithIndex(IndexKDTree))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("cosine kdtree: got %v, want ErrInvalidConfig", err)
	}
}

func TestDataset_RangeQuery_AllIndexes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n, dims := 200, 3
	flat := randomFlat(rng, n, dims)

	brute, err := NewDatasetFlat(flat, n, dims, WithIndex(IndexBrute))
	if err != nil {
		t.Fatal(err)
	}
	for _, kind := range []IndexKind{IndexKDTree, IndexBallTree} {
		ds, err := NewDatasetFlat(flat, n, dims, WithIndex(kind), WithLeafSize(6))
		if err != nil {
			t.Fatal(err)
		}
		for id := 0; id < 30; id++ {
			radius := rng.Float64() * 3
			sameNeighbors(t, string(kind), ds.RangeQuery(id, radius), brute.RangeQuery(id, radius))
		}
	}
}

func TestDataset_RangeQuery_ContainsSelf(t *testing.T) {
	ds, err := NewDataset([][]float64{{0, 0}, {5, 5}}, WithIndex(IndexBrute))
	if err != nil {
		t.Fatal(err)
	}
	got := ds.RangeQuery(1, 0)
	if len(got) != 1 || got[0].ID != 1 || got[0].Distance != 0 {
		t.Errorf("RangeQuery(1, 0) = %+v, want only the point itself", got)
	}
}

func TestDataset_CustomMetric(t *testing.T) {
	ds, err := NewDataset([][]float64{{0, 0}, {3, 4}}, WithMetric(ManhattanMetric{}))
	if err != nil {
		t.Fatal(err)
	}
	if d := ds.Distance(0, 1); d != 7 {
		t.Errorf("Distance = %v, want 7", d)
	}
	if _, ok := ds.Metric().(ManhattanMetric); !ok {
		t.Errorf("Metric() = %T, want ManhattanMetric", ds.Metric())
	}
}
