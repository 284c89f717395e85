package proclus

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
)

func mustDataset(t testing.TB, points [][]float64, opts ...DatasetOption) *Dataset {
	t.Helper()
	ds, err := NewDataset(points, opts...)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func distinct(ids []int) bool {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

func TestRandomSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ids := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	s := randomSample(ids, 4, rng)
	if len(s) != 4 || !distinct(s) {
		t.Errorf("randomSample(4) = %v, want 4 distinct ids", s)
	}
	for _, id := range s {
		if !slices.Contains(ids, id) {
			t.Errorf("sampled id %d not in input", id)
		}
	}
	if s := randomSample(ids, 50, rng); len(s) != len(ids) || !distinct(s) {
		t.Errorf("oversized sample = %v, want a permutation of the input", s)
	}
	if !slices.Equal(ids, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Error("randomSample modified its input")
	}
}

func TestGreedyMedoids_PicksOutlier(t *testing.T) {
	ds := mustDataset(t, [][]float64{{0, 0}, {0, 0.1}, {10, 0}, {10, 0.1}, {5, 100}})
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m, err := greedyMedoids(ds, []int{0, 1, 2, 3, 4}, 3, rng)
		if err != nil {
			t.Fatal(err)
		}
		if len(m) != 3 || !distinct(m) {
			t.Fatalf("seed %d: medoids %v, want 3 distinct", seed, m)
		}
		if !slices.Contains(m, 4) {
			t.Errorf("seed %d: medoids %v miss the outlier", seed, m)
		}
	}
}

func TestGreedyMedoids_SpreadsOut(t *testing.T) {
	// Two tight groups: the second pick must come from the other group.
	ds := mustDataset(t, [][]float64{{0, 0}, {0.1, 0}, {0.2, 0}, {50, 0}, {50.1, 0}})
	for seed := int64(1); seed <= 10; seed++ {
		m, err := greedyMedoids(ds, []int{0, 1, 2, 3, 4}, 2, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatal(err)
		}
		left := m[0] <= 2
		if left == (m[1] <= 2) {
			t.Errorf("seed %d: medoids %v come from the same group", seed, m)
		}
	}
}

func TestGreedyMedoids_TooMany(t *testing.T) {
	ds := mustDataset(t, [][]float64{{0}, {1}})
	_, err := greedyMedoids(ds, []int{0, 1}, 3, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrMedoidPoolExhausted) {
		t.Errorf("got %v, want ErrMedoidPoolExhausted", err)
	}
}

func TestNextMedoids(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	superset := []int{0, 1, 2, 3, 4}
	best := []int{0, 1}

	next, err := nextMedoids(superset, best, roaring.BitmapOf(1), rng)
	if err != nil {
		t.Fatal(err)
	}
	if next[0] != 0 {
		t.Errorf("good medoid moved: %v", next)
	}
	if !slices.Contains([]int{2, 3, 4}, next[1]) {
		t.Errorf("replacement %d not drawn from superset minus best", next[1])
	}

	// No bad medoids keeps the best set.
	next, err = nextMedoids(superset, best, roaring.New(), rng)
	if err != nil || !slices.Equal(next, best) {
		t.Errorf("no bad medoids: got %v, %v, want %v", next, err, best)
	}

	// Several bad medoids never receive the same replacement.
	next, err = nextMedoids([]int{0, 1, 2, 3}, best, roaring.BitmapOf(0, 1), rng)
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(next)
	if !slices.Equal(next, []int{2, 3}) {
		t.Errorf("replacements = %v, want [2 3]", next)
	}
}

func TestNextMedoids_Exhausted(t *testing.T) {
	_, err := nextMedoids([]int{0, 1}, []int{0, 1}, roaring.BitmapOf(0), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrMedoidPoolExhausted) {
		t.Errorf("got %v, want ErrMedoidPoolExhausted", err)
	}
}

func TestInitialMedoids(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m, err := initialMedoids([]int{5, 6, 7, 8}, 2, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 || !distinct(m) {
		t.Errorf("initialMedoids = %v, want 2 distinct", m)
	}
	if _, err := initialMedoids([]int{5}, 2, rng); !errors.Is(err, ErrMedoidPoolExhausted) {
		t.Errorf("got %v, want ErrMedoidPoolExhausted", err)
	}
}
