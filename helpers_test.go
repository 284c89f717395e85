package proclus

import (
	"iter"
	"math/rand"
	"slices"
	"testing"
)

// plantedData generates `clusters` groups of `size` points in `dims`
// dimensions. Group c is tight (sd 1) in dimensions 2c and 2c+1 and uniform
// on [0, 100) elsewhere. It returns the points and the generating labels.
func plantedData(seed int64, clusters, size, dims int) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	var points [][]float64
	var labels []int
	for c := 0; c < clusters; c++ {
		center := []float64{20 + rng.Float64()*60, 20 + rng.Float64()*60}
		for i := 0; i < size; i++ {
			p := make([]float64, dims)
			for d := range p {
				p[d] = rng.Float64() * 100
			}
			p[(2*c)%dims] = center[0] + rng.NormFloat64()
			p[(2*c+1)%dims] = center[1] + rng.NormFloat64()
			points = append(points, p)
			labels = append(labels, c)
		}
	}
	return points, labels
}

// twoBlobs returns 20 copies of (0,0) followed by 20 copies of (10,10).
func twoBlobs() [][]float64 {
	var points [][]float64
	for i := 0; i < 20; i++ {
		points = append(points, []float64{0, 0})
	}
	for i := 0; i < 20; i++ {
		points = append(points, []float64{10, 10})
	}
	return points
}

// checkResult asserts the structural guarantees every clustering has.
func checkResult(t *testing.T, rel Relation, cfg Config, res *Result) {
	t.Helper()
	if len(res.Clusters) == 0 || len(res.Clusters) > cfg.K {
		t.Fatalf("got %d clusters, want 1..%d", len(res.Clusters), cfg.K)
	}
	if len(res.Medoids) != cfg.K {
		t.Errorf("got %d medoids, want %d", len(res.Medoids), cfg.K)
	}
	maxDims := min(rel.Dimensionality(), max(cfg.K*cfg.L, 2))

	seen := make(map[int]string)
	for i, c := range res.Clusters {
		if c.Name != clusterName(i) {
			t.Errorf("cluster %d named %q", i, c.Name)
		}
		if len(c.Members) == 0 {
			t.Errorf("%s is empty", c.Name)
		}
		if !slices.IsSorted(c.Members) {
			t.Errorf("%s members not ascending", c.Name)
		}
		for _, id := range c.Members {
			if other, dup := seen[id]; dup {
				t.Errorf("point %d in both %s and %s", id, other, c.Name)
			}
			seen[id] = c.Name
		}
		if len(c.Dimensions) == 0 || len(c.Dimensions) > maxDims {
			t.Errorf("%s has %d dimensions, want 1..%d", c.Name, len(c.Dimensions), maxDims)
		}
		if !slices.IsSorted(c.Dimensions) {
			t.Errorf("%s dimensions not ascending: %v", c.Name, c.Dimensions)
		}
		for d := range rel.Dimensionality() {
			var sum float64
			for _, id := range c.Members {
				sum += rel.Get(id)[d]
			}
			mean := sum / float64(len(c.Members))
			if diff := mean - c.Centroid[d]; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("%s centroid[%d] = %v, want %v", c.Name, d, c.Centroid[d], mean)
			}
		}
	}

	for i := 1; i < len(res.History); i++ {
		if res.History[i].BestObjective > res.History[i-1].BestObjective {
			t.Errorf("best objective increased at pass %d", i+1)
		}
	}
	if n := len(res.History); n > 0 && res.History[n-1].BestObjective != res.BestObjective {
		t.Errorf("BestObjective %v differs from last history entry %v", res.BestObjective, res.History[n-1].BestObjective)
	}
}

// emptyRelation is a Relation without points.
type emptyRelation struct{}

func (emptyRelation) Size() int                          { return 0 }
func (emptyRelation) Dimensionality() int                { return 2 }
func (emptyRelation) Get(int) []float64                  { return nil }
func (emptyRelation) IDs() iter.Seq[int]                 { return func(func(int) bool) {} }
func (emptyRelation) Distance(int, int) float64          { return 0 }
func (emptyRelation) RangeQuery(int, float64) []Neighbor { return nil }
