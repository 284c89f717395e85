package proclus

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// dimensionScore is one (z, entity, dimension) triple.
type dimensionScore struct {
	z      float64
	entity int
	dim    int
}

// localityRadii returns, for every medoid, the distance to its nearest
// other medoid. A lone medoid gets +Inf so its locality is the whole
// relation.
func localityRadii(rel Relation, medoids []int) []float64 {
	radii := make([]float64, len(medoids))
	for i, m := range medoids {
		radii[i] = math.Inf(1)
		for j, other := range medoids {
			if i == j {
				continue
			}
			radii[i] = min(radii[i], rel.Distance(m, other))
		}
	}
	return radii
}

// medoidSpreads computes x[i][d]: the mean absolute difference along d
// between medoid i and the points of its locality.
func medoidSpreads(rel Relation, medoids []int) [][]float64 {
	radii := localityRadii(rel, medoids)
	spreads := make([][]float64, len(medoids))
	for i, m := range medoids {
		locality := rel.RangeQuery(m, radii[i])
		ids := make([]int, len(locality))
		for j, nb := range locality {
			ids[j] = nb.ID
		}
		spreads[i] = meanAbsDeviation(rel, rel.Get(m), ids)
	}
	return spreads
}

// clusterSpreads computes x[i][d] for the refinement phase: the mean
// absolute difference along d between cluster i's centroid and its members.
func clusterSpreads(rel Relation, clusters []workingCluster) [][]float64 {
	spreads := make([][]float64, len(clusters))
	for i, c := range clusters {
		spreads[i] = meanAbsDeviation(rel, c.centroid, c.memberIDs())
	}
	return spreads
}

// meanAbsDeviation returns the per-dimension mean of |center - o| over the
// points ids. An empty id list yields all zeros.
func meanAbsDeviation(rel Relation, center []float64, ids []int) []float64 {
	x := make([]float64, rel.Dimensionality())
	if len(ids) == 0 {
		return x
	}
	for _, id := range ids {
		for d, v := range rel.Get(id) {
			x[d] += math.Abs(center[d] - v)
		}
	}
	for d := range x {
		x[d] /= float64(len(ids))
	}
	return x
}

// zScores standardizes x against its own mean and sample standard
// deviation. With fewer than two dimensions or zero deviation every
// dimension is equally relevant and all scores are 0.
func zScores(x []float64) []float64 {
	z := make([]float64, len(x))
	if len(x) < 2 {
		return z
	}
	mean, sigma := stat.MeanStdDev(x, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return z
	}
	for d, v := range x {
		z[d] = (v - mean) / sigma
	}
	return z
}

// selectDimensions ranks every (entity, dimension) pair by z-score and
// hands the lowest `total` of them to their entities. The result is
// indexed by entity; each set is ascending and duplicate free. An entity
// may receive no dimensions.
func selectDimensions(spreads [][]float64, total int) [][]int {
	var scores []dimensionScore
	for e, x := range spreads {
		for d, z := range zScores(x) {
			scores = append(scores, dimensionScore{z: z, entity: e, dim: d})
		}
	}
	slices.SortFunc(scores, func(a, b dimensionScore) int {
		if c := cmp.Compare(a.z, b.z); c != 0 {
			return c
		}
		if c := cmp.Compare(a.entity, b.entity); c != 0 {
			return c
		}
		return cmp.Compare(a.dim, b.dim)
	})

	dims := make([][]int, len(spreads))
	for _, s := range scores[:min(total, len(scores))] {
		if !slices.Contains(dims[s.entity], s.dim) {
			dims[s.entity] = append(dims[s.entity], s.dim)
		}
	}
	for _, ds := range dims {
		slices.Sort(ds)
	}
	return dims
}

// dimensionBudget returns the number of (entity, dimension) pairs selected
// per pass.
func dimensionBudget(k, l int) int {
	return max(k*l, 2)
}
