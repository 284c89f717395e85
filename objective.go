package proclus

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// evaluateClusters scores a clustering, lower is better. For every cluster
// the mean absolute distance of its members to the centroid is averaged over
// the cluster's own dimensions and weighted by the cluster size; the sum is
// divided by the total number of points.
func evaluateClusters(rel Relation, clusters []workingCluster) float64 {
	var result float64
	for _, c := range clusters {
		if len(c.dims) == 0 {
			continue
		}
		var w float64
		for _, d := range c.dims {
			w += avgDistance(rel, c, d)
		}
		w /= float64(len(c.dims))
		result += float64(c.size()) * w
	}
	return result / float64(rel.Size())
}

// avgDistance returns the mean absolute distance of c's members to its
// centroid along dimension d.
func avgDistance(rel Relation, c workingCluster, d int) float64 {
	var sum float64
	it := c.members.Iterator()
	for it.HasNext() {
		sum += math.Abs(c.centroid[d] - rel.Get(int(it.Next()))[d])
	}
	return sum / float64(c.size())
}

// badThreshold is the cluster size below which a medoid counts as bad.
// The product is kept fractional: with n=330 and k=4 the threshold is 8.25,
// so a cluster of 8 is bad. Truncating to an int would accept it.
func badThreshold(fraction float64, n, k int) float64 {
	return fraction * float64(n) / float64(k)
}

// badMedoids returns the medoids whose cluster has fewer than threshold
// members. A medoid that attracted no points at all is bad too.
func badMedoids(medoids []int, clusters []workingCluster, threshold float64) *roaring.Bitmap {
	sizes := make([]int, len(medoids))
	for _, c := range clusters {
		sizes[c.entity] = c.size()
	}
	bad := roaring.New()
	for i, m := range medoids {
		if float64(sizes[i]) < threshold {
			bad.Add(uint32(m))
		}
	}
	return bad
}
