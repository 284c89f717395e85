package proclus

import (
	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/floats"
)

// workingCluster is one cluster of an intermediate or final partition.
// A workingCluster is never patched in place: when membership changes a
// new one is built with a freshly computed centroid.
type workingCluster struct {
	entity   int             // index of the medoid or refinement entity that produced it
	members  *roaring.Bitmap // point identifiers
	dims     []int           // correlated dimensions, ascending
	centroid []float64
}

func (c workingCluster) size() int {
	return int(c.members.GetCardinality())
}

// memberIDs returns the member identifiers in ascending order.
func (c workingCluster) memberIDs() []int {
	ids := make([]int, 0, c.size())
	it := c.members.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids
}

// assignPoints assigns every point of rel to the representative with the
// smallest Manhattan segmental distance under that representative's
// dimensions. Ties go to the representative listed first. Representatives
// without dimensions take no part. The returned bitmaps are indexed like
// reps.
func assignPoints(rel Relation, reps [][]float64, dims [][]int) []*roaring.Bitmap {
	members := make([]*roaring.Bitmap, len(reps))
	for i := range members {
		members[i] = roaring.New()
	}

	for id := range rel.IDs() {
		p := rel.Get(id)
		best := -1
		var bestDist float64
		for e, rep := range reps {
			if len(dims[e]) == 0 {
				continue
			}
			d := ManhattanSegmental(p, rep, dims[e])
			if best < 0 || d < bestDist {
				best, bestDist = e, d
			}
		}
		if best >= 0 {
			members[best].Add(uint32(id))
		}
	}
	return members
}

// buildClusters turns an assignment into working clusters, dropping every
// entity whose member set is empty. Output order follows entity order.
func buildClusters(rel Relation, members []*roaring.Bitmap, dims [][]int) []workingCluster {
	var clusters []workingCluster
	for e, m := range members {
		if m.IsEmpty() {
			continue
		}
		clusters = append(clusters, workingCluster{
			entity:   e,
			members:  m,
			dims:     dims[e],
			centroid: centroid(rel, m),
		})
	}
	return clusters
}

// centroid returns the coordinate-wise mean of the member vectors.
func centroid(rel Relation, members *roaring.Bitmap) []float64 {
	c := make([]float64, rel.Dimensionality())
	it := members.Iterator()
	for it.HasNext() {
		floats.Add(c, rel.Get(int(it.Next())))
	}
	floats.Scale(1/float64(members.GetCardinality()), c)
	return c
}
