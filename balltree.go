package proclus

import (
	"math"
	"slices"
)

// BallTree is a ball tree spatial index for range queries. Each node stores
// a centroid and radius defining the smallest enclosing ball (about the
// centroid) for its points, so it works with any metric that satisfies the
// triangle inequality.
//
// The tree is stored as a complete binary tree in array form:
// node i has children at 2*i+1 and 2*i+2.
type BallTree struct {
	data     []float64 // flat row-major point data (n * dims)
	n        int
	dims     int
	leafSize int
	metric   DistanceMetric
	idxArray []int // tree-order position -> original index
	nodes    []NodeData
	// centroids[node*dims .. (node+1)*dims) = centroid of node
	centroids []float64
	numNodes  int
}

// NewBallTree builds a ball tree from flat row-major data with n points
// of dimensionality dims. leafSize controls the max points per leaf node.
func NewBallTree(data []float64, n, dims int, metric DistanceMetric, leafSize int) *BallTree {
	if leafSize < 1 {
		leafSize = 1
	}
	maxNodes := treeMaxNodes(n, leafSize)
	t := &BallTree{
		data:      slices.Clone(data),
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		metric:    metric,
		idxArray:  identityPermutation(n),
		nodes:     make([]NodeData, maxNodes),
		centroids: make([]float64, maxNodes*dims),
	}
	if n > 0 {
		t.buildNode(0, 0, n)
		t.numNodes = treeCountNodes(t.nodes, 0)
	}
	return t
}

// buildNode recursively builds the ball tree for points in idxArray[start:end].
func (t *BallTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.centroids = append(t.centroids, make([]float64, t.dims)...)
	}

	centroid := t.centroids[nodeID*t.dims : (nodeID+1)*t.dims]
	t.computeCentroid(centroid, start, end)

	var radius float64
	for _, ptIdx := range t.idxArray[start:end] {
		radius = max(radius, t.metric.Distance(centroid, t.point(ptIdx)))
	}

	if end-start <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true, Radius: radius}
		return
	}
	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, Radius: radius}

	sortIndexByDim(t.idxArray[start:end], t.data, t.dims, t.spreadDim(start, end))
	mid := start + (end-start)/2

	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

func (t *BallTree) point(idx int) []float64 {
	return t.data[idx*t.dims : (idx+1)*t.dims]
}

// computeCentroid writes the mean of points idxArray[start:end] into dst.
func (t *BallTree) computeCentroid(dst []float64, start, end int) {
	clear(dst)
	for _, ptIdx := range t.idxArray[start:end] {
		for d, v := range t.point(ptIdx) {
			dst[d] += v
		}
	}
	count := float64(end - start)
	for d := range dst {
		dst[d] /= count
	}
}

// spreadDim returns the dimension with the greatest spread among
// points in idxArray[start:end].
func (t *BallTree) spreadDim(start, end int) int {
	bestDim := 0
	bestSpread := -1.0
	for d := 0; d < t.dims; d++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, ptIdx := range t.idxArray[start:end] {
			v := t.data[ptIdx*t.dims+d]
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if hi-lo > bestSpread {
			bestSpread = hi - lo
			bestDim = d
		}
	}
	return bestDim
}

func (t *BallTree) NumPoints() int            { return t.n }
func (t *BallTree) NumFeatures() int          { return t.dims }
func (t *BallTree) IdxArray() []int           { return t.idxArray }
func (t *BallTree) NodeDataArray() []NodeData { return t.nodes[:t.numNodes] }

// QueryRadius returns all points within radius of query (inclusive),
// sorted by (distance, index).
func (t *BallTree) QueryRadius(query []float64, radius float64) []Neighbor {
	if t.n == 0 || radius < 0 || math.IsNaN(radius) {
		return nil
	}
	var out []Neighbor
	t.radiusSearch(0, query, radius, &out)
	sortNeighbors(out)
	return out
}

func (t *BallTree) radiusSearch(nodeID int, query []float64, radius float64, out *[]Neighbor) {
	if nodeID >= len(t.nodes) {
		return
	}
	node := t.nodes[nodeID]
	if node.IdxStart == node.IdxEnd && nodeID != 0 {
		return
	}

	centroid := t.centroids[nodeID*t.dims : (nodeID+1)*t.dims]
	if t.metric.Distance(query, centroid)-node.Radius > radius*(1+pruneSlack) {
		return
	}

	if node.IsLeaf {
		for _, ptIdx := range t.idxArray[node.IdxStart:node.IdxEnd] {
			if d := t.metric.Distance(query, t.point(ptIdx)); d <= radius {
				*out = append(*out, Neighbor{ID: ptIdx, Distance: d})
			}
		}
		return
	}

	t.radiusSearch(2*nodeID+1, query, radius, out)
	t.radiusSearch(2*nodeID+2, query, radius, out)
}
