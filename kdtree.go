package proclus

import (
	"math"
	"slices"
)

// KDTree is a KD-tree spatial index for range queries. Points are stored
// in a flat row-major array and reordered internally via an index
// permutation array.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
//   - node bounds are stored as min/max per dimension per node
type KDTree struct {
	data     []float64 // flat row-major point data (n * dims)
	n        int
	dims     int
	leafSize int
	metric   DistanceMetric
	idxArray []int // tree-order position -> original index
	nodes    []NodeData
	// boundsMin[node*dims + j] = min value of feature j in node
	boundsMin []float64
	// boundsMax[node*dims + j] = max value of feature j in node
	boundsMax []float64
	numNodes  int
}

// NewKDTree builds a KD-tree from flat row-major data with n points of
// dimensionality dims. leafSize controls the max points per leaf node.
func NewKDTree(data []float64, n, dims int, metric DistanceMetric, leafSize int) *KDTree {
	if leafSize < 1 {
		leafSize = 1
	}
	maxNodes := treeMaxNodes(n, leafSize)

	t := &KDTree{
		data:      slices.Clone(data),
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		metric:    metric,
		idxArray:  identityPermutation(n),
		nodes:     make([]NodeData, maxNodes),
		boundsMin: make([]float64, maxNodes*dims),
		boundsMax: make([]float64, maxNodes*dims),
	}
	if n > 0 {
		t.buildNode(0, 0, n)
		t.numNodes = treeCountNodes(t.nodes, 0)
	}
	return t
}

// buildNode recursively builds the tree for points in idxArray[start:end].
func (t *KDTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.boundsMin = append(t.boundsMin, make([]float64, t.dims)...)
		t.boundsMax = append(t.boundsMax, make([]float64, t.dims)...)
	}

	t.computeBounds(nodeID, start, end)

	if end-start <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true}
		return
	}

	// Split along the widest dimension at the median.
	base := nodeID * t.dims
	splitDim := 0
	maxSpread := -1.0
	for d := 0; d < t.dims; d++ {
		if spread := t.boundsMax[base+d] - t.boundsMin[base+d]; spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}
	sortIndexByDim(t.idxArray[start:end], t.data, t.dims, splitDim)
	mid := start + (end-start)/2

	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end}
	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

// computeBounds computes min/max per dimension for points idxArray[start:end].
func (t *KDTree) computeBounds(nodeID, start, end int) {
	lo := t.boundsMin[nodeID*t.dims : (nodeID+1)*t.dims]
	hi := t.boundsMax[nodeID*t.dims : (nodeID+1)*t.dims]
	for d := range lo {
		lo[d] = math.Inf(1)
		hi[d] = math.Inf(-1)
	}
	for _, ptIdx := range t.idxArray[start:end] {
		for d, v := range t.data[ptIdx*t.dims : (ptIdx+1)*t.dims] {
			lo[d] = min(lo[d], v)
			hi[d] = max(hi[d], v)
		}
	}
}

// sortIndexByDim sorts idx by the given feature of the referenced points.
// Ties keep the original index order so builds are reproducible.
func sortIndexByDim(idx []int, data []float64, dims, dim int) {
	slices.SortStableFunc(idx, func(a, b int) int {
		va, vb := data[a*dims+dim], data[b*dims+dim]
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	})
}

func (t *KDTree) NumPoints() int            { return t.n }
func (t *KDTree) NumFeatures() int          { return t.dims }
func (t *KDTree) IdxArray() []int           { return t.idxArray }
func (t *KDTree) NodeDataArray() []NodeData { return t.nodes[:t.numNodes] }

// QueryRadius returns all points within radius of query (inclusive),
// sorted by (distance, index).
func (t *KDTree) QueryRadius(query []float64, radius float64) []Neighbor {
	if t.n == 0 || radius < 0 || math.IsNaN(radius) {
		return nil
	}
	bound := math.Inf(1)
	if !math.IsInf(radius, 1) {
		bound = t.metric.DistToRdist(radius) * (1 + pruneSlack)
	}
	var out []Neighbor
	t.radiusSearch(0, query, radius, bound, &out)
	sortNeighbors(out)
	return out
}

func (t *KDTree) radiusSearch(nodeID int, query []float64, radius, bound float64, out *[]Neighbor) {
	if nodeID >= len(t.nodes) {
		return
	}
	node := t.nodes[nodeID]
	if node.IdxStart == node.IdxEnd && nodeID != 0 {
		return // uninitialized node
	}
	if t.minRdistPoint(nodeID, query) > bound {
		return
	}

	if node.IsLeaf {
		for _, ptIdx := range t.idxArray[node.IdxStart:node.IdxEnd] {
			d := t.metric.Distance(query, t.data[ptIdx*t.dims:(ptIdx+1)*t.dims])
			if d <= radius {
				*out = append(*out, Neighbor{ID: ptIdx, Distance: d})
			}
		}
		return
	}

	t.radiusSearch(2*nodeID+1, query, radius, bound, out)
	t.radiusSearch(2*nodeID+2, query, radius, bound, out)
}

// minRdistPoint returns a lower bound in reduced-distance space on the
// distance between a point and any point in the given node.
func (t *KDTree) minRdistPoint(node int, point []float64) float64 {
	lo := t.boundsMin[node*t.dims : (node+1)*t.dims]
	hi := t.boundsMax[node*t.dims : (node+1)*t.dims]

	var rdist float64
	for j, v := range point {
		var gap float64
		if v < lo[j] {
			gap = lo[j] - v
		} else if v > hi[j] {
			gap = v - hi[j]
		}
		switch m := t.metric.(type) {
		case ChebyshevMetric:
			rdist = max(rdist, gap)
		case ManhattanMetric:
			rdist += gap
		case MinkowskiMetric:
			rdist += math.Pow(gap, m.P)
		default:
			rdist += gap * gap
		}
	}
	return rdist
}
