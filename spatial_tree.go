package proclus

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // ball tree radius; 0 for KD-tree
}

// SpatialTree is the read interface shared by KDTree and BallTree. The
// Dataset uses it to answer range queries without a linear scan.
type SpatialTree interface {
	// QueryRadius returns every point whose distance to query is <= radius,
	// sorted by (distance, index).
	QueryRadius(query []float64, radius float64) []Neighbor

	// NumPoints returns the number of points in the tree.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int

	// IdxArray returns the permutation array mapping tree-order positions
	// back to original point indices.
	IdxArray() []int

	// NodeDataArray returns the metadata for every node in the tree.
	NodeDataArray() []NodeData
}

// pruneSlack widens the pruning bound so that points lying exactly on the
// query radius survive rounding differences between bound and distance.
const pruneSlack = 1e-9

// treeMaxNodes returns an upper bound on the number of nodes needed for a
// binary tree with n points and the given leaf size.
func treeMaxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	for v := 1; v < leaves; v *= 2 {
		depth++
	}
	return (1 << (depth + 1)) - 1 + 2
}

// treeCountNodes counts how many nodes were actually initialized by a build.
func treeCountNodes(nodes []NodeData, nodeID int) int {
	if nodeID >= len(nodes) {
		return 0
	}
	if nodes[nodeID].IdxStart == 0 && nodes[nodeID].IdxEnd == 0 && nodeID != 0 {
		return 0
	}
	count := 1
	if !nodes[nodeID].IsLeaf {
		count += treeCountNodes(nodes, 2*nodeID+1)
		count += treeCountNodes(nodes, 2*nodeID+2)
	}
	return count
}

// identityPermutation returns [0, 1, ..., n-1].
func identityPermutation(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
