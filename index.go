package proclus

// IndexKind selects how a Dataset answers range queries.
type IndexKind string

const (
	IndexAuto     IndexKind = "auto"
	IndexBrute    IndexKind = "brute"
	IndexKDTree   IndexKind = "kdtree"
	IndexBallTree IndexKind = "balltree"
)

// KDTreeValidMetric reports whether the metric supports KD-tree acceleration.
// KD-trees require metrics that decompose along coordinate axes:
// Euclidean, Manhattan, Chebyshev, Minkowski.
func KDTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// BallTreeValidMetric reports whether the metric supports Ball tree acceleration.
// Ball trees work with any metric that satisfies the triangle inequality;
// cosine distance and arbitrary DistanceFuncs do not qualify.
func BallTreeValidMetric(m DistanceMetric) bool {
	return KDTreeValidMetric(m)
}

// selectIndex resolves IndexAuto into a concrete index based on the metric
// and data dimensionality, and validates that user-forced choices are
// compatible with the metric.
func selectIndex(kind IndexKind, metric DistanceMetric, dims int) (IndexKind, error) {
	switch kind {
	case IndexAuto, "":
		if !BallTreeValidMetric(metric) {
			return IndexBrute, nil
		}
		if dims <= 60 {
			return IndexKDTree, nil
		}
		return IndexBallTree, nil
	case IndexBrute:
		return IndexBrute, nil
	case IndexKDTree:
		if !KDTreeValidMetric(metric) {
			return "", configError("metric %T is not supported by the KD-tree index", metric)
		}
		return IndexKDTree, nil
	case IndexBallTree:
		if !BallTreeValidMetric(metric) {
			return "", configError("metric %T is not supported by the ball tree index", metric)
		}
		return IndexBallTree, nil
	default:
		return "", configError("invalid Index %q", kind)
	}
}
