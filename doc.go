// Package proclus implements PROCLUS (PROjected CLUStering), a medoid-based
// subspace clustering algorithm for high-dimensional data.
//
// PROCLUS looks for clusters that are compact only along a cluster-specific
// subset of dimensions. It runs in three phases:
//
//  1. Initialization: a random sample is drawn and a well-separated medoid
//     superset is chosen from it by greedy farthest-point selection.
//  2. Iteration: K medoids are evaluated at a time. For every medoid the
//     dimensions along which its locality is unusually tight are selected,
//     points are assigned by Manhattan segmental distance over those
//     dimensions, and medoids of undersized clusters are swapped for fresh
//     ones from the superset. The loop stops after a fixed number of
//     passes without improving the objective.
//  3. Refinement: dimensions are recomputed for the best clusters, points
//     are reassigned once against the cluster centroids and the final
//     clusters are returned.
//
// Basic usage:
//
//	cfg := proclus.DefaultConfig()
//	cfg.K = 4
//	cfg.L = 2
//	cfg.Seed = 1
//	result, err := proclus.Cluster(data, cfg)
//	// result.Clusters[i].Members are row indices of data
//	// result.Clusters[i].Dimensions are the correlated dimensions
//
// For custom storage implement [Relation] and call [ClusterRelation]. To
// bound the running time, drive a [Run] with Step and call Finish whenever
// the budget is spent, or use [Run.RunContext] with a deadline.
//
// Reference: C. C. Aggarwal, C. Procopiuc, J. L. Wolf, P. S. Yu, J. S. Park:
// Fast Algorithms for Projected Clustering. SIGMOD 1999.
package proclus
