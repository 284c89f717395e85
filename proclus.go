package proclus

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Config controls PROCLUS clustering behavior.
// Start with [DefaultConfig] and set K and L.
type Config struct {
	// K is the number of clusters to find. Must be >= 1. No default.
	K int

	// KI is the multiplier for the initial sample: min(n, KI*K) points are
	// drawn before medoid selection. Must be >= 1. Default: 30.
	KI int

	// L is the average number of correlated dimensions per cluster. In
	// total max(K*L, 2) (cluster, dimension) pairs are selected each pass.
	// Must be >= 1 and <= the data dimensionality. No default.
	L int

	// MI is the multiplier for the medoid superset: min(n, MI*K) medoids are
	// chosen from the sample by greedy piercing. Must be >= 1. Default: 10.
	MI int

	// Seed seeds the run-local random generator. 0 means a non-deterministic
	// seed. Default: 0.
	Seed int64

	// MaxNonImproving is the number of consecutive iterations without an
	// objective improvement after which the iterative phase stops.
	// Must be >= 1. Default: 10.
	MaxNonImproving int

	// BadMedoidFraction scales the bad-medoid threshold: a medoid whose
	// cluster has fewer than BadMedoidFraction*n/K members is replaced.
	// Must be in (0, 1]. Default: 0.1.
	BadMedoidFraction float64

	// Metric is the distance used for medoid selection and localities when
	// Cluster builds the Dataset. ClusterRelation uses the relation's own
	// metric. Assignment always uses the Manhattan segmental distance.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Index selects the range query index used by Cluster when it builds
	// the Dataset. Ignored by ClusterRelation. Default: "auto".
	Index IndexKind

	// LeafSize controls the maximum number of points in a spatial tree leaf.
	// Only used with tree indexes. Default: 40.
	LeafSize int

	// Logger receives phase and iteration logs. nil discards them.
	Logger *slog.Logger
}

// SubspaceCluster is one cluster of the final clustering.
type SubspaceCluster struct {
	// Name is a display label, "cluster_1", "cluster_2", ... in output order.
	Name string

	// Members holds the identifiers of the points in the cluster, ascending.
	Members []int

	// Dimensions holds the correlated dimensions, ascending.
	Dimensions []int

	// Centroid is the coordinate-wise mean of the member vectors.
	Centroid []float64
}

// Result contains the output of PROCLUS clustering.
type Result struct {
	// Clusters is the final clustering in refinement order. Every cluster
	// is non-empty and member sets are pairwise disjoint.
	Clusters []SubspaceCluster

	// Medoids is the best medoid set found by the iterative phase.
	Medoids []int

	// BestObjective is the lowest objective value seen (lower is better).
	BestObjective float64

	// Iterations is the number of iterative-phase passes executed.
	Iterations int

	// Converged reports whether the non-improvement budget was used up.
	// It is false when the run was stopped early through RunContext.
	Converged bool

	// History records every iterative-phase pass.
	History []IterationStats
}

// Labels maps every identifier in [0, n) to the index of its cluster in
// Clusters, or -1 if no cluster contains it.
func (r *Result) Labels(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	for ci, c := range r.Clusters {
		for _, id := range c.Members {
			if id < n {
				labels[id] = ci
			}
		}
	}
	return labels
}

// Sizes returns the member count of every cluster in output order.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Clusters))
	for i, c := range r.Clusters {
		sizes[i] = len(c.Members)
	}
	return sizes
}

// DefaultConfig returns a Config with reasonable defaults. K and L have no
// sensible default and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		KI:                30,
		MI:                10,
		MaxNonImproving:   10,
		BadMedoidFraction: 0.1,
		Metric:            EuclideanMetric{},
		Index:             IndexAuto,
		LeafSize:          40,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.KI == 0 {
		cfg.KI = def.KI
	}
	if cfg.MI == 0 {
		cfg.MI = def.MI
	}
	if cfg.MaxNonImproving == 0 {
		cfg.MaxNonImproving = def.MaxNonImproving
	}
	if cfg.BadMedoidFraction == 0 {
		cfg.BadMedoidFraction = def.BadMedoidFraction
	}
	if cfg.Metric == nil {
		cfg.Metric = def.Metric
	}
	if cfg.Index == "" {
		cfg.Index = def.Index
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = def.LeafSize
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.K < 1 {
		return configError("K must be >= 1, got %d", cfg.K)
	}
	if cfg.KI < 1 {
		return configError("KI must be >= 1, got %d", cfg.KI)
	}
	if cfg.L < 1 {
		return configError("L must be >= 1, got %d", cfg.L)
	}
	if cfg.MI < 1 {
		return configError("MI must be >= 1, got %d", cfg.MI)
	}
	if cfg.MaxNonImproving < 1 {
		return configError("MaxNonImproving must be >= 1, got %d", cfg.MaxNonImproving)
	}
	if cfg.BadMedoidFraction <= 0 || cfg.BadMedoidFraction > 1 {
		return configError("BadMedoidFraction must be in (0, 1], got %f", cfg.BadMedoidFraction)
	}
	switch cfg.Index {
	case IndexAuto, IndexBrute, IndexKDTree, IndexBallTree:
		// valid
	default:
		return configError("invalid Index %q", cfg.Index)
	}
	if cfg.LeafSize < 1 {
		return configError("LeafSize must be >= 1, got %d", cfg.LeafSize)
	}
	return nil
}

// Cluster performs PROCLUS clustering on the given data.
// Each element is a point (float64 slice); all points must have the same
// dimensionality. Identifiers in the result are row indices.
func Cluster(data [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	ds, err := NewDataset(data,
		WithMetric(cfg.Metric),
		WithIndex(cfg.Index),
		WithLeafSize(cfg.LeafSize),
	)
	if err != nil {
		return nil, err
	}
	return ClusterRelation(ds, cfg)
}

// ClusterRelation performs PROCLUS clustering on an arbitrary Relation.
// Distances and range queries come from the relation.
func ClusterRelation(rel Relation, cfg Config) (*Result, error) {
	run, err := NewRun(rel, cfg, nil)
	if err != nil {
		return nil, err
	}
	return run.RunContext(context.Background())
}

// clusterName returns the display label of the i-th (0-based) output cluster.
func clusterName(i int) string {
	return fmt.Sprintf("cluster_%d", i+1)
}

// buildResult packages the final clusters.
func buildResult(final []workingCluster, medoids []int, bestObjective float64, history []IterationStats, converged bool) *Result {
	r := &Result{
		Clusters:      make([]SubspaceCluster, len(final)),
		Medoids:       slices.Clone(medoids),
		BestObjective: bestObjective,
		Iterations:    len(history),
		Converged:     converged,
		History:       slices.Clone(history),
	}
	for i, c := range final {
		r.Clusters[i] = SubspaceCluster{
			Name:       clusterName(i),
			Members:    c.memberIDs(),
			Dimensions: slices.Clone(c.dims),
			Centroid:   slices.Clone(c.centroid),
		}
	}
	return r
}
