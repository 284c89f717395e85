package proclus

import (
	"context"
	"math"
	"math/rand"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Phase is the state of a Run.
type Phase int

const (
	// PhaseSampling draws the sample, the medoid superset and the first
	// working set. NewRun leaves it before returning.
	PhaseSampling Phase = iota
	// PhaseIterating is the medoid local search.
	PhaseIterating
	// PhaseConverged means the non-improvement budget is used up.
	PhaseConverged
)

func (p Phase) String() string {
	switch p {
	case PhaseSampling:
		return "sampling"
	case PhaseIterating:
		return "iterating"
	case PhaseConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// IterationStats describes one pass of the iterative phase.
type IterationStats struct {
	Iteration     int     // 1-based pass number
	Objective     float64 // objective of this pass's clustering
	BestObjective float64 // best objective after this pass
	Clusters      int     // non-empty clusters in this pass
	Improved      bool    // whether this pass set a new best
}

// iterationState is the bookkeeping of the iterative phase. Step builds a
// new value and swaps it in; fields are never mutated in place.
type iterationState struct {
	current       []int
	best          []int
	bad           *roaring.Bitmap
	bestObjective float64
	bestClusters  []workingCluster
	nonImproving  int
}

// Run is a single PROCLUS run that can be executed step by step. A Run
// owns its random generator and is not safe for concurrent use.
type Run struct {
	rel      Relation
	cfg      Config
	rng      *rand.Rand
	log      *Logger
	superset []int
	phase    Phase
	state    iterationState
	history  []IterationStats
	err      error
}

// NewRun validates cfg against rel and performs the initialization phase:
// it samples min(n, KI*K) points, picks min(n, MI*K) medoids from them by
// greedy piercing and draws the first K-sized working set. If rng is nil a
// generator seeded from cfg.Seed is created; never share rng between runs.
func NewRun(rel Relation, cfg Config, rng *rand.Rand) (*Run, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	n := rel.Size()
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if dims := rel.Dimensionality(); dims < cfg.L {
		return nil, &DimensionalityError{L: cfg.L, Dims: dims}
	}
	if rng == nil {
		rng = newRand(cfg.Seed)
	}

	r := &Run{
		rel:   rel,
		cfg:   cfg,
		rng:   rng,
		log:   loggerFrom(cfg.Logger),
		phase: PhaseSampling,
	}

	r.log.LogPhase("initialization phase", "n", n, "dims", rel.Dimensionality(), "k", cfg.K, "l", cfg.L)
	sampleSize := min(n, cfg.KI*cfg.K)
	sample := randomSample(slices.Collect(rel.IDs()), sampleSize, rng)

	medoidSize := min(n, cfg.MI*cfg.K)
	superset, err := greedyMedoids(rel, sample, medoidSize, rng)
	if err != nil {
		return nil, err
	}
	current, err := initialMedoids(superset, cfg.K, rng)
	if err != nil {
		return nil, err
	}
	r.log.Debug("medoids selected", "sample_size", sampleSize, "medoid_size", medoidSize, "initial", current)

	r.superset = superset
	r.state = iterationState{
		current:       current,
		bad:           roaring.New(),
		bestObjective: math.Inf(1),
	}
	r.phase = PhaseIterating
	r.log.LogPhase("iterative phase")
	return r, nil
}

// newRand returns a generator for seed, or a randomly seeded one for 0.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = rand.Int63()
	}
	return rand.New(rand.NewSource(seed))
}

// Phase reports the current state of the run.
func (r *Run) Phase() Phase { return r.phase }

// Iterations returns the number of completed passes.
func (r *Run) Iterations() int { return len(r.history) }

// BestObjective returns the best objective seen so far (+Inf before the
// first pass).
func (r *Run) BestObjective() float64 { return r.state.bestObjective }

// History returns a copy of the per-pass statistics.
func (r *Run) History() []IterationStats { return slices.Clone(r.history) }

// Step executes one pass of the iterative phase: find dimensions for the
// current medoids, assign points, evaluate, update the best state and
// derive the next working set. It reports whether the run has converged.
// Calling Step on a converged run is a no-op.
func (r *Run) Step() (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.phase == PhaseConverged {
		return true, nil
	}

	prev := r.state
	current := prev.current
	dims := selectDimensions(medoidSpreads(r.rel, current), dimensionBudget(r.cfg.K, r.cfg.L))
	reps := make([][]float64, len(current))
	for i, m := range current {
		reps[i] = r.rel.Get(m)
	}
	clusters := buildClusters(r.rel, assignPoints(r.rel, reps, dims), dims)
	objective := evaluateClusters(r.rel, clusters)

	next := iterationState{
		best:          prev.best,
		bad:           prev.bad,
		bestObjective: prev.bestObjective,
		bestClusters:  prev.bestClusters,
		nonImproving:  prev.nonImproving + 1,
	}
	improved := objective < prev.bestObjective
	if improved {
		next.best = current
		next.bad = badMedoids(current, clusters, badThreshold(r.cfg.BadMedoidFraction, r.rel.Size(), r.cfg.K))
		next.bestObjective = objective
		next.bestClusters = clusters
		next.nonImproving = 0
	}

	stats := IterationStats{
		Iteration:     len(r.history) + 1,
		Objective:     objective,
		BestObjective: next.bestObjective,
		Clusters:      len(clusters),
		Improved:      improved,
	}
	r.history = append(r.history, stats)
	r.log.LogIteration(stats)

	if next.nonImproving >= r.cfg.MaxNonImproving {
		next.current = next.best
		r.state = next
		r.phase = PhaseConverged
		return true, nil
	}

	nextCurrent, err := nextMedoids(r.superset, next.best, next.bad, r.rng)
	if err != nil {
		r.err = err
		return false, err
	}
	next.current = nextCurrent
	r.state = next
	return false, nil
}

// Finish runs the refinement phase on the best clustering found so far and
// returns the final result. It may be called before convergence to bound
// the running time; it does not advance the run.
func (r *Run) Finish() (*Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.history) == 0 {
		return nil, ErrNotStarted
	}
	r.log.LogPhase("refinement phase")

	best := r.state.bestClusters
	dims := selectDimensions(clusterSpreads(r.rel, best), dimensionBudget(r.cfg.K, r.cfg.L))
	reps := make([][]float64, len(best))
	for i, c := range best {
		reps[i] = c.centroid
	}
	final := buildClusters(r.rel, assignPoints(r.rel, reps, dims), dims)

	result := buildResult(final, r.state.best, r.state.bestObjective, r.history, r.phase == PhaseConverged)
	r.log.LogResult(result)
	return result, nil
}

// RunContext steps until the run converges or ctx is done, then finishes.
// Cancellation after at least one pass yields the refinement of the best
// state so far with Result.Converged false; cancellation before the first
// pass returns ctx.Err().
func (r *Run) RunContext(ctx context.Context) (*Result, error) {
	for r.phase != PhaseConverged {
		if err := ctx.Err(); err != nil {
			if len(r.history) == 0 {
				return nil, err
			}
			r.log.Warn("run stopped before convergence", "iterations", len(r.history), "error", err)
			break
		}
		if _, err := r.Step(); err != nil {
			return nil, err
		}
	}
	return r.Finish()
}
