package proclus

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ClusterParallel runs one independent PROCLUS clustering per config on
// the same relation, at most workers at a time (<= 0 means
// runtime.NumCPU()). Every run gets its own generator seeded from its
// config, so results with fixed seeds are identical to sequential
// ClusterRelation calls. rel must be safe for concurrent reads; Dataset is.
//
// The first failing run cancels the remaining ones and its error is
// returned. results[i] corresponds to cfgs[i].
func ClusterParallel(ctx context.Context, rel Relation, cfgs []Config, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]*Result, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		g.Go(func() error {
			run, err := NewRun(rel, cfg, nil)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			res, err := run.RunContext(ctx)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
