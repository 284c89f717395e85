package proclus

import (
	"errors"
	"testing"
)

func TestEdgeCase_SinglePoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K, cfg.L, cfg.Seed = 1, 1, 1
	res, err := Cluster([][]float64{{1.0, 2.0}}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Clusters) != 1 || len(res.Clusters[0].Members) != 1 {
		t.Fatalf("expected one singleton cluster, got %+v", res.Clusters)
	}
	if res.BestObjective != 0 {
		t.Errorf("BestObjective = %v, want 0", res.BestObjective)
	}
	if !res.Converged || res.Iterations != 1+cfg.MaxNonImproving {
		t.Errorf("Converged/Iterations = %v/%d, want true/%d", res.Converged, res.Iterations, 1+cfg.MaxNonImproving)
	}
}

func TestEdgeCase_AllIdenticalPoints(t *testing.T) {
	data := make([][]float64, 10)
	for i := range data {
		data[i] = []float64{5.0, 5.0}
	}
	cfg := DefaultConfig()
	cfg.K, cfg.L, cfg.Seed = 2, 1, 3
	res, err := Cluster(data, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every tie goes to the first medoid, so only one cluster survives.
	if len(res.Clusters) != 1 || len(res.Clusters[0].Members) != 10 {
		t.Errorf("expected one cluster of 10, got sizes %v", res.Sizes())
	}
	if res.BestObjective != 0 {
		t.Errorf("BestObjective = %v, want 0", res.BestObjective)
	}
}

func TestEdgeCase_OneDimension(t *testing.T) {
	data := [][]float64{{0}, {0.1}, {0.2}, {10}, {10.1}, {10.2}}
	cfg := DefaultConfig()
	cfg.K, cfg.L, cfg.Seed = 2, 1, 5
	res, err := Cluster(data, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := mustDataset(t, data)
	checkResult(t, ds, cfg, res)
	for _, c := range res.Clusters {
		if len(c.Dimensions) != 1 || c.Dimensions[0] != 0 {
			t.Errorf("%s dims = %v, want [0]", c.Name, c.Dimensions)
		}
	}
}

func TestEdgeCase_LEqualsDimensionality(t *testing.T) {
	points, _ := plantedData(10, 2, 30, 4)
	cfg := DefaultConfig()
	cfg.K, cfg.L, cfg.Seed = 2, 4, 1
	res, err := Cluster(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkResult(t, mustDataset(t, points), cfg, res)
}

func TestEdgeCase_KLargerThanData(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K, cfg.L = 4, 1
	_, err := Cluster([][]float64{{0}, {1}, {2}}, cfg)
	if !errors.Is(err, ErrMedoidPoolExhausted) {
		t.Errorf("got %v, want ErrMedoidPoolExhausted", err)
	}
}

func TestEdgeCase_CosineMetric(t *testing.T) {
	points, _ := plantedData(11, 2, 40, 4)
	cfg := DefaultConfig()
	cfg.K, cfg.L, cfg.Seed = 2, 2, 2
	cfg.Metric = CosineMetric{}
	res, err := Cluster(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkResult(t, mustDataset(t, points, WithMetric(CosineMetric{})), cfg, res)
}
