package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TrevorS/proclus"
)

// RunConfig is the YAML form of a single PROCLUS run. Zero values fall
// back to proclus.DefaultConfig.
type RunConfig struct {
	K                 int     `yaml:"k"`
	L                 int     `yaml:"l"`
	KI                int     `yaml:"ki"`
	MI                int     `yaml:"mi"`
	Seed              int64   `yaml:"seed"`
	MaxNonImproving   int     `yaml:"max_non_improving"`
	BadMedoidFraction float64 `yaml:"bad_medoid_fraction"`
	Metric            string  `yaml:"metric"`
	MinkowskiP        float64 `yaml:"minkowski_p"`
	Index             string  `yaml:"index"`
	LeafSize          int     `yaml:"leaf_size"`
}

// SweepConfig is the YAML form of a parameter sweep.
type SweepConfig struct {
	Workers int         `yaml:"workers"`
	Runs    []RunConfig `yaml:"runs"`
}

// loadYAML decodes the file at path into v, rejecting unknown keys.
func loadYAML(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decodeYAML(f, v)
}

func decodeYAML(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ToConfig converts rc into a proclus.Config.
func (rc RunConfig) ToConfig() (proclus.Config, error) {
	cfg := proclus.DefaultConfig()
	cfg.K = rc.K
	cfg.L = rc.L
	cfg.Seed = rc.Seed
	if rc.KI != 0 {
		cfg.KI = rc.KI
	}
	if rc.MI != 0 {
		cfg.MI = rc.MI
	}
	if rc.MaxNonImproving != 0 {
		cfg.MaxNonImproving = rc.MaxNonImproving
	}
	if rc.BadMedoidFraction != 0 {
		cfg.BadMedoidFraction = rc.BadMedoidFraction
	}
	if rc.Index != "" {
		cfg.Index = proclus.IndexKind(rc.Index)
	}
	if rc.LeafSize != 0 {
		cfg.LeafSize = rc.LeafSize
	}
	metric, err := parseMetric(rc.Metric, rc.MinkowskiP)
	if err != nil {
		return proclus.Config{}, err
	}
	cfg.Metric = metric
	return cfg, nil
}

// parseMetric resolves a metric name.
func parseMetric(name string, p float64) (proclus.DistanceMetric, error) {
	switch strings.ToLower(name) {
	case "", "euclidean", "l2":
		return proclus.EuclideanMetric{}, nil
	case "manhattan", "l1":
		return proclus.ManhattanMetric{}, nil
	case "chebyshev", "linf":
		return proclus.ChebyshevMetric{}, nil
	case "cosine":
		return proclus.CosineMetric{}, nil
	case "minkowski":
		if p < 1 {
			return nil, fmt.Errorf("config: minkowski_p must be >= 1, got %g", p)
		}
		return proclus.MinkowskiMetric{P: p}, nil
	default:
		return nil, fmt.Errorf("config: unknown metric %q", name)
	}
}
