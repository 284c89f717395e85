// Command proclus runs PROCLUS subspace clustering on a delimited numeric
// dataset.
//
// Usage:
//
//	proclus run --input data.csv --k 4 --l 2 --seed 1
//	proclus run --input s3://bucket/data.csv.zst --config run.yaml --format json
//	proclus sweep --input data.csv --config sweep.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TrevorS/proclus"
	"github.com/TrevorS/proclus/internal/dataio"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proclus",
		Short: "PROCLUS projected (subspace) clustering",
		Long: `proclus finds clusters that are compact along a cluster-specific
subset of dimensions using the PROCLUS algorithm.

Input files hold one point per line, values separated by commas,
semicolons or whitespace. Files may be gzip (.gz), zstd (.zst) or
lz4 (.lz4) compressed, and may be read from s3://bucket/key.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "proclus v%s (%s)\n", version, commit)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Cluster a dataset once",
		RunE:  runRun,
	}
	addInputFlags(runCmd)
	runCmd.Flags().String("config", "", "YAML run configuration")
	runCmd.Flags().Int("k", 0, "Number of clusters")
	runCmd.Flags().Int("l", 0, "Average number of dimensions per cluster")
	runCmd.Flags().Int("ki", 0, "Sample size multiplier (default 30)")
	runCmd.Flags().Int("mi", 0, "Medoid superset multiplier (default 10)")
	runCmd.Flags().Int64("seed", 0, "Random seed (0 = non-deterministic)")
	runCmd.Flags().String("metric", "", "Locality metric: euclidean, manhattan, chebyshev, cosine")
	runCmd.Flags().String("index", "", "Range query index: auto, brute, kdtree, balltree")
	runCmd.Flags().String("format", "text", "Output format: text, json")
	rootCmd.AddCommand(runCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run several configurations concurrently",
		RunE:  runSweep,
	}
	addInputFlags(sweepCmd)
	sweepCmd.Flags().String("config", "", "YAML sweep configuration (required)")
	sweepCmd.Flags().Int("workers", 0, "Concurrent runs (0 = from config, then NumCPU)")
	sweepCmd.Flags().String("format", "text", "Output format: text, json")
	_ = sweepCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(sweepCmd)

	return rootCmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "Dataset path or s3://bucket/key (required)")
	cmd.Flags().Int("label-column", -1, "Column holding reference labels (-1 none, -2 last)")
	_ = cmd.MarkFlagRequired("input")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := RunConfig{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := loadYAML(path, &rc); err != nil {
			return err
		}
	}
	applyRunFlags(cmd, &rc)
	cfg, err := rc.ToConfig()
	if err != nil {
		return err
	}
	cfg.Logger = newLogger(cmd)

	table, err := loadTable(ctx, cmd)
	if err != nil {
		return err
	}
	ds, err := proclus.NewDataset(table.Points,
		proclus.WithMetric(cfg.Metric),
		proclus.WithIndex(cfg.Index),
		proclus.WithLeafSize(cfg.LeafSize),
	)
	if err != nil {
		return err
	}
	run, err := proclus.NewRun(ds, cfg, nil)
	if err != nil {
		return err
	}
	result, err := run.RunContext(ctx)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeResults(cmd.OutOrStdout(), format, []report{newReport(rc, result, table)})
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, _ := cmd.Flags().GetString("config")
	var sweep SweepConfig
	if err := loadYAML(path, &sweep); err != nil {
		return err
	}
	if len(sweep.Runs) == 0 {
		return fmt.Errorf("config: %s defines no runs", path)
	}
	if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
		sweep.Workers = w
	}

	logger := newLogger(cmd)
	cfgs := make([]proclus.Config, len(sweep.Runs))
	for i, rc := range sweep.Runs {
		cfg, err := rc.ToConfig()
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		cfg.Logger = logger.With("run", i)
		cfgs[i] = cfg
	}

	table, err := loadTable(ctx, cmd)
	if err != nil {
		return err
	}
	results, err := sweepGroups(ctx, table.Points, cfgs, sweep.Workers)
	if err != nil {
		return err
	}

	reports := make([]report, len(results))
	for i, res := range results {
		reports[i] = newReport(sweep.Runs[i], res, table)
	}
	format, _ := cmd.Flags().GetString("format")
	return writeResults(cmd.OutOrStdout(), format, reports)
}

// datasetKey identifies the dataset a run needs. Runs with equal keys
// share one Dataset.
type datasetKey struct {
	metric   proclus.DistanceMetric
	index    proclus.IndexKind
	leafSize int
}

// sweepGroups builds one Dataset per distinct metric, index and leaf size
// and runs every config against its own. results[i] corresponds to cfgs[i].
func sweepGroups(ctx context.Context, points [][]float64, cfgs []proclus.Config, workers int) ([]*proclus.Result, error) {
	groups := make(map[datasetKey][]int)
	var order []datasetKey
	for i, cfg := range cfgs {
		key := datasetKey{metric: cfg.Metric, index: cfg.Index, leafSize: cfg.LeafSize}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	results := make([]*proclus.Result, len(cfgs))
	for _, key := range order {
		ds, err := proclus.NewDataset(points,
			proclus.WithMetric(key.metric),
			proclus.WithIndex(key.index),
			proclus.WithLeafSize(key.leafSize),
		)
		if err != nil {
			return nil, err
		}
		idx := groups[key]
		group := make([]proclus.Config, len(idx))
		for j, i := range idx {
			group[j] = cfgs[i]
		}
		res, err := proclus.ClusterParallel(ctx, ds, group, workers)
		if err != nil {
			return nil, fmt.Errorf("sweep runs %v: %w", idx, err)
		}
		for j, i := range idx {
			results[i] = res[j]
		}
	}
	return results, nil
}

// applyRunFlags copies explicitly set flags over file values.
func applyRunFlags(cmd *cobra.Command, rc *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("k") {
		rc.K, _ = flags.GetInt("k")
	}
	if flags.Changed("l") {
		rc.L, _ = flags.GetInt("l")
	}
	if flags.Changed("ki") {
		rc.KI, _ = flags.GetInt("ki")
	}
	if flags.Changed("mi") {
		rc.MI, _ = flags.GetInt("mi")
	}
	if flags.Changed("seed") {
		rc.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("metric") {
		rc.Metric, _ = flags.GetString("metric")
	}
	if flags.Changed("index") {
		rc.Index, _ = flags.GetString("index")
	}
}

func loadTable(ctx context.Context, cmd *cobra.Command) (*dataio.Table, error) {
	input, _ := cmd.Flags().GetString("input")
	labelCol, _ := cmd.Flags().GetInt("label-column")

	rc, err := dataio.Open(ctx, input, dataio.S3OptionsFromEnv())
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return dataio.Read(rc, dataio.ReadOptions{LabelColumn: labelCol})
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	name, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		level = slog.LevelWarn
	}
	return proclus.NewTextLogger(cmd.ErrOrStderr(), level).Logger
}
