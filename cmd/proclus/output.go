package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/TrevorS/proclus"
	"github.com/TrevorS/proclus/internal/dataio"
)

type clusterReport struct {
	Name       string    `json:"name"`
	Size       int       `json:"size"`
	Dimensions []int     `json:"dimensions"`
	Centroid   []float64 `json:"centroid"`
	Members    []int     `json:"members"`
}

type report struct {
	K             int             `json:"k"`
	L             int             `json:"l"`
	Seed          int64           `json:"seed,omitempty"`
	Iterations    int             `json:"iterations"`
	Converged     bool            `json:"converged"`
	BestObjective float64         `json:"best_objective"`
	Unassigned    int             `json:"unassigned"`
	FMeasure      *float64        `json:"f_measure,omitempty"`
	Clusters      []clusterReport `json:"clusters"`
}

func newReport(rc RunConfig, res *proclus.Result, table *dataio.Table) report {
	n := len(table.Points)
	rep := report{
		K:             rc.K,
		L:             rc.L,
		Seed:          rc.Seed,
		Iterations:    res.Iterations,
		Converged:     res.Converged,
		BestObjective: res.BestObjective,
		Unassigned:    n,
		Clusters:      make([]clusterReport, len(res.Clusters)),
	}
	for i, c := range res.Clusters {
		rep.Unassigned -= len(c.Members)
		rep.Clusters[i] = clusterReport{
			Name:       c.Name,
			Size:       len(c.Members),
			Dimensions: c.Dimensions,
			Centroid:   c.Centroid,
			Members:    c.Members,
		}
	}
	if table.Labels != nil {
		if f, err := proclus.PairFMeasure(table.Labels, res.Labels(n)); err == nil {
			rep.FMeasure = &f
		}
	}
	return rep
}

func writeResults(w io.Writer, format string, reports []report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	case "text", "":
		for i, rep := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := writeText(w, rep); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, rep report) error {
	fmt.Fprintf(w, "k=%d l=%d iterations=%d converged=%t objective=%.6g\n",
		rep.K, rep.L, rep.Iterations, rep.Converged, rep.BestObjective)
	if rep.FMeasure != nil {
		fmt.Fprintf(w, "pair F-measure: %.4f\n", *rep.FMeasure)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CLUSTER\tSIZE\tDIMENSIONS")
	for _, c := range rep.Clusters {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Size, joinInts(c.Dimensions))
	}
	if rep.Unassigned > 0 {
		fmt.Fprintf(tw, "unassigned\t%d\t-\n", rep.Unassigned)
	}
	return tw.Flush()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}
