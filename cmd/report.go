package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/inference-sim/retry-sim/sim"
	"github.com/inference-sim/retry-sim/sim/experiment"
)

// Output modes accepted by --output.
const (
	OutputTable              = "table"
	OutputCSV                = "csv"
	OutputLatencies          = "latencies"
	OutputLatencyPercentiles = "latency_percentiles"
)

// ValidOutputModes is the set of recognized report formats.
var ValidOutputModes = map[string]bool{
	OutputTable: true, OutputCSV: true, OutputLatencies: true, OutputLatencyPercentiles: true,
}

var summaryColumns = []string{
	"Call depth", "Service failure rate", "Max retries", "Backoff base", "Retry strategy",
	"Average latency", "P50 latency", "P99 latency", "Std dev", "Success rate",
	"Avg success latency", "Avg failure latency", "Load", "Amplification", "Top retries/trial",
}

func summaryRow(s experiment.Summary) []string {
	f := func(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }
	return []string{
		strconv.Itoa(s.CallDepth),
		strconv.FormatFloat(s.FailureRate, 'g', -1, 64),
		strconv.Itoa(s.MaxRetries),
		strconv.FormatFloat(s.BackoffBaseMs, 'g', -1, 64),
		string(s.RetryStrategy),
		f(s.AvgLatencyMs, 2),
		f(s.P50LatencyMs, 2),
		f(s.P99LatencyMs, 2),
		f(s.StdDevLatencyMs, 2),
		f(s.SuccessRate, 4),
		f(s.AvgSuccessLatencyMs, 2),
		f(s.AvgFailureLatencyMs, 2),
		strconv.FormatInt(s.Load, 10),
		f(s.Amplification, 3),
		f(s.TopRetriesPerTrial, 3),
	}
}

// WriteReport renders report in the given output mode.
func WriteReport(w io.Writer, mode string, report *experiment.Report) error {
	switch mode {
	case OutputTable:
		return WriteTable(w, report)
	case OutputCSV:
		return WriteCSV(w, report)
	case OutputLatencies:
		return WriteLatencies(w, report.FirstLatencies)
	case OutputLatencyPercentiles:
		return WriteLatencyPercentiles(w, report.FirstLatencies)
	default:
		return fmt.Errorf("unknown output mode %q", mode)
	}
}

// WriteTable renders one aligned row per summary.
func WriteTable(w io.Writer, report *experiment.Report) error {
	fmt.Fprintf(w, "=== Retry Simulation (run %s, %d trials, seed %d, recovery %s) ===\n",
		report.RunID, report.Trials, report.Seed, report.Recovery)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeTabRow(tw, summaryColumns)
	for _, s := range report.Summaries {
		writeTabRow(tw, summaryRow(s))
	}
	return tw.Flush()
}

func writeTabRow(w io.Writer, cells []string) {
	for _, c := range cells {
		fmt.Fprint(w, c, "\t")
	}
	fmt.Fprintln(w)
}

// WriteCSV renders one record per summary, prefixed by the run ID.
func WriteCSV(w io.Writer, report *experiment.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Run ID"}, summaryColumns...)); err != nil {
		return err
	}
	for _, s := range report.Summaries {
		if err := cw.Write(append([]string{report.RunID}, summaryRow(s)...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLatencies emits one latency per line, in the order given.
func WriteLatencies(w io.Writer, latencies []float64) error {
	bw := bufio.NewWriter(w)
	for _, l := range latencies {
		if _, err := fmt.Fprintln(bw, strconv.FormatFloat(l, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteLatencyPercentiles emits "percentile latency" pairs for 0..100.
func WriteLatencyPercentiles(w io.Writer, sortedLatencies []float64) error {
	bw := bufio.NewWriter(w)
	for _, p := range sim.PercentileTable(sortedLatencies) {
		if _, err := fmt.Fprintf(bw, "%d %s\n", p.Percentile, strconv.FormatFloat(p.LatencyMs, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
