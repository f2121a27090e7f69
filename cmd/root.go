package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/retry-sim/sim/experiment"
)

var (
	configPath       string  // Experiment YAML
	trials           int     // Trials per combination
	seed             int64   // Master seed
	outputMode       string  // Report format
	recoveryCurve    string  // Recovery curve override
	recoveryWindowMs float64 // Recovery window override (ms)
	metricsOut       string  // Prometheus textfile path
	logLevel         string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "retry-sim",
	Short: "Monte Carlo simulator for retries and backoff in service chains",
}

// loadExperiment loads the YAML config and applies CLI overrides.
// Flags only override the file when explicitly set.
func loadExperiment(cmd *cobra.Command) (*experiment.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := experiment.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("trials") {
		n := trials
		cfg.Trials = &n
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == nil {
		s := seed
		cfg.Seed = &s
	}
	if cmd.Flags().Changed("recovery-curve") {
		cfg.Recovery.Curve = recoveryCurve
	}
	if cmd.Flags().Changed("recovery-window-ms") {
		cfg.Recovery.WindowMs = recoveryWindowMs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes the parameter sweep and renders the report
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the retry/backoff sweep",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !ValidOutputModes[outputMode] {
			logrus.Fatalf("Unknown output mode %q; valid: table, csv, latencies, latency_percentiles", outputMode)
		}
		cfg, err := loadExperiment(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		h, err := experiment.NewHarness(cfg, cfg.TrialCount(), *cfg.Seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		startTime := time.Now()
		report, err := h.Run()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("run %s: %d summaries in %s", report.RunID, len(report.Summaries), time.Since(startTime))

		if err := WriteReport(os.Stdout, outputMode, report); err != nil {
			logrus.Fatalf("writing report: %v", err)
		}
		if metricsOut != "" {
			if err := WriteMetricsSnapshot(metricsOut, report); err != nil {
				logrus.Fatalf("writing metrics snapshot: %v", err)
			}
			logrus.Infof("metrics snapshot written to %s", metricsOut)
		}
	},
}

// combinationsCmd lists the sweep without running it
var combinationsCmd = &cobra.Command{
	Use:   "combinations",
	Short: "List the parameter combinations a config enumerates",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg, err := loadExperiment(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		for _, c := range experiment.Enumerate(cfg) {
			fmt.Printf("%d\t%s\n", c.Index, c)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the experiment YAML")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().IntVar(&trials, "trials", experiment.DefaultTrials, "Top-level requests per combination")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed; overrides the YAML seed when set")
	rootCmd.PersistentFlags().StringVar(&recoveryCurve, "recovery-curve", "", "Retry recovery curve (beta, linear)")
	rootCmd.PersistentFlags().Float64Var(&recoveryWindowMs, "recovery-window-ms", 0, "Elapsed time (ms) after which retries are fully healed; 0 = curve default")

	runCmd.Flags().StringVar(&outputMode, "output", OutputTable, "Report format (table, csv, latencies, latency_percentiles)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write a Prometheus textfile snapshot of the summaries to this path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(combinationsCmd)
}
