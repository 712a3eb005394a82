package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flowsim/flowsim/sim/experiment"
	"github.com/flowsim/flowsim/sim/report"
	"github.com/flowsim/flowsim/sim/trace"
)

var (
	// CLI flags for the experiment
	configPath string // YAML experiment file; defaults are used when empty
	seed       int64  // Seed for packet generation
	logLevel   string // Log verbosity level
	outputDir  string // Directory for per-flow CSV files; none written when empty

	// CLI flags overriding the simulator section
	discipline      string  // Timeline discipline: fifo, pq, rr, llq
	maxQueueSize    int     // Per-flow queue capacity
	quantum         int     // Reserved round-robin quantum
	horizon         float64 // Simulated time limit in seconds; 0 runs to completion
	limiterRate     float64 // Token refill rate per second
	limiterCapacity float64 // Token bucket size
	limiterClock    string  // simulated or wall
	congestionName  string  // loss-based (cubic) or delay-based (vegas)
	congestionScope string  // shared or per-flow
	traceLevel      string  // none or decisions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "flowsim",
	Short: "Discrete-event simulator for packet scheduling and congestion control",
}

// runCmd executes one experiment using the YAML config and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a flow simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := experiment.DefaultConfig()
		if configPath != "" {
			cfg, err = experiment.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load experiment config: %v", err)
			}
		}
		applyFlagOverrides(cmd, cfg)

		logrus.Infof("Starting experiment %q with seed=%d, discipline=%s, congestion=%s (%s)",
			cfg.Name, cfg.Seed, cfg.Simulator.Discipline, cfg.Simulator.Congestion.Variant, cfg.Simulator.CongestionScope)

		startTime := time.Now()
		res, err := experiment.Run(cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		report.PrintSummary(os.Stdout, res.Sim)

		if outputDir != "" {
			paths, err := report.WriteFlowCSVFiles(outputDir, res.Sim)
			if err != nil {
				logrus.Fatalf("Failed to write metrics: %v", err)
			}
			logrus.Infof("Wrote %d metrics files to %s", len(paths), outputDir)
		}

		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
// Flags left at their defaults never shadow YAML values.
func applyFlagOverrides(cmd *cobra.Command, cfg *experiment.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	sc := &cfg.Simulator
	if flags.Changed("discipline") {
		sc.Discipline = discipline
	}
	if flags.Changed("max-queue-size") {
		sc.MaxQueueSize = maxQueueSize
	}
	if flags.Changed("quantum") {
		sc.Quantum = quantum
	}
	if flags.Changed("horizon") {
		sc.Horizon = horizon
	}
	if flags.Changed("rate") {
		sc.RateLimiter.Rate = limiterRate
	}
	if flags.Changed("capacity") {
		sc.RateLimiter.Capacity = limiterCapacity
	}
	if flags.Changed("limiter-clock") {
		sc.RateLimiter.Clock = limiterClock
	}
	if flags.Changed("congestion") {
		sc.Congestion.Variant = congestionName
	}
	if flags.Changed("congestion-scope") {
		sc.CongestionScope = congestionScope
	}
	if flags.Changed("trace") {
		sc.Trace = trace.Level(traceLevel)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags attaches the run flags to cmd. Defaults mirror
// experiment.DefaultConfig so that --help shows meaningful values.
func registerRunFlags(cmd *cobra.Command) {
	defaults := experiment.DefaultConfig()
	sc := defaults.Simulator

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML experiment file")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for packet generation")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for <flow>_metrics.csv files")

	// Scheduler and queues
	cmd.Flags().StringVar(&discipline, "discipline", sc.Discipline, "Timeline discipline (fifo, pq, rr, llq)")
	cmd.Flags().IntVar(&maxQueueSize, "max-queue-size", sc.MaxQueueSize, "Per-flow queue capacity")
	cmd.Flags().IntVar(&quantum, "quantum", sc.Quantum, "Round-robin quantum (reserved)")
	cmd.Flags().Float64Var(&horizon, "horizon", sc.Horizon, "Simulated time limit in seconds (0 = run to completion)")

	// Rate limiter
	cmd.Flags().Float64Var(&limiterRate, "rate", sc.RateLimiter.Rate, "Token refill rate per second")
	cmd.Flags().Float64Var(&limiterCapacity, "capacity", sc.RateLimiter.Capacity, "Token bucket capacity")
	cmd.Flags().StringVar(&limiterClock, "limiter-clock", sc.RateLimiter.Clock, "Rate limiter clock (simulated, wall)")

	// Congestion control
	cmd.Flags().StringVar(&congestionName, "congestion", sc.Congestion.Variant, "Congestion controller (loss-based|cubic, delay-based|vegas)")
	cmd.Flags().StringVar(&congestionScope, "congestion-scope", sc.CongestionScope, "Congestion controller scope (shared, per-flow)")
	cmd.Flags().StringVar(&traceLevel, "trace", string(sc.Trace), "Decision trace level (none, decisions)")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
