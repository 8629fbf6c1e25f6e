package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/availability-sim/availability-sim/sim"
	"github.com/availability-sim/availability-sim/sim/montecarlo"
	"github.com/availability-sim/availability-sim/sim/trace"
)

// logLevelEnv overrides --log when set, from the environment or a .env file.
const logLevelEnv = "AVAILABILITY_SIM_LOG"

var (
	// Shared flags
	logLevel   string // Log verbosity level
	paramsPath string // Optional YAML file overriding model parameters
	seed       int64  // Master seed for all RNG streams

	// run flags
	trials           int64         // Number of simulated years
	workers          int           // Number of parallel workers
	strict           bool          // Check invariants on every trial
	detailed         bool          // Print dispersion statistics and distribution
	confidence       float64       // Confidence level of the reported interval
	progressInterval time.Duration // Minimum time between progress logs per worker

	// trial flags
	warmStart  bool   // Start with warm caches instead of the configured cold start
	traceLevel string // Trace verbosity of the single trial
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "availability-sim",
	Short: "Monte Carlo estimator of yearly downtime caused by bad releases",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	SilenceUsage: true,
}

// runCmd estimates average yearly downtime and availability over many trials
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Monte Carlo estimation",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := LoadParams(paramsPath)
		if err != nil {
			return err
		}

		est := montecarlo.NewEstimator(params, trials, seed)
		est.Workers = workers
		est.Strict = strict
		est.Confidence = confidence
		est.ProgressInterval = progressInterval

		res, err := est.Run(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		res.Print(out)
		if detailed {
			res.PrintDetails(out)
		}
		return nil
	},
}

// trialCmd runs a single trial and prints its schedules and downtime intervals
var trialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Simulate one year and show its schedules and downtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := LoadParams(paramsPath)
		if err != nil {
			return err
		}
		if warmStart {
			params.ColdStart = false
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid trace level %q (want none, schedules or events)", traceLevel)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed)).ForSubsystem(sim.SubsystemTrial)
		runner := sim.NewTrialRunner(params, rng, true)
		tt := trace.NewTrialTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		res, err := runner.Run(tt)
		if err != nil {
			return err
		}
		printTrial(cmd, runner.Schedules(), res, tt)
		return nil
	},
}

func printTrial(cmd *cobra.Command, schedules [sim.NodeCount]sim.Schedule, res sim.TrialResult, tt *trace.TrialTrace) {
	out := cmd.OutOrStdout()
	for _, n := range sim.Nodes {
		fmt.Fprintf(out, "%s releases: %v, bad: %v\n", n, schedules[n].Releases, schedules[n].BadReleases)
	}
	for _, e := range tt.Events {
		if e.Kind == string(sim.EventBadRelease) {
			fmt.Fprintf(out, "[minute %06d] %s %s until %d\n", e.Clock, e.Node, e.Kind, e.Until)
			continue
		}
		fmt.Fprintf(out, "[minute %06d] %s %s\n", e.Clock, e.Node, e.Kind)
	}
	fmt.Fprintf(out, "Downs: %v\n", res.Intervals)
	fmt.Fprintf(out, "Unavailable time: %d\n", res.Downtime)
	if tt.Config.Level == trace.TraceLevelEvents {
		summary := trace.Summarize(tt)
		fmt.Fprintf(out, "Events: %d, down transitions: %d, longest downtime: %d\n",
			summary.TotalEvents, summary.DownTransitions, summary.LongestDowntime)
	}
}

// setupLogging loads .env, applies the environment override and sets the logrus level.
func setupLogging() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Ignoring unreadable .env file: %v", err)
	}
	levelName := logLevel
	if env := os.Getenv(logLevelEnv); env != "" {
		levelName = env
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	logrus.SetLevel(level)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic); "+logLevelEnv+" overrides")
	rootCmd.PersistentFlags().StringVar(&paramsPath, "params", "", "YAML file overriding model parameters")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for random schedules")

	runCmd.Flags().Int64Var(&trials, "trials", montecarlo.DefaultTrials, "Number of simulated years")
	runCmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "Number of parallel workers")
	runCmd.Flags().BoolVar(&strict, "strict", false, "Check schedule and downtime invariants on every trial")
	runCmd.Flags().BoolVar(&detailed, "detailed", false, "Print variance, confidence interval and downtime distribution")
	runCmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Confidence level of the reported interval (0 disables)")
	runCmd.Flags().DurationVar(&progressInterval, "progress-interval", 10*time.Second, "Minimum time between progress logs per worker")

	trialCmd.Flags().BoolVar(&warmStart, "warm-start", false, "Start with warm B/C caches")
	trialCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelEvents), "Trace verbosity (none, schedules, events)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(trialCmd)
}
