// Package main provides the vrd-eval command line tool for scoring
// video visual relation predictions against VidVRD-style annotations.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vrdeval/vrd-eval/internal/config"
	"github.com/vrdeval/vrd-eval/internal/dataset"
	"github.com/vrdeval/vrd-eval/internal/evaluation"
	"github.com/vrdeval/vrd-eval/internal/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vrd-eval",
		Short: "VidVRD visual relation evaluation",
		Long: `vrd-eval scores video visual relation predictions against
ground-truth annotations: relation detection (mean AP, recall@N) and
relation tagging (precision@N), with an optional zero-shot breakdown.

Run 'vrd-eval relation <prediction.json>' for video-level scoring.
Run 'vrd-eval segment <prediction.json>' for segment-level scoring.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("format", "text", "output format (text, json)")
	rootCmd.PersistentFlags().String("anno", "", "annotation root directory (overrides config)")
	rootCmd.PersistentFlags().Bool("no-zero-shot", false, "skip the zero-shot breakdown")

	rootCmd.AddCommand(
		relationCmd(),
		segmentCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func relationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relation <prediction.json>",
		Short: "Score video-level relation detection and tagging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(cmd, args[0], false)
		},
	}
}

func segmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segment <prediction.json>",
		Short: "Score segment-level relation detection and tagging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(cmd, args[0], true)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vrd-eval %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

func runEvaluation(cmd *cobra.Command, predictionPath string, segments bool) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	format, _ := cmd.Flags().GetString("format")
	annoRoot, _ := cmd.Flags().GetString("anno")
	noZeroShot, _ := cmd.Flags().GetBool("no-zero-shot")

	logLevel := "warn"
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel, "text")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if annoRoot != "" {
		cfg.Dataset.AnnoPath = annoRoot
	}
	zeroShot := cfg.Eval.ZeroShot && !noZeroShot

	splits := []string{cfg.Dataset.TestSplit}
	if zeroShot {
		splits = append(splits, cfg.Dataset.TrainSplit)
	}
	ds, err := dataset.Load(cfg.Dataset.AnnoPath, splits, log)
	if err != nil {
		return err
	}

	groundtruth, err := ds.GroundTruth(cfg.Dataset.TestSplit)
	if err != nil {
		return err
	}
	prediction, err := dataset.LoadPrediction(predictionPath)
	if err != nil {
		return err
	}

	opts := evaluation.DefaultOptions()
	opts.BaseOnGT = !segments
	opts.VIoUThreshold = cfg.Eval.VIoUThreshold
	opts.DetectionNReturns = cfg.Eval.DetectionNReturns
	opts.TaggingNReturns = cfg.Eval.TaggingNReturns
	opts.Workers = cfg.Eval.Workers

	ev := evaluation.NewEvaluator(opts, log)
	ctx := cmd.Context()

	report := report{Prediction: predictionPath, Split: cfg.Dataset.TestSplit}
	if segments {
		report.Task = "segment"
		report.Result, err = ev.Segments(ctx, groundtruth, prediction)
	} else {
		report.Task = "relation"
		report.Result, err = ev.Relations(ctx, groundtruth, prediction)
	}
	if err != nil {
		return err
	}

	if zeroShot {
		trainTriplets, err := ds.Triplets(cfg.Dataset.TrainSplit)
		if err != nil {
			return err
		}
		testTriplets, err := ds.Triplets(cfg.Dataset.TestSplit)
		if err != nil {
			return err
		}
		unseen := testTriplets.Difference(trainTriplets)

		report.ZeroShot, err = ev.ZeroShot(ctx, groundtruth, prediction, unseen, segments)
		if err != nil {
			return err
		}
	}

	return report.write(os.Stdout, format)
}

// report is the CLI output document.
type report struct {
	Task       string             `json:"task"`
	Split      string             `json:"split"`
	Prediction string             `json:"prediction"`
	Result     *evaluation.Result `json:"result"`
	ZeroShot   *evaluation.Result `json:"zero_shot,omitempty"`
}

func (r report) write(w *os.File, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "%s evaluation (%s split)\n", r.Task, r.Split)
	writeResult(w, r.Result)
	if r.ZeroShot != nil {
		fmt.Fprintf(w, "\nzero-shot\n")
		writeResult(w, r.ZeroShot)
	}
	return nil
}

func writeResult(w *os.File, res *evaluation.Result) {
	if res.EmptyCorpus {
		fmt.Fprintln(w, "  no videos contributed relevant instances")
		return
	}
	fmt.Fprintf(w, "  detection mean AP (used in challenge): %.4f\n", res.MeanAP)
	for _, n := range sortedKeys(res.RecallAtN) {
		fmt.Fprintf(w, "  detection recall@%d (used in challenge): %.4f\n", n, res.RecallAtN[n])
	}
	for _, n := range sortedKeys(res.TagPrecisionAtN) {
		fmt.Fprintf(w, "  tagging precision@%d: %.4f\n", n, res.TagPrecisionAtN[n])
	}
	fmt.Fprintf(w, "  videos scored: %d\n", res.Count)
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
