// Command tagbench benchmarks fiducial tag detection over a set of
// still images.
//
// Usage:
//
//	tagbench [flags] <image> [<image>...]
//
// Typical runs:
//
//	tagbench -f tag36h11 photos/*.png
//	tagbench -B -i 10 -t 8 photos/*.png 2>summary.txt
//	tagbench --config bench.toml --history runs.db photos/*.png
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tagvision/go-tagbench/benchmark"
	"github.com/tagvision/go-tagbench/config"
	"github.com/tagvision/go-tagbench/detector"
	"github.com/tagvision/go-tagbench/overlay"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Default()
	var configPath string

	cmd := &cobra.Command{
		Use:          "tagbench [flags] <image> [<image>...]",
		Short:        "Benchmark fiducial tag detection over still images",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fileCfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				applyFileConfig(cmd, &cfg, fileCfg)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.Family, "family", "f", cfg.Family, "Tag family to use")
	f.IntVar(&cfg.Border, "border", cfg.Border, "Tag family border size")
	f.IntVarP(&cfg.Iterations, "iters", "i", cfg.Iterations, "Repeat processing this many times")
	f.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "Use this many CPU threads")
	f.Float64VarP(&cfg.Decimate, "decimate", "x", cfg.Decimate, "Decimate input image by this factor")
	f.Float64VarP(&cfg.BlurSigma, "blur", "b", cfg.BlurSigma, "Apply low-pass blur to input")
	f.BoolVar(&cfg.RefineEdges, "refine-edges", cfg.RefineEdges, "Spend more time aligning edges of tags")
	f.BoolVar(&cfg.RefineDecode, "refine-decode", cfg.RefineDecode, "Spend more time decoding tags")
	f.BoolVar(&cfg.RefinePose, "refine-pose", cfg.RefinePose, "Spend more time computing pose of tags")
	f.BoolVarP(&cfg.Debug, "debug", "d", cfg.Debug, "Enable debugging output (slow)")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Reduce output")
	f.BoolVarP(&cfg.Benchmark, "benchmark", "B", cfg.Benchmark, "Benchmark mode (implies --no-display)")
	f.BoolVarP(&cfg.NoDisplay, "no-display", "n", cfg.NoDisplay, "Suppress the detection overlay window")
	f.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Save annotated copies of the input images here")
	f.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "Append run summaries to this SQLite database")
	f.StringVar(&configPath, "config", "", "Load run configuration from a TOML file")

	return cmd
}

// applyFileConfig takes file values for every option the user did not
// set explicitly on the command line.
func applyFileConfig(cmd *cobra.Command, cfg *config.Config, file config.Config) {
	apply := map[string]func(){
		"family":        func() { cfg.Family = file.Family },
		"border":        func() { cfg.Border = file.Border },
		"iters":         func() { cfg.Iterations = file.Iterations },
		"threads":       func() { cfg.Threads = file.Threads },
		"decimate":      func() { cfg.Decimate = file.Decimate },
		"blur":          func() { cfg.BlurSigma = file.BlurSigma },
		"refine-edges":  func() { cfg.RefineEdges = file.RefineEdges },
		"refine-decode": func() { cfg.RefineDecode = file.RefineDecode },
		"refine-pose":   func() { cfg.RefinePose = file.RefinePose },
		"debug":         func() { cfg.Debug = file.Debug },
		"quiet":         func() { cfg.Quiet = file.Quiet },
		"benchmark":     func() { cfg.Benchmark = file.Benchmark },
		"no-display":    func() { cfg.NoDisplay = file.NoDisplay },
		"output-dir":    func() { cfg.OutputDir = file.OutputDir },
		"history":       func() { cfg.HistoryPath = file.HistoryPath },
	}
	for name, set := range apply {
		if !cmd.Flags().Changed(name) {
			set()
		}
	}
}

// newDetector builds the engine handle for a run. Swapped out in
// tests so exit paths can be exercised without the engine.
var newDetector = func(family string, opts detector.Options) (detector.Detector, error) {
	return detector.New(family, opts)
}

func run(cmd *cobra.Command, cfg config.Config, paths []string) error {
	det, err := newDetector(cfg.Family, detector.Options{
		Border:       cfg.Border,
		Threads:      cfg.Threads,
		Decimate:     cfg.Decimate,
		BlurSigma:    cfg.BlurSigma,
		RefineEdges:  cfg.RefineEdges,
		RefineDecode: cfg.RefineDecode,
		RefinePose:   cfg.RefinePose,
		Debug:        cfg.Debug,
	})
	if err != nil {
		if errors.Is(err, detector.ErrUnknownFamily) {
			return errors.New("Unrecognized tag family name. Use e.g. \"tag36h11\".")
		}
		return err
	}
	defer det.Close()

	reporter := benchmark.NewReporter(reportMode(cfg), cmd.OutOrStdout(), cmd.ErrOrStderr())
	runner := &benchmark.Runner{
		Detector:   det,
		Reporter:   reporter,
		Iterations: cfg.Iterations,
		Family:     cfg.Family,
	}

	if !cfg.NoDisplay {
		win := overlay.NewWindow("tagbench")
		defer win.Close()
		runner.Display = win
	}
	if cfg.OutputDir != "" {
		snap, err := overlay.NewSnapshot(cfg.OutputDir)
		if err != nil {
			return err
		}
		runner.Snapshot = snap
	}
	if cfg.HistoryPath != "" {
		hist, err := benchmark.OpenHistory(cfg.HistoryPath)
		if err != nil {
			slog.Warn("history store unavailable", "path", cfg.HistoryPath, "error", err)
		} else {
			defer hist.Close()
			runner.History = hist
		}
	}

	// A run where every image failed to decode still exits normally;
	// only the aggregate summary is suppressed.
	if _, err := runner.Run(paths); err != nil && !errors.Is(err, benchmark.ErrNoData) {
		return err
	}
	return nil
}

func reportMode(cfg config.Config) benchmark.Mode {
	switch {
	case cfg.Benchmark:
		return benchmark.ModeBenchmark
	case cfg.Quiet:
		return benchmark.ModeQuiet
	default:
		return benchmark.ModeVerbose
	}
}
