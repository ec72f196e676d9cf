// Command deteval evaluates detector records across input resolutions and
// reports the best resolution and confidence threshold.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-deteval/benchmark"
	"github.com/nvr-ai/go-deteval/evaluation"
	"github.com/nvr-ai/go-deteval/images"
	"github.com/nvr-ai/go-deteval/logging"
	"github.com/nvr-ai/go-deteval/report"
	"github.com/nvr-ai/go-deteval/util"
)

const (
	flagDebug       = "debug"
	flagConfig      = "config"
	flagDataDir     = "data-dir"
	flagPattern     = "pattern"
	flagOutput      = "output"
	flagResolutions = "resolutions"
	flagConcurrency = "concurrency"
	flagHTML        = "html"
	flagTimeout     = "timeout"
	flagDiscover    = "discover"
	flagResolution  = "resolution"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "deteval",
		Usage:     "compare detector quality across input resolutions",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "path to a YAML or JSON run configuration",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "evaluate every resolution and write the report, tables and plots",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagDataDir,
						Usage: "directory holding the records files",
						Value: benchmark.DefaultDataDir,
					},
					&cli.StringFlag{
						Name:  flagPattern,
						Usage: "records file name pattern, {size} is replaced by the resolution",
						Value: benchmark.DefaultFilePattern,
					},
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "output directory",
						Value:   benchmark.DefaultOutputDir,
					},
					&cli.StringSliceFlag{
						Name:  flagResolutions,
						Usage: "resolutions to evaluate, e.g. 512,608x608",
					},
					&cli.IntFlag{
						Name:  flagConcurrency,
						Usage: "resolutions evaluated in parallel, 0 uses every CPU",
					},
					&cli.BoolFlag{
						Name:  flagHTML,
						Usage: "also write an interactive precision-recall overlay",
					},
					&cli.DurationFlag{
						Name:  flagTimeout,
						Usage: "abort resolutions not evaluated within this duration",
					},
					&cli.BoolFlag{
						Name:  flagDiscover,
						Usage: "evaluate every records file found in the data directory",
					},
				},
				Action: runAction,
			},
			{
				Name:      "inspect",
				Usage:     "print the metric series of a single records file",
				ArgsUsage: "<records-file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagResolution,
						Usage: "resolution the records were produced at, e.g. 608 or 608x608",
					},
				},
				Action: inspectAction,
			},
		},
	}
}

func newLogger(c *cli.Context) (*zap.SugaredLogger, error) {
	return logging.NewLogger("deteval", c.Bool(flagDebug))
}

// loadConfig reads the configuration file, if any, and applies the flags the
// user set on top of it.
func loadConfig(c *cli.Context) (*benchmark.Config, error) {
	config := benchmark.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		var err error
		if config, err = benchmark.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet(flagDataDir) {
		config.DataDir = c.String(flagDataDir)
	}
	if c.IsSet(flagPattern) {
		config.FilePattern = c.String(flagPattern)
	}
	if c.IsSet(flagOutput) {
		config.OutputDir = c.String(flagOutput)
	}
	if c.IsSet(flagResolutions) {
		sizes, err := parseResolutions(c.StringSlice(flagResolutions))
		if err != nil {
			return nil, err
		}
		config.Resolutions = sizes
	}
	if c.IsSet(flagConcurrency) {
		config.Concurrency = c.Int(flagConcurrency)
	}
	if c.IsSet(flagHTML) {
		config.Plots.HTML = c.Bool(flagHTML)
	}
	if c.IsSet(flagTimeout) {
		config.TimeoutSeconds = int(c.Duration(flagTimeout).Seconds())
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

func parseResolutions(values []string) ([]int, error) {
	sizes := make([]int, 0, len(values))
	for _, v := range values {
		size, err := images.ParseSize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "--%s", flagResolutions)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func runAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	config, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	if config.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	suite := benchmark.NewSuite(config, logger)
	if c.Bool(flagDiscover) {
		set, err := benchmark.DiscoverScenarios(config.DataDir, config.FilePattern)
		if err != nil {
			return err
		}
		suite.AddScenarioSet(set)
	} else {
		suite.AddScenarioSet(benchmark.ScenariosFromConfig(config))
	}

	logger.Infow("starting evaluation",
		"dataDir", config.DataDir,
		"resolutions", len(suite.Scenarios()),
		"output", config.OutputDir,
	)

	result, err := suite.Run(ctx)
	if result != nil {
		printResult(c.App.Writer, result)
	}
	if err != nil {
		return errors.Wrap(err, "evaluation failed")
	}
	return nil
}

func printResult(w io.Writer, result *benchmark.Result) {
	fmt.Fprintf(w, "\nEvaluation run %s\n", result.RunID)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Resolution", "AP", "Best Threshold", "Recall", "Precision", "F1"})
	for _, s := range result.Summaries.Items() {
		t.AppendRow(table.Row{
			images.Label(s.Resolution),
			fmt.Sprintf("%.4f", s.AP),
			report.FormatThreshold(s.BestThreshold.ConfidenceThreshold),
			fmt.Sprintf("%.4f", s.BestThreshold.Recall),
			fmt.Sprintf("%.4f", s.BestThreshold.Precision),
			fmt.Sprintf("%.4f", s.BestThreshold.F1),
		})
	}
	fmt.Fprintln(w, t.Render())

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "\nSkipped %d resolution(s):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(w, "  - %v\n", f)
		}
	}

	if result.Summaries.Len() == 0 {
		return
	}

	fmt.Fprintf(w, "\nBest resolution: %s (AP %.4f, threshold %s)\n",
		images.Label(result.Best.Resolution),
		result.Best.AP,
		report.FormatThreshold(result.Best.BestThreshold.ConfidenceThreshold),
	)
	fmt.Fprintf(w, "Completed in %v\n", result.Metrics.TotalDuration)
	for _, path := range result.Outputs {
		fmt.Fprintf(w, "  wrote %s\n", path)
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("inspect takes exactly one records file")
	}
	path := c.Args().First()

	resolution := 0
	if c.IsSet(flagResolution) {
		size, err := images.ParseSize(c.String(flagResolution))
		if err != nil {
			return errors.Wrapf(err, "--%s", flagResolution)
		}
		resolution = size
	}

	records, err := util.LoadRecordsFile(path)
	if err != nil {
		return err
	}

	summary, err := evaluation.Summarize(resolution, records)
	if err != nil {
		return err
	}

	w := c.App.Writer
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Conf Thresh", "Recall", "Precision", "F1"})
	for _, m := range summary.Metrics {
		t.AppendRow(table.Row{
			report.FormatThreshold(m.ConfidenceThreshold),
			fmt.Sprintf("%.4f", m.Recall),
			fmt.Sprintf("%.4f", m.Precision),
			fmt.Sprintf("%.4f", m.F1),
		})
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "AP: %.4f\n", summary.AP)
	fmt.Fprintf(w, "Best Threshold: %s (F1 %.4f)\n",
		report.FormatThreshold(summary.BestThreshold.ConfidenceThreshold),
		summary.BestThreshold.F1,
	)
	return nil
}
