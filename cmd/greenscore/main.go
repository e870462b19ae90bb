// greenscore CLI - day-ahead tariff vs carbon-intensity scoring
//
// Usage:
//   greenscore run [--dry-run] [--bucket my-bucket]
//   greenscore regions
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"

	"github.com/R3borN17/greenscore/internal/carbon"
	"github.com/R3borN17/greenscore/internal/pipeline"
	"github.com/R3borN17/greenscore/internal/regions"
	"github.com/R3borN17/greenscore/internal/scoring"
	"github.com/R3borN17/greenscore/internal/sink"
	"github.com/R3borN17/greenscore/internal/tariff"
	"github.com/R3borN17/greenscore/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "greenscore",
		Usage:   "Fetch day-ahead tariffs and carbon forecasts, score them, write to S3",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tariff-base",
				Value:   "https://api.octopus.energy",
				Usage:   "Tariff API base URL",
				EnvVars: []string{"GREENSCORE_TARIFF_BASE"},
			},
			&cli.StringFlag{
				Name:    "carbon-base",
				Value:   "https://api.carbonintensity.org.uk",
				Usage:   "Carbon intensity API base URL",
				EnvVars: []string{"GREENSCORE_CARBON_BASE"},
			},
			&cli.StringFlag{
				Name:    "product",
				Value:   "AGILE-FLEX-22-11-25",
				Usage:   "Supplier product code",
				EnvVars: []string{"GREENSCORE_PRODUCT"},
			},
		},

		Commands: []*cli.Command{
			runCommand(),
			regionsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Execute one scoring invocation over the next 24 hours",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "bucket",
				Usage:   "S3 bucket for the scored dataset",
				EnvVars: []string{"GREENSCORE_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "key-prefix",
				Value:   "green-scores",
				Usage:   "Object key base name",
				EnvVars: []string{"GREENSCORE_KEY_PREFIX"},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the scored dataset to stdout instead of writing to S3",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	ctx := context.Background()
	logger := platform.NewLogger()

	var out pipeline.Sink
	if c.Bool("dry-run") {
		out = stdoutSink{}
	} else {
		bucket := c.String("bucket")
		if bucket == "" {
			return fmt.Errorf("--bucket (or GREENSCORE_BUCKET) is required unless --dry-run is set")
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		out = sink.NewWriter(s3.NewFromConfig(cfg), bucket)
	}

	runner := pipeline.NewRunner(
		tariff.NewClient(c.String("tariff-base"), c.String("product")),
		carbon.NewClient(c.String("carbon-base")),
		out,
		regions.Directory(),
		c.String("key-prefix"),
		logger,
	)

	report := runner.Run(ctx, time.Now().UTC())
	fmt.Println(report.Body)
	return nil
}

// stdoutSink writes the dataset to stdout for --dry-run.
type stdoutSink struct{}

func (stdoutSink) Write(_ context.Context, key string, rates []scoring.ScoredRate) error {
	data, err := sink.Encode(rates)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n%s\n", key, data)
	return nil
}

func regionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "regions",
		Usage: "Print the supplier region to carbon region directory",
		Action: func(c *cli.Context) error {
			fmt.Printf("%-6s %-10s %s\n", "CODE", "CARBON ID", "NAME")
			for _, e := range regions.Directory() {
				fmt.Printf("%-6s %-10d %s\n", e.Code, e.CarbonID, e.Name)
			}
			return nil
		},
	}
}
