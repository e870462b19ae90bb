// greenscore-lambda is the scheduled AWS Lambda entrypoint. The trigger
// payload is ignored; the handler always acknowledges with a 200 so a partial
// run is never retried by the scheduler.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/R3borN17/greenscore/internal/carbon"
	"github.com/R3borN17/greenscore/internal/pipeline"
	"github.com/R3borN17/greenscore/internal/regions"
	"github.com/R3borN17/greenscore/internal/sink"
	"github.com/R3borN17/greenscore/internal/tariff"
	"github.com/R3borN17/greenscore/pkg/platform"
)

var errMissingBucket = errors.New("GREENSCORE_BUCKET environment variable is required")

type response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type handler struct {
	runner *pipeline.Runner
}

func (h handler) Handle(ctx context.Context) (response, error) {
	report := h.runner.Run(ctx, time.Now().UTC())
	return response{StatusCode: report.StatusCode, Body: report.Body}, nil
}

func main() {
	ctx := context.Background()
	logger := platform.NewLogger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		platform.LogFatal(logger, "load aws config", err)
	}

	bucket := platform.GetEnv("GREENSCORE_BUCKET", "")
	if bucket == "" {
		platform.LogFatal(logger, "missing required environment", errMissingBucket)
	}

	runner := pipeline.NewRunner(
		tariff.NewClient(
			platform.GetEnv("GREENSCORE_TARIFF_BASE", "https://api.octopus.energy"),
			platform.GetEnv("GREENSCORE_PRODUCT", "AGILE-FLEX-22-11-25"),
		),
		carbon.NewClient(platform.GetEnv("GREENSCORE_CARBON_BASE", "https://api.carbonintensity.org.uk")),
		sink.NewWriter(s3.NewFromConfig(cfg), bucket),
		regions.Directory(),
		platform.GetEnv("GREENSCORE_KEY_PREFIX", "green-scores"),
		logger,
	)

	lambda.Start(handler{runner: runner}.Handle)
}
