// Package pipeline drives one invocation of the green-score batch job:
// fetch tariffs per region, fetch the carbon forecast once, score, write.
//
// Every failure degrades output completeness instead of aborting: a failed
// region contributes no rows, a failed carbon fetch empties the join input, a
// failed write loses the object. The invocation always reports success; the
// log stream is the only place failures surface.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/R3borN17/greenscore/internal/carbon"
	"github.com/R3borN17/greenscore/internal/regions"
	"github.com/R3borN17/greenscore/internal/scoring"
	"github.com/R3borN17/greenscore/internal/sink"
	"github.com/R3borN17/greenscore/internal/tariff"
)

// TariffSource supplies half-hourly unit rates for one region.
type TariffSource interface {
	UnitRates(ctx context.Context, region regions.Code, from, to time.Time) ([]tariff.Rate, error)
}

// CarbonSource supplies the 24h-forward forecast for all regions in one call.
type CarbonSource interface {
	RegionalForecast(ctx context.Context, from time.Time) (map[regions.CarbonID][]carbon.Slice, error)
}

// Sink persists one invocation's scored rates.
type Sink interface {
	Write(ctx context.Context, key string, rates []scoring.ScoredRate) error
}

// RegionFetch is the explicit per-region tariff fetch outcome. A nil Err with
// zero rates means the source genuinely returned nothing, which is distinct
// from a failed fetch.
type RegionFetch struct {
	Region regions.Code
	Rates  []tariff.Rate
	Err    error
}

// Report is what an invocation hands back to its trigger. StatusCode is
// always 200: partial failures are visible only in the logs.
type Report struct {
	StatusCode     int
	Body           string
	InvocationID   string
	RegionsFetched int
	RecordsScored  int
}

// Runner sequences one invocation.
type Runner struct {
	tariffs   TariffSource
	forecasts CarbonSource
	sink      Sink
	dir       []regions.Entry
	keyPrefix string
	log       *slog.Logger
}

// NewRunner wires a runner. The directory is passed in rather than read from
// the regions package so the engine's region scope stays explicit.
func NewRunner(tariffs TariffSource, forecasts CarbonSource, s Sink, dir []regions.Entry, keyPrefix string, log *slog.Logger) *Runner {
	return &Runner{
		tariffs:   tariffs,
		forecasts: forecasts,
		sink:      s,
		dir:       dir,
		keyPrefix: keyPrefix,
		log:       log,
	}
}

// FetchTariffs fetches unit rates for every directory region sequentially and
// records each outcome. Failures are captured, not raised.
func (r *Runner) FetchTariffs(ctx context.Context, from, to time.Time) []RegionFetch {
	fetches := make([]RegionFetch, 0, len(r.dir))
	for _, entry := range r.dir {
		rates, err := r.tariffs.UnitRates(ctx, entry.Code, from, to)
		fetches = append(fetches, RegionFetch{Region: entry.Code, Rates: rates, Err: err})
	}
	return fetches
}

// Run executes one invocation over the fixed 24-hour window starting at now.
func (r *Runner) Run(ctx context.Context, now time.Time) Report {
	id := uuid.New().String()
	log := r.log.With("invocation_id", id)

	from := now.UTC().Truncate(time.Second)
	to := from.Add(24 * time.Hour)
	log.Info("starting run", "window_from", from, "window_to", to)

	var rates []tariff.Rate
	fetched := 0
	for _, f := range r.FetchTariffs(ctx, from, to) {
		if f.Err != nil {
			log.Error("tariff fetch failed, excluding region", "region", f.Region, "error", f.Err)
			continue
		}
		fetched++
		rates = append(rates, f.Rates...)
	}

	slices, err := r.forecasts.RegionalForecast(ctx, from)
	if err != nil {
		log.Error("carbon forecast fetch failed, scoring with no forecasts", "error", err)
		slices = map[regions.CarbonID][]carbon.Slice{}
	}

	scored := scoring.Score(r.dir, rates, slices)

	key := sink.ObjectKey(r.keyPrefix, from)
	if err := r.sink.Write(ctx, key, scored); err != nil {
		log.Error("sink write failed", "key", key, "error", err)
	} else {
		log.Info("wrote scored rates", "key", key, "records", len(scored))
	}

	log.Info("run complete", "regions_fetched", fetched, "records_scored", len(scored))

	return Report{
		StatusCode:     200,
		Body:           "greenscore run complete",
		InvocationID:   id,
		RegionsFetched: fetched,
		RecordsScored:  len(scored),
	}
}
