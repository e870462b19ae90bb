// Package scoring aligns tariff unit rates with carbon-intensity forecast
// slices and derives per-region green scores.
//
// The join is a backward (asof) join: each rate takes the forecast from the
// slice with the greatest start time not exceeding the rate's start time, so a
// rate only ever sees a forecast that was already published when its interval
// began. A rate that starts before every slice for its region has no known
// forecast and is dropped.
package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/R3borN17/greenscore/internal/carbon"
	"github.com/R3borN17/greenscore/internal/regions"
	"github.com/R3borN17/greenscore/internal/tariff"
)

var hundred = decimal.NewFromInt(100)

// ScoredRate is a tariff rate joined with its matched forecast and the
// derived scores. It exists only for the duration of one invocation.
type ScoredRate struct {
	tariff.Rate
	Forecast decimal.Decimal

	// GreenScore is Forecast / ValueIncVAT, or zero when ValueIncVAT <= 0.
	// The zero fallback is a policy default: a free or negative half hour
	// would otherwise produce an unbounded or negative ratio.
	GreenScore decimal.Decimal

	// NormalizedGreenScore is GreenScore min-max rescaled to [0,100] within
	// this region's result set. Scores are not comparable across regions.
	NormalizedGreenScore decimal.Decimal
}

// Score joins rates to forecast slices per region and computes scores.
// Output ordering follows the directory's iteration order; a region with no
// rates or no slices contributes nothing.
func Score(dir []regions.Entry, rates []tariff.Rate, slices map[regions.CarbonID][]carbon.Slice) []ScoredRate {
	out := make([]ScoredRate, 0, len(rates))
	for _, entry := range dir {
		out = append(out, scoreRegion(entry, rates, slices[entry.CarbonID])...)
	}
	return out
}

func scoreRegion(entry regions.Entry, rates []tariff.Rate, slices []carbon.Slice) []ScoredRate {
	var regionRates []tariff.Rate
	for _, r := range rates {
		if r.Region == entry.Code {
			regionRates = append(regionRates, r)
		}
	}
	if len(regionRates) == 0 || len(slices) == 0 {
		return nil
	}

	sort.Slice(regionRates, func(i, j int) bool {
		return regionRates[i].ValidFrom.Before(regionRates[j].ValidFrom)
	})

	ordered := make([]carbon.Slice, len(slices))
	copy(ordered, slices)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].From.Before(ordered[j].From)
	})

	matched := make([]ScoredRate, 0, len(regionRates))
	for _, r := range regionRates {
		s, ok := priorSlice(ordered, r)
		if !ok {
			continue
		}
		matched = append(matched, ScoredRate{
			Rate:       r,
			Forecast:   s.Forecast,
			GreenScore: greenScore(s.Forecast, r.ValueIncVAT),
		})
	}

	normalize(matched)
	return matched
}

// priorSlice finds the slice with the greatest From <= the rate's ValidFrom.
// A rate matches even if it starts after that slice's To, as long as no later
// slice qualifies; a rate starting before every slice has no match.
func priorSlice(ordered []carbon.Slice, r tariff.Rate) (carbon.Slice, bool) {
	idx := sort.Search(len(ordered), func(i int) bool {
		return ordered[i].From.After(r.ValidFrom)
	})
	if idx == 0 {
		return carbon.Slice{}, false
	}
	return ordered[idx-1], true
}

func greenScore(forecast, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return forecast.Div(price)
}

// normalize rescales GreenScore to [0,100] over one region's matched records.
// When every score is equal (including the single-record case) the normalized
// score is zero.
func normalize(matched []ScoredRate) {
	if len(matched) == 0 {
		return
	}

	min, max := matched[0].GreenScore, matched[0].GreenScore
	for _, m := range matched[1:] {
		if m.GreenScore.LessThan(min) {
			min = m.GreenScore
		}
		if m.GreenScore.GreaterThan(max) {
			max = m.GreenScore
		}
	}

	if !max.GreaterThan(min) {
		for i := range matched {
			matched[i].NormalizedGreenScore = decimal.Zero
		}
		return
	}

	span := max.Sub(min)
	for i := range matched {
		matched[i].NormalizedGreenScore = matched[i].GreenScore.Sub(min).Div(span).Mul(hundred)
	}
}
