package scoring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/R3borN17/greenscore/internal/carbon"
	"github.com/R3borN17/greenscore/internal/regions"
	"github.com/R3borN17/greenscore/internal/tariff"
)

var testDir = []regions.Entry{
	{Code: "A", CarbonID: 10, Name: "Eastern England"},
	{Code: "C", CarbonID: 13, Name: "London"},
}

func at(hour, min int) time.Time {
	return time.Date(2024, 6, 1, hour, min, 0, 0, time.UTC)
}

func rate(region regions.Code, from time.Time, price float64) tariff.Rate {
	return tariff.Rate{
		Region:      region,
		ValidFrom:   from,
		ValidTo:     from.Add(30 * time.Minute),
		ValueIncVAT: decimal.NewFromFloat(price),
	}
}

func slice(id regions.CarbonID, from time.Time, forecast float64) carbon.Slice {
	return carbon.Slice{
		RegionID: id,
		From:     from,
		To:       from.Add(30 * time.Minute),
		Forecast: decimal.NewFromFloat(forecast),
	}
}

// The worked scenario: rates at 10:00 (price 20) and 10:30 (price 10),
// slices at 09:30 (forecast 100) and 10:15 (forecast 200). The 10:00 rate
// must match the 09:30 slice even though 10:00 is past that slice's end.
func TestScoreBackwardJoinScenario(t *testing.T) {
	rates := []tariff.Rate{
		rate("C", at(10, 30), 10),
		rate("C", at(10, 0), 20),
	}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {
			slice(13, at(10, 15), 200),
			slice(13, at(9, 30), 100),
		},
	}

	got := Score(testDir, rates, slices)
	if len(got) != 2 {
		t.Fatalf("expected 2 scored rates, got %d", len(got))
	}

	first, second := got[0], got[1]
	if !first.ValidFrom.Equal(at(10, 0)) || !second.ValidFrom.Equal(at(10, 30)) {
		t.Fatalf("output not sorted by valid_from: %v, %v", first.ValidFrom, second.ValidFrom)
	}
	if first.Forecast.String() != "100" {
		t.Fatalf("10:00 rate matched forecast %s, want 100 (09:30 slice)", first.Forecast)
	}
	if second.Forecast.String() != "200" {
		t.Fatalf("10:30 rate matched forecast %s, want 200 (10:15 slice)", second.Forecast)
	}
	if first.GreenScore.String() != "5" {
		t.Fatalf("10:00 green score = %s, want 5", first.GreenScore)
	}
	if second.GreenScore.String() != "20" {
		t.Fatalf("10:30 green score = %s, want 20", second.GreenScore)
	}
	if !first.NormalizedGreenScore.IsZero() {
		t.Fatalf("min score should normalize to 0, got %s", first.NormalizedGreenScore)
	}
	if second.NormalizedGreenScore.String() != "100" {
		t.Fatalf("max score should normalize to 100, got %s", second.NormalizedGreenScore)
	}
}

func TestScoreDropsRatesBeforeFirstSlice(t *testing.T) {
	rates := []tariff.Rate{
		rate("C", at(8, 0), 15), // before every slice: no known forecast
		rate("C", at(10, 0), 15),
	}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {slice(13, at(9, 0), 120)},
	}

	got := Score(testDir, rates, slices)
	if len(got) != 1 {
		t.Fatalf("expected 1 scored rate, got %d", len(got))
	}
	if !got[0].ValidFrom.Equal(at(10, 0)) {
		t.Fatalf("wrong surviving rate: %v", got[0].ValidFrom)
	}
}

func TestScoreExactBoundaryMatches(t *testing.T) {
	rates := []tariff.Rate{rate("C", at(9, 0), 10)}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {
			slice(13, at(9, 0), 80), // From == ValidFrom qualifies
			slice(13, at(9, 30), 90),
		},
	}

	got := Score(testDir, rates, slices)
	if len(got) != 1 {
		t.Fatalf("expected 1 scored rate, got %d", len(got))
	}
	if got[0].Forecast.String() != "80" {
		t.Fatalf("boundary rate matched %s, want 80", got[0].Forecast)
	}
}

func TestScoreZeroAndNegativePricesScoreZero(t *testing.T) {
	rates := []tariff.Rate{
		rate("C", at(10, 0), 0),
		rate("C", at(10, 30), -2.5),
		rate("C", at(11, 0), 10),
	}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {slice(13, at(9, 30), 100)},
	}

	got := Score(testDir, rates, slices)
	if len(got) != 3 {
		t.Fatalf("expected 3 scored rates, got %d", len(got))
	}
	if !got[0].GreenScore.IsZero() || !got[1].GreenScore.IsZero() {
		t.Fatalf("non-positive prices must score 0, got %s and %s", got[0].GreenScore, got[1].GreenScore)
	}
	if got[2].GreenScore.String() != "10" {
		t.Fatalf("positive price score = %s, want 10", got[2].GreenScore)
	}
}

func TestScoreSingleMatchedRecordNormalizesToZero(t *testing.T) {
	rates := []tariff.Rate{rate("C", at(10, 0), 20)}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {slice(13, at(9, 30), 100)},
	}

	got := Score(testDir, rates, slices)
	if len(got) != 1 {
		t.Fatalf("expected 1 scored rate, got %d", len(got))
	}
	if !got[0].NormalizedGreenScore.IsZero() {
		t.Fatalf("single record must normalize to 0, got %s", got[0].NormalizedGreenScore)
	}
}

func TestScoreEqualScoresNormalizeToZero(t *testing.T) {
	rates := []tariff.Rate{
		rate("C", at(10, 0), 20),
		rate("C", at(10, 30), 20),
	}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {slice(13, at(9, 30), 100)},
	}

	for _, sr := range Score(testDir, rates, slices) {
		if !sr.NormalizedGreenScore.IsZero() {
			t.Fatalf("equal scores must all normalize to 0, got %s", sr.NormalizedGreenScore)
		}
	}
}

func TestScoreNormalizationIsPerRegion(t *testing.T) {
	rates := []tariff.Rate{
		// Region A scores: 1 and 2. Region C scores: 100 and 200.
		rate("A", at(10, 0), 100),
		rate("A", at(10, 30), 50),
		rate("C", at(10, 0), 1),
		rate("C", at(10, 30), 0.5),
	}
	slices := map[regions.CarbonID][]carbon.Slice{
		10: {slice(10, at(9, 30), 100)},
		13: {slice(13, at(9, 30), 100)},
	}

	got := Score(testDir, rates, slices)
	if len(got) != 4 {
		t.Fatalf("expected 4 scored rates, got %d", len(got))
	}

	// Directory order: region A rows first, then region C.
	for i, wantRegion := range []regions.Code{"A", "A", "C", "C"} {
		if got[i].Region != wantRegion {
			t.Fatalf("row %d region = %s, want %s", i, got[i].Region, wantRegion)
		}
	}

	// Each region independently spans 0..100 despite wildly different raw scores.
	for _, pair := range [][2]int{{0, 1}, {2, 3}} {
		lo, hi := got[pair[0]], got[pair[1]]
		if !lo.NormalizedGreenScore.IsZero() {
			t.Fatalf("region %s min normalized = %s, want 0", lo.Region, lo.NormalizedGreenScore)
		}
		if hi.NormalizedGreenScore.String() != "100" {
			t.Fatalf("region %s max normalized = %s, want 100", hi.Region, hi.NormalizedGreenScore)
		}
	}
}

func TestScoreSkipsRegionsMissingEitherSource(t *testing.T) {
	rates := []tariff.Rate{
		rate("A", at(10, 0), 20), // region A has rates but no slices
		// region C has slices but no rates
	}
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {slice(13, at(9, 30), 100)},
	}

	if got := Score(testDir, rates, slices); len(got) != 0 {
		t.Fatalf("expected empty output, got %d rows", len(got))
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	if got := Score(testDir, nil, nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %d rows", len(got))
	}
}

func TestScoreDoesNotMutateSliceInput(t *testing.T) {
	slices := map[regions.CarbonID][]carbon.Slice{
		13: {
			slice(13, at(10, 15), 200),
			slice(13, at(9, 30), 100),
		},
	}
	Score(testDir, []tariff.Rate{rate("C", at(10, 30), 10)}, slices)

	if !slices[13][0].From.Equal(at(10, 15)) {
		t.Fatal("engine reordered the caller's slices")
	}
}
