package carbon

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/R3borN17/greenscore/internal/regions"
)

// Slice is one carbon-intensity forecast interval for one region. Slice width
// is fixed by the source, not by this system.
type Slice struct {
	RegionID  regions.CarbonID
	From      time.Time
	To        time.Time
	Forecast  decimal.Decimal
	ShortName string
}

// regionalResponse mirrors the carbon intensity API regional payload:
// a series of time slices, each carrying every region's forecast.
type regionalResponse struct {
	Data []regionalSlice `json:"data"`
}

type regionalSlice struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Regions []regionRecord `json:"regions"`
}

type regionRecord struct {
	RegionID  int    `json:"regionid"`
	ShortName string `json:"shortname"`
	Intensity struct {
		Forecast decimal.Decimal `json:"forecast"`
	} `json:"intensity"`
}
