package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/R3borN17/greenscore/internal/regions"
)

// Rate is one half-hourly unit rate for a supplier region. The source does
// not echo the region back, so the client tags each record with the region it
// queried.
type Rate struct {
	Region      regions.Code
	ValidFrom   time.Time
	ValidTo     time.Time
	ValueIncVAT decimal.Decimal
}

// unitRatesResponse mirrors the supplier API payload. Only the fields the
// scoring pipeline needs are decoded.
type unitRatesResponse struct {
	Results []unitRate `json:"results"`
}

type unitRate struct {
	ValidFrom   string          `json:"valid_from"`
	ValidTo     string          `json:"valid_to"`
	ValueIncVAT decimal.Decimal `json:"value_inc_vat"`
}
