// Package regions holds the fixed mapping between supplier grid-supply-point
// (GSP) group codes and carbon intensity API region identifiers.
package regions

// Code is a supplier GSP group code (single letter, e.g. "C" for London).
type Code string

// CarbonID is a carbon intensity API regional identifier.
type CarbonID int

// Entry pairs a supplier region with its carbon intensity region.
type Entry struct {
	Code     Code
	CarbonID CarbonID
	Name     string
}

// directory is loaded once and never mutated. Output ordering of the scoring
// engine follows this order.
var directory = []Entry{
	{Code: "A", CarbonID: 10, Name: "Eastern England"},
	{Code: "B", CarbonID: 9, Name: "East Midlands"},
	{Code: "C", CarbonID: 13, Name: "London"},
	{Code: "D", CarbonID: 6, Name: "Merseyside and Northern Wales"},
	{Code: "E", CarbonID: 8, Name: "West Midlands"},
	{Code: "F", CarbonID: 4, Name: "North East England"},
	{Code: "G", CarbonID: 3, Name: "North West England"},
	{Code: "H", CarbonID: 12, Name: "Southern England"},
	{Code: "J", CarbonID: 14, Name: "South East England"},
	{Code: "K", CarbonID: 7, Name: "South Wales"},
	{Code: "L", CarbonID: 11, Name: "South West England"},
	{Code: "M", CarbonID: 5, Name: "Yorkshire"},
	{Code: "N", CarbonID: 2, Name: "Southern Scotland"},
}

// Directory returns the canonical region table in its fixed iteration order.
// Callers must treat the returned slice as read-only.
func Directory() []Entry {
	return directory
}

// CarbonIDFor returns the carbon intensity region for a supplier code.
func CarbonIDFor(code Code) (CarbonID, bool) {
	for _, e := range directory {
		if e.Code == code {
			return e.CarbonID, true
		}
	}
	return 0, false
}
