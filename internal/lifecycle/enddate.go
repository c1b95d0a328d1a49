package lifecycle

import (
	"fmt"
	"time"
)

// Storefronts disagree on timestamp shape: Epic sends RFC 3339 with an
// offset, the HTML scrapers produce naive date-times or bare dates. Naive
// values are interpreted as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEndDate parses a scraped offer end date. Offset-carrying values are
// normalized to UTC; offsetless values are assumed to already be UTC.
func ParseEndDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty end date")
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable end date %q", value)
}
