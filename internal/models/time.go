package models

import "time"

const displayLayout = "2006-01-02T15:04:05.000-07:00"

var kst = time.FixedZone("KST", 9*60*60)

// ToKST renders t in the display timezone (+09:00).
func ToKST(t time.Time) string {
	return t.In(kst).Format(displayLayout)
}

// ParseBefore turns the "date" query parameter into an upper bound for
// listings. "0" or an empty value means no bound.
func ParseBefore(value string, now time.Time) (time.Time, error) {
	if value == "" || value == "0" {
		return now, nil
	}
	return time.Parse(time.RFC3339, value)
}
