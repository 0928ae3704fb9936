// Package dateutils renormalizes statement dates into the calendar form the
// record store expects.
package dateutils

import (
	"fmt"
	"time"

	"github.com/atworth/bankfeed/internal/apperrors"
)

// RecordDateLayout is the canonical month/day/year form used by the record
// store's date field. Components are not zero padded.
const RecordDateLayout = "1/2/2006"

// Normalize converts a YYYY-MM-DD-like string into a calendar date. The input
// is scanned character by character: hyphens advance the current group and any
// other character is appended to it, so stray characters never act as
// separators. The groups are reassembled as month/day/year and parsed
// strictly; an impossible calendar date fails.
func Normalize(raw string) (time.Time, error) {
	var year, month, day string
	group := 0
	for _, r := range raw {
		if r == '-' {
			group++
			continue
		}
		switch group {
		case 0:
			year += string(r)
		case 1:
			month += string(r)
		case 2:
			day += string(r)
		}
	}

	reassembled := month + "/" + day + "/" + year
	t, err := time.Parse(RecordDateLayout, reassembled)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid statement date %q: %v", apperrors.ErrMapping, raw, err)
	}
	return t, nil
}

// RecordDate renders a date in the canonical record-store form.
func RecordDate(t time.Time) string {
	return t.Format(RecordDateLayout)
}
