package domain

import (
	"strconv"
	"strings"
	"time"
)

// OpenEnded is the display value for postings with no fixed closing date
// (rolling recruitment).
const OpenEnded = "Ongoing"

// collectedAtLayout matches what the sheets already contain; changing it
// would make old and new CollectedAt cells inconsistent.
const collectedAtLayout = "2006-01-02 15:04:05"

// DateLayout names the raw date shapes the vendor APIs return.
type DateLayout string

const (
	// LayoutISO is an RFC3339-ish timestamp ("2024-03-01T09:00:00Z").
	LayoutISO DateLayout = "iso"
	// LayoutDay is "2006-01-02", possibly with a trailing time component
	// that is truncated away.
	LayoutDay DateLayout = "day"
	// LayoutCompact is "20060102".
	LayoutCompact DateLayout = "20060102"
)

// PostingDate is a display date with three extra states beyond a calendar
// day: absent, open-ended, and a raw vendor string that failed to parse
// (kept verbatim so the sheet still shows something useful).
type PostingDate struct {
	Time time.Time
	Raw  string
	Open bool
}

func (d PostingDate) String() string {
	switch {
	case d.Open:
		return OpenEnded
	case d.Raw != "":
		return d.Raw
	case d.Time.IsZero():
		return ""
	default:
		return d.Time.Format("2006-01-02")
	}
}

// IsZero reports whether the date carries no value at all.
func (d PostingDate) IsZero() bool {
	return !d.Open && d.Raw == "" && d.Time.IsZero()
}

// OngoingDate returns the open-ended sentinel date.
func OngoingDate() PostingDate { return PostingDate{Open: true} }

// OpenDate normalizes a vendor opening date. Absent stays absent.
func OpenDate(raw string, layout DateLayout) PostingDate {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PostingDate{}
	}
	return parseDate(raw, layout)
}

// CloseDate normalizes a vendor closing date. Absent and far-future
// placeholder values both mean the posting has no fixed deadline and map
// to the open-ended sentinel, never to an empty cell.
func CloseDate(raw string, layout DateLayout) PostingDate {
	raw = strings.TrimSpace(raw)
	if raw == "" || farFuture(raw) {
		return OngoingDate()
	}
	return parseDate(raw, layout)
}

// Vendors encode "no deadline" as an impossibly distant year: 9999 and
// 2999 are common, 2099 shows up too. Anything from 2099 on is a
// placeholder, not a date a recruiter picked.
func farFuture(raw string) bool {
	if len(raw) < 4 {
		return false
	}
	year, err := strconv.Atoi(raw[:4])
	if err != nil {
		return false
	}
	return year >= 2099
}

// parseDate falls back to the raw string on any parse failure; a mangled
// date is a display nuisance, not a reason to abort a run.
func parseDate(raw string, layout DateLayout) PostingDate {
	switch layout {
	case LayoutISO:
		for _, l := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(l, raw); err == nil {
				return PostingDate{Time: t}
			}
		}
	case LayoutDay:
		day := raw
		if len(day) > 10 {
			day = day[:10]
		}
		if t, err := time.Parse("2006-01-02", day); err == nil {
			return PostingDate{Time: t}
		}
	case LayoutCompact:
		if t, err := time.Parse("20060102", raw); err == nil {
			return PostingDate{Time: t}
		}
	}
	return PostingDate{Raw: raw}
}
