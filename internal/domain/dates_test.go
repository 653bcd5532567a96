package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCloseDateSentinel(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		layout DateLayout
	}{
		{"absent", "", LayoutCompact},
		{"whitespace only", "   ", LayoutDay},
		{"year 9999 compact", "99990101", LayoutCompact},
		{"year 2999 day", "2999-12-31", LayoutDay},
		{"year 2999 iso", "2999-12-31T00:00:00", LayoutISO},
		{"distant placeholder year", "20991231", LayoutCompact},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := CloseDate(tc.raw, tc.layout)
			assert.True(t, d.Open)
			assert.Equal(t, OpenEnded, d.String())
		})
	}
}

func TestCloseDateRealDeadline(t *testing.T) {
	d := CloseDate("20240715", LayoutCompact)
	assert.False(t, d.Open)
	assert.Equal(t, "2024-07-15", d.String())
}

func TestCloseDateUnparsableKeepsRaw(t *testing.T) {
	d := CloseDate("always hiring", LayoutCompact)
	assert.Equal(t, "always hiring", d.String())
}

func TestOpenDateAbsentStaysEmpty(t *testing.T) {
	d := OpenDate("", LayoutISO)
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
}

func TestOpenDateLayouts(t *testing.T) {
	cases := []struct {
		raw    string
		layout DateLayout
		want   string
	}{
		{"2024-03-01T09:00:00Z", LayoutISO, "2024-03-01"},
		{"2024-03-01T09:00:00", LayoutISO, "2024-03-01"},
		{"2024-03-01", LayoutISO, "2024-03-01"},
		{"2024-03-01 10:30:00", LayoutDay, "2024-03-01"},
		{"2024-03-01", LayoutDay, "2024-03-01"},
		{"20240301", LayoutCompact, "2024-03-01"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OpenDate(tc.raw, tc.layout).String(), "raw %q layout %s", tc.raw, tc.layout)
	}
}

func TestOpenDateUnparsableKeepsRaw(t *testing.T) {
	d := OpenDate("soon-ish", LayoutDay)
	assert.Equal(t, "soon-ish", d.String())
	assert.False(t, d.IsZero())
}

func TestPostingDateString(t *testing.T) {
	assert.Equal(t, "", PostingDate{}.String())
	assert.Equal(t, OpenEnded, OngoingDate().String())
	assert.Equal(t, "junk", PostingDate{Raw: "junk"}.String())

	day := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-07-15", PostingDate{Time: day}.String())
}
