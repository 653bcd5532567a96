package domain

import (
	"strings"
	"time"
)

// Posting is the vendor-agnostic record exchanged between a vendor fetcher
// and the reconciliation engine. Display fields may be empty when the vendor
// API does not expose them.
type Posting struct {
	ID             string
	Title          string
	Company        string
	Category       string
	Location       string
	EmploymentType string
	OpensOn        PostingDate
	ClosesOn       PostingDate
	URL            string
	CollectedAt    time.Time
}

// Valid reports whether the posting can be reconciled. The vendor ID is the
// sheet key; a posting without one must never reach the engine.
func (p Posting) Valid() bool {
	return strings.TrimSpace(p.ID) != ""
}

// DropInvalid filters out postings with an empty or missing ID, preserving
// vendor order.
func DropInvalid(in []Posting) []Posting {
	out := make([]Posting, 0, len(in))
	for _, p := range in {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// ActiveIDs collects the set of IDs reported by the vendor in this fetch.
func ActiveIDs(postings []Posting) map[string]bool {
	ids := make(map[string]bool, len(postings))
	for _, p := range postings {
		if p.Valid() {
			ids[p.ID] = true
		}
	}
	return ids
}
