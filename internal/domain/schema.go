package domain

// The header row is the contract between the reconciliation engine and the
// sheet: cell order is fixed and cell 0 is always the posting ID.
var (
	fullHeader = []string{
		"PostingID", "Title", "Company", "Category", "Location",
		"EmploymentType", "OpensOn", "ClosesOn", "URL", "CollectedAt",
	}
	compactHeader = []string{
		"PostingID", "Title", "Company",
		"EmploymentType", "OpensOn", "ClosesOn", "URL", "CollectedAt",
	}
)

// Schema maps postings onto sheet rows. Vendors that expose neither a
// category nor a location use the compact eight-column variant.
type Schema struct {
	header  []string
	compact bool
}

var (
	FullSchema    = Schema{header: fullHeader}
	CompactSchema = Schema{header: compactHeader, compact: true}
)

// Header returns a copy of the header row.
func (s Schema) Header() []string {
	h := make([]string, len(s.header))
	copy(h, s.header)
	return h
}

// Columns is the fixed row width.
func (s Schema) Columns() int { return len(s.header) }

// Row serializes a posting into sheet cells. Optional values collapse to
// empty strings only here, at the row boundary.
func (s Schema) Row(p Posting) []string {
	collected := ""
	if !p.CollectedAt.IsZero() {
		collected = p.CollectedAt.Format(collectedAtLayout)
	}
	if s.compact {
		return []string{
			p.ID, p.Title, p.Company,
			p.EmploymentType, p.OpensOn.String(), p.ClosesOn.String(), p.URL, collected,
		}
	}
	return []string{
		p.ID, p.Title, p.Company, p.Category, p.Location,
		p.EmploymentType, p.OpensOn.String(), p.ClosesOn.String(), p.URL, collected,
	}
}

// Rows serializes postings in vendor order.
func (s Schema) Rows(postings []Posting) [][]string {
	rows := make([][]string, 0, len(postings))
	for _, p := range postings {
		rows = append(rows, s.Row(p))
	}
	return rows
}
