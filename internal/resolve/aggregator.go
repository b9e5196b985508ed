package resolve

// Outcome is one emitted row: an author-record pair with whatever
// affiliation the pipeline found. Authors are reported once per
// record; the same person on two records yields two rows.
type Outcome struct {
	RecordID    string     `json:"record_id"`
	Author      string     `json:"author"`
	LastName    string     `json:"last_name"`
	First       string     `json:"first"`
	Affiliation string     `json:"affiliation,omitempty"`
	DOI         string     `json:"doi,omitempty"`
	Title       string     `json:"title,omitempty"`
	Provenance  Provenance `json:"provenance"`
}

// Aggregator accumulates outcome rows across records. It replaces
// ambient per-run state: one instance is created per run and passed
// through the pipeline.
type Aggregator struct {
	rows []Outcome
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add flattens a record's resolved authors into outcome rows.
func (g *Aggregator) Add(rec Record, authors []*Author) {
	for _, a := range authors {
		g.rows = append(g.rows, Outcome{
			RecordID:    rec.ID,
			Author:      a.Name.Label,
			LastName:    a.Name.Last,
			First:       a.Name.First,
			Affiliation: a.Affiliation,
			DOI:         rec.DOI,
			Title:       rec.Title,
			Provenance:  a.Provenance,
		})
	}
}

// Rows returns the accumulated rows in insertion order.
func (g *Aggregator) Rows() []Outcome {
	return g.rows
}

// Resolved counts rows that carry an affiliation.
func (g *Aggregator) Resolved() int {
	n := 0
	for _, row := range g.rows {
		if row.Affiliation != "" {
			n++
		}
	}
	return n
}
