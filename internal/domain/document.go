package domain

// Page is one unit of source text as produced by a document loader.
type Page struct {
	PageNum int    // 1-indexed
	Text    string
}

// Evidence cites where an extracted value was found.
type Evidence struct {
	DocName string `json:"doc_name"`
	Page    *int   `json:"page"`
	Snippet string `json:"snippet"`
}

// Metric is one scalar fact with its confidence and citation.
type Metric struct {
	Value      *float64 `json:"value"`
	Confidence float64  `json:"confidence"`
	Evidence   Evidence `json:"evidence"`
}

// FeeMetric extends Metric with a fee basis (committed vs invested capital).
// Basis is part of the contract but not yet populated by extractors.
type FeeMetric struct {
	Value      *float64 `json:"value"`
	Basis      *string  `json:"basis"`
	Confidence float64  `json:"confidence"`
	Evidence   Evidence `json:"evidence"`
}

// CarryMetric links the carried-interest rate with its preferred-return
// hurdle; the two are reported together in fund documents.
type CarryMetric struct {
	Value      *float64 `json:"value"`
	Hurdle     *float64 `json:"hurdle"`
	Confidence float64  `json:"confidence"`
	Evidence   Evidence `json:"evidence"`
}

// ExtractedDoc is the unit of record for one source document.
type ExtractedDoc struct {
	DocName string  `json:"doc_name"`
	DocDate *string `json:"doc_date"`

	AUM       Metric `json:"aum"`        // absolute currency units
	NetIRR    Metric `json:"net_irr"`    // percent
	TVPI      Metric `json:"tvpi"`       // multiple
	TargetIRR Metric `json:"target_irr"` // percent

	MgmtFee FeeMetric   `json:"mgmt_fee"`
	Carry   CarryMetric `json:"carry"`

	Notes         []string `json:"notes"`
	MissingFields []string `json:"missing_fields"`
}

// NewExtractedDoc builds an empty record with every evidence citation
// pre-bound to the document name.
func NewExtractedDoc(docName string) ExtractedDoc {
	ev := Evidence{DocName: docName}
	return ExtractedDoc{
		DocName:       docName,
		AUM:           Metric{Evidence: ev},
		NetIRR:        Metric{Evidence: ev},
		TVPI:          Metric{Evidence: ev},
		TargetIRR:     Metric{Evidence: ev},
		MgmtFee:       FeeMetric{Evidence: ev},
		Carry:         CarryMetric{Evidence: ev},
		Notes:         []string{},
		MissingFields: []string{},
	}
}

// AddMissing records a dotted field path, skipping duplicates so the
// missing-field list stays an exact audit trail of absence.
func (d *ExtractedDoc) AddMissing(field string) {
	for _, f := range d.MissingFields {
		if f == field {
			return
		}
	}
	d.MissingFields = append(d.MissingFields, field)
}

// EnsureDefaults repairs nil collections after JSON decoding so the
// document always marshals the same shape.
func (d *ExtractedDoc) EnsureDefaults() {
	if d.Notes == nil {
		d.Notes = []string{}
	}
	if d.MissingFields == nil {
		d.MissingFields = []string{}
	}
}

// Clone returns an independent copy; the scoring stage works on copies
// to keep ownership of documents shared by cache and rules unambiguous.
func (d ExtractedDoc) Clone() ExtractedDoc {
	out := d
	out.Notes = append(make([]string, 0, len(d.Notes)), d.Notes...)
	out.MissingFields = append(make([]string, 0, len(d.MissingFields)), d.MissingFields...)
	return out
}

// Severity grades a cross-document finding.
type Severity string

const (
	SeverityRed    Severity = "RED"
	SeverityYellow Severity = "YELLOW"
)

// Flag is one cross-document contradiction finding.
type Flag struct {
	Severity      Severity `json:"severity"`
	Type          string   `json:"type"`
	Docs          string   `json:"docs"`
	Detail        string   `json:"detail"`
	Evidence      string   `json:"evidence"`
	WhyItMatters  string   `json:"why_it_matters"`
	QuestionToAsk string   `json:"question_to_ask"`
}

// InputFile is one entry of the run's input manifest.
type InputFile struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// Ptr is a convenience for optional scalar fields.
func Ptr[T any](v T) *T {
	return &v
}
