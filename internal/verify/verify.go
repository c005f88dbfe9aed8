package verify

import (
	"fmt"
	"regexp"
	"strings"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// Authority weights encode a domain prior: legally binding or audited
// documents are more trustworthy than marketing decks. Lookup is by
// file-name keyword, longest match wins.
var authorityWeights = []struct {
	keyword string
	weight  float64
}{
	{"lpa", 0.95},
	{"agreement", 0.90},
	{"audited", 0.88},
	{"statement", 0.82},
	{"quarter", 0.75},
	{"update", 0.72},
	{"assumptions", 0.65},
	{"deck", 0.60},
}

const (
	defaultAuthority = 0.65

	// Hard ceiling for any metric whose claimed snippet cannot be found
	// verbatim on the cited page.
	evidenceCap = 0.40
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// AuthorityWeight derives the document-level trust prior from its name.
func AuthorityWeight(docName string) float64 {
	name := strings.ToLower(docName)

	weight := defaultAuthority
	longest := 0
	for _, entry := range authorityWeights {
		if strings.Contains(name, entry.keyword) && len(entry.keyword) > longest {
			weight = entry.weight
			longest = len(entry.keyword)
		}
	}
	return weight
}

// Verifier finalizes confidence and completeness bookkeeping. It never
// changes a metric's value and has no failure mode: malformed input
// simply produces low-confidence, well-annotated output.
type Verifier struct{}

var _ ports.Scorer = (*Verifier)(nil)

// New builds the scoring stage.
func New() *Verifier {
	return &Verifier{}
}

// Score returns a scored copy of the document. Working on a copy keeps
// ownership unambiguous once the record is shared between cache, rule
// engine, and report stage.
func (v *Verifier) Score(doc domain.ExtractedDoc, pages []domain.Page) domain.ExtractedDoc {
	out := doc.Clone()
	base := AuthorityWeight(out.DocName)

	scoreField := func(value *float64, confidence *float64, evidence domain.Evidence, key string) {
		if value == nil {
			out.AddMissing(key + ".value")
			*confidence = 0
			return
		}

		if *confidence < base {
			*confidence = base
		}
		v.checkEvidence(&out, confidence, evidence, key, pages)
	}

	scoreField(out.AUM.Value, &out.AUM.Confidence, out.AUM.Evidence, "aum")
	scoreField(out.NetIRR.Value, &out.NetIRR.Confidence, out.NetIRR.Evidence, "net_irr")
	scoreField(out.TVPI.Value, &out.TVPI.Confidence, out.TVPI.Evidence, "tvpi")
	scoreField(out.TargetIRR.Value, &out.TargetIRR.Confidence, out.TargetIRR.Evidence, "target_irr")
	scoreField(out.MgmtFee.Value, &out.MgmtFee.Confidence, out.MgmtFee.Evidence, "mgmt_fee")

	// Carry needs both sub-fields; each absence is recorded on its own.
	if out.Carry.Value == nil {
		out.AddMissing("carry.value")
	}
	if out.Carry.Hurdle == nil {
		out.AddMissing("carry.hurdle")
	}
	if out.Carry.Value != nil {
		if out.Carry.Confidence < base {
			out.Carry.Confidence = base
		}
		v.checkEvidence(&out, &out.Carry.Confidence, out.Carry.Evidence, "carry", pages)
	}

	return out
}

// checkEvidence verifies the claimed snippet appears verbatim
// (whitespace-normalized) on the cited page; failures cap confidence
// and leave an audit note naming the field.
func (v *Verifier) checkEvidence(doc *domain.ExtractedDoc, confidence *float64, evidence domain.Evidence, key string, pages []domain.Page) {
	snippet := strings.TrimSpace(evidence.Snippet)
	pageText := pageText(pages, evidence.Page)

	if snippet == "" || pageText == "" {
		if *confidence > evidenceCap {
			*confidence = evidenceCap
		}
		doc.Notes = append(doc.Notes, fmt.Sprintf("Missing evidence page/snippet for %s; confidence reduced.", key))
		return
	}

	normPage := whitespaceRe.ReplaceAllString(pageText, " ")
	normSnippet := whitespaceRe.ReplaceAllString(snippet, " ")
	if !strings.Contains(normPage, normSnippet) {
		if *confidence > evidenceCap {
			*confidence = evidenceCap
		}
		doc.Notes = append(doc.Notes, fmt.Sprintf("Evidence snippet for %s not found verbatim on page %d; confidence reduced.", key, *evidence.Page))
	}
}

func pageText(pages []domain.Page, pageNum *int) string {
	if pageNum == nil {
		return ""
	}
	for _, pg := range pages {
		if pg.PageNum == *pageNum {
			return pg.Text
		}
	}
	return ""
}
