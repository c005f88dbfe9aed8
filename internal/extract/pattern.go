package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// Confidence assigned to any pattern match before verification raises
// or caps it against the document's authority weight.
const patternConfidence = 0.55

// Pattern order encodes precedence: the first pattern that matches
// anywhere in the page sequence wins, so more specific phrasings are
// listed first.
var (
	asOfDateRe      = regexp.MustCompile(`(?i)As-of Date:\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`)
	effectiveDateRe = regexp.MustCompile(`(?i)Effective Date:\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`)

	aumAbbrevRe = regexp.MustCompile(`(?i)AUM\).*?\$([0-9]+\.[0-9]+)B`)
	aumLongRe   = regexp.MustCompile(`(?i)Assets Under Management.*?\$([0-9]+\.[0-9]+)B`)

	netIRRRe    = regexp.MustCompile(`(?i)Net IRR.*?:\s*([0-9]+\.[0-9]+)%`)
	tvpiRe      = regexp.MustCompile(`(?i)TVPI.*?:\s*([0-9]+\.[0-9]+)x`)
	targetIRRRe = regexp.MustCompile(`(?i)Target IRR:\s*([0-9]+)%`)

	feeColonRe = regexp.MustCompile(`(?i)Management Fee.*?:\s*([0-9]+\.[0-9]+)%`)
	feeLooseRe = regexp.MustCompile(`(?i)Management Fee.*?([0-9]+\.[0-9]+)%`)

	carryLabelRe   = regexp.MustCompile(`(?i)Carry:\s*([0-9]+)%`)
	carriedInterRe = regexp.MustCompile(`(?i)carried interest.*?([0-9]+)%`)
	hurdlePreferRe = regexp.MustCompile(`(?i)over an\s*([0-9]+)%\s*preferred`)
	hurdleLooseRe  = regexp.MustCompile(`(?i)hurdle.*?([0-9]+)%`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

const (
	snippetWindow = 50 // characters kept on each side of a match
	snippetTokens = 20 // whitespace-separated tokens kept after collapsing
)

// pageMatch is one pattern hit with its evidence context.
type pageMatch struct {
	value   string
	page    int
	snippet string
}

// findInPages scans pages in order and returns the first match of the
// first pattern that hits, so earlier patterns take precedence across
// the whole document, not per page.
func findInPages(pages []domain.Page, patterns ...*regexp.Regexp) (pageMatch, bool) {
	for _, rgx := range patterns {
		for _, pg := range pages {
			loc := rgx.FindStringSubmatchIndex(pg.Text)
			if loc == nil {
				continue
			}

			start := loc[0] - snippetWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + snippetWindow
			if end > len(pg.Text) {
				end = len(pg.Text)
			}

			snippet := strings.TrimSpace(whitespaceRe.ReplaceAllString(pg.Text[start:end], " "))
			words := strings.Fields(snippet)
			if len(words) > snippetTokens {
				words = words[:snippetTokens]
			}

			return pageMatch{
				value:   pg.Text[loc[2]:loc[3]],
				page:    pg.PageNum,
				snippet: strings.Join(words, " "),
			}, true
		}
	}
	return pageMatch{}, false
}

// PatternExtractor is the deterministic offline fallback. It is total:
// unmatched fields yield unpopulated metrics, never an error.
type PatternExtractor struct{}

var _ ports.Extractor = (*PatternExtractor)(nil)

// NewPatternExtractor builds the regex-backed extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Name identifies the strategy in logs and audit notes.
func (*PatternExtractor) Name() string { return "regex" }

// Extract scans the pages with the fixed pattern table.
func (e *PatternExtractor) Extract(_ context.Context, docName string, pages []domain.Page) (domain.ExtractedDoc, error) {
	doc := domain.NewExtractedDoc(docName)

	if m, ok := findInPages(pages, asOfDateRe, effectiveDateRe); ok {
		doc.DocDate = domain.Ptr(m.value)
	}

	if m, ok := findInPages(pages, aumAbbrevRe, aumLongRe); ok {
		billions, _ := strconv.ParseFloat(m.value, 64)
		doc.AUM.Value = domain.Ptr(billions * 1e9)
		doc.AUM.Confidence = patternConfidence
		doc.AUM.Evidence = domain.Evidence{DocName: docName, Page: domain.Ptr(m.page), Snippet: m.snippet}
	} else {
		doc.AddMissing("aum.value")
	}

	if m, ok := findInPages(pages, netIRRRe); ok {
		v, _ := strconv.ParseFloat(m.value, 64)
		doc.NetIRR.Value = domain.Ptr(v)
		doc.NetIRR.Confidence = patternConfidence
		doc.NetIRR.Evidence = domain.Evidence{DocName: docName, Page: domain.Ptr(m.page), Snippet: m.snippet}
	} else {
		doc.AddMissing("net_irr.value")
	}

	if m, ok := findInPages(pages, tvpiRe); ok {
		v, _ := strconv.ParseFloat(m.value, 64)
		doc.TVPI.Value = domain.Ptr(v)
		doc.TVPI.Confidence = patternConfidence
		doc.TVPI.Evidence = domain.Evidence{DocName: docName, Page: domain.Ptr(m.page), Snippet: m.snippet}
	} else {
		doc.AddMissing("tvpi.value")
	}

	if m, ok := findInPages(pages, targetIRRRe); ok {
		v, _ := strconv.ParseFloat(m.value, 64)
		doc.TargetIRR.Value = domain.Ptr(v)
		doc.TargetIRR.Confidence = patternConfidence
		doc.TargetIRR.Evidence = domain.Evidence{DocName: docName, Page: domain.Ptr(m.page), Snippet: m.snippet}
	} else {
		doc.AddMissing("target_irr.value")
	}

	if m, ok := findInPages(pages, feeColonRe, feeLooseRe); ok {
		v, _ := strconv.ParseFloat(m.value, 64)
		doc.MgmtFee.Value = domain.Ptr(v)
		doc.MgmtFee.Confidence = patternConfidence
		doc.MgmtFee.Evidence = domain.Evidence{DocName: docName, Page: domain.Ptr(m.page), Snippet: m.snippet}
	} else {
		doc.AddMissing("mgmt_fee.value")
	}

	e.extractCarry(&doc, docName, pages)

	return doc, nil
}

// extractCarry captures the carry rate and its hurdle independently;
// they often sit in different places on the page. The evidence snippet
// comes from the carry-rate match, with the hurdle match as fallback
// when the carry match produced none.
func (e *PatternExtractor) extractCarry(doc *domain.ExtractedDoc, docName string, pages []domain.Page) {
	carry, carryOK := findInPages(pages, carryLabelRe, carriedInterRe)
	hurdle, hurdleOK := findInPages(pages, hurdlePreferRe, hurdleLooseRe)

	if carryOK {
		v, _ := strconv.ParseFloat(carry.value, 64)
		doc.Carry.Value = domain.Ptr(v)
		doc.Carry.Confidence = patternConfidence

		snippet := carry.snippet
		page := domain.Ptr(carry.page)
		if snippet == "" && hurdleOK {
			snippet = hurdle.snippet
			page = domain.Ptr(hurdle.page)
		}
		doc.Carry.Evidence = domain.Evidence{DocName: docName, Page: page, Snippet: snippet}
	} else {
		doc.AddMissing("carry.value")
	}

	if hurdleOK {
		v, _ := strconv.ParseFloat(hurdle.value, 64)
		doc.Carry.Hurdle = domain.Ptr(v)
	} else {
		doc.AddMissing("carry.hurdle")
	}
}
