package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"DiligenceScanner/internal/domain"
)

var factsHeader = []string{
	"doc_name", "doc_date",
	"aum_value_usd", "aum_conf", "aum_page", "aum_snippet",
	"net_irr_pct", "net_irr_conf",
	"tvpi", "target_irr_pct",
	"mgmt_fee_pct", "mgmt_fee_conf", "mgmt_fee_page", "mgmt_fee_snippet",
	"carry_pct", "carry_hurdle_pct", "carry_conf",
	"missing_fields", "notes",
}

// WriteFacts renders one flat CSV row per document, the reviewer-facing
// spreadsheet view of the run. Values are taken verbatim from the
// verified documents; nothing is re-derived here.
func WriteFacts(w io.Writer, docs []domain.ExtractedDoc) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(factsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, d := range docs {
		row := []string{
			d.DocName,
			strOrEmpty(d.DocDate),
			floatOrEmpty(d.AUM.Value),
			formatConf(d.AUM.Confidence),
			pageOrEmpty(d.AUM.Evidence.Page),
			d.AUM.Evidence.Snippet,
			floatOrEmpty(d.NetIRR.Value),
			formatConf(d.NetIRR.Confidence),
			floatOrEmpty(d.TVPI.Value),
			floatOrEmpty(d.TargetIRR.Value),
			floatOrEmpty(d.MgmtFee.Value),
			formatConf(d.MgmtFee.Confidence),
			pageOrEmpty(d.MgmtFee.Evidence.Page),
			d.MgmtFee.Evidence.Snippet,
			floatOrEmpty(d.Carry.Value),
			floatOrEmpty(d.Carry.Hurdle),
			formatConf(d.Carry.Confidence),
			strings.Join(d.MissingFields, ", "),
			strings.Join(d.Notes, " | "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", d.DocName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func pageOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatConf(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}
