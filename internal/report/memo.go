package report

import (
	"fmt"
	"math"
	"strings"

	"DiligenceScanner/internal/domain"
)

// RenderMemo assembles the IC diligence summary in Markdown: headline
// counts, a per-source metric table, selected evidence, and the flag
// queue. It is a pure formatting step over the pipeline's output.
func RenderMemo(docs []domain.ExtractedDoc, flags []domain.Flag) string {
	var b strings.Builder

	red, yellow := 0, 0
	for _, f := range flags {
		switch f.Severity {
		case domain.SeverityRed:
			red++
		case domain.SeverityYellow:
			yellow++
		}
	}

	b.WriteString("# IC Diligence Summary\n\n")
	b.WriteString("## Executive Summary\n")
	b.WriteString("- Generated from extracted fields only (no inference).\n")
	fmt.Fprintf(&b, "- Documents analyzed: **%d**\n", len(docs))
	fmt.Fprintf(&b, "- Flags detected: **%d RED**, **%d YELLOW**\n\n", red, yellow)

	b.WriteString("## Key Metrics by Source\n")
	b.WriteString("| Source | As-of | AUM | Net IRR | TVPI | Target IRR | Mgmt Fee | Carry |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			d.DocName,
			orNA(d.DocDate),
			formatMoney(d.AUM.Value),
			formatPct(d.NetIRR.Value, 1),
			formatMultiple(d.TVPI.Value),
			formatPct(d.TargetIRR.Value, 1),
			formatPct(d.MgmtFee.Value, 2),
			formatCarry(d.Carry),
		)
	}
	b.WriteString("\n")

	b.WriteString("## Evidence (selected)\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "### %s\n", d.DocName)
		fmt.Fprintf(&b, "- AUM: p.%s — %q\n", pageOrQuestion(d.AUM.Evidence.Page), d.AUM.Evidence.Snippet)
		fmt.Fprintf(&b, "- Mgmt Fee: p.%s — %q\n", pageOrQuestion(d.MgmtFee.Evidence.Page), d.MgmtFee.Evidence.Snippet)
		if d.NetIRR.Value != nil {
			fmt.Fprintf(&b, "- Net IRR: p.%s — %q\n", pageOrQuestion(d.NetIRR.Evidence.Page), d.NetIRR.Evidence.Snippet)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Flags Queue\n")
	if len(flags) == 0 {
		b.WriteString("No flags detected.\n")
		return b.String()
	}
	for _, f := range flags {
		fmt.Fprintf(&b, "### %s: %s\n", f.Severity, f.Type)
		fmt.Fprintf(&b, "- Docs: %s\n", f.Docs)
		fmt.Fprintf(&b, "- Detail: %s\n", f.Detail)
		fmt.Fprintf(&b, "- Evidence: %s\n", f.Evidence)
		fmt.Fprintf(&b, "- Why it matters: %s\n", f.WhyItMatters)
		fmt.Fprintf(&b, "- Question to ask: %s\n\n", f.QuestionToAsk)
	}

	return b.String()
}

func formatMoney(v *float64) string {
	if v == nil {
		return "N/A"
	}
	switch {
	case math.Abs(*v) >= 1e9:
		return fmt.Sprintf("$%.2fB", *v/1e9)
	case math.Abs(*v) >= 1e6:
		return fmt.Sprintf("$%.2fM", *v/1e6)
	default:
		return fmt.Sprintf("$%.0f", *v)
	}
}

func formatPct(v *float64, decimals int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.*f%%", decimals, *v)
}

func formatMultiple(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", *v)
}

func formatCarry(c domain.CarryMetric) string {
	switch {
	case c.Value != nil && c.Hurdle != nil:
		return fmt.Sprintf("%.0f%% over %.0f%%", *c.Value, *c.Hurdle)
	case c.Value != nil:
		return fmt.Sprintf("%.0f%%", *c.Value)
	default:
		return "N/A"
	}
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func pageOrQuestion(p *int) string {
	if p == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *p)
}
