package rules

import (
	"fmt"
	"math"

	"DiligenceScanner/internal/config"
	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// NumericMismatchRule compares AUM, management fee, and target IRR
// across every unordered document pair. Checks run in that fixed field
// order so flag output stays reproducible.
type NumericMismatchRule struct {
	aumTolerance float64 // relative deviation fraction
	feeAbsPct    float64 // percentage points
	targetIRRAbs float64 // percentage points
}

var _ ports.Rule = (*NumericMismatchRule)(nil)

// NewNumericMismatchRule builds the rule from configured thresholds.
func NewNumericMismatchRule(cfg config.RulesConfig) *NumericMismatchRule {
	return &NumericMismatchRule{
		aumTolerance: cfg.AUMTolerancePct,
		feeAbsPct:    cfg.MgmtFeeAbsPct,
		targetIRRAbs: cfg.TargetIRRAbsPct,
	}
}

// Name identifies the rule in configuration.
func (*NumericMismatchRule) Name() string { return "numeric_mismatch" }

// Apply walks pairs in (i<j) positional order.
func (r *NumericMismatchRule) Apply(docs []domain.ExtractedDoc) []domain.Flag {
	var flags []domain.Flag
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			flags = append(flags, r.comparePair(docs[i], docs[j])...)
		}
	}
	return flags
}

func (r *NumericMismatchRule) comparePair(a, b domain.ExtractedDoc) []domain.Flag {
	var flags []domain.Flag
	pair := fmt.Sprintf("%s vs %s", a.DocName, b.DocName)

	if a.AUM.Value != nil && b.AUM.Value != nil {
		if delta := pctDelta(*a.AUM.Value, *b.AUM.Value); delta > r.aumTolerance {
			flags = append(flags, domain.Flag{
				Severity:      domain.SeverityRed,
				Type:          "AUM_MISMATCH",
				Docs:          pair,
				Detail:        fmt.Sprintf("AUM differs by %.1f%%", delta*100),
				Evidence:      pairEvidence(a.DocName, a.AUM.Evidence, b.DocName, b.AUM.Evidence),
				WhyItMatters:  "AUM impacts scale, fees, and benchmarking; mismatches require reconciliation.",
				QuestionToAsk: "Which document is authoritative for AUM as-of date? Provide supporting statement/capital account detail.",
			})
		}
	}

	if a.MgmtFee.Value != nil && b.MgmtFee.Value != nil {
		if math.Abs(*a.MgmtFee.Value-*b.MgmtFee.Value) > r.feeAbsPct {
			flags = append(flags, domain.Flag{
				Severity:      domain.SeverityRed,
				Type:          "MGMT_FEE_MISMATCH",
				Docs:          pair,
				Detail:        fmt.Sprintf("Management fee differs: %.2f%% vs %.2f%%", *a.MgmtFee.Value, *b.MgmtFee.Value),
				Evidence:      pairEvidence(a.DocName, a.MgmtFee.Evidence, b.DocName, b.MgmtFee.Evidence),
				WhyItMatters:  "Fee terms directly affect net returns and legal obligations; LPA typically governs.",
				QuestionToAsk: "Confirm the controlling fee schedule and whether any side-letter modifies the base fee.",
			})
		}
	}

	if a.TargetIRR.Value != nil && b.TargetIRR.Value != nil {
		if math.Abs(*a.TargetIRR.Value-*b.TargetIRR.Value) > r.targetIRRAbs {
			flags = append(flags, domain.Flag{
				Severity:      domain.SeverityYellow,
				Type:          "TARGET_IRR_DRIFT",
				Docs:          pair,
				Detail:        fmt.Sprintf("Target IRR differs: %.1f%% vs %.1f%%", *a.TargetIRR.Value, *b.TargetIRR.Value),
				Evidence:      pairEvidence(a.DocName, a.TargetIRR.Evidence, b.DocName, b.TargetIRR.Evidence),
				WhyItMatters:  "Different stated targets can reflect marketing vs underwriting assumptions.",
				QuestionToAsk: "Is one target marketing and the other underwriting base-case? Which governs IC decision-making?",
			})
		}
	}

	return flags
}

// pctDelta is the symmetric percent difference, defined as 0 when both
// values are 0.
func pctDelta(a, b float64) float64 {
	denom := (math.Abs(a) + math.Abs(b)) / 2
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}
