package rules

import (
	"fmt"
	"strings"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// DefinitionDriftRule flags document pairs whose net-IRR evidence uses
// gross language on one side and net language on the other. The numbers
// may agree; the definitions still must not.
type DefinitionDriftRule struct{}

var _ ports.Rule = (*DefinitionDriftRule)(nil)

// NewDefinitionDriftRule builds the rule.
func NewDefinitionDriftRule() *DefinitionDriftRule {
	return &DefinitionDriftRule{}
}

// Name identifies the rule in configuration.
func (*DefinitionDriftRule) Name() string { return "definition_drift" }

// Apply walks pairs in (i<j) positional order.
func (*DefinitionDriftRule) Apply(docs []domain.ExtractedDoc) []domain.Flag {
	var flags []domain.Flag
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			a, b := docs[i], docs[j]

			snippetA := strings.ToLower(a.NetIRR.Evidence.Snippet)
			snippetB := strings.ToLower(b.NetIRR.Evidence.Snippet)
			if snippetA == "" || snippetB == "" {
				continue
			}

			aGross := strings.Contains(snippetA, "gross")
			aNet := strings.Contains(snippetA, "net")
			bGross := strings.Contains(snippetB, "gross")
			bNet := strings.Contains(snippetB, "net")

			if (aGross && bNet) || (aNet && bGross) {
				flags = append(flags, domain.Flag{
					Severity:      domain.SeverityYellow,
					Type:          "IRR_DEFINITION_DRIFT",
					Docs:          fmt.Sprintf("%s vs %s", a.DocName, b.DocName),
					Detail:        "IRR definition language differs (gross vs net).",
					Evidence:      pairEvidence(a.DocName, a.NetIRR.Evidence, b.DocName, b.NetIRR.Evidence),
					WhyItMatters:  "Definition drift can mislead IC comparisons and skew underwriting decisions.",
					QuestionToAsk: "Confirm whether IRR reported is net or gross and reconcile to a consistent definition.",
				})
			}
		}
	}
	return flags
}
