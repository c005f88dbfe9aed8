package rules

import (
	"fmt"
	"strconv"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// Registry keeps a mapping from rule names to their implementations.
type Registry struct {
	rules map[string]ports.Rule
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: map[string]ports.Rule{}}
}

// Register adds or replaces a rule implementation.
func (r *Registry) Register(rule ports.Rule) {
	if r.rules == nil {
		r.rules = map[string]ports.Rule{}
	}
	r.rules[rule.Name()] = rule
}

// Resolve returns a rule by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Rule, error) {
	if rule, ok := r.rules[name]; ok {
		return rule, nil
	}
	return nil, fmt.Errorf("rule %s is not registered", name)
}

// Select resolves the configured rule names in order; the order defines
// the rule-major ordering of the run's flag output.
func (r *Registry) Select(names []string) ([]ports.Rule, error) {
	selected := make([]ports.Rule, 0, len(names))
	for _, name := range names {
		rule, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, rule)
	}
	return selected, nil
}

// pairEvidence concatenates both documents' citations for a metric into
// the flag's evidence line.
func pairEvidence(docA string, evA domain.Evidence, docB string, evB domain.Evidence) string {
	return fmt.Sprintf("%s (p.%s): %s | %s (p.%s): %s",
		docA, pageLabel(evA.Page), evA.Snippet,
		docB, pageLabel(evB.Page), evB.Snippet)
}

func pageLabel(page *int) string {
	if page == nil {
		return "?"
	}
	return strconv.Itoa(*page)
}
