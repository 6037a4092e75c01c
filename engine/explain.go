package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// displayName title-cases a canonical id for narrative output.
// A Caser keeps state, so each call gets its own.
func displayName(id string) string {
	return cases.Title(language.English).String(id)
}

// explain builds the readable summary of one matched interaction, naming the
// drugs in request order.
func explain(pair Pair, r *entities.InteractionRecord) string {
	mechanism := strings.TrimSuffix(strings.TrimSpace(r.Mechanism), ".")
	if mechanism == "" {
		mechanism = "unknown mechanism"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s and %s have a %s interaction. Mechanism: %s.",
		displayName(pair.A), displayName(pair.B), r.Severity, mechanism)

	if effects := strings.TrimSuffix(strings.TrimSpace(r.ClinicalEffects), "."); effects != "" {
		fmt.Fprintf(&b, " Clinical effects: %s.", effects)
	}
	return b.String()
}
