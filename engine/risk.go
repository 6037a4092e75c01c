package engine

import (
	"fmt"
	"strings"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

const (
	elderlyDirective   = "Elderly patient: consider reduced doses and increased monitoring"
	noFindingDirective = "No significant interactions detected. Continue current regimen."
)

// OverallRisk is the most severe level among the matches, SeverityNone when
// nothing matched.
func OverallRisk(matches []entities.InteractionMatch) entities.Severity {
	overall := entities.SeverityNone
	for _, m := range matches {
		if m.Severity > overall {
			overall = m.Severity
		}
	}
	return overall
}

// Recommend derives the ordered recommendation list: aggregate directives
// first, then the authored advice of each match in pair order. Lines shared
// by several records are emitted once per record.
func Recommend(matches []entities.InteractionMatch, patient *entities.PatientFactors) []entities.Recommendation {
	recs := make([]entities.Recommendation, 0)

	var contraindicated []string
	severe := 0
	for _, m := range matches {
		if m.Severity == entities.SeverityContraindicated {
			contraindicated = append(contraindicated, m.DrugPair[0]+" + "+m.DrugPair[1])
		}
		if m.Severity.AtLeast(entities.SeverityMajor) {
			severe++
		}
	}

	if len(contraindicated) == 1 {
		recs = append(recs, entities.Recommendation{
			Kind: entities.KindUrgent,
			Text: fmt.Sprintf("Avoid combination: %s is contraindicated", contraindicated[0]),
		})
	} else if len(contraindicated) > 1 {
		recs = append(recs, entities.Recommendation{
			Kind: entities.KindUrgent,
			Text: fmt.Sprintf("Avoid combinations: %s are contraindicated", strings.Join(contraindicated, ", ")),
		})
	}

	if severe >= 2 {
		recs = append(recs, entities.Recommendation{
			Kind: entities.KindMonitor,
			Text: fmt.Sprintf("Requires close monitoring: %d major or contraindicated interactions", severe),
		})
	}

	if severe > 0 && patient.IsElderly() {
		recs = append(recs, entities.Recommendation{Kind: entities.KindMonitor, Text: elderlyDirective})
	}

	for _, m := range matches {
		for _, text := range m.Recommendations {
			recs = append(recs, entities.Recommendation{Kind: entities.KindSuggest, Text: text})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, entities.Recommendation{Kind: entities.KindInfo, Text: noFindingDirective})
	}
	return recs
}
