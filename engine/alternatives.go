package engine

import (
	"fmt"
	"sort"

	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// maxAlternativesPerDrug caps the substitutes proposed inside an analysis.
const maxAlternativesPerDrug = 3

// countInteractions counts the context drugs that have a record with id.
// The drug itself and unknown context drugs never count.
func countInteractions(store interfaces.KnowledgeStore, id string, context []string) int {
	count := 0
	for _, other := range context {
		if other == id {
			continue
		}
		record, err := store.GetInteraction(id, other)
		if err == nil && record != nil {
			count++
		}
	}
	return count
}

// recommendAlternatives ranks the class mates of target that interact with
// fewer context drugs than target does, fewest first, then by id. Candidates
// listed in exclude are left out. target itself is never part of the context.
func recommendAlternatives(store interfaces.KnowledgeStore, target entities.Drug, context []string, exclude map[string]bool) []entities.Alternative {
	others := make([]string, 0, len(context))
	for _, id := range context {
		if id != target.ID {
			others = append(others, id)
		}
	}
	context = others

	baseline := countInteractions(store, target.ID, context)

	alternatives := make([]entities.Alternative, 0)
	for _, candidate := range store.ListAlternativesByClass(target.Class) {
		if candidate.ID == target.ID || exclude[candidate.ID] {
			continue
		}
		count := countInteractions(store, candidate.ID, context)
		if count >= baseline {
			continue
		}
		alternatives = append(alternatives, entities.Alternative{
			ID:               candidate.ID,
			Class:            candidate.Class,
			Reason:           fmt.Sprintf("Same class as %s (%s), %d of the current drugs interact with it instead of %d", target.ID, target.Class, count, baseline),
			InteractionCount: count,
		})
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		if alternatives[i].InteractionCount != alternatives[j].InteractionCount {
			return alternatives[i].InteractionCount < alternatives[j].InteractionCount
		}
		return alternatives[i].ID < alternatives[j].ID
	})
	return alternatives
}

// saferAlternatives proposes substitutes for every input drug taking part in
// a major or contraindicated interaction, with the rest of the input as
// context. Drugs without a safer class mate are left out.
func saferAlternatives(store interfaces.KnowledgeStore, in resolvedInput, matches []entities.InteractionMatch) []entities.SaferAlternatives {
	severe := make(map[string]bool)
	for _, m := range matches {
		if m.Severity.AtLeast(entities.SeverityMajor) {
			severe[m.DrugA] = true
			severe[m.DrugB] = true
		}
	}

	inputs := make(map[string]bool, len(in.ids))
	for _, id := range in.ids {
		inputs[id] = true
	}

	result := make([]entities.SaferAlternatives, 0)
	for _, drug := range in.known {
		if !severe[drug.ID] {
			continue
		}
		alternatives := recommendAlternatives(store, drug, in.ids, inputs)
		if len(alternatives) == 0 {
			continue
		}
		if len(alternatives) > maxAlternativesPerDrug {
			alternatives = alternatives[:maxAlternativesPerDrug]
		}
		result = append(result, entities.SaferAlternatives{Replace: drug.Summary(), With: alternatives})
	}
	return result
}
