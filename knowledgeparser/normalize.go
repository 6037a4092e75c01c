package knowledgeparser

import (
	"strings"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// NormalizeName is the canonical form of a drug identifier or alias
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalize rewrites identifiers, aliases and pair references to canonical form
func normalize(set *entities.KnowledgeSet) {
	for i := range set.Drugs {
		d := &set.Drugs[i]
		d.ID = NormalizeName(d.ID)
		d.Class = NormalizeName(d.Class)
		d.Description = strings.TrimSpace(d.Description)
		d.Mechanism = strings.TrimSpace(d.Mechanism)
		d.Aliases = normalizeAliases(d.ID, d.Aliases)
		d.Contraindications = trimAll(d.Contraindications)
	}

	for i := range set.Interactions {
		r := &set.Interactions[i]
		r.DrugA = NormalizeName(r.DrugA)
		r.DrugB = NormalizeName(r.DrugB)
		r.EvidenceLevel = entities.EvidenceLevel(strings.ToUpper(strings.TrimSpace(string(r.EvidenceLevel))))
		r.Recommendations = trimAll(r.Recommendations)
		r.References = trimAll(r.References)
	}
}

// normalizeAliases lowercases aliases, drops blanks, the drug's own id and repeats
func normalizeAliases(id string, aliases []string) []string {
	if len(aliases) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(aliases))
	out := aliases[:0]
	for _, alias := range aliases {
		alias = NormalizeName(alias)
		if alias == "" || alias == id || seen[alias] {
			continue
		}
		seen[alias] = true
		out = append(out, alias)
	}
	return out
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
