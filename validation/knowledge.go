package validation

import (
	"fmt"

	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
	"github.com/giygas/drug-interactions-api/logging"
)

// ValidateKnowledge drops the records a snapshot cannot index and reports
// every problem found. The input set is not modified.
//
// Dropped: drugs without id or class, repeated drug ids, interactions that
// are self pairs, reference unknown drugs, repeat an earlier pair, have a
// risk score outside [0,1] or no severity. Invalid evidence levels and alias
// collisions are reported but the records are kept.
func (v *DataValidatorImpl) ValidateKnowledge(set *entities.KnowledgeSet) (*entities.KnowledgeSet, *interfaces.DataQualityReport) {
	report := &interfaces.DataQualityReport{
		InvalidDrugs:          []string{},
		DuplicateDrugIDs:      []string{},
		AliasCollisions:       []string{},
		UnknownDrugReferences: []string{},
		DuplicatePairs:        []string{},
		SelfPairs:             []string{},
		InvalidRiskScores:     []string{},
		MissingSeverities:     []string{},
		InvalidEvidenceLevels: []string{},
	}
	clean := &entities.KnowledgeSet{
		Drugs:        []entities.Drug{},
		Interactions: []entities.InteractionRecord{},
	}
	if set == nil {
		return clean, report
	}

	known := make(map[string]bool, len(set.Drugs))
	for i, d := range set.Drugs {
		switch {
		case d.ID == "" || d.Class == "":
			report.InvalidDrugs = append(report.InvalidDrugs, fmt.Sprintf("#%d %q", i, d.ID))
			continue
		case known[d.ID]:
			report.DuplicateDrugIDs = append(report.DuplicateDrugIDs, d.ID)
			continue
		}
		known[d.ID] = true
		clean.Drugs = append(clean.Drugs, d)
	}

	aliasOwner := make(map[string]string)
	for _, d := range clean.Drugs {
		for _, alias := range d.Aliases {
			if known[alias] {
				report.AliasCollisions = append(report.AliasCollisions, fmt.Sprintf("%s (alias of %s is a drug id)", alias, d.ID))
				continue
			}
			if owner, taken := aliasOwner[alias]; taken && owner != d.ID {
				report.AliasCollisions = append(report.AliasCollisions, fmt.Sprintf("%s (%s, %s)", alias, owner, d.ID))
				continue
			}
			aliasOwner[alias] = d.ID
		}
	}

	seen := make(map[entities.PairKey]bool, len(set.Interactions))
	for _, r := range set.Interactions {
		label := r.DrugA + "/" + r.DrugB

		switch {
		case r.DrugA == r.DrugB:
			report.SelfPairs = append(report.SelfPairs, label)
			continue
		case !known[r.DrugA] || !known[r.DrugB]:
			report.UnknownDrugReferences = append(report.UnknownDrugReferences, label)
			continue
		case seen[r.Key()]:
			report.DuplicatePairs = append(report.DuplicatePairs, label)
			continue
		case r.RiskScore < 0 || r.RiskScore > 1:
			report.InvalidRiskScores = append(report.InvalidRiskScores, fmt.Sprintf("%s (%g)", label, r.RiskScore))
			continue
		case r.Severity < entities.SeverityMinor || r.Severity > entities.SeverityContraindicated:
			report.MissingSeverities = append(report.MissingSeverities, label)
			continue
		}

		if !r.EvidenceLevel.Valid() {
			report.InvalidEvidenceLevels = append(report.InvalidEvidenceLevels, fmt.Sprintf("%s (%q)", label, r.EvidenceLevel))
		}
		seen[r.Key()] = true
		clean.Interactions = append(clean.Interactions, r)
	}

	report.DrugCount = len(clean.Drugs)
	report.InteractionCount = len(clean.Interactions)

	if skipped := report.SkippedRecords(); skipped > 0 {
		logging.Warn("Knowledge records skipped during validation",
			"skipped", skipped,
			"invalid_drugs", len(report.InvalidDrugs),
			"duplicate_drug_ids", len(report.DuplicateDrugIDs),
			"unknown_drug_references", len(report.UnknownDrugReferences),
			"duplicate_pairs", len(report.DuplicatePairs),
			"self_pairs", len(report.SelfPairs),
			"invalid_risk_scores", len(report.InvalidRiskScores),
			"missing_severities", len(report.MissingSeverities))
	}
	if len(report.AliasCollisions) > 0 || len(report.InvalidEvidenceLevels) > 0 {
		logging.Info("Knowledge data quality notes",
			"alias_collisions", report.AliasCollisions,
			"invalid_evidence_levels", len(report.InvalidEvidenceLevels))
	}

	return clean, report
}
