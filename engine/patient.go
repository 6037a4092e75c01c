package engine

import (
	"fmt"
	"strings"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// screenPatient lists the patient specific cautions for the known drugs,
// drug by drug in input order: age cautions, then contraindicated
// conditions, then allergies.
func screenPatient(drugs []entities.Drug, patient *entities.PatientFactors) []string {
	considerations := make([]string, 0)
	if patient == nil {
		return considerations
	}

	for _, d := range drugs {
		name := displayName(d.ID)

		if patient.IsElderly() && d.ElderlyCaution {
			considerations = append(considerations, name+": Use with caution in elderly patients")
		}
		if patient.IsPediatric() && d.PediatricCaution {
			considerations = append(considerations, name+": Pediatric dosing required")
		}

		for _, condition := range patient.Conditions {
			if containsFold(d.Contraindications, condition) {
				considerations = append(considerations, fmt.Sprintf("%s: Contraindicated in %s", name, strings.TrimSpace(condition)))
			}
		}

		for _, allergy := range patient.Allergies {
			if matchesAllergy(d, allergy) {
				considerations = append(considerations, fmt.Sprintf("%s: Patient reports allergy to %s", name, strings.TrimSpace(allergy)))
			}
		}
	}
	return considerations
}

// matchesAllergy compares an allergy with the drug id, its class and aliases.
func matchesAllergy(d entities.Drug, allergy string) bool {
	allergy = strings.TrimSpace(allergy)
	if allergy == "" {
		return false
	}
	if strings.EqualFold(allergy, d.ID) || strings.EqualFold(allergy, d.Class) {
		return true
	}
	return containsFold(d.Aliases, allergy)
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}
