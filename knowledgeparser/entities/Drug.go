package entities

import "slices"

// Drug is the immutable reference record of a medication, keyed by its
// canonical identifier (lowercase, trimmed generic name).
type Drug struct {
	ID                string   `json:"id" yaml:"id"`
	Class             string   `json:"class" yaml:"class"`
	Description       string   `json:"description" yaml:"description"`
	Mechanism         string   `json:"mechanism" yaml:"mechanism"`
	HalfLife          string   `json:"halfLife,omitempty" yaml:"half_life"`
	Contraindications []string `json:"contraindications" yaml:"contraindications"`
	Aliases           []string `json:"aliases,omitempty" yaml:"aliases"`
	Enzymes           []string `json:"enzymes,omitempty" yaml:"enzymes"`
	ElderlyCaution    bool     `json:"elderlyCaution,omitempty" yaml:"elderly_caution"`
	PediatricCaution  bool     `json:"pediatricCaution,omitempty" yaml:"pediatric_caution"`
}

// DrugSummary is the short form returned by search and listing operations.
type DrugSummary struct {
	ID          string `json:"id"`
	Class       string `json:"class"`
	Description string `json:"description"`
}

// Summary returns the short form of the drug.
func (d Drug) Summary() DrugSummary {
	return DrugSummary{ID: d.ID, Class: d.Class, Description: d.Description}
}

// Clone returns a deep copy of the drug.
func (d Drug) Clone() Drug {
	d.Contraindications = slices.Clone(d.Contraindications)
	d.Aliases = slices.Clone(d.Aliases)
	d.Enzymes = slices.Clone(d.Enzymes)
	return d
}
