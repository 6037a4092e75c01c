package entities

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Severity is the categorical clinical significance of an interaction.
// The numeric values define the total order used by every aggregation and
// tie-break: contraindicated > major > moderate > minor > none.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityModerate
	SeverityMajor
	SeverityContraindicated
)

var severityNames = map[Severity]string{
	SeverityNone:            "none",
	SeverityMinor:           "minor",
	SeverityModerate:        "moderate",
	SeverityMajor:           "major",
	SeverityContraindicated: "contraindicated",
}

// Severities lists the interaction severities from least to most severe.
var Severities = []Severity{SeverityMinor, SeverityModerate, SeverityMajor, SeverityContraindicated}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity parses a severity name case-insensitively. "none" is not
// accepted because records always carry an actual severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minor":
		return SeverityMinor, nil
	case "moderate":
		return SeverityModerate, nil
	case "major":
		return SeverityMajor, nil
	case "contraindicated":
		return SeverityContraindicated, nil
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", s)
}

// AtLeast reports whether s is as severe as other or worse.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if strings.EqualFold(name, "none") {
		*s = SeverityNone
		return nil
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// EvidenceLevel grades the supporting literature, A strongest.
type EvidenceLevel string

const (
	EvidenceA EvidenceLevel = "A"
	EvidenceB EvidenceLevel = "B"
	EvidenceC EvidenceLevel = "C"
)

// Valid reports whether the level is one of A, B or C.
func (e EvidenceLevel) Valid() bool {
	return e == EvidenceA || e == EvidenceB || e == EvidenceC
}

// PairKey is the order-independent key of an unordered drug pair.
type PairKey struct {
	First  string
	Second string
}

// NewPairKey canonicalizes the pair by sorting the two identifiers.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{First: a, Second: b}
}

// InteractionRecord is the authored description of a pairwise interaction.
// Severity and RiskScore are independent fields; neither is derived from the
// other.
type InteractionRecord struct {
	DrugA           string        `json:"drugA" yaml:"drug_a"`
	DrugB           string        `json:"drugB" yaml:"drug_b"`
	Severity        Severity      `json:"severity" yaml:"severity"`
	RiskScore       float64       `json:"riskScore" yaml:"risk_score"`
	Description     string        `json:"description" yaml:"description"`
	Mechanism       string        `json:"mechanism" yaml:"mechanism"`
	ClinicalEffects string        `json:"clinicalEffects" yaml:"clinical_effects"`
	EvidenceLevel   EvidenceLevel `json:"evidenceLevel" yaml:"evidence_level"`
	References      []string      `json:"references" yaml:"references"`
	Recommendations []string      `json:"recommendations" yaml:"recommendations"`
}

// Key returns the canonical pair key of the record.
func (r InteractionRecord) Key() PairKey {
	return NewPairKey(r.DrugA, r.DrugB)
}

// Clone returns a deep copy of the record.
func (r InteractionRecord) Clone() InteractionRecord {
	r.References = slices.Clone(r.References)
	r.Recommendations = slices.Clone(r.Recommendations)
	return r
}

// Involves reports whether the record concerns the given drug.
func (r InteractionRecord) Involves(id string) bool {
	return r.DrugA == id || r.DrugB == id
}

// Partner returns the other drug of the pair.
func (r InteractionRecord) Partner(id string) string {
	if r.DrugA == id {
		return r.DrugB
	}
	return r.DrugA
}

// InteractionMatch is an InteractionRecord found among the drugs of a request.
// DrugPair keeps the two identifiers in request order.
type InteractionMatch struct {
	InteractionRecord
	DrugPair    [2]string `json:"drugPair"`
	Explanation string    `json:"explanation"`
}
