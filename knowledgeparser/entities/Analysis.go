package entities

// RecommendationKind classifies a recommendation at generation time.
type RecommendationKind string

const (
	KindUrgent  RecommendationKind = "urgent"
	KindMonitor RecommendationKind = "monitor"
	KindSuggest RecommendationKind = "suggest"
	KindInfo    RecommendationKind = "info"
)

// Recommendation is one rule-generated line of advice.
type Recommendation struct {
	Kind RecommendationKind `json:"kind"`
	Text string             `json:"text"`
}

// Alternative is a substitute candidate scored against a context set.
type Alternative struct {
	ID               string `json:"id"`
	Class            string `json:"class"`
	Reason           string `json:"reason"`
	InteractionCount int    `json:"interactionCount"`
}

// SaferAlternatives groups the alternatives proposed for one drug.
type SaferAlternatives struct {
	Replace DrugSummary   `json:"replace"`
	With    []Alternative `json:"with"`
}

// UnknownDrug reports an identifier with no Drug record, with close names.
type UnknownDrug struct {
	Input       string   `json:"input"`
	Suggestions []string `json:"suggestions"`
}

// AnalysisResult is the outcome of analyzing one drug combination.
type AnalysisResult struct {
	AnalysisID            string              `json:"analysisId"`
	DrugCount             int                 `json:"drugCount"`
	Drugs                 []string            `json:"drugs"`
	InteractionsFound     int                 `json:"interactionsFound"`
	Interactions          []InteractionMatch  `json:"interactions"`
	OverallRisk           Severity            `json:"overallRisk"`
	Recommendations       []Recommendation    `json:"recommendations"`
	SaferAlternatives     []SaferAlternatives `json:"saferAlternatives"`
	PatientConsiderations []string            `json:"patientConsiderations"`
	UnknownDrugs          []UnknownDrug       `json:"unknownDrugs"`
}

// BatchItem is one slot of a batch analysis. Exactly one of Result and Error
// is set.
type BatchItem struct {
	Index  int             `json:"index"`
	Drugs  []string        `json:"drugs"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}
