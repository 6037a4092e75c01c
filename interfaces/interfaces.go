// Package interfaces defines core abstractions for the drug interactions API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"errors"
	"net/http"
	"time"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// ErrUnknownDrug is returned by a KnowledgeStore when an identifier has no
// Drug record. It is distinct from "no interaction", which is not an error.
var ErrUnknownDrug = errors.New("unknown drug")

// DataQualityReport provides a summary of data quality issues found while
// loading the knowledge tables
type DataQualityReport struct {
	DrugCount             int      `json:"drug_count"`
	InteractionCount      int      `json:"interaction_count"`
	InvalidDrugs          []string `json:"invalid_drugs"`
	DuplicateDrugIDs      []string `json:"duplicate_drug_ids"`
	AliasCollisions       []string `json:"alias_collisions"`
	UnknownDrugReferences []string `json:"unknown_drug_references"`
	DuplicatePairs        []string `json:"duplicate_pairs"`
	SelfPairs             []string `json:"self_pairs"`
	InvalidRiskScores     []string `json:"invalid_risk_scores"`
	MissingSeverities     []string `json:"missing_severities"`
	InvalidEvidenceLevels []string `json:"invalid_evidence_levels"` // kept, only reported
}

// SkippedRecords returns the number of records dropped from the tables.
func (r *DataQualityReport) SkippedRecords() int {
	if r == nil {
		return 0
	}
	return len(r.InvalidDrugs) + len(r.DuplicateDrugIDs) + len(r.UnknownDrugReferences) +
		len(r.DuplicatePairs) + len(r.SelfPairs) + len(r.InvalidRiskScores) + len(r.MissingSeverities)
}

// KnowledgeStore is the read-only lookup over drug and interaction records.
// Implementations must not change after they are published to readers.
type KnowledgeStore interface {
	// GetDrug returns the drug with the canonical identifier, or an error
	// wrapping ErrUnknownDrug
	GetDrug(id string) (entities.Drug, error)

	// ResolveAlias maps a lowercased name or alias to its canonical identifier
	ResolveAlias(name string) (string, bool)

	// GetInteraction looks up the unordered pair. It returns (nil, nil) when
	// both drugs exist but no record does, and an error wrapping
	// ErrUnknownDrug when either identifier is unknown.
	GetInteraction(idA, idB string) (*entities.InteractionRecord, error)

	// SearchByPrefix matches canonical names case-insensitively
	SearchByPrefix(query string, limit int) []entities.Drug

	// ListAlternativesByClass returns the drugs of a class ordered by identifier
	ListAlternativesByClass(drugClass string) []entities.Drug

	// InteractionsOf returns every record involving the drug
	InteractionsOf(id string) []entities.InteractionRecord

	// Drugs returns all drugs ordered by identifier
	Drugs() []entities.Drug

	DrugCount() int
	InteractionCount() int
}

// DataStore defines the contract for holding the current knowledge snapshot.
// It swaps whole snapshots atomically so readers never see a partial load.
type DataStore interface {
	// Data retrieval methods
	Snapshot() KnowledgeStore
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	GetDataQualityReport() *DataQualityReport

	// Data update methods
	UpdateData(store KnowledgeStore, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for loading the persisted knowledge tables.
type Parser interface {
	// ParseKnowledge reads the drug and interaction tables from the configured source
	ParseKnowledge() (*entities.KnowledgeSet, error)

	// Source names the configured source for logs and health output
	Source() string
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated knowledge reloads and staleness checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// InteractionEngine is the analysis contract consumed by the request layer.
type InteractionEngine interface {
	Analyze(drugs []string, patient *entities.PatientFactors) (*entities.AnalysisResult, error)
	BatchAnalyze(combinations [][]string) ([]entities.BatchItem, error)
	LookupDrug(id string) (entities.Drug, error)
	SearchDrugs(query string, limit int) ([]entities.DrugSummary, error)
	GetAlternatives(drug string, context []string) ([]entities.Alternative, error)
	GetPairSeverity(drugA, drugB string) (*entities.InteractionRecord, error)
	Visualize(drugs []string) (*entities.GraphPayload, error)
	ListDrugs(drugClass string, offset, limit int) ([]entities.DrugSummary, int)
	DrugInteractions(id string) ([]entities.InteractionRecord, error)
	DrugStatistics(id string) (*entities.DrugStatistics, error)
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	// Interaction endpoints
	CheckInteractions(w http.ResponseWriter, r *http.Request)
	BatchCheck(w http.ResponseWriter, r *http.Request)
	PairSeverity(w http.ResponseWriter, r *http.Request)
	Visualize(w http.ResponseWriter, r *http.Request)

	// Drug endpoints
	ListDrugs(w http.ResponseWriter, r *http.Request)
	SearchDrugs(w http.ResponseWriter, r *http.Request)
	FindDrug(w http.ResponseWriter, r *http.Request)
	DrugInteractions(w http.ResponseWriter, r *http.Request)
	DrugStatistics(w http.ResponseWriter, r *http.Request)
	Alternatives(w http.ResponseWriter, r *http.Request)

	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
// It provides system health monitoring and reporting.
type HealthChecker interface {
	// HealthCheck returns current system health status with the HTTP status to use
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
// It ensures data integrity and consistency.
type DataValidator interface {
	// ValidateInput validates user supplied drug names and queries
	ValidateInput(input string) error

	// ValidateStruct validates a decoded request body using its validate tags
	ValidateStruct(v any) error

	// ValidateKnowledge drops broken records and reports what was dropped
	ValidateKnowledge(set *entities.KnowledgeSet) (*entities.KnowledgeSet, *DataQualityReport)
}
