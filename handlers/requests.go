package handlers

import "github.com/giygas/drug-interactions-api/knowledgeparser/entities"

// AnalyzeRequest is the body of POST /v1/interactions/check
type AnalyzeRequest struct {
	Drugs   []string                 `json:"drugs" validate:"required,min=2,max=100,dive,drugname"`
	Patient *entities.PatientFactors `json:"patient" validate:"omitempty"`
}

// BatchRequest is the body of POST /v1/interactions/batch. Drug names are
// checked per combination so one bad entry only fails its own slot.
type BatchRequest struct {
	Combinations [][]string `json:"combinations" validate:"required,min=1,max=1000"`
}

// VisualizeRequest is the body of POST /v1/interactions/visualize
type VisualizeRequest struct {
	Drugs []string `json:"drugs" validate:"required,min=2,max=100,dive,drugname"`
}

// PairSeverityResponse answers GET /v1/interactions/severity/{drugA}/{drugB}
type PairSeverityResponse struct {
	DrugA       string                      `json:"drugA"`
	DrugB       string                      `json:"drugB"`
	Interaction bool                        `json:"interaction"`
	Message     string                      `json:"message,omitempty"`
	Record      *entities.InteractionRecord `json:"record,omitempty"`
}

// DrugListResponse is one page of GET /v1/drugs
type DrugListResponse struct {
	Data   []entities.DrugSummary `json:"data"`
	Total  int                    `json:"total"`
	Offset int                    `json:"offset"`
	Count  int                    `json:"count"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}
