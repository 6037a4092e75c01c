// Package handlers provides HTTP request handlers for the drug interactions API endpoints.
// Each handler validates the request, calls the interaction engine and maps
// engine errors to HTTP status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/drug-interactions-api/engine"
	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
	"github.com/giygas/drug-interactions-api/logging"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	engine        interfaces.InteractionEngine
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(eng interfaces.InteractionEngine, dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		engine:        eng,
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
	}
}

// RespondWithJSON writes a JSON response. Last-Modified follows the
// published knowledge when there is one.
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	lastModified := time.Now()
	if updated := h.dataStore.GetLastUpdated(); !updated.IsZero() {
		lastModified = updated
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", lastModified.UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// respondEngineError maps engine error kinds to status codes
func (h *HTTPHandlerImpl) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		h.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		logging.Error("Engine failure", "path", r.URL.Path, "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody decodes and validates a JSON request body
func (h *HTTPHandlerImpl) decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return h.validator.ValidateStruct(dst)
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

// CheckInteractions analyzes one drug combination
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.Analyze(req.Drugs, req.Patient)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, result)
}

// BatchCheck analyzes several combinations. Combinations with a rejected
// drug name get an error slot and are not sent to the engine.
func (h *HTTPHandlerImpl) BatchCheck(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]entities.BatchItem, len(req.Combinations))
	var valid [][]string
	var positions []int

	for i, combination := range req.Combinations {
		if err := h.validateNames(combination); err != nil {
			items[i] = entities.BatchItem{Index: i, Drugs: combination, Error: err.Error()}
			continue
		}
		valid = append(valid, combination)
		positions = append(positions, i)
	}

	if len(valid) > 0 {
		results, err := h.engine.BatchAnalyze(valid)
		if err != nil {
			h.respondEngineError(w, r, err)
			return
		}
		for k, item := range results {
			item.Index = positions[k]
			items[positions[k]] = item
		}
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"count":   len(items),
		"results": items,
	})
}

func (h *HTTPHandlerImpl) validateNames(names []string) error {
	for i, name := range names {
		if err := h.validator.ValidateInput(name); err != nil {
			return fmt.Errorf("drugs[%d]: %w", i, err)
		}
	}
	return nil
}

// PairSeverity returns the interaction record of two drugs, if any
func (h *HTTPHandlerImpl) PairSeverity(w http.ResponseWriter, r *http.Request) {
	drugA := chi.URLParam(r, "drugA")
	drugB := chi.URLParam(r, "drugB")

	if err := h.validateNames([]string{drugA, drugB}); err != nil {
		logging.Warn("Unusual user input", "drugA", drugA, "drugB", drugB)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.engine.GetPairSeverity(drugA, drugB)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	response := PairSeverityResponse{DrugA: drugA, DrugB: drugB, Interaction: record != nil, Record: record}
	if record == nil {
		response.Message = "no interaction found"
	}
	h.RespondWithJSON(w, http.StatusOK, response)
}

// Visualize returns graph data for a drug combination
func (h *HTTPHandlerImpl) Visualize(w http.ResponseWriter, r *http.Request) {
	var req VisualizeRequest
	if err := h.decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	graph, err := h.engine.Visualize(req.Drugs)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, graph)
}

// ListDrugs returns a page of drugs, optionally filtered by class
func (h *HTTPHandlerImpl) ListDrugs(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("class")
	if class != "" {
		if err := h.validator.ValidateInput(class); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	drugs, total := h.engine.ListDrugs(class, offset, limit)
	h.RespondWithJSON(w, http.StatusOK, DrugListResponse{
		Data:   drugs,
		Total:  total,
		Offset: offset,
		Count:  len(drugs),
	})
}

// SearchDrugs matches drug names against the q parameter
func (h *HTTPHandlerImpl) SearchDrugs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := h.validator.ValidateInput(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.engine.SearchDrugs(query, limit)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	// Always return 200 with results array (empty if no matches)
	h.RespondWithJSON(w, http.StatusOK, results)
}

// drugParam reads and validates the {name} URL parameter
func (h *HTTPHandlerImpl) drugParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		logging.Warn("Unusual user input", "name", name)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return name, true
}

// FindDrug returns one drug by name or alias
func (h *HTTPHandlerImpl) FindDrug(w http.ResponseWriter, r *http.Request) {
	name, ok := h.drugParam(w, r)
	if !ok {
		return
	}

	drug, err := h.engine.LookupDrug(name)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, drug)
}

// DrugInteractions lists every known interaction of a drug
func (h *HTTPHandlerImpl) DrugInteractions(w http.ResponseWriter, r *http.Request) {
	name, ok := h.drugParam(w, r)
	if !ok {
		return
	}

	records, err := h.engine.DrugInteractions(name)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, records)
}

// DrugStatistics summarizes the interactions of a drug
func (h *HTTPHandlerImpl) DrugStatistics(w http.ResponseWriter, r *http.Request) {
	name, ok := h.drugParam(w, r)
	if !ok {
		return
	}

	stats, err := h.engine.DrugStatistics(name)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, stats)
}

// Alternatives ranks the class mates of a drug against the context drugs,
// given as repeated or comma separated context parameters
func (h *HTTPHandlerImpl) Alternatives(w http.ResponseWriter, r *http.Request) {
	name, ok := h.drugParam(w, r)
	if !ok {
		return
	}

	var context []string
	for _, value := range r.URL.Query()["context"] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				context = append(context, part)
			}
		}
	}
	if err := h.validateNames(context); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	alternatives, err := h.engine.GetAlternatives(name, context)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"drug":         name,
		"context":      context,
		"alternatives": alternatives,
	})
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, data, httpStatus := h.healthChecker.HealthCheck()

	var uptime time.Duration
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	response := HealthResponse{
		Status:        status,
		Uptime:        formatUptimeHuman(uptime),
		UptimeSeconds: uptime.Seconds(),
		Data:          data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
