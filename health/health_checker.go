// Package health provides health checking functionality for the drug interactions API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/drug-interactions-api/config"
	"github.com/giygas/drug-interactions-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore   interfaces.DataStore
	reloadTimes []int // minutes after midnight, sorted
	now         func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
// reloadSchedule uses the RELOAD_SCHEDULE format; an invalid one disables
// the next update estimate.
func NewHealthChecker(dataStore interfaces.DataStore, reloadSchedule string) interfaces.HealthChecker {
	times, _ := config.ParseReloadTimes(reloadSchedule)
	return &HealthCheckerImpl{
		dataStore:   dataStore,
		reloadTimes: times,
		now:         time.Now,
	}
}

// HealthCheck returns the knowledge related health data and the HTTP status
// the /health endpoint should answer with
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	store := h.dataStore.Snapshot()
	report := h.dataStore.GetDataQualityReport()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	drugs := store.DrugCount()
	interactions := store.InteractionCount()
	dataAge := h.now().Sub(lastUpdate)

	switch {
	case drugs == 0 || interactions == 0 || lastUpdate.IsZero():
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 72*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && dataAge > 25*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":     lastUpdate.Format(time.RFC3339),
		"data_age_hours":  math.Round(dataAge.Hours()*10) / 10,
		"drugs":           drugs,
		"interactions":    interactions,
		"skipped_records": report.SkippedRecords(),
		"is_updating":     isUpdating,
	}
	if next := h.CalculateNextUpdate(); !next.IsZero() {
		data["next_update"] = next.Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled reload, zero when no
// schedule is known
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	if len(h.reloadTimes) == 0 {
		return time.Time{}
	}

	now := h.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, minutes := range h.reloadTimes {
		candidate := midnight.Add(time.Duration(minutes) * time.Minute)
		if now.Before(candidate) {
			return candidate
		}
	}

	// Past the last slot: first slot tomorrow
	first := h.reloadTimes[0]
	return midnight.AddDate(0, 0, 1).Add(time.Duration(first) * time.Minute)
}
