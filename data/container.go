// Package data holds the knowledge store of the drug interactions API.
// A Snapshot indexes one load; the DataContainer publishes snapshots with
// atomic swaps so a reload never blocks or tears a running analysis.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// published is what the container swaps in one step
type published struct {
	store  interfaces.KnowledgeStore
	report *interfaces.DataQualityReport
	at     time.Time
}

// DataContainer holds the current knowledge snapshot for zero-downtime updates
type DataContainer struct {
	current         atomic.Pointer[published]
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container serving an empty snapshot
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.current.Store(&published{
		store:  NewSnapshot(nil),
		report: &interfaces.DataQualityReport{},
	})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Snapshot returns the knowledge store readers should use for one whole operation
func (dc *DataContainer) Snapshot() interfaces.KnowledgeStore {
	if p := dc.current.Load(); p != nil && p.store != nil {
		return p.store
	}

	logging.Warn("Knowledge snapshot is empty or invalid")
	return NewSnapshot(nil)
}

// GetDataQualityReport returns the report of the published load
func (dc *DataContainer) GetDataQualityReport() *interfaces.DataQualityReport {
	if p := dc.current.Load(); p != nil && p.report != nil {
		return p.report
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns when the current snapshot was published, zero before the first load
func (dc *DataContainer) GetLastUpdated() time.Time {
	if p := dc.current.Load(); p != nil {
		return p.at
	}
	return time.Time{}
}

// IsUpdating returns true if a knowledge reload is in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData publishes a new snapshot. A nil store is ignored so a failed
// load keeps serving the previous knowledge.
func (dc *DataContainer) UpdateData(store interfaces.KnowledgeStore, report *interfaces.DataQualityReport) {
	if store == nil {
		logging.Warn("Ignoring nil knowledge store update")
		return
	}
	if report == nil {
		report = &interfaces.DataQualityReport{
			DrugCount:        store.DrugCount(),
			InteractionCount: store.InteractionCount(),
		}
	}

	dc.current.Store(&published{store: store, report: report, at: time.Now()})
}

// BeginUpdate marks the start of a reload.
// Returns true if the reload can proceed, false if another one is running
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
