// Package scheduler provides automated knowledge reloads and staleness
// monitoring for the drug interactions API. It parses the configured source,
// validates it and publishes a new snapshot to the data container.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/drug-interactions-api/data"
	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/logging"
	"github.com/giygas/drug-interactions-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	staleAfter        = 25 * time.Hour
	monitorInterval   = 1 * time.Hour
	defaultReloadSpec = "03:00"
)

// Scheduler handles knowledge reloads and staleness monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	validator interfaces.DataValidator
	schedule  string
	scheduler *gocron.Scheduler

	stopMonitor chan struct{}
	stopOnce    sync.Once
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// schedule is a gocron At() spec such as "03:00" or "06:00;18:00".
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser, validator interfaces.DataValidator, schedule string) *Scheduler {
	if schedule == "" {
		schedule = defaultReloadSpec
	}
	return &Scheduler{
		dataStore:   dataStore,
		parser:      parser,
		validator:   validator,
		schedule:    schedule,
		scheduler:   gocron.NewScheduler(time.Local),
		stopMonitor: make(chan struct{}),
	}
}

// Start performs the initial load, then schedules the daily reloads and the
// staleness monitor
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Error("Failed to perform initial knowledge load", "error", err)
		return fmt.Errorf("initial knowledge load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.schedule).Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to reload knowledge", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()

	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduled reloads and the staleness monitor
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.stopOnce.Do(func() { close(s.stopMonitor) })
}

// updateData parses, validates and publishes one knowledge load. A failed
// load leaves the current snapshot in place.
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting knowledge reload", "source", s.parser.Source())
	start := time.Now()

	set, err := s.parser.ParseKnowledge()
	if err != nil {
		metrics.ObserveReload(false, time.Since(start), 0, 0, 0)
		return fmt.Errorf("failed to parse knowledge: %w", err)
	}

	clean, report := s.validator.ValidateKnowledge(set)
	if len(clean.Drugs) == 0 {
		metrics.ObserveReload(false, time.Since(start), 0, 0, 0)
		return fmt.Errorf("knowledge source %s produced no valid drugs", s.parser.Source())
	}

	snapshot := data.NewSnapshot(clean)
	s.dataStore.UpdateData(snapshot, report)

	elapsed := time.Since(start)
	metrics.ObserveReload(true, elapsed, snapshot.DrugCount(), snapshot.InteractionCount(), report.SkippedRecords())
	logging.Info("Knowledge reload completed",
		"duration", elapsed.String(),
		"drug_count", snapshot.DrugCount(),
		"interaction_count", snapshot.InteractionCount(),
		"skipped_records", report.SkippedRecords())

	return nil
}

// startHealthMonitoring warns when the knowledge has not been reloaded for too long
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopMonitor:
				return
			case <-ticker.C:
				s.checkStaleness()
			}
		}
	}()
}

// checkStaleness reports whether the published knowledge is older than expected
func (s *Scheduler) checkStaleness() bool {
	lastUpdate := s.dataStore.GetLastUpdated()
	if time.Since(lastUpdate) > staleAfter {
		logging.Warn("Knowledge hasn't been reloaded in over 25 hours", "last_update", lastUpdate.Format(time.RFC3339))
		return true
	}
	return false
}
