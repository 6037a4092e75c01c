package interfaces

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// mockStore is a two drug KnowledgeStore used to check the contract shape
type mockStore struct {
	drugs  map[string]entities.Drug
	record *entities.InteractionRecord
}

func (m *mockStore) GetDrug(id string) (entities.Drug, error) {
	if d, ok := m.drugs[id]; ok {
		return d, nil
	}
	return entities.Drug{}, fmt.Errorf("%q: %w", id, ErrUnknownDrug)
}

func (m *mockStore) ResolveAlias(name string) (string, bool) {
	_, ok := m.drugs[name]
	return name, ok
}

func (m *mockStore) GetInteraction(idA, idB string) (*entities.InteractionRecord, error) {
	for _, id := range []string{idA, idB} {
		if _, err := m.GetDrug(id); err != nil {
			return nil, err
		}
	}
	if m.record != nil && m.record.Key() == entities.NewPairKey(idA, idB) {
		return m.record, nil
	}
	return nil, nil
}

func (m *mockStore) SearchByPrefix(query string, limit int) []entities.Drug { return nil }
func (m *mockStore) ListAlternativesByClass(drugClass string) []entities.Drug { return nil }
func (m *mockStore) InteractionsOf(id string) []entities.InteractionRecord { return nil }
func (m *mockStore) Drugs() []entities.Drug { return nil }
func (m *mockStore) DrugCount() int { return len(m.drugs) }
func (m *mockStore) InteractionCount() int { return 1 }

// mockDataStore holds a single store
type mockDataStore struct {
	store    KnowledgeStore
	report   *DataQualityReport
	updated  time.Time
	updating bool
}

func (m *mockDataStore) Snapshot() KnowledgeStore { return m.store }
func (m *mockDataStore) GetLastUpdated() time.Time { return m.updated }
func (m *mockDataStore) IsUpdating() bool { return m.updating }
func (m *mockDataStore) GetServerStartTime() time.Time { return time.Time{} }
func (m *mockDataStore) GetDataQualityReport() *DataQualityReport { return m.report }
func (m *mockDataStore) BeginUpdate() bool { m.updating = true; return true }
func (m *mockDataStore) EndUpdate() { m.updating = false }
func (m *mockDataStore) UpdateData(store KnowledgeStore, report *DataQualityReport) {
	m.store, m.report, m.updated = store, report, time.Now()
}

// Compile-time checks for the mocks
var (
	_ KnowledgeStore = (*mockStore)(nil)
	_ DataStore      = (*mockDataStore)(nil)
)

func newMockStore() *mockStore {
	return &mockStore{
		drugs: map[string]entities.Drug{
			"warfarin": {ID: "warfarin", Class: "anticoagulant"},
			"aspirin":  {ID: "aspirin", Class: "antiplatelet"},
			"calcium":  {ID: "calcium", Class: "supplement"},
		},
		record: &entities.InteractionRecord{DrugA: "aspirin", DrugB: "warfarin", Severity: entities.SeverityMajor},
	}
}

func TestKnowledgeStoreContract(t *testing.T) {
	var store KnowledgeStore = newMockStore()

	record, err := store.GetInteraction("warfarin", "aspirin")
	if err != nil || record == nil {
		t.Fatalf("Expected a record, got %v, %v", record, err)
	}

	// Known drugs without a record: absence, not an error
	record, err = store.GetInteraction("warfarin", "calcium")
	if err != nil || record != nil {
		t.Errorf("Expected (nil, nil), got %v, %v", record, err)
	}

	_, err = store.GetInteraction("warfarin", "ghost")
	if !errors.Is(err, ErrUnknownDrug) {
		t.Errorf("Expected ErrUnknownDrug, got %v", err)
	}
}

func TestDataStoreSwapsWholeStore(t *testing.T) {
	ds := &mockDataStore{}
	if !ds.BeginUpdate() || !ds.IsUpdating() {
		t.Fatal("BeginUpdate should mark the store as updating")
	}

	store := newMockStore()
	ds.UpdateData(store, &DataQualityReport{DrugCount: 3})
	ds.EndUpdate()

	if ds.Snapshot() != KnowledgeStore(store) || ds.IsUpdating() {
		t.Error("UpdateData should publish the new store")
	}
	if ds.GetLastUpdated().IsZero() {
		t.Error("UpdateData should stamp the update time")
	}
}

func TestSkippedRecords(t *testing.T) {
	tests := []struct {
		name     string
		report   *DataQualityReport
		expected int
	}{
		{"nil report", nil, 0},
		{"empty report", &DataQualityReport{}, 0},
		{
			"notes are not skipped",
			&DataQualityReport{AliasCollisions: []string{"x"}, InvalidEvidenceLevels: []string{"y"}},
			0,
		},
		{
			"every dropped category counts",
			&DataQualityReport{
				InvalidDrugs:          []string{"a"},
				DuplicateDrugIDs:      []string{"b"},
				UnknownDrugReferences: []string{"c", "d"},
				DuplicatePairs:        []string{"e"},
				SelfPairs:             []string{"f"},
				InvalidRiskScores:     []string{"g"},
				MissingSeverities:     []string{"h"},
			},
			8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.SkippedRecords(); got != tt.expected {
				t.Errorf("SkippedRecords() = %d, want %d", got, tt.expected)
			}
		})
	}
}
