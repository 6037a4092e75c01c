package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/giygas/drug-interactions-api/data"
	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

func newTestStore(t testing.TB) interfaces.KnowledgeStore {
	t.Helper()
	set, err := knowledgeparser.DefaultKnowledge()
	if err != nil {
		t.Fatalf("Failed to load default knowledge: %v", err)
	}
	return data.NewSnapshot(set)
}

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	return New(StaticSource{Store: newTestStore(t)}, Options{})
}

func TestNewAppliesDefaults(t *testing.T) {
	e := New(StaticSource{}, Options{MaxDrugs: 5})
	if e.opts.MaxDrugs != 5 || e.opts.MaxBatch != 50 || e.opts.Workers != 4 {
		t.Errorf("unexpected options %+v", e.opts)
	}
}

func TestAnalyze_MajorPair(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze([]string{"warfarin", "aspirin"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.InteractionsFound != 1 || len(result.Interactions) != 1 {
		t.Fatalf("Expected exactly 1 interaction, got %d", len(result.Interactions))
	}
	match := result.Interactions[0]
	if match.Severity != entities.SeverityMajor {
		t.Errorf("Expected major severity, got %s", match.Severity)
	}
	if result.OverallRisk != entities.SeverityMajor {
		t.Errorf("Expected overall risk major, got %s", result.OverallRisk)
	}
	if match.DrugPair != [2]string{"warfarin", "aspirin"} {
		t.Errorf("DrugPair should keep request order, got %v", match.DrugPair)
	}
	if !strings.HasPrefix(match.Explanation, "Warfarin and Aspirin have a major interaction. Mechanism: ") {
		t.Errorf("Unexpected explanation %q", match.Explanation)
	}
	if result.DrugCount != 2 || !reflect.DeepEqual(result.Drugs, []string{"warfarin", "aspirin"}) {
		t.Errorf("Unexpected drugs %v", result.Drugs)
	}

	// one major pair: no aggregate directive, the three authored lines
	if len(result.Recommendations) != 3 {
		t.Fatalf("Expected 3 recommendations, got %+v", result.Recommendations)
	}
	for _, rec := range result.Recommendations {
		if rec.Kind != entities.KindSuggest {
			t.Errorf("Expected suggest kind, got %s", rec.Kind)
		}
	}
	if result.Recommendations[0].Text != "Monitor INR closely" {
		t.Errorf("Unexpected first recommendation %q", result.Recommendations[0].Text)
	}

	// neither drug has a class mate
	if len(result.SaferAlternatives) != 0 {
		t.Errorf("Expected no alternatives, got %+v", result.SaferAlternatives)
	}
	if len(result.UnknownDrugs) != 0 || len(result.PatientConsiderations) != 0 {
		t.Error("Expected empty unknown drugs and considerations")
	}
}

func TestAnalyze_NoInteractions(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze([]string{"metformin", "lisinopril", "amoxicillin"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Interactions) != 0 {
		t.Errorf("Expected no interactions, got %+v", result.Interactions)
	}
	if result.OverallRisk != entities.SeverityNone {
		t.Errorf("Expected overall risk none, got %s", result.OverallRisk)
	}

	want := []entities.Recommendation{{Kind: entities.KindInfo, Text: noFindingDirective}}
	if !reflect.DeepEqual(result.Recommendations, want) {
		t.Errorf("Expected %+v, got %+v", want, result.Recommendations)
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(body, []byte(`"interactions":[]`)) || !bytes.Contains(body, []byte(`"overallRisk":"none"`)) {
		t.Errorf("Unexpected JSON %s", body)
	}
}

func TestAnalyze_UnknownDrug(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze([]string{"unknownDrugXYZ", "aspirin"}, nil)
	if err != nil {
		t.Fatalf("Unknown drugs must not fail the analysis: %v", err)
	}

	if len(result.UnknownDrugs) != 1 || result.UnknownDrugs[0].Input != "unknownDrugXYZ" {
		t.Fatalf("Expected unknownDrugXYZ reported, got %+v", result.UnknownDrugs)
	}
	if len(result.Interactions) != 0 || result.OverallRisk != entities.SeverityNone {
		t.Errorf("Expected no interactions, got %+v", result.Interactions)
	}
	if result.DrugCount != 2 {
		t.Errorf("Unknown drugs still count, got %d", result.DrugCount)
	}
}

func TestAnalyze_UnknownDrugKeepsValidPairs(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze([]string{"warfrin", "warfarin", "aspirin", "warfrin", "ghost"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Interactions) != 1 {
		t.Errorf("Expected the warfarin/aspirin interaction, got %+v", result.Interactions)
	}
	if len(result.UnknownDrugs) != 2 {
		t.Fatalf("Each unknown drug is reported once, got %+v", result.UnknownDrugs)
	}
	if result.UnknownDrugs[0].Input != "warfrin" || result.UnknownDrugs[1].Input != "ghost" {
		t.Errorf("Unknown drugs should keep first-seen order, got %+v", result.UnknownDrugs)
	}
	if s := result.UnknownDrugs[0].Suggestions; len(s) == 0 || s[0] != "warfarin" {
		t.Errorf("Expected warfarin as first suggestion, got %v", s)
	}
}

func TestAnalyze_ContraindicatedCombination(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze([]string{"simvastatin", "clarithromycin", "atorvastatin"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.OverallRisk != entities.SeverityContraindicated {
		t.Errorf("Expected contraindicated, got %s", result.OverallRisk)
	}
	if len(result.Interactions) != 2 {
		t.Fatalf("Expected 2 interactions, got %d", len(result.Interactions))
	}
	if result.Interactions[0].Severity != entities.SeverityContraindicated {
		t.Error("Interactions should follow pair order")
	}

	wantHead := []entities.Recommendation{
		{Kind: entities.KindUrgent, Text: "Avoid combination: simvastatin + clarithromycin is contraindicated"},
		{Kind: entities.KindMonitor, Text: "Requires close monitoring: 2 major or contraindicated interactions"},
		{Kind: entities.KindSuggest, Text: "Suspend simvastatin during clarithromycin therapy"},
	}
	if len(result.Recommendations) != 6 {
		t.Fatalf("Expected 6 recommendations, got %+v", result.Recommendations)
	}
	if !reflect.DeepEqual(result.Recommendations[:3], wantHead) {
		t.Errorf("Expected %+v, got %+v", wantHead, result.Recommendations[:3])
	}

	want := map[string]string{
		"simvastatin":    "pravastatin",
		"clarithromycin": "azithromycin",
		"atorvastatin":   "pravastatin",
	}
	if len(result.SaferAlternatives) != len(want) {
		t.Fatalf("Expected %d alternative groups, got %+v", len(want), result.SaferAlternatives)
	}
	order := []string{"simvastatin", "clarithromycin", "atorvastatin"}
	for i, group := range result.SaferAlternatives {
		if group.Replace.ID != order[i] {
			t.Errorf("Group %d: expected %s, got %s", i, order[i], group.Replace.ID)
		}
		if len(group.With) != 1 || group.With[0].ID != want[group.Replace.ID] {
			t.Errorf("%s: expected %s, got %+v", group.Replace.ID, want[group.Replace.ID], group.With)
		}
	}
}

func TestAnalyze_PatientFactors(t *testing.T) {
	e := newTestEngine(t)
	patient := &entities.PatientFactors{
		Age:        ageOf(70),
		Conditions: []string{"Peptic Ulcer"},
		Allergies:  []string{"advil"},
	}

	result, err := e.Analyze([]string{"warfarin", "ibuprofen"}, patient)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	wantConsiderations := []string{
		"Warfarin: Use with caution in elderly patients",
		"Ibuprofen: Use with caution in elderly patients",
		"Ibuprofen: Contraindicated in Peptic Ulcer",
		"Ibuprofen: Patient reports allergy to advil",
	}
	if !reflect.DeepEqual(result.PatientConsiderations, wantConsiderations) {
		t.Errorf("Expected %q, got %q", wantConsiderations, result.PatientConsiderations)
	}

	if len(result.Recommendations) != 4 {
		t.Fatalf("Expected 4 recommendations, got %+v", result.Recommendations)
	}
	if result.Recommendations[0] != (entities.Recommendation{Kind: entities.KindMonitor, Text: elderlyDirective}) {
		t.Errorf("Expected age directive first, got %+v", result.Recommendations[0])
	}

	if len(result.SaferAlternatives) != 1 {
		t.Fatalf("Expected alternatives for ibuprofen only, got %+v", result.SaferAlternatives)
	}
	group := result.SaferAlternatives[0]
	if group.Replace.ID != "ibuprofen" || len(group.With) != 1 || group.With[0].ID != "acetaminophen" {
		t.Errorf("Expected ibuprofen -> acetaminophen, got %+v", group)
	}
}

func TestAnalyze_PatientChangesOnlyNarrative(t *testing.T) {
	e := newTestEngine(t)
	drugs := []string{"warfarin", "aspirin", "ibuprofen"}

	plain, err := e.Analyze(drugs, nil)
	if err != nil {
		t.Fatal(err)
	}
	elderly, err := e.Analyze(drugs, &entities.PatientFactors{Age: ageOf(80)})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(plain.Interactions, elderly.Interactions) || plain.OverallRisk != elderly.OverallRisk {
		t.Error("Patient factors must not change the resolved interactions")
	}
	if plain.AnalysisID == elderly.AnalysisID {
		t.Error("Different patient factors should give different analysis ids")
	}
}

func TestAnalyze_NewbornIsNotUnsetAge(t *testing.T) {
	e := newTestEngine(t)
	drugs := []string{"aspirin", "amoxicillin"}

	unset, err := e.Analyze(drugs, &entities.PatientFactors{})
	if err != nil {
		t.Fatal(err)
	}
	newborn, err := e.Analyze(drugs, &entities.PatientFactors{Age: ageOf(0)})
	if err != nil {
		t.Fatal(err)
	}

	if len(unset.PatientConsiderations) != 0 {
		t.Errorf("Expected no considerations without an age, got %v", unset.PatientConsiderations)
	}
	if len(newborn.PatientConsiderations) == 0 {
		t.Error("Expected pediatric considerations for age 0")
	}
	if unset.AnalysisID == newborn.AnalysisID {
		t.Error("Age 0 and a missing age should give different analysis ids")
	}
}

func TestAnalyze_AliasesAndDuplicates(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Analyze([]string{"Coumadin", "  ASPIRIN ", "warfarin", "acetylsalicylic acid"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Drugs, []string{"warfarin", "aspirin"}) {
		t.Errorf("Expected canonical deduplicated drugs, got %v", result.Drugs)
	}
	if len(result.Interactions) != 1 {
		t.Errorf("Expected 1 interaction, got %d", len(result.Interactions))
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	e := New(StaticSource{Store: newTestStore(t)}, Options{MaxDrugs: 3})

	tests := []struct {
		name   string
		drugs  []string
		reason string
	}{
		{"nil", nil, "at least 2 distinct drugs"},
		{"single", []string{"warfarin"}, "at least 2 distinct drugs"},
		{"duplicates collapse", []string{"warfarin", "coumadin", "WARFARIN"}, "got 1"},
		{"empty name", []string{"warfarin", "  "}, "position 1 is empty"},
		{"too many", []string{"warfarin", "aspirin", "ibuprofen", "naproxen"}, "at most 3 drugs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Analyze(tt.drugs, nil)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Expected invalid input, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("Expected error containing %q, got %q", tt.reason, err.Error())
			}
			var engineErr *Error
			if !errors.As(err, &engineErr) || engineErr.Op != "analyze" {
				t.Errorf("Expected *Error for analyze, got %#v", err)
			}
		})
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	drugs := []string{"warfarin", "aspirin", "ibuprofen", "lisinopril", "naproxen", "ghost"}
	patient := &entities.PatientFactors{Age: ageOf(67), Conditions: []string{"peptic ulcer"}}

	first, err := e.Analyze(drugs, patient)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Analyze(drugs, patient)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("Repeated analysis differs:\n%s\n%s", a, b)
	}
}

func TestAnalyze_OverallRiskIsMaximum(t *testing.T) {
	e := newTestEngine(t)
	drugs := []string{"warfarin", "aspirin", "ibuprofen", "lisinopril", "metformin", "simvastatin", "clarithromycin"}

	for i := 0; i < len(drugs)-1; i++ {
		for j := i + 1; j < len(drugs); j++ {
			result, err := e.Analyze(drugs[i:j+1], nil)
			if err != nil {
				t.Fatal(err)
			}
			want := entities.SeverityNone
			for _, m := range result.Interactions {
				if m.Severity > want {
					want = m.Severity
				}
			}
			if result.OverallRisk != want {
				t.Errorf("%v: expected %s, got %s", drugs[i:j+1], want, result.OverallRisk)
			}
		}
	}
}

func TestBatchAnalyze(t *testing.T) {
	e := newTestEngine(t)

	items, err := e.BatchAnalyze([][]string{
		{"warfarin", "aspirin"},
		{"warfarin"},
		{"metformin", "lisinopril"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	for i, item := range items {
		if item.Index != i {
			t.Errorf("Item %d has index %d", i, item.Index)
		}
	}
	if items[0].Result == nil || items[0].Result.OverallRisk != entities.SeverityMajor {
		t.Errorf("Item 0: expected major result, got %+v", items[0])
	}
	if items[1].Result != nil || !strings.Contains(items[1].Error, "invalid input") {
		t.Errorf("Item 1: expected isolated error, got %+v", items[1])
	}
	if items[2].Result == nil || items[2].Result.OverallRisk != entities.SeverityNone {
		t.Errorf("Item 2: expected none result, got %+v", items[2])
	}

	single, err := e.Analyze([]string{"warfarin", "aspirin"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(single, items[0].Result) {
		t.Error("Batch results should equal single analyses")
	}
}

func TestBatchAnalyze_Bounds(t *testing.T) {
	e := New(StaticSource{Store: newTestStore(t)}, Options{MaxBatch: 2})

	if _, err := e.BatchAnalyze(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected invalid input for an empty batch, got %v", err)
	}

	three := [][]string{{"warfarin", "aspirin"}, {"warfarin", "aspirin"}, {"warfarin", "aspirin"}}
	if _, err := e.BatchAnalyze(three); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected invalid input above the batch limit, got %v", err)
	}
}

func TestLookupDrug(t *testing.T) {
	e := newTestEngine(t)

	drug, err := e.LookupDrug(" Tylenol ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if drug.ID != "acetaminophen" {
		t.Errorf("Expected acetaminophen, got %s", drug.ID)
	}

	_, err = e.LookupDrug("Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
	if err.Error() != `lookup: not found "nope": no drug record` {
		t.Errorf("Unexpected message %q", err.Error())
	}

	if _, err := e.LookupDrug(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected invalid input for an empty name, got %v", err)
	}
}

func TestSearchDrugs(t *testing.T) {
	e := newTestEngine(t)

	results, err := e.SearchDrugs("wa", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) == 0 || len(results) > 5 {
		t.Fatalf("Expected 1 to 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !strings.Contains(r.ID, "wa") {
			t.Errorf("%s does not match wa", r.ID)
		}
	}

	results, err = e.SearchDrugs("AM", 0)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	want := []string{"amiodarone", "amoxicillin", "acetaminophen", "tramadol"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected prefix matches first %v, got %v", want, ids)
	}

	for _, q := range []string{"", "a", " w "} {
		if _, err := e.SearchDrugs(q, 10); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected invalid input for %q, got %v", q, err)
		}
	}
}

func TestGetAlternatives(t *testing.T) {
	e := newTestEngine(t)

	alternatives, err := e.GetAlternatives("ibuprofen", []string{"warfarin"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(alternatives) != 1 || alternatives[0].ID != "acetaminophen" {
		t.Fatalf("Expected only acetaminophen, got %+v", alternatives)
	}
	if alternatives[0].InteractionCount != 0 || alternatives[0].Class != "analgesic" {
		t.Errorf("Unexpected alternative %+v", alternatives[0])
	}

	none, err := e.GetAlternatives("warfarin", []string{"aspirin"})
	if err != nil || len(none) != 0 {
		t.Errorf("Expected an empty list without error, got %+v, %v", none, err)
	}

	if _, err := e.GetAlternatives("ghost", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestGetAlternatives_NeverWorseThanTarget(t *testing.T) {
	store := newTestStore(t)
	e := New(StaticSource{Store: store}, Options{})
	contexts := [][]string{
		nil,
		{"warfarin"},
		{"warfarin", "lisinopril"},
		{"clarithromycin", "metformin"},
		{"tramadol", "digoxin", "warfarin"},
	}

	for _, drug := range store.Drugs() {
		for _, context := range contexts {
			alternatives, err := e.GetAlternatives(drug.ID, context)
			if err != nil {
				t.Fatal(err)
			}
			baseline := countInteractions(store, drug.ID, context)
			for i, alt := range alternatives {
				if alt.InteractionCount >= baseline {
					t.Errorf("%s %v: %s has %d interactions, target has %d", drug.ID, context, alt.ID, alt.InteractionCount, baseline)
				}
				if alt.ID == drug.ID {
					t.Errorf("%s proposed as its own alternative", drug.ID)
				}
				if i > 0 && alternatives[i-1].InteractionCount > alt.InteractionCount {
					t.Errorf("%s %v: alternatives not ordered", drug.ID, context)
				}
			}
		}
	}
}

func TestGetPairSeverity(t *testing.T) {
	e := newTestEngine(t)

	record, err := e.GetPairSeverity("warfarin", "aspirin")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if record == nil || record.Severity != entities.SeverityMajor {
		t.Fatalf("Expected major record, got %+v", record)
	}

	record, err = e.GetPairSeverity("warfarin", "metformin")
	if err != nil || record != nil {
		t.Errorf("Expected no interaction, got %+v, %v", record, err)
	}

	if _, err := e.GetPairSeverity("warfarin", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
	if _, err := e.GetPairSeverity("warfarin", "coumadin"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected invalid input for a self pair, got %v", err)
	}
}

func TestGetPairSeverity_Symmetric(t *testing.T) {
	store := newTestStore(t)
	e := New(StaticSource{Store: store}, Options{})
	drugs := store.Drugs()

	for i := range drugs {
		for j := i + 1; j < len(drugs); j++ {
			ab, errAB := e.GetPairSeverity(drugs[i].ID, drugs[j].ID)
			ba, errBA := e.GetPairSeverity(drugs[j].ID, drugs[i].ID)
			if errAB != nil || errBA != nil {
				t.Fatalf("Unexpected errors %v, %v", errAB, errBA)
			}
			if !reflect.DeepEqual(ab, ba) {
				t.Errorf("%s/%s is not symmetric", drugs[i].ID, drugs[j].ID)
			}
		}
	}
}

func TestListDrugs(t *testing.T) {
	e := newTestEngine(t)

	page, total := e.ListDrugs("", 0, 0)
	if total != 24 || len(page) != defaultPageSize {
		t.Errorf("Expected %d of 24, got %d of %d", defaultPageSize, len(page), total)
	}

	page, total = e.ListDrugs("", 22, 5)
	if total != 24 || len(page) != 2 {
		t.Errorf("Expected the last 2 drugs, got %d", len(page))
	}

	page, total = e.ListDrugs(" STATIN ", 0, 10)
	if total != 3 || len(page) != 3 || page[0].ID != "atorvastatin" || page[2].ID != "simvastatin" {
		t.Errorf("Unexpected statin page %+v (%d)", page, total)
	}

	page, total = e.ListDrugs("statin", 10, 10)
	if total != 3 || len(page) != 0 {
		t.Errorf("Expected an empty page past the end, got %+v", page)
	}
}

func TestDrugInteractions(t *testing.T) {
	e := newTestEngine(t)

	records, err := e.DrugInteractions("coumadin")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var partners []string
	for _, r := range records {
		partners = append(partners, r.Partner("warfarin"))
	}
	want := []string{"amiodarone", "aspirin", "ibuprofen", "naproxen", "fluoxetine"}
	if !reflect.DeepEqual(partners, want) {
		t.Errorf("Expected %v, got %v", want, partners)
	}

	if _, err := e.DrugInteractions("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestDrugStatistics(t *testing.T) {
	e := newTestEngine(t)

	stats, err := e.DrugStatistics("warfarin")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.TotalInteractions != 5 {
		t.Errorf("Expected 5 interactions, got %d", stats.TotalInteractions)
	}
	wantDist := map[string]int{"minor": 0, "moderate": 1, "major": 4, "contraindicated": 0}
	if !reflect.DeepEqual(stats.SeverityDistribution, wantDist) {
		t.Errorf("Expected %v, got %v", wantDist, stats.SeverityDistribution)
	}
	var partners []string
	for _, p := range stats.HighRiskPartners {
		partners = append(partners, p.ID)
	}
	if want := []string{"aspirin", "amiodarone", "ibuprofen", "naproxen"}; !reflect.DeepEqual(partners, want) {
		t.Errorf("Expected %v, got %v", want, partners)
	}
	if len(stats.SameClassDrugs) != 0 {
		t.Errorf("warfarin has no class mates, got %v", stats.SameClassDrugs)
	}

	stats, err = e.DrugStatistics("zocor")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stats.SameClassDrugs, []string{"atorvastatin", "pravastatin"}) {
		t.Errorf("Unexpected class mates %v", stats.SameClassDrugs)
	}
}

func TestEngineFollowsSource(t *testing.T) {
	container := data.NewDataContainer()
	e := New(container, Options{})

	result, err := e.Analyze([]string{"warfarin", "aspirin"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.UnknownDrugs) != 2 {
		t.Errorf("Empty knowledge should report both drugs unknown, got %+v", result.UnknownDrugs)
	}

	container.UpdateData(newTestStore(t), nil)
	result, err = e.Analyze([]string{"warfarin", "aspirin"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Interactions) != 1 {
		t.Error("Engine should read the snapshot published after a reload")
	}
}

func BenchmarkAnalyze(b *testing.B) {
	e := newTestEngine(b)
	drugs := []string{"warfarin", "aspirin", "ibuprofen", "lisinopril", "naproxen", "spironolactone", "metformin", "simvastatin"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Analyze(drugs, nil); err != nil {
			b.Fatal(err)
		}
	}
}
