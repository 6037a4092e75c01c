// Package engine resolves drug interactions over a read-only knowledge
// snapshot: it pairs the requested drugs, looks every pair up, aggregates
// the risk and derives recommendations, safer alternatives and graph data.
//
// Every operation reads one snapshot for its whole duration and keeps no
// state between calls, so an Engine is safe for concurrent use.
package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
	"github.com/giygas/drug-interactions-api/logging"
	"github.com/giygas/drug-interactions-api/metrics"
)

// Compile-time check to ensure Engine implements InteractionEngine
var _ interfaces.InteractionEngine = (*Engine)(nil)

const (
	minDrugs       = 2
	minQueryLength = 2

	defaultPageSize = 20
	maxPageSize     = 100
)

// analysisNamespace seeds the name based analysis ids, so identical requests
// against the same knowledge get identical ids.
var analysisNamespace = uuid.MustParse("6f1c2b9e-4d3a-5e8f-9a7b-2c1d0e3f4a5b")

// Options bounds the work a single call may ask for.
type Options struct {
	MaxDrugs int // drugs per analysis
	MaxBatch int // combinations per batch
	Workers  int // concurrent pair lookups and batch analyses
}

// DefaultOptions returns the limits used when a field is left at zero
func DefaultOptions() Options {
	return Options{MaxDrugs: 20, MaxBatch: 50, Workers: 4}
}

// SnapshotSource hands out the knowledge snapshot current at call time.
// data.DataContainer is the production source.
type SnapshotSource interface {
	Snapshot() interfaces.KnowledgeStore
}

// StaticSource always serves the same store
type StaticSource struct {
	Store interfaces.KnowledgeStore
}

func (s StaticSource) Snapshot() interfaces.KnowledgeStore {
	return s.Store
}

// Engine implements interfaces.InteractionEngine
type Engine struct {
	source   SnapshotSource
	opts     Options
	resolver resolver
}

// New creates an engine reading from source. Zero option fields take their defaults.
func New(source SnapshotSource, opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.MaxDrugs <= 0 {
		opts.MaxDrugs = defaults.MaxDrugs
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = defaults.MaxBatch
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}

	return &Engine{
		source:   source,
		opts:     opts,
		resolver: resolver{workers: opts.Workers},
	}
}

// Analyze resolves every pair of the given drugs and builds the full result.
// Unknown drugs are reported in the result, not as an error.
func (e *Engine) Analyze(drugs []string, patient *entities.PatientFactors) (*entities.AnalysisResult, error) {
	return e.analyze(e.source.Snapshot(), drugs, patient)
}

func (e *Engine) analyze(store interfaces.KnowledgeStore, drugs []string, patient *entities.PatientFactors) (*entities.AnalysisResult, error) {
	start := time.Now()

	in, err := e.prepare("analyze", store, drugs)
	if err != nil {
		return nil, err
	}

	matches, err := e.resolver.resolve(store, GeneratePairs(in.ids))
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result := &entities.AnalysisResult{
		AnalysisID:            analysisID(in.ids, patient),
		DrugCount:             len(in.ids),
		Drugs:                 in.ids,
		InteractionsFound:     len(matches),
		Interactions:          matches,
		OverallRisk:           OverallRisk(matches),
		Recommendations:       Recommend(matches, patient),
		SaferAlternatives:     saferAlternatives(store, in, matches),
		PatientConsiderations: screenPatient(in.known, patient),
		UnknownDrugs:          unknownDrugs(store, in.unknown),
	}

	severities := make([]string, len(matches))
	for i, m := range matches {
		severities[i] = m.Severity.String()
	}
	elapsed := time.Since(start)
	metrics.ObserveAnalysis(result.OverallRisk.String(), severities, len(in.unknown), elapsed)

	logging.Debug("Analysis completed",
		"analysis_id", result.AnalysisID,
		"drugs", result.DrugCount,
		"interactions", result.InteractionsFound,
		"overall_risk", result.OverallRisk.String(),
		"unknown", len(in.unknown),
		"duration", elapsed)

	return result, nil
}

// prepare canonicalizes the request and enforces the drug count bounds
func (e *Engine) prepare(op string, store interfaces.KnowledgeStore, drugs []string) (resolvedInput, error) {
	in, err := canonicalize(op, store, drugs)
	if err != nil {
		return resolvedInput{}, err
	}

	if len(in.ids) < minDrugs {
		return resolvedInput{}, invalidInput(op, strings.Join(drugs, ", "),
			fmt.Sprintf("at least %d distinct drugs are required, got %d", minDrugs, len(in.ids)))
	}
	if len(in.ids) > e.opts.MaxDrugs {
		return resolvedInput{}, invalidInput(op, "",
			fmt.Sprintf("at most %d drugs per request, got %d", e.opts.MaxDrugs, len(in.ids)))
	}
	return in, nil
}

func analysisID(ids []string, patient *entities.PatientFactors) string {
	key := strings.Join(ids, "|")
	if patient != nil {
		age := "-"
		if patient.Age != nil {
			age = strconv.Itoa(*patient.Age)
		}
		key += fmt.Sprintf("#%s#%s#%s", age,
			strings.Join(patient.Conditions, ","), strings.Join(patient.Allergies, ","))
	}
	return uuid.NewSHA1(analysisNamespace, []byte(key)).String()
}

func unknownDrugs(store interfaces.KnowledgeStore, inputs []string) []entities.UnknownDrug {
	unknown := make([]entities.UnknownDrug, 0, len(inputs))
	if len(inputs) == 0 {
		return unknown
	}

	drugs := store.Drugs()
	for _, input := range inputs {
		unknown = append(unknown, entities.UnknownDrug{
			Input:       input,
			Suggestions: suggest(knowledgeparser.NormalizeName(input), drugs),
		})
	}
	return unknown
}

// BatchAnalyze analyzes independent combinations concurrently against one
// snapshot. Output order matches input order; a failing combination only
// fills the Error of its own slot.
func (e *Engine) BatchAnalyze(combinations [][]string) ([]entities.BatchItem, error) {
	if len(combinations) == 0 {
		return nil, invalidInput("batch", "", "no combinations given")
	}
	if len(combinations) > e.opts.MaxBatch {
		return nil, invalidInput("batch", "",
			fmt.Sprintf("at most %d combinations per batch, got %d", e.opts.MaxBatch, len(combinations)))
	}

	store := e.source.Snapshot()
	items := make([]entities.BatchItem, len(combinations))
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup

	for i, drugs := range combinations {
		wg.Add(1)
		go func(i int, drugs []string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item := entities.BatchItem{Index: i, Drugs: drugs}
			result, err := e.analyze(store, drugs, nil)
			if err != nil {
				item.Error = err.Error()
			} else {
				item.Result = result
			}
			items[i] = item
		}(i, drugs)
	}
	wg.Wait()

	failed := 0
	for _, item := range items {
		if item.Error != "" {
			failed++
		}
	}
	metrics.BatchSize.Observe(float64(len(combinations)))
	logging.Debug("Batch analysis completed", "combinations", len(combinations), "failed", failed)

	return items, nil
}

// resolveName canonicalizes one name and returns its drug record
func resolveName(op string, store interfaces.KnowledgeStore, name string) (entities.Drug, error) {
	normalized := knowledgeparser.NormalizeName(name)
	if normalized == "" {
		return entities.Drug{}, invalidInput(op, name, "drug name is empty")
	}

	id := normalized
	if canonical, ok := store.ResolveAlias(normalized); ok {
		id = canonical
	}
	drug, err := store.GetDrug(id)
	if err != nil {
		return entities.Drug{}, notFound(op, normalized)
	}
	return drug, nil
}

// LookupDrug returns the drug for a canonical name or alias
func (e *Engine) LookupDrug(id string) (entities.Drug, error) {
	return resolveName("lookup", e.source.Snapshot(), id)
}

// SearchDrugs matches canonical names. Prefix matches come first.
func (e *Engine) SearchDrugs(query string, limit int) ([]entities.DrugSummary, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		return nil, invalidInput("search", query, fmt.Sprintf("query must be at least %d characters", minQueryLength))
	}

	drugs := e.source.Snapshot().SearchByPrefix(trimmed, limit)
	summaries := make([]entities.DrugSummary, len(drugs))
	for i, d := range drugs {
		summaries[i] = d.Summary()
	}
	return summaries, nil
}

// GetAlternatives lists every class mate of drug with fewer interactions
// against the context than drug itself. An empty list is a valid answer.
func (e *Engine) GetAlternatives(drug string, context []string) ([]entities.Alternative, error) {
	store := e.source.Snapshot()
	target, err := resolveName("alternatives", store, drug)
	if err != nil {
		return nil, err
	}

	in, err := canonicalize("alternatives", store, context)
	if err != nil {
		return nil, err
	}
	return recommendAlternatives(store, target, in.ids, nil), nil
}

// GetPairSeverity returns the record of the unordered pair, nil when the two
// drugs do not interact.
func (e *Engine) GetPairSeverity(drugA, drugB string) (*entities.InteractionRecord, error) {
	store := e.source.Snapshot()

	a, err := resolveName("severity", store, drugA)
	if err != nil {
		return nil, err
	}
	b, err := resolveName("severity", store, drugB)
	if err != nil {
		return nil, err
	}
	if a.ID == b.ID {
		return nil, invalidInput("severity", drugB, "a drug cannot be paired with itself")
	}

	record, err := store.GetInteraction(a.ID, b.ID)
	if err != nil {
		return nil, fmt.Errorf("severity: %w", err)
	}
	return record, nil
}

// Visualize builds the graph payload of a drug combination
func (e *Engine) Visualize(drugs []string) (*entities.GraphPayload, error) {
	store := e.source.Snapshot()

	in, err := e.prepare("visualize", store, drugs)
	if err != nil {
		return nil, err
	}

	matches, err := e.resolver.resolve(store, GeneratePairs(in.ids))
	if err != nil {
		return nil, fmt.Errorf("visualize: %w", err)
	}
	return buildGraph(in, matches), nil
}

// ListDrugs pages through the drugs ordered by id, optionally restricted to
// one class. It also returns the total before paging.
func (e *Engine) ListDrugs(drugClass string, offset, limit int) ([]entities.DrugSummary, int) {
	store := e.source.Snapshot()

	var drugs []entities.Drug
	if class := knowledgeparser.NormalizeName(drugClass); class != "" {
		drugs = store.ListAlternativesByClass(class)
	} else {
		drugs = store.Drugs()
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total := len(drugs)
	summaries := make([]entities.DrugSummary, 0, limit)
	for i := offset; i < total && i < offset+limit; i++ {
		summaries = append(summaries, drugs[i].Summary())
	}
	return summaries, total
}

// DrugInteractions lists every record involving the drug, most severe first,
// then by partner id.
func (e *Engine) DrugInteractions(id string) ([]entities.InteractionRecord, error) {
	store := e.source.Snapshot()
	drug, err := resolveName("interactions", store, id)
	if err != nil {
		return nil, err
	}

	records := store.InteractionsOf(drug.ID)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Severity != records[j].Severity {
			return records[i].Severity > records[j].Severity
		}
		return records[i].Partner(drug.ID) < records[j].Partner(drug.ID)
	})
	return records, nil
}

// DrugStatistics summarizes what the knowledge holds about one drug
func (e *Engine) DrugStatistics(id string) (*entities.DrugStatistics, error) {
	store := e.source.Snapshot()
	drug, err := resolveName("statistics", store, id)
	if err != nil {
		return nil, err
	}

	stats := &entities.DrugStatistics{
		ID:                   drug.ID,
		Class:                drug.Class,
		SeverityDistribution: make(map[string]int, len(entities.Severities)),
		SameClassDrugs:       []string{},
		HighRiskPartners:     []entities.RiskPartner{},
	}
	for _, s := range entities.Severities {
		stats.SeverityDistribution[s.String()] = 0
	}

	for _, r := range store.InteractionsOf(drug.ID) {
		stats.TotalInteractions++
		stats.SeverityDistribution[r.Severity.String()]++
		if r.Severity.AtLeast(entities.SeverityMajor) {
			stats.HighRiskPartners = append(stats.HighRiskPartners, entities.RiskPartner{
				ID:        r.Partner(drug.ID),
				Severity:  r.Severity,
				RiskScore: r.RiskScore,
			})
		}
	}
	sort.SliceStable(stats.HighRiskPartners, func(i, j int) bool {
		a, b := stats.HighRiskPartners[i], stats.HighRiskPartners[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		return a.ID < b.ID
	})

	for _, mate := range store.ListAlternativesByClass(drug.Class) {
		if mate.ID != drug.ID {
			stats.SameClassDrugs = append(stats.SameClassDrugs, mate.ID)
		}
	}
	return stats, nil
}
