package data

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// Compile-time check to ensure Snapshot implements KnowledgeStore
var _ interfaces.KnowledgeStore = (*Snapshot)(nil)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Snapshot is an immutable, fully indexed view of one knowledge load.
// Every method is safe for concurrent use because nothing is written after NewSnapshot returns.
type Snapshot struct {
	drugs        map[string]entities.Drug
	aliases      map[string]string
	pairs        map[entities.PairKey]*entities.InteractionRecord
	byClass      map[string][]entities.Drug
	byDrug       map[string][]entities.InteractionRecord
	sortedDrugs  []entities.Drug
	interactions int
}

// NewSnapshot indexes a validated knowledge set. The first record wins for a
// repeated drug id or pair, records that reference unknown drugs are ignored,
// and an alias never shadows a canonical id.
func NewSnapshot(set *entities.KnowledgeSet) *Snapshot {
	s := &Snapshot{
		drugs:   make(map[string]entities.Drug),
		aliases: make(map[string]string),
		pairs:   make(map[entities.PairKey]*entities.InteractionRecord),
		byClass: make(map[string][]entities.Drug),
		byDrug:  make(map[string][]entities.InteractionRecord),
	}
	if set == nil {
		return s
	}

	for _, d := range set.Drugs {
		d = d.Clone()
		if d.ID == "" {
			continue
		}
		if _, exists := s.drugs[d.ID]; exists {
			continue
		}
		s.drugs[d.ID] = d
		s.sortedDrugs = append(s.sortedDrugs, d)
		s.byClass[d.Class] = append(s.byClass[d.Class], d)
	}

	for _, d := range s.sortedDrugs {
		for _, alias := range d.Aliases {
			if _, isDrug := s.drugs[alias]; isDrug {
				continue
			}
			if _, taken := s.aliases[alias]; !taken {
				s.aliases[alias] = d.ID
			}
		}
	}

	for i := range set.Interactions {
		r := set.Interactions[i].Clone()
		if r.DrugA == r.DrugB {
			continue
		}
		if _, ok := s.drugs[r.DrugA]; !ok {
			continue
		}
		if _, ok := s.drugs[r.DrugB]; !ok {
			continue
		}
		key := r.Key()
		if _, exists := s.pairs[key]; exists {
			continue
		}
		s.pairs[key] = &r
		s.byDrug[r.DrugA] = append(s.byDrug[r.DrugA], r)
		s.byDrug[r.DrugB] = append(s.byDrug[r.DrugB], r)
		s.interactions++
	}

	sort.Slice(s.sortedDrugs, func(i, j int) bool { return s.sortedDrugs[i].ID < s.sortedDrugs[j].ID })
	for class := range s.byClass {
		members := s.byClass[class]
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	}

	return s
}

// GetDrug returns a deep copy of the drug record
func (s *Snapshot) GetDrug(id string) (entities.Drug, error) {
	d, ok := s.drugs[id]
	if !ok {
		return entities.Drug{}, fmt.Errorf("%w: %s", interfaces.ErrUnknownDrug, id)
	}
	return d.Clone(), nil
}

// ResolveAlias returns the canonical id for a canonical id or an alias
func (s *Snapshot) ResolveAlias(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := s.drugs[name]; ok {
		return name, true
	}
	id, ok := s.aliases[name]
	return id, ok
}

// GetInteraction returns a deep copy of the record so callers cannot alter the snapshot
func (s *Snapshot) GetInteraction(idA, idB string) (*entities.InteractionRecord, error) {
	for _, id := range []string{idA, idB} {
		if _, ok := s.drugs[id]; !ok {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrUnknownDrug, id)
		}
	}

	r, ok := s.pairs[entities.NewPairKey(idA, idB)]
	if !ok {
		return nil, nil
	}
	record := r.Clone()
	return &record, nil
}

// SearchByPrefix returns drugs whose id contains the query, prefix matches
// first, each group by id. limit defaults to 10 and is capped at 50.
func (s *Snapshot) SearchByPrefix(query string, limit int) []entities.Drug {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []entities.Drug{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	var prefix, substring []entities.Drug
	for _, d := range s.sortedDrugs {
		switch {
		case strings.HasPrefix(d.ID, query):
			prefix = append(prefix, d)
		case strings.Contains(d.ID, query):
			substring = append(substring, d)
		}
	}

	results := append(prefix, substring...)
	if len(results) > limit {
		results = results[:limit]
	}
	return cloneDrugs(results)
}

func (s *Snapshot) ListAlternativesByClass(drugClass string) []entities.Drug {
	return cloneDrugs(s.byClass[drugClass])
}

func (s *Snapshot) InteractionsOf(id string) []entities.InteractionRecord {
	records := s.byDrug[id]
	out := make([]entities.InteractionRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func (s *Snapshot) Drugs() []entities.Drug {
	return cloneDrugs(s.sortedDrugs)
}

func (s *Snapshot) DrugCount() int {
	return len(s.sortedDrugs)
}

func (s *Snapshot) InteractionCount() int {
	return s.interactions
}

func cloneDrugs(drugs []entities.Drug) []entities.Drug {
	out := make([]entities.Drug, len(drugs))
	for i, d := range drugs {
		out[i] = d.Clone()
	}
	return out
}
