package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// resolvedInput is a request's drug list after normalization.
type resolvedInput struct {
	ids     []string        // canonical ids, first occurrence wins, unknowns kept as typed
	known   []entities.Drug // drug records of the known ids, input order
	unknown []string        // inputs without a record as typed (trimmed), first-seen order
}

// canonicalize lowercases, trims and alias-resolves every name, then drops
// repeats. An empty name is rejected with its position.
func canonicalize(op string, store interfaces.KnowledgeStore, names []string) (resolvedInput, error) {
	in := resolvedInput{
		ids:     make([]string, 0, len(names)),
		known:   make([]entities.Drug, 0, len(names)),
		unknown: []string{},
	}
	seen := make(map[string]bool, len(names))

	for i, raw := range names {
		name := knowledgeparser.NormalizeName(raw)
		if name == "" {
			return resolvedInput{}, invalidInput(op, raw, fmt.Sprintf("drug name at position %d is empty", i))
		}

		id := name
		if canonical, ok := store.ResolveAlias(name); ok {
			id = canonical
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		in.ids = append(in.ids, id)

		drug, err := store.GetDrug(id)
		if err != nil {
			in.unknown = append(in.unknown, strings.TrimSpace(raw))
			continue
		}
		in.known = append(in.known, drug)
	}

	return in, nil
}

// resolver looks up every pair on a bounded pool of workers. Results land in
// the slot of their pair so the output keeps pair order whatever finishes first.
type resolver struct {
	workers int
}

type pairResult struct {
	record *entities.InteractionRecord
	err    error
}

// resolve returns the matched interactions in pair order. Pairs touching an
// unknown drug are skipped; absence of a record is not an error.
func (r resolver) resolve(store interfaces.KnowledgeStore, pairs []Pair) ([]entities.InteractionMatch, error) {
	results := make([]pairResult, len(pairs))

	workers := min(r.workers, len(pairs))
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := store.GetInteraction(pairs[i].A, pairs[i].B)
				results[i] = pairResult{record: record, err: err}
			}
		}()
	}
	for i := range pairs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	matches := make([]entities.InteractionMatch, 0)
	for i, res := range results {
		if res.err != nil {
			if errors.Is(res.err, interfaces.ErrUnknownDrug) {
				continue
			}
			return nil, fmt.Errorf("resolving %s/%s: %w", pairs[i].A, pairs[i].B, res.err)
		}
		if res.record == nil {
			continue
		}
		matches = append(matches, entities.InteractionMatch{
			InteractionRecord: *res.record,
			DrugPair:          [2]string{pairs[i].A, pairs[i].B},
			Explanation:       explain(pairs[i], res.record),
		})
	}
	return matches, nil
}
