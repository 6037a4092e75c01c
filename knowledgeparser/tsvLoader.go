package knowledgeparser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
	"github.com/giygas/drug-interactions-api/logging"
)

// TSV file names inside the knowledge directory. aliases.txt is optional.
const (
	drugsFile        = "drugs.txt"
	aliasesFile      = "aliases.txt"
	interactionsFile = "interactions.txt"
)

// skipStats counts the lines a TSV conversion left out
type skipStats struct {
	lines          int
	empty          int
	missingColumns int
	formatErrors   int
}

func (s skipStats) log(file string, parsed int) {
	if s.missingColumns == 0 && s.formatErrors == 0 {
		return
	}
	logging.Info(file+" skip statistics",
		"empty_lines", s.empty,
		"missing_columns", s.missingColumns,
		"format_errors", s.formatErrors,
		"total_lines", s.lines,
		"records_parsed", parsed)
}

// loadTSV converts the three tab-separated files of dir concurrently
func loadTSV(dir string) (*entities.KnowledgeSet, error) {
	var (
		wg           sync.WaitGroup
		drugs        []entities.Drug
		aliases      map[string][]string
		interactions []entities.InteractionRecord
		drugsErr     error
		aliasesErr   error
		interErr     error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		drugs, drugsErr = makeDrugs(filepath.Join(dir, drugsFile))
	}()
	go func() {
		defer wg.Done()
		aliases, aliasesErr = makeAliases(filepath.Join(dir, aliasesFile))
	}()
	go func() {
		defer wg.Done()
		interactions, interErr = makeInteractions(filepath.Join(dir, interactionsFile))
	}()
	wg.Wait()

	if err := errors.Join(drugsErr, aliasesErr, interErr); err != nil {
		return nil, err
	}

	for i := range drugs {
		drugs[i].Aliases = append(drugs[i].Aliases, aliases[NormalizeName(drugs[i].ID)]...)
	}

	return &entities.KnowledgeSet{Drugs: drugs, Interactions: interactions}, nil
}

// scanTSV calls fn with the fields of every non-empty, non-comment line
func scanTSV(path string, minColumns int, fn func(fields []string) bool) (skipStats, error) {
	var stats skipStats

	raw, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	content, err := toUTF8(raw)
	if err != nil {
		return stats, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		stats.lines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			stats.empty++
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minColumns {
			stats.missingColumns++
			continue
		}

		if !fn(fields) {
			stats.formatErrors++
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return stats, nil
}

// makeDrugs reads id, class, description, mechanism, half life,
// contraindications, enzymes, elderly caution, pediatric caution
func makeDrugs(path string) ([]entities.Drug, error) {
	var drugs []entities.Drug

	stats, err := scanTSV(path, 4, func(fields []string) bool {
		d := entities.Drug{
			ID:          fields[0],
			Class:       fields[1],
			Description: fields[2],
			Mechanism:   fields[3],
		}
		if len(fields) > 4 {
			d.HalfLife = fields[4]
		}
		if len(fields) > 5 {
			d.Contraindications = splitList(fields[5])
		}
		if len(fields) > 6 {
			d.Enzymes = splitList(fields[6])
		}
		var err error
		if len(fields) > 7 {
			if d.ElderlyCaution, err = parseFlag(fields[7]); err != nil {
				return false
			}
		}
		if len(fields) > 8 {
			if d.PediatricCaution, err = parseFlag(fields[8]); err != nil {
				return false
			}
		}
		drugs = append(drugs, d)
		return true
	})
	if err != nil {
		return nil, err
	}

	stats.log(drugsFile, len(drugs))
	return drugs, nil
}

// makeAliases reads alias, drug id. A missing file means no aliases.
func makeAliases(path string) (map[string][]string, error) {
	aliases := make(map[string][]string)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return aliases, nil
	}

	count := 0
	stats, err := scanTSV(path, 2, func(fields []string) bool {
		id := NormalizeName(fields[1])
		if id == "" {
			return false
		}
		aliases[id] = append(aliases[id], fields[0])
		count++
		return true
	})
	if err != nil {
		return nil, err
	}

	stats.log(aliasesFile, count)
	return aliases, nil
}

// makeInteractions reads drug a, drug b, severity, risk score, description,
// mechanism, clinical effects, evidence level, references, recommendations
func makeInteractions(path string) ([]entities.InteractionRecord, error) {
	var records []entities.InteractionRecord

	stats, err := scanTSV(path, 4, func(fields []string) bool {
		severity, err := entities.ParseSeverity(fields[2])
		if err != nil {
			return false
		}
		// Decimal commas are accepted, as exported by some spreadsheets
		risk, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(fields[3]), ",", ".", 1), 64)
		if err != nil {
			return false
		}

		r := entities.InteractionRecord{
			DrugA:     fields[0],
			DrugB:     fields[1],
			Severity:  severity,
			RiskScore: risk,
		}
		optional := []*string{&r.Description, &r.Mechanism, &r.ClinicalEffects}
		for i, target := range optional {
			if len(fields) > 4+i {
				*target = fields[4+i]
			}
		}
		if len(fields) > 7 {
			r.EvidenceLevel = entities.EvidenceLevel(fields[7])
		}
		if len(fields) > 8 {
			r.References = splitList(fields[8])
		}
		if len(fields) > 9 {
			r.Recommendations = splitList(fields[9])
		}
		records = append(records, r)
		return true
	})
	if err != nil {
		return nil, err
	}

	stats.log(interactionsFile, len(records))
	return records, nil
}

func parseFlag(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}
