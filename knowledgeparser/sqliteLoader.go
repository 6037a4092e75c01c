package knowledgeparser

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
	"github.com/giygas/drug-interactions-api/logging"
)

// listSeparator joins list columns (contraindications, enzymes, references,
// recommendations) in the SQLite and TSV formats
const listSeparator = "|"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drugs (
	id TEXT PRIMARY KEY,
	class TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	mechanism TEXT NOT NULL DEFAULT '',
	half_life TEXT NOT NULL DEFAULT '',
	contraindications TEXT NOT NULL DEFAULT '',
	enzymes TEXT NOT NULL DEFAULT '',
	elderly_caution INTEGER NOT NULL DEFAULT 0,
	pediatric_caution INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS drug_aliases (
	alias TEXT NOT NULL,
	drug_id TEXT NOT NULL,
	PRIMARY KEY (alias, drug_id)
);
CREATE TABLE IF NOT EXISTS interactions (
	drug_a TEXT NOT NULL,
	drug_b TEXT NOT NULL,
	severity TEXT NOT NULL,
	risk_score REAL NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	mechanism TEXT NOT NULL DEFAULT '',
	clinical_effects TEXT NOT NULL DEFAULT '',
	evidence_level TEXT NOT NULL DEFAULT '',
	refs TEXT NOT NULL DEFAULT '',
	recommendations TEXT NOT NULL DEFAULT ''
);`

const sqliteTimeout = 30 * time.Second

// loadSQLite reads the drugs, drug_aliases and interactions tables.
// The database is opened read-only.
func loadSQLite(path string) (*entities.KnowledgeSet, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn("Failed to close sqlite database", "path", path, "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	drugs, err := queryDrugs(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := queryAliases(ctx, db, drugs); err != nil {
		return nil, err
	}
	interactions, skipped, err := queryInteractions(ctx, db)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logging.Warn("SQLite interactions with unreadable severity", "count", skipped)
	}

	return &entities.KnowledgeSet{Drugs: drugs, Interactions: interactions}, nil
}

func queryDrugs(ctx context.Context, db *sql.DB) ([]entities.Drug, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, class, description, mechanism, half_life,
		contraindications, enzymes, elderly_caution, pediatric_caution FROM drugs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query drugs: %w", err)
	}
	defer rows.Close()

	var drugs []entities.Drug
	for rows.Next() {
		var d entities.Drug
		var contraindications, enzymes string
		if err := rows.Scan(&d.ID, &d.Class, &d.Description, &d.Mechanism, &d.HalfLife,
			&contraindications, &enzymes, &d.ElderlyCaution, &d.PediatricCaution); err != nil {
			return nil, fmt.Errorf("failed to scan drug row: %w", err)
		}
		d.Contraindications = splitList(contraindications)
		d.Enzymes = splitList(enzymes)
		drugs = append(drugs, d)
	}
	return drugs, rows.Err()
}

// queryAliases attaches alias rows to their drugs. Aliases of unknown drugs are ignored.
func queryAliases(ctx context.Context, db *sql.DB, drugs []entities.Drug) error {
	index := make(map[string]int, len(drugs))
	for i, d := range drugs {
		index[NormalizeName(d.ID)] = i
	}

	rows, err := db.QueryContext(ctx, `SELECT alias, drug_id FROM drug_aliases ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("failed to query drug aliases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var alias, drugID string
		if err := rows.Scan(&alias, &drugID); err != nil {
			return fmt.Errorf("failed to scan alias row: %w", err)
		}
		if i, ok := index[NormalizeName(drugID)]; ok {
			drugs[i].Aliases = append(drugs[i].Aliases, alias)
		}
	}
	return rows.Err()
}

func queryInteractions(ctx context.Context, db *sql.DB) ([]entities.InteractionRecord, int, error) {
	rows, err := db.QueryContext(ctx, `SELECT drug_a, drug_b, severity, risk_score, description,
		mechanism, clinical_effects, evidence_level, refs, recommendations FROM interactions ORDER BY rowid`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var records []entities.InteractionRecord
	unreadable := 0
	for rows.Next() {
		var r entities.InteractionRecord
		var severity, evidence, refs, recommendations string
		if err := rows.Scan(&r.DrugA, &r.DrugB, &severity, &r.RiskScore, &r.Description,
			&r.Mechanism, &r.ClinicalEffects, &evidence, &refs, &recommendations); err != nil {
			return nil, 0, fmt.Errorf("failed to scan interaction row: %w", err)
		}
		// An unreadable severity is left as none so the validator reports and drops it
		if parsed, err := entities.ParseSeverity(severity); err == nil {
			r.Severity = parsed
		} else {
			unreadable++
		}
		r.EvidenceLevel = entities.EvidenceLevel(evidence)
		r.References = splitList(refs)
		r.Recommendations = splitList(recommendations)
		records = append(records, r)
	}
	return records, unreadable, rows.Err()
}

// WriteSQLite stores a knowledge set in a new or existing SQLite database,
// replacing previous content. Used to build knowledge databases and fixtures.
func WriteSQLite(path string, set *entities.KnowledgeSet) (err error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sqliteTimeout)
	defer cancel()

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"drugs", "drug_aliases", "interactions"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, d := range set.Drugs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO drugs (id, class, description, mechanism, half_life,
			contraindications, enzymes, elderly_caution, pediatric_caution) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.Class, d.Description, d.Mechanism, d.HalfLife,
			joinList(d.Contraindications), joinList(d.Enzymes), d.ElderlyCaution, d.PediatricCaution); err != nil {
			return fmt.Errorf("failed to insert drug %s: %w", d.ID, err)
		}
		for _, alias := range d.Aliases {
			if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO drug_aliases (alias, drug_id) VALUES (?, ?)`,
				alias, d.ID); err != nil {
				return fmt.Errorf("failed to insert alias %s: %w", alias, err)
			}
		}
	}

	for _, r := range set.Interactions {
		if _, err = tx.ExecContext(ctx, `INSERT INTO interactions (drug_a, drug_b, severity, risk_score,
			description, mechanism, clinical_effects, evidence_level, refs, recommendations)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.DrugA, r.DrugB, r.Severity.String(), r.RiskScore, r.Description, r.Mechanism,
			r.ClinicalEffects, string(r.EvidenceLevel), joinList(r.References), joinList(r.Recommendations)); err != nil {
			return fmt.Errorf("failed to insert interaction %s/%s: %w", r.DrugA, r.DrugB, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit knowledge: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, listSeparator)
}

func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}
