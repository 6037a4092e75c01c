// Package knowledgeparser loads the drug and interaction tables from the
// configured source and normalizes them into a KnowledgeSet.
package knowledgeparser

import (
	"fmt"
	"os"
	"time"

	"github.com/giygas/drug-interactions-api/config"
	"github.com/giygas/drug-interactions-api/interfaces"
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
	"github.com/giygas/drug-interactions-api/logging"
)

// Compile-time check to ensure KnowledgeParser implements Parser interface
var _ interfaces.Parser = (*KnowledgeParser)(nil)

// KnowledgeParser reads one knowledge source
type KnowledgeParser struct {
	source string
	path   string
}

// NewKnowledgeParser creates a parser for a source name (see config.Source*) and its path
func NewKnowledgeParser(source, path string) *KnowledgeParser {
	if source == "" {
		source = config.SourceEmbedded
	}
	return &KnowledgeParser{source: source, path: path}
}

// Source describes where the knowledge comes from, for logs and health output
func (p *KnowledgeParser) Source() string {
	if p.source == config.SourceEmbedded {
		return p.source
	}
	return p.source + ":" + p.path
}

// ParseKnowledge reads and normalizes the whole source. Records are not
// validated here; see validation.ValidateKnowledge.
func (p *KnowledgeParser) ParseKnowledge() (*entities.KnowledgeSet, error) {
	start := time.Now()

	set, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s knowledge: %w", p.source, err)
	}
	normalize(set)

	logging.Info("Knowledge source parsed",
		"source", p.Source(),
		"drugs", len(set.Drugs),
		"interactions", len(set.Interactions),
		"duration_ms", time.Since(start).Milliseconds())

	return set, nil
}

func (p *KnowledgeParser) load() (*entities.KnowledgeSet, error) {
	switch p.source {
	case config.SourceEmbedded:
		return DefaultKnowledge()
	case config.SourceJSON, config.SourceYAML:
		content, err := p.readFile()
		if err != nil {
			return nil, err
		}
		if p.source == config.SourceJSON {
			return parseJSON(content)
		}
		return parseYAML(content)
	case config.SourceSQLite:
		return loadSQLite(p.path)
	case config.SourceTSV:
		return loadTSV(p.path)
	}
	return nil, fmt.Errorf("unsupported knowledge source %q", p.source)
}

// readFile returns the UTF-8 content of the configured path or URL
func (p *KnowledgeParser) readFile() ([]byte, error) {
	if isRemote(p.path) {
		return download(p.path)
	}
	content, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.path, err)
	}
	return toUTF8(content)
}
