package knowledgeparser

import (
	_ "embed"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

//go:embed default_knowledge.json
var defaultKnowledge []byte

// DefaultKnowledge returns a fresh copy of the dataset shipped with the binary
func DefaultKnowledge() (*entities.KnowledgeSet, error) {
	return parseJSON(defaultKnowledge)
}
