package knowledgeparser

import (
	"encoding/json"
	"fmt"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

func parseJSON(content []byte) (*entities.KnowledgeSet, error) {
	var set entities.KnowledgeSet
	if err := json.Unmarshal(content, &set); err != nil {
		return nil, fmt.Errorf("invalid knowledge JSON: %w", err)
	}
	return &set, nil
}
