package knowledgeparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

// parseYAML decodes a YAML knowledge file. Keys are snake_case
// (drug_a, risk_score, elderly_caution...). Unknown keys are rejected so a
// misspelt field does not silently drop data.
func parseYAML(content []byte) (*entities.KnowledgeSet, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var set entities.KnowledgeSet
	if err := decoder.Decode(&set); err != nil {
		if errors.Is(err, io.EOF) {
			return &set, nil
		}
		return nil, fmt.Errorf("invalid knowledge YAML: %w", err)
	}
	return &set, nil
}
