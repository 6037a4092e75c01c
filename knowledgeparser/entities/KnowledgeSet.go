package entities

// KnowledgeSet is the raw content of the persisted drug and interaction
// tables, as produced by a loader and before indexing.
type KnowledgeSet struct {
	Drugs        []Drug              `json:"drugs" yaml:"drugs"`
	Interactions []InteractionRecord `json:"interactions" yaml:"interactions"`
}
