package engine

import (
	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

const (
	baseNodeSize  = 20
	nodeSizeStep  = 4
	defaultColor  = "#95a5a6"
	sameClassEdge = "#bdc3c7"
)

var classColors = map[string]string{
	"anticoagulant": "#e74c3c",
	"antiplatelet":  "#e67e22",
	"nsaid":         "#f39c12",
	"analgesic":     "#2ecc71",
	"ace_inhibitor": "#3498db",
	"biguanide":     "#9b59b6",
	"statin":        "#1abc9c",
	"penicillin":    "#16a085",
	"macrolide":     "#2980b9",
	"ssri":          "#8e44ad",
	"opioid":        "#d35400",
}

var severityColors = map[entities.Severity]string{
	entities.SeverityContraindicated: "#c0392b",
	entities.SeverityMajor:           "#e74c3c",
	entities.SeverityModerate:        "#f39c12",
	entities.SeverityMinor:           "#f1c40f",
}

func classColor(class string) string {
	if c, ok := classColors[class]; ok {
		return c
	}
	return defaultColor
}

// edgeWidth grows with the risk score, from 1 to 4.
func edgeWidth(risk float64) int {
	switch {
	case risk >= 0.8:
		return 4
	case risk >= 0.6:
		return 3
	case risk >= 0.4:
		return 2
	}
	return 1
}

func layoutHint(nodes int) string {
	switch {
	case nodes <= 3:
		return "circle"
	case nodes <= 6:
		return "force"
	}
	return "hierarchical"
}

// buildGraph turns the resolved input into structural graph data. Nodes are
// the known drugs in input order, sized by their number of interactions,
// followed by unknown inputs as isolated nodes in the default colour.
// Known pairs of the same class without an interaction get a same_class edge.
func buildGraph(in resolvedInput, matches []entities.InteractionMatch) *entities.GraphPayload {
	degree := make(map[string]int, len(in.known))
	interacting := make(map[entities.PairKey]bool, len(matches))

	stats := entities.GraphStatistics{
		TotalDrugs:           len(in.known),
		TotalInteractions:    len(matches),
		SeverityDistribution: make(map[string]int, len(entities.Severities)),
	}
	for _, s := range entities.Severities {
		stats.SeverityDistribution[s.String()] = 0
	}

	edges := make([]entities.GraphEdge, 0, len(matches))
	for _, m := range matches {
		severity := m.Severity
		edges = append(edges, entities.GraphEdge{
			Source:    m.DrugPair[0],
			Target:    m.DrugPair[1],
			Type:      entities.EdgeInteracts,
			Severity:  &severity,
			RiskScore: m.RiskScore,
			Color:     severityColors[severity],
			Width:     edgeWidth(m.RiskScore),
		})
		degree[m.DrugA]++
		degree[m.DrugB]++
		interacting[m.Key()] = true

		stats.SeverityDistribution[severity.String()]++
		if m.RiskScore > stats.MaxRiskScore {
			stats.MaxRiskScore = m.RiskScore
		}
	}

	for i := 0; i < len(in.known)-1; i++ {
		for j := i + 1; j < len(in.known); j++ {
			a, b := in.known[i], in.known[j]
			if a.Class != b.Class || interacting[entities.NewPairKey(a.ID, b.ID)] {
				continue
			}
			edges = append(edges, entities.GraphEdge{
				Source: a.ID,
				Target: b.ID,
				Type:   entities.EdgeSameClass,
				Color:  sameClassEdge,
				Width:  1,
			})
		}
	}

	nodes := make([]entities.GraphNode, 0, len(in.known)+len(in.unknown))
	for _, d := range in.known {
		nodes = append(nodes, entities.GraphNode{
			ID:     d.ID,
			Label:  displayName(d.ID),
			Class:  d.Class,
			Color:  classColor(d.Class),
			Size:   baseNodeSize + nodeSizeStep*degree[d.ID],
			Degree: degree[d.ID],
		})
	}
	for _, name := range in.unknown {
		nodes = append(nodes, entities.GraphNode{
			ID:    name,
			Label: displayName(name),
			Color: defaultColor,
			Size:  baseNodeSize,
		})
	}

	return &entities.GraphPayload{
		Nodes:        nodes,
		Edges:        edges,
		Statistics:   stats,
		Layout:       layoutHint(len(nodes)),
		UnknownDrugs: in.unknown,
	}
}
