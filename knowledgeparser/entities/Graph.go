package entities

// GraphNode is one drug of a visualization payload.
type GraphNode struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Class  string `json:"class"`
	Color  string `json:"color"`
	Size   int    `json:"size"`
	Degree int    `json:"degree"`
}

// Edge types of the visualization payload.
const (
	EdgeInteracts = "interacts_with"
	EdgeSameClass = "same_class"
)

// GraphEdge links two nodes. Severity and RiskScore are only set for
// interaction edges.
type GraphEdge struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Type      string    `json:"type"`
	Severity  *Severity `json:"severity,omitempty"`
	RiskScore float64   `json:"riskScore,omitempty"`
	Color     string    `json:"color"`
	Width     int       `json:"width"`
}

// GraphStatistics summarizes the interaction edges of a payload.
type GraphStatistics struct {
	TotalDrugs           int            `json:"totalDrugs"`
	TotalInteractions    int            `json:"totalInteractions"`
	SeverityDistribution map[string]int `json:"severityDistribution"`
	MaxRiskScore         float64        `json:"maxRiskScore"`
}

// GraphPayload is structural graph data for an external renderer. Layout is
// only a hint; no positions are computed.
type GraphPayload struct {
	Nodes        []GraphNode     `json:"nodes"`
	Edges        []GraphEdge     `json:"edges"`
	Statistics   GraphStatistics `json:"statistics"`
	Layout       string          `json:"layout"`
	UnknownDrugs []string        `json:"unknownDrugs"`
}

// DrugStatistics summarizes the knowledge held about one drug.
type DrugStatistics struct {
	ID                   string         `json:"id"`
	Class                string         `json:"class"`
	TotalInteractions    int            `json:"totalInteractions"`
	SeverityDistribution map[string]int `json:"severityDistribution"`
	SameClassDrugs       []string       `json:"sameClassDrugs"`
	HighRiskPartners     []RiskPartner  `json:"highRiskPartners"`
}

// RiskPartner is a drug with a major-or-worse interaction against another.
type RiskPartner struct {
	ID        string   `json:"id"`
	Severity  Severity `json:"severity"`
	RiskScore float64  `json:"riskScore"`
}
