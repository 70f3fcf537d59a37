package domain

// Graph entities mirror the ontology loaded into Neo4j. The engine reads
// them; only HELPS_WITH/RECOMMENDS edge weights change after load, via the
// feedback path.

type EmotionalState struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Level       string `json:"level,omitempty"`
	Severity    int    `json:"severity"`
	ScoreRange  string `json:"score_range,omitempty"`
}

type Resource struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author,omitempty"`
	Description     string  `json:"description,omitempty"`
	URL             string  `json:"url,omitempty"`
	Language        string  `json:"language,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
}

// Recommendation is one ranked result row: the resource plus the match
// metadata used for ranking and display.
type Recommendation struct {
	Resource
	ResourceType     string   `json:"resource_type,omitempty"`
	Themes           []string `json:"themes,omitempty"`
	AddressedStates  []string `json:"addressed_states"`
	StateIDs         []string `json:"state_ids"`
	AvgEffectiveness float64  `json:"avg_effectiveness"`
	MaxPriority      int      `json:"max_priority"`
	StateCount       int      `json:"state_count"`
	RelevanceScore   float64  `json:"relevance_score"`
}

type RelatedState struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Level            string   `json:"level,omitempty"`
	Severity         int      `json:"severity"`
	Correlation      float64  `json:"correlation"`
	RelationshipType string   `json:"relationship_type,omitempty"`
	RelatedTo        []string `json:"related_to"`
}

type StateDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Level       string `json:"level,omitempty"`
	Severity    int    `json:"severity"`
	ScoreRange  string `json:"score_range,omitempty"`
	Category    string `json:"category,omitempty"`
}

type StateSummary struct {
	States               []StateDetail `json:"states"`
	TotalCount           int           `json:"total_count"`
	SeverityDistribution map[int]int   `json:"severity_distribution"`
	RequiresAttention    bool          `json:"requires_attention"`
}

// GraphNode/GraphEdge feed the client-side ontology visualization.
type GraphNode struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

type GraphEdge struct {
	ID         string         `json:"id"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
