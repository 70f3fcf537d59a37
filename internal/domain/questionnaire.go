package domain

// Polarity declares which end of a category's total score is the healthy
// outcome. Most screening categories are favorable at the low end (a high
// loneliness total needs support); social connectedness and motivation are
// favorable at the high end, so their low totals are the ones needing
// attention. Categories declare this themselves so ranking logic never
// matches on category ids.
type Polarity string

const (
	FavorableAtLow  Polarity = "low"
	FavorableAtHigh Polarity = "high"
)

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

type Question struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ScaleType string `json:"scale_type,omitempty"`
	Reverse   bool   `json:"reverse,omitempty"`
}

type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Weight      float64    `json:"weight,omitempty"`
	StatePrefix string     `json:"state_prefix,omitempty"`
	FavorableAt Polarity   `json:"favorable_at,omitempty"`
	Questions   []Question `json:"questions"`
}

// StateIDPrefix is the prefix used to form state ids for this category.
func (c Category) StateIDPrefix() string {
	if c.StatePrefix != "" {
		return c.StatePrefix
	}
	return c.ID
}

// Questionnaire is loaded once at startup and shared read-only across
// requests.
type Questionnaire struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AnswerScaleType string     `json:"answer_scale_type,omitempty"`
	ScaleMin        int        `json:"scale_min"`
	ScaleMax        int        `json:"scale_max"`
	Categories      []Category `json:"categories"`
}

// ScaleMidpoint is substituted for missing answers.
func (q *Questionnaire) ScaleMidpoint() int {
	return (q.ScaleMin + q.ScaleMax) / 2
}

// AnswerSet maps question id to the raw response value on the answer scale.
type AnswerSet map[string]int

type CategoryScore struct {
	Average       float64 `json:"average"`
	Total         int     `json:"total"`
	QuestionCount int     `json:"question_count"`
}

// StateLabel is the classified outcome for one category.
type StateLabel struct {
	StateID    string `json:"id"`
	CategoryID string `json:"category"`
	Level      Level  `json:"level"`
	Score      int    `json:"score"`
}
