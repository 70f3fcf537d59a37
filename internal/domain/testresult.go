package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TestResultRecord is the relational copy of a completed screening session.
// The graph node is authoritative for feedback traversal; this row exists
// for reporting. Immutable once created.
type TestResultRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	QuestionnaireID string         `gorm:"index" json:"questionnaire_id"`
	RawAnswers      datatypes.JSON `json:"raw_answers"`
	CategoryScores  datatypes.JSON `json:"category_scores"`
	StateIDs        datatypes.JSON `json:"state_ids"`
}

func (TestResultRecord) TableName() string { return "test_result" }
