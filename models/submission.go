package models

import "time"

const (
	SubmissionStatusAccepted = "ACCEPTED"
)

// Submission is a judged result. The unique index keeps a single counted row
// per user, question and contest; practice submissions carry no contest.
type Submission struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;index;uniqueIndex:idx_submission_once" json:"user_id"`
	QuestionID string    `gorm:"not null;uniqueIndex:idx_submission_once" json:"question_id"`
	ContestID  *uint     `gorm:"index;uniqueIndex:idx_submission_once" json:"contest_id,omitempty"`
	Score      float64   `gorm:"not null;default:0" json:"score"`
	Status     string    `gorm:"type:varchar(32)" json:"status"`
	ExternalID string    `json:"external_id,omitempty"` // judge-side submission id
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Question Question `gorm:"foreignKey:QuestionID" json:"question"`
}
