package models

import "time"

const (
	ContestStatusActive    = "ACTIVE"
	ContestStatusCompleted = "COMPLETED"
)

// Contest is a timed set of questions attempted by groups.
type Contest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	Status    string    `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`

	Questions       []ContestQuestion `gorm:"foreignKey:ContestID" json:"questions,omitempty"`
	AttemptedGroups []GroupOnContest  `gorm:"foreignKey:ContestID" json:"attempted_groups,omitempty"`

	// Set when the final standings were uploaded to the archive bucket
	ArchivedURL *string `json:"archived_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type ContestQuestion struct {
	ID         string   `gorm:"primaryKey" json:"id"`
	ContestID  uint     `gorm:"not null;uniqueIndex:idx_contest_question" json:"contest_id"`
	QuestionID string   `gorm:"not null;uniqueIndex:idx_contest_question" json:"question_id"`
	SortOrder  int      `gorm:"column:sort_order;default:0" json:"sort_order"`
	Question   Question `gorm:"foreignKey:QuestionID" json:"question"`
}

// GroupOnContest is a group's attempt at a contest with its contest-scoped score.
type GroupOnContest struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ContestID uint      `gorm:"not null;uniqueIndex:idx_contest_group" json:"contest_id"`
	GroupID   string    `gorm:"not null;uniqueIndex:idx_contest_group" json:"group_id"`
	Score     float64   `gorm:"not null;default:0" json:"score"`
	Group     Group     `gorm:"foreignKey:GroupID" json:"group"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
