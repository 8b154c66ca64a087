package models

import "time"

type Question struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	Slug          string  `gorm:"uniqueIndex;not null" json:"slug"`
	Title         string  `json:"title"`
	Difficulty    string  `gorm:"type:varchar(16);not null" json:"difficulty"` // BEGINNER, EASY, MEDIUM, HARD, VERYHARD
	Points        int     `gorm:"not null" json:"points"`
	LeetcodeURL   *string `json:"leetcode_url,omitempty"`
	CodeforcesURL *string `json:"codeforces_url,omitempty"`

	Tags []QuestionTag `gorm:"many2many:question_tags" json:"tags,omitempty"`

	Timestamps
}

// ExternalURL prefers the LeetCode link, like the arena does.
func (q Question) ExternalURL() string {
	if q.LeetcodeURL != nil && *q.LeetcodeURL != "" {
		return *q.LeetcodeURL
	}
	if q.CodeforcesURL != nil {
		return *q.CodeforcesURL
	}
	return ""
}

type QuestionTag struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// question_tags is the join table, so tags live in their own table.
func (QuestionTag) TableName() string { return "tags" }
