package models

import (
	"strings"

	"algo-journey/utils"

	"gorm.io/gorm"
)

// User is a platform member. A user belongs to at most one group at a time.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	// Ineligible users stay visible on contest leaderboards but are never ranked.
	IsAllowedToParticipate bool `gorm:"not null;default:true" json:"is_allowed_to_participate"`

	GroupID *string `gorm:"index" json:"group_id,omitempty"`

	// Judge handles used by the submission sync worker
	CodeforcesHandle *string `json:"codeforces_handle,omitempty"`
	LeetcodeUsername *string `json:"leetcode_username,omitempty"`

	// Accent-folded username and email, matched by user search
	SearchKey string `gorm:"index" json:"-"`

	Submissions []Submission `gorm:"foreignKey:UserID" json:"submissions,omitempty"`

	Timestamps
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Username != "" || u.Email != "" {
		u.SearchKey = utils.Fold(strings.Join([]string{u.Username, u.Email}, " "))
	}
	return nil
}
