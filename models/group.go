package models

// Group is a team of users led by a coordinator. GroupPoints is the cumulative
// score maintained by the scoring job and trusted by every leaderboard.
type Group struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"uniqueIndex;not null" json:"name"`
	Slug          string  `gorm:"uniqueIndex;not null" json:"slug"`
	CoordinatorID string  `gorm:"index;not null" json:"coordinator_id"`
	GroupPoints   float64 `gorm:"not null;default:0" json:"group_points"`

	Coordinator User   `gorm:"foreignKey:CoordinatorID" json:"coordinator"`
	Members     []User `gorm:"foreignKey:GroupID" json:"members,omitempty"`

	Timestamps
}
