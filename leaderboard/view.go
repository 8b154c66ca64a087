// leaderboard/view.go
package leaderboard

import "time"

type QuestionHeader struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Slug            string `json:"slug"`
	Points          int    `json:"points"`
	Difficulty      string `json:"difficulty"`
	DifficultyLabel string `json:"difficultyLabel"`
	Tier            Tier   `json:"tier"`
	URL             string `json:"url,omitempty"`
}

// ContestView is the fully ranked leaderboard of one contest.
type ContestView struct {
	ID        ID               `json:"id"`
	StartTime time.Time        `json:"startTime"`
	EndTime   time.Time        `json:"endTime"`
	Status    ContestStatus    `json:"status"`
	Questions []QuestionHeader `json:"questions"`
	Groups    []GroupStanding  `json:"groups"`
}

func BuildView(c Contest, order GroupOrder) ContestView {
	questions := c.QuestionList()
	headers := make([]QuestionHeader, 0, len(questions))
	for i, q := range questions {
		headers = append(headers, QuestionHeader{
			ID:              q.ID,
			Label:           QuestionLabel(i),
			Slug:            q.Slug,
			Points:          q.Points,
			Difficulty:      string(q.Difficulty),
			DifficultyLabel: DisplayLabel(string(q.Difficulty)),
			Tier:            TierFor(string(q.Difficulty)),
			URL:             q.ExternalURL,
		})
	}
	return ContestView{
		ID:        c.ID,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Status:    c.Status,
		Questions: headers,
		Groups:    RankGroups(c.AttemptedGroups, questions, order),
	}
}
