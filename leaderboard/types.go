// leaderboard/types.go
package leaderboard

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Difficulty is the judge-side difficulty label of a question.
type Difficulty string

const (
	DifficultyBeginner Difficulty = "BEGINNER"
	DifficultyEasy     Difficulty = "EASY"
	DifficultyMedium   Difficulty = "MEDIUM"
	DifficultyHard     Difficulty = "HARD"
	DifficultyVeryHard Difficulty = "VERYHARD"
)

var difficultyOrder = []Difficulty{
	DifficultyBeginner,
	DifficultyEasy,
	DifficultyMedium,
	DifficultyHard,
	DifficultyVeryHard,
}

// Level returns the position of d in BEGINNER < EASY < MEDIUM < HARD < VERYHARD,
// or -1 when the label is not part of the ordered set.
func (d Difficulty) Level() int {
	for i, known := range difficultyOrder {
		if d == known {
			return i
		}
	}
	return -1
}

func (d Difficulty) Valid() bool { return d.Level() >= 0 }

type ContestStatus string

const (
	ContestActive    ContestStatus = "ACTIVE"
	ContestCompleted ContestStatus = "COMPLETED"
)

// ID accepts both JSON numbers and strings, contests use numeric ids while
// everything else uses uuids.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func IDFromUint(v uint) ID { return ID(strconv.FormatUint(uint64(v), 10)) }

type Question struct {
	ID          string     `json:"id"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	Slug        string     `json:"slug"`
	ExternalURL string     `json:"externalUrl,omitempty"`
}

// ContestQuestion is the wire wrapper the data provider emits for each contest question.
type ContestQuestion struct {
	Question Question `json:"question"`
}

type QuestionRef struct {
	ID string `json:"id"`
}

type Submission struct {
	ID        string      `json:"id"`
	Score     float64     `json:"score"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	Question  QuestionRef `json:"question"`
}

type Member struct {
	ID                     string       `json:"id"`
	Username               string       `json:"username"`
	IsAllowedToParticipate *bool        `json:"isAllowedToParticipate,omitempty"`
	Submissions            []Submission `json:"submissions"`
}

// Eligible reports whether the member may receive an ordinal rank. Only an
// explicit false disqualifies.
func (m Member) Eligible() bool {
	return m.IsAllowedToParticipate == nil || *m.IsAllowedToParticipate
}

type Coordinator struct {
	Username string `json:"username"`
}

type Group struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Score       float64     `json:"score"`
	Coordinator Coordinator `json:"coordinator"`
	Members     []Member    `json:"members"`
}

// GroupAttempt pairs a group with its contest-scoped score snapshot.
type GroupAttempt struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Group Group   `json:"group"`
}

// Contest is the denormalized snapshot supplied by the contest data provider.
type Contest struct {
	ID              ID                `json:"id"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         time.Time         `json:"endTime"`
	Status          ContestStatus     `json:"status"`
	Questions       []ContestQuestion `json:"questions"`
	AttemptedGroups []GroupAttempt    `json:"attemptedGroups"`
}

// QuestionList unwraps the provider's question wrappers.
func (c Contest) QuestionList() []Question {
	out := make([]Question, 0, len(c.Questions))
	for _, q := range c.Questions {
		out = append(out, q.Question)
	}
	return out
}
