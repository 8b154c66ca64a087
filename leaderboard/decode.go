// leaderboard/decode.go
package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError reports where a contest snapshot failed validation.
type DecodeError struct {
	Path string
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode contest: " + e.Msg
	}
	return fmt.Sprintf("decode contest: %s: %s", e.Path, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeContest parses a provider snapshot and validates it before any
// ranking runs. Missing members or submissions decode as empty lists; a
// missing identifier, a non-positive question value, a negative score or a
// submission for a question outside the contest is rejected.
func DecodeContest(data []byte) (Contest, error) {
	var c Contest
	if len(bytes.TrimSpace(data)) == 0 {
		return Contest{}, &DecodeError{Msg: "empty payload"}
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Contest{}, &DecodeError{Msg: "malformed json", Err: err}
	}
	if err := Validate(&c); err != nil {
		return Contest{}, err
	}
	return c, nil
}

// Validate checks c in place and replaces nil collections with empty ones.
func Validate(c *Contest) error {
	if c.ID == "" {
		return &DecodeError{Path: "id", Msg: "missing"}
	}
	if c.Questions == nil {
		c.Questions = []ContestQuestion{}
	}
	if c.AttemptedGroups == nil {
		c.AttemptedGroups = []GroupAttempt{}
	}

	known := make(map[string]struct{}, len(c.Questions))
	for i, q := range c.Questions {
		path := fmt.Sprintf("questions[%d].question", i)
		if q.Question.ID == "" {
			return &DecodeError{Path: path + ".id", Msg: "missing"}
		}
		if q.Question.Points <= 0 {
			return &DecodeError{Path: path + ".points", Msg: fmt.Sprintf("must be positive, got %d", q.Question.Points)}
		}
		known[q.Question.ID] = struct{}{}
	}

	for gi := range c.AttemptedGroups {
		a := &c.AttemptedGroups[gi]
		gpath := fmt.Sprintf("attemptedGroups[%d].group", gi)
		if a.Group.ID == "" {
			return &DecodeError{Path: gpath + ".id", Msg: "missing"}
		}
		if a.Group.Members == nil {
			a.Group.Members = []Member{}
		}
		for mi := range a.Group.Members {
			m := &a.Group.Members[mi]
			mpath := fmt.Sprintf("%s.members[%d]", gpath, mi)
			if m.ID == "" {
				return &DecodeError{Path: mpath + ".id", Msg: "missing"}
			}
			if m.Submissions == nil {
				m.Submissions = []Submission{}
			}
			for si, s := range m.Submissions {
				spath := fmt.Sprintf("%s.submissions[%d]", mpath, si)
				if s.Score < 0 {
					return &DecodeError{Path: spath + ".score", Msg: fmt.Sprintf("must not be negative, got %v", s.Score)}
				}
				if _, ok := known[s.Question.ID]; !ok {
					return &DecodeError{Path: spath + ".question.id", Msg: fmt.Sprintf("question %q is not part of the contest", s.Question.ID)}
				}
			}
		}
	}
	return nil
}
