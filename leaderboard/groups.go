// leaderboard/groups.go
package leaderboard

import (
	"cmp"
	"fmt"
	"slices"
)

// GroupOrder selects how groups are ordered within a contest.
type GroupOrder string

const (
	// OrderByAttempt keeps the order in which the provider listed the attempts.
	OrderByAttempt GroupOrder = "attempt"
	// OrderByScore sorts by the group's precomputed score, descending, keeping
	// attempt order on ties.
	OrderByScore GroupOrder = "score"
)

func ParseGroupOrder(s string) (GroupOrder, error) {
	switch GroupOrder(s) {
	case "", OrderByAttempt:
		return OrderByAttempt, nil
	case OrderByScore:
		return OrderByScore, nil
	}
	return "", fmt.Errorf("unknown group order %q (want %q or %q)", s, OrderByAttempt, OrderByScore)
}

type GroupStanding struct {
	Rank          int         `json:"rank"`
	AttemptID     string      `json:"attemptId"`
	AttemptScore  float64     `json:"attemptScore"`
	GroupID       string      `json:"groupId"`
	Name          string      `json:"name"`
	Coordinator   string      `json:"coordinator"`
	Participating int         `json:"participating"`
	NotAllowed    int         `json:"notAllowed"`
	Members       []MemberRow `json:"members"`
	// Total is the trusted precomputed group score, never a sum of Members.
	Total float64 `json:"total"`
}

// RankGroups assigns 1-based ranks to the contest's group attempts and builds
// each group's member ranking against the contest questions.
func RankGroups(attempts []GroupAttempt, questions []Question, order GroupOrder) []GroupStanding {
	ordered := slices.Clone(attempts)
	if order == OrderByScore {
		slices.SortStableFunc(ordered, func(a, b GroupAttempt) int {
			return cmp.Compare(b.Group.Score, a.Group.Score)
		})
	}

	standings := make([]GroupStanding, 0, len(ordered))
	for i, a := range ordered {
		standings = append(standings, StandingFor(i+1, a, questions))
	}
	return standings
}

// StandingFor renders one group attempt at the given rank.
func StandingFor(rank int, a GroupAttempt, questions []Question) GroupStanding {
	st := GroupStanding{
		Rank:         rank,
		AttemptID:    a.ID,
		AttemptScore: a.Score,
		GroupID:      a.Group.ID,
		Name:         a.Group.Name,
		Coordinator:  a.Group.Coordinator.Username,
		Members:      RankMembers(a.Group.Members, questions),
		Total:        a.Group.Score,
	}
	for _, m := range a.Group.Members {
		if m.Eligible() {
			st.Participating++
		} else {
			st.NotAllowed++
		}
	}
	return st
}
