// leaderboard/members.go
package leaderboard

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"time"
)

// CellState describes a member's standing on a single contest question.
type CellState string

const (
	CellAttempted     CellState = "attempted"
	CellNoAttempt     CellState = "no_attempt"
	CellNotApplicable CellState = "not_applicable"
)

// UnrankedLabel is shown in place of a rank for ineligible members.
const UnrankedLabel = "-"

type Cell struct {
	QuestionID  string     `json:"questionId"`
	State       CellState  `json:"state"`
	Score       float64    `json:"score"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

type MemberRow struct {
	MemberID  string  `json:"memberId"`
	Username  string  `json:"username"`
	Ranked    bool    `json:"ranked"`
	Rank      int     `json:"rank,omitempty"`
	RankLabel string  `json:"rankLabel"`
	Total     float64 `json:"total"`
	Cells     []Cell  `json:"cells"`
}

// TotalScore sums every submission score of m. A member without submissions totals zero.
func TotalScore(m Member) float64 {
	var total float64
	for _, s := range m.Submissions {
		total += s.Score
	}
	return total
}

// EarliestSubmission returns the smallest submission timestamp of m and false
// when the member has not submitted anything.
func EarliestSubmission(m Member) (time.Time, bool) {
	if len(m.Submissions) == 0 {
		return time.Time{}, false
	}
	earliest := m.Submissions[0].CreatedAt
	for _, s := range m.Submissions[1:] {
		if s.CreatedAt.Before(earliest) {
			earliest = s.CreatedAt
		}
	}
	return earliest, true
}

type scoredMember struct {
	member   Member
	total    float64
	earliest int64
}

// RankMembers orders the members of one group for the given question list.
// Eligible members come first, by total score descending and then by earliest
// submission; members without submissions lose every tie. Ineligible members
// follow in input order, unranked. Equal keys keep input order.
func RankMembers(members []Member, questions []Question) []MemberRow {
	eligible := make([]scoredMember, 0, len(members))
	var ineligible []scoredMember

	for _, m := range members {
		sm := scoredMember{member: m, total: TotalScore(m), earliest: math.MaxInt64}
		if t, ok := EarliestSubmission(m); ok {
			sm.earliest = t.UnixNano()
		}
		if m.Eligible() {
			eligible = append(eligible, sm)
		} else {
			ineligible = append(ineligible, sm)
		}
	}

	slices.SortStableFunc(eligible, func(a, b scoredMember) int {
		if c := cmp.Compare(b.total, a.total); c != 0 {
			return c
		}
		return cmp.Compare(a.earliest, b.earliest)
	})

	rows := make([]MemberRow, 0, len(members))
	for i, sm := range eligible {
		rank := i + 1
		rows = append(rows, MemberRow{
			MemberID:  sm.member.ID,
			Username:  sm.member.Username,
			Ranked:    true,
			Rank:      rank,
			RankLabel: strconv.Itoa(rank),
			Total:     sm.total,
			Cells:     memberCells(sm.member, questions),
		})
	}
	for _, sm := range ineligible {
		rows = append(rows, MemberRow{
			MemberID:  sm.member.ID,
			Username:  sm.member.Username,
			RankLabel: UnrankedLabel,
			Total:     sm.total,
			Cells:     memberCells(sm.member, questions),
		})
	}
	return rows
}

func memberCells(m Member, questions []Question) []Cell {
	cells := make([]Cell, 0, len(questions))
	for _, q := range questions {
		cell := Cell{QuestionID: q.ID, State: CellNoAttempt}
		switch {
		case !m.Eligible():
			cell.State = CellNotApplicable
		default:
			if s, ok := findSubmission(m.Submissions, q.ID); ok {
				at := s.CreatedAt
				cell.State = CellAttempted
				cell.Score = s.Score
				cell.SubmittedAt = &at
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

func findSubmission(subs []Submission, questionID string) (Submission, bool) {
	for _, s := range subs {
		if s.Question.ID == questionID {
			return s, true
		}
	}
	return Submission{}, false
}
