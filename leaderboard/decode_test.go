package leaderboard

import (
	"errors"
	"strings"
	"testing"
)

const validSnapshot = `{
  "id": 12,
  "startTime": "2025-03-01T08:00:00Z",
  "endTime": "2025-03-01T11:00:00Z",
  "status": "ACTIVE",
  "questions": [
    {"question": {"id": "q1", "difficulty": "EASY", "points": 50, "slug": "two-sum"}},
    {"question": {"id": "q2", "difficulty": "HARD", "points": 100, "slug": "segment-tree", "externalUrl": "https://codeforces.com/problemset/problem/1/A"}}
  ],
  "attemptedGroups": [
    {"id": "a1", "score": 50, "group": {
      "id": "g1", "name": "Alpha", "score": 50, "coordinator": {"username": "ana"},
      "members": [
        {"id": "u1", "username": "ana", "submissions": [
          {"id": "s1", "score": 50, "status": "ACCEPTED", "createdAt": "2025-03-01T09:00:00Z", "question": {"id": "q1"}}
        ]},
        {"id": "u2", "username": "ben", "isAllowedToParticipate": false},
        {"id": "u3", "username": "cy", "submissions": null}
      ]
    }},
    {"id": "a2", "score": 0, "group": {"id": "g2", "name": "Beta", "score": 0, "coordinator": {"username": "dee"}}}
  ]
}`

func TestDecodeContestValid(t *testing.T) {
	c, err := DecodeContest([]byte(validSnapshot))
	if err != nil {
		t.Fatalf("DecodeContest: %v", err)
	}
	if c.ID != "12" {
		t.Errorf("id = %q, want 12", c.ID)
	}
	if len(c.QuestionList()) != 2 {
		t.Errorf("questions = %d, want 2", len(c.QuestionList()))
	}
	members := c.AttemptedGroups[0].Group.Members
	if members[1].Eligible() {
		t.Error("ben should be ineligible")
	}
	if members[2].Submissions == nil {
		t.Error("null submissions should decode as empty")
	}
	if c.AttemptedGroups[1].Group.Members == nil {
		t.Error("missing members should decode as empty")
	}
	if rows := RankMembers(c.AttemptedGroups[1].Group.Members, c.QuestionList()); len(rows) != 0 {
		t.Errorf("empty group ranked %d rows", len(rows))
	}
}

func TestDecodeContestStringID(t *testing.T) {
	c, err := DecodeContest([]byte(`{"id": "abc"}`))
	if err != nil {
		t.Fatalf("DecodeContest: %v", err)
	}
	if c.ID != "abc" || c.Questions == nil || c.AttemptedGroups == nil {
		t.Errorf("decoded = %+v", c)
	}
}

func TestDecodeContestRejects(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantPath string
	}{
		{"empty", ``, ""},
		{"malformed", `{"id":`, ""},
		{"wrong type", `{"id": 1, "questions": {"question": 1}}`, ""},
		{"missing id", `{"questions": []}`, "id"},
		{"question without id", `{"id": 1, "questions": [{"question": {"points": 5}}]}`, "questions[0].question.id"},
		{"zero points", `{"id": 1, "questions": [{"question": {"id": "q", "points": 0}}]}`, "questions[0].question.points"},
		{"group without id", `{"id": 1, "attemptedGroups": [{"group": {}}]}`, "attemptedGroups[0].group.id"},
		{"member without id", `{"id": 1, "attemptedGroups": [{"group": {"id": "g", "members": [{}]}}]}`, "attemptedGroups[0].group.members[0].id"},
		{
			"negative score",
			`{"id": 1, "questions": [{"question": {"id": "q", "points": 5}}], "attemptedGroups": [{"group": {"id": "g", "members": [{"id": "m", "submissions": [{"score": -1, "question": {"id": "q"}}]}]}}]}`,
			"attemptedGroups[0].group.members[0].submissions[0].score",
		},
		{
			"foreign question",
			`{"id": 1, "questions": [{"question": {"id": "q", "points": 5}}], "attemptedGroups": [{"group": {"id": "g", "members": [{"id": "m", "submissions": [{"score": 1, "question": {"id": "other"}}]}]}}]}`,
			"attemptedGroups[0].group.members[0].submissions[0].question.id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeContest([]byte(tt.payload))
			if err == nil {
				t.Fatal("expected error")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DecodeError", err)
			}
			if de.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", de.Path, tt.wantPath)
			}
			if !strings.HasPrefix(err.Error(), "decode contest: ") {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}
