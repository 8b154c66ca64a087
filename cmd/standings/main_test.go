package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"algo-journey/leaderboard"

	"github.com/fatih/color"
)

const snapshot = `{
  "id": 3,
  "startTime": "2025-03-05T08:00:00Z",
  "endTime": "2025-03-05T11:00:00Z",
  "status": "ACTIVE",
  "questions": [{"question": {"id": "q1", "difficulty": "EASY", "points": 50, "slug": "two-sum"}}],
  "attemptedGroups": [{"id": "a1", "score": 50, "group": {
    "id": "g1", "name": "Alpha", "score": 50, "coordinator": {"username": "ana"},
    "members": [
      {"id": "u1", "username": "ana", "submissions": [
        {"id": "s1", "score": 50, "status": "ACCEPTED", "createdAt": "2025-03-05T09:00:00Z", "question": {"id": "q1"}}
      ]},
      {"id": "u2", "username": "ben", "isAllowedToParticipate": false}
    ]
  }}]
}`

func TestFetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"invalid gateway authentication token"}`)
			return
		}
		if r.URL.Path != "/contests/3/snapshot" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"could not load leaderboard"}`)
			return
		}
		fmt.Fprint(w, snapshot)
	}))
	defer srv.Close()

	body, err := fetchSnapshot(context.Background(), srv.URL, "3", "tok")
	if err != nil {
		t.Fatalf("fetchSnapshot: %v", err)
	}
	if _, err := leaderboard.DecodeContest(body); err != nil {
		t.Errorf("decode: %v", err)
	}

	if _, err := fetchSnapshot(context.Background(), srv.URL, "4", "tok"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("missing contest error = %v", err)
	}
	if _, err := fetchSnapshot(context.Background(), srv.URL, "3", ""); err == nil {
		t.Error("expected error without token")
	}
}

func TestRender(t *testing.T) {
	color.NoColor = true
	contest, err := leaderboard.DecodeContest([]byte(snapshot))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var buf bytes.Buffer
	render(&buf, leaderboard.BuildView(contest, leaderboard.OrderByAttempt))
	out := buf.String()

	for _, want := range []string{"Contest 3", "two-sum", "Easy", "#1 Alpha", "1 participating, 1 not allowed", "Group total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	var benLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "ben") {
			benLine = line
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(benLine), leaderboard.UnrankedLabel) {
		t.Errorf("ineligible row = %q, want unranked label", benLine)
	}
	if !strings.Contains(benLine, "n/a") {
		t.Errorf("ineligible row = %q, want n/a cells", benLine)
	}
}

func TestRenderEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	render(&buf, leaderboard.BuildView(leaderboard.Contest{ID: "9", Status: leaderboard.ContestActive}, leaderboard.OrderByAttempt))
	if !strings.Contains(buf.String(), "No group has attempted") {
		t.Errorf("output = %q", buf.String())
	}
}
