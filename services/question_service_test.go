package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"algo-journey/middleware"
	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
)

func TestTopicCategory(t *testing.T) {
	tests := map[string]string{
		"DP":           CategoryAlgorithms,
		"2DArrays":     CategoryDataStructures,
		"BasicMaths":   CategoryConcepts,
		"SomethingNew": CategoryConcepts,
		"":             CategoryConcepts,
	}
	for tag, want := range tests {
		if got := TopicCategory(tag); got != want {
			t.Errorf("TopicCategory(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestCreateQuestionInputNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateQuestionInput
		slug    string
		wantErr bool
	}{
		{"derived slug", CreateQuestionInput{Title: "Two Sum II", Difficulty: "easy", Points: 10}, "two-sum-ii", false},
		{"explicit slug", CreateQuestionInput{Title: "x", Slug: "custom", Difficulty: "HARD", Points: 5}, "custom", false},
		{"bad difficulty", CreateQuestionInput{Title: "x", Difficulty: "INSANE", Points: 5}, "", true},
		{"zero points", CreateQuestionInput{Title: "x", Difficulty: "EASY"}, "", true},
		{"no title", CreateQuestionInput{Difficulty: "EASY", Points: 5}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := in.normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && in.Slug != tt.slug {
				t.Errorf("slug = %q, want %q", in.Slug, tt.slug)
			}
		})
	}
}

func TestArenaProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ctx := context.Background()
	ana := seedUser(t, db, "ana")

	mk := func(title string, points int, tags ...string) string {
		in := CreateQuestionInput{Title: title, Difficulty: "EASY", Points: points, Tags: tags}
		if err := in.normalize(); err != nil {
			t.Fatalf("normalize: %v", err)
		}
		q, err := svc.Create(ctx, in)
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		return q.ID
	}
	q1 := mk("Prefix One", 10, "PrefixSum")
	mk("Prefix Two", 20, "PrefixSum", "DP")
	mk("Prefix Three", 30, "PrefixSum")
	q4 := mk("Custom", 5, "Custom")

	if _, err := svc.Create(ctx, CreateQuestionInput{Title: "Prefix One", Slug: "prefix-one", Difficulty: "EASY", Points: 1}); !errors.Is(err, ErrQuestionSlugTaken) {
		t.Errorf("duplicate slug err = %v", err)
	}

	for _, id := range []string{q1, q4} {
		seedSubmission(t, db, ana, models.Question{ID: id}, nil, 1, day)
	}

	progress, err := svc.Progress(ctx, ana.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p := progress["PrefixSum"]; p.Total != 3 || p.Solved != 1 || p.Percentage != 33 || p.Category != CategoryAlgorithms {
		t.Errorf("PrefixSum = %+v", p)
	}
	if p := progress["DP"]; p.Total != 1 || p.Solved != 0 || p.Percentage != 0 {
		t.Errorf("DP = %+v", p)
	}
	if p := progress["Custom"]; p.Percentage != 100 || p.Category != CategoryConcepts {
		t.Errorf("Custom = %+v", p)
	}

	topic, err := svc.TopicQuestions(ctx, "PrefixSum", ana.ID)
	if err != nil {
		t.Fatalf("TopicQuestions: %v", err)
	}
	if len(topic) != 3 || !topic[0].Solved || topic[1].Solved || topic[0].DifficultyLabel != "Easy" {
		t.Errorf("topic = %+v", topic)
	}
}

func TestArenaRoutes(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ana, root := seedUser(t, db, "ana"), seedUser(t, db, "root")
	makeAdmin(t, db, root)

	userCtx := middleware.UserContextMiddleware()
	app := fiber.New()
	app.Get("/tags", svc.GetTags)
	app.Post("/questions/topic", userCtx, svc.GetTopicQuestions)
	app.Post("/admin/questions", userCtx, middleware.AdminOnly(db), svc.CreateQuestion)

	body := map[string]any{"title": "Binary Lifting", "difficulty": "HARD", "points": 40, "tags": []string{"Graph", "Graph", "BinarySearch"}}
	if status, _ := request(t, app, http.MethodPost, "/admin/questions", body, ana.ID); status != http.StatusForbidden {
		t.Errorf("non-admin create = %d", status)
	}
	if status, out := request(t, app, http.MethodPost, "/admin/questions", body, root.ID); status != http.StatusCreated {
		t.Fatalf("create = %d %s", status, out)
	}
	if status, _ := request(t, app, http.MethodPost, "/admin/questions", body, root.ID); status != http.StatusConflict {
		t.Errorf("duplicate = %d", status)
	}
	if status, _ := request(t, app, http.MethodPost, "/admin/questions", map[string]any{"title": "x", "difficulty": "EASY"}, root.ID); status != http.StatusBadRequest {
		t.Errorf("invalid = %d", status)
	}

	_, out := request(t, app, http.MethodGet, "/tags", nil, "")
	tags := decode[[]struct{ Name string }](t, out)
	if len(tags) != 2 || tags[0].Name != "BinarySearch" || tags[1].Name != "Graph" {
		t.Errorf("tags = %+v", tags)
	}

	if status, _ := request(t, app, http.MethodPost, "/questions/topic", map[string]string{}, ana.ID); status != http.StatusBadRequest {
		t.Errorf("missing topic = %d", status)
	}
	status, out := request(t, app, http.MethodPost, "/questions/topic", map[string]string{"topic": "Graph"}, ana.ID)
	if status != http.StatusOK || len(decode[struct{ Questions []QuestionWithStatus }](t, out).Questions) != 1 {
		t.Errorf("topic = %d %s", status, out)
	}
}
