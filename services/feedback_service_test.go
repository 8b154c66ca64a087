package services

import (
	"net/http"
	"strings"
	"testing"

	"algo-journey/middleware"
	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newFeedbackApp(db *gorm.DB) *fiber.App {
	svc := NewFeedbackService(db)
	userCtx, adminOnly := middleware.UserContextMiddleware(), middleware.AdminOnly(db)
	app := fiber.New()
	app.Post("/feedback", userCtx, svc.SubmitFeedback)
	app.Get("/admin/feedback", userCtx, adminOnly, svc.ListFeedback)
	app.Delete("/admin/feedback", userCtx, adminOnly, svc.DeleteFeedback)
	return app
}

func TestSubmitFeedback(t *testing.T) {
	db := newTestDB(t)
	ana := seedUser(t, db, "ana")
	app := newFeedbackApp(db)

	tests := []struct {
		name    string
		user    string
		content string
		status  int
	}{
		{"anonymous", "", "hello", http.StatusUnauthorized},
		{"blank", ana.ID, "   \n\t", http.StatusBadRequest},
		{"too long", ana.ID, strings.Repeat("x", models.MaxFeedbackLength+1), http.StatusBadRequest},
		{"at limit", ana.ID, strings.Repeat("é", models.MaxFeedbackLength), http.StatusCreated},
		{"unknown user", "ghost", "hi", http.StatusNotFound},
		{"trimmed", ana.ID, "  great contest  ", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := request(t, app, http.MethodPost, "/feedback", map[string]string{"content": tt.content}, tt.user)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%s)", status, tt.status, body)
			}
		})
	}

	var stored models.Feedback
	if err := db.Where("content = ?", "great contest").First(&stored).Error; err != nil {
		t.Fatalf("trimmed feedback not stored: %v", err)
	}
	if stored.Username != "ana" {
		t.Errorf("username snapshot = %q", stored.Username)
	}
}

func TestListAndDeleteFeedback(t *testing.T) {
	db := newTestDB(t)
	ana := seedUser(t, db, "ana")
	root := seedUser(t, db, "root")
	makeAdmin(t, db, root)
	app := newFeedbackApp(db)

	for _, msg := range []string{"one", "two", "three"} {
		if status, body := request(t, app, http.MethodPost, "/feedback", map[string]string{"content": msg}, ana.ID); status != http.StatusCreated {
			t.Fatalf("submit %s = %d %s", msg, status, body)
		}
	}

	if status, _ := request(t, app, http.MethodGet, "/admin/feedback", nil, ana.ID); status != http.StatusForbidden {
		t.Errorf("non-admin list = %d, want 403", status)
	}

	type page struct {
		Success    bool              `json:"success"`
		Feedback   []models.Feedback `json:"feedback"`
		Pagination struct {
			Total   int  `json:"total"`
			Limit   int  `json:"limit"`
			Offset  int  `json:"offset"`
			HasMore bool `json:"hasMore"`
		} `json:"pagination"`
	}

	status, body := request(t, app, http.MethodGet, "/admin/feedback?limit=2", nil, root.ID)
	if status != http.StatusOK {
		t.Fatalf("list = %d %s", status, body)
	}
	p := decode[page](t, body)
	if len(p.Feedback) != 2 || p.Pagination.Total != 3 || !p.Pagination.HasMore {
		t.Errorf("first page = %+v", p)
	}

	status, body = request(t, app, http.MethodGet, "/admin/feedback?limit=2&offset=2", nil, root.ID)
	p = decode[page](t, body)
	if status != http.StatusOK || len(p.Feedback) != 1 || p.Pagination.HasMore {
		t.Errorf("second page = %d %+v", status, p)
	}

	status, body = request(t, app, http.MethodGet, "/admin/feedback?limit=100000000", nil, root.ID)
	if p := decode[page](t, body); status != http.StatusOK || p.Pagination.Limit != maxFeedbackLimit || len(p.Feedback) != 3 {
		t.Errorf("oversized limit = %d %+v", status, p.Pagination)
	}

	if status, _ := request(t, app, http.MethodGet, "/admin/feedback?offset=-1", nil, root.ID); status != http.StatusBadRequest {
		t.Errorf("negative offset = %d", status)
	}

	target := p.Feedback[0].ID
	if status, _ := request(t, app, http.MethodDelete, "/admin/feedback", map[string]string{}, root.ID); status != http.StatusBadRequest {
		t.Errorf("missing id = %d, want 400", status)
	}
	if status, _ := request(t, app, http.MethodDelete, "/admin/feedback", map[string]string{"feedbackId": target}, root.ID); status != http.StatusOK {
		t.Errorf("delete = %d", status)
	}
	if status, _ := request(t, app, http.MethodDelete, "/admin/feedback", map[string]string{"feedbackId": target}, root.ID); status != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", status)
	}
}
