package services

import (
	"net/http"
	"testing"

	"algo-journey/middleware"
	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type userHit struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func TestSearchUsers(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "ana")
	root := seedUser(t, db, "root")
	makeAdmin(t, db, root)
	jose := models.User{ID: uuid.NewString(), Username: "José", Email: "jose@example.com", IsAllowedToParticipate: true}
	if err := db.Create(&jose).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewUserService(db)
	app := fiber.New()
	app.Get("/users/search", middleware.UserContextMiddleware(), svc.SearchUsers)

	status, body := request(t, app, http.MethodGet, "/users/search?q=JOSE", nil, jose.ID)
	if status != http.StatusOK {
		t.Fatalf("search = %d %s", status, body)
	}
	hits := decode[map[string][]userHit](t, body)["users"]
	if len(hits) != 1 || hits[0].Username != "José" {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Email != "" {
		t.Error("email exposed to a non-admin")
	}

	_, body = request(t, app, http.MethodGet, "/users/search?q=josé", nil, root.ID)
	hits = decode[map[string][]userHit](t, body)["users"]
	if len(hits) != 1 || hits[0].Email != "jose@example.com" {
		t.Errorf("admin hits = %+v", hits)
	}

	_, body = request(t, app, http.MethodGet, "/users/search?limit=2", nil, root.ID)
	if hits = decode[map[string][]userHit](t, body)["users"]; len(hits) != 2 {
		t.Errorf("limited hits = %d", len(hits))
	}
}

func TestGetMe(t *testing.T) {
	db := newTestDB(t)
	ana, ben := seedUser(t, db, "ana"), seedUser(t, db, "ben")
	g := seedGroup(t, db, "Alpha", ana, ben)

	app := fiber.New()
	app.Get("/me", middleware.UserContextMiddleware(), NewUserService(db).GetMe)

	type me struct {
		Username      string  `json:"username"`
		IsAdmin       bool    `json:"isAdmin"`
		IsCoordinator bool    `json:"isCoordinator"`
		GroupID       *string `json:"groupId"`
	}

	_, body := request(t, app, http.MethodGet, "/me", nil, ana.ID)
	got := decode[me](t, body)
	if !got.IsCoordinator || got.IsAdmin || got.GroupID == nil || *got.GroupID != g.ID {
		t.Errorf("ana = %+v", got)
	}

	_, body = request(t, app, http.MethodGet, "/me", nil, ben.ID, "admin")
	got = decode[me](t, body)
	if got.IsCoordinator || !got.IsAdmin {
		t.Errorf("ben = %+v", got)
	}

	if status, _ := request(t, app, http.MethodGet, "/me", nil, "ghost"); status != http.StatusNotFound {
		t.Errorf("unknown user = %d", status)
	}
}
