package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var day = time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC) // a Wednesday

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := models.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open("file::memory:"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps a single in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{ID: uuid.NewString(), Username: username, Email: username + "@example.com", IsAllowedToParticipate: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func disallow(t *testing.T, db *gorm.DB, u models.User) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", u.ID).Update("is_allowed_to_participate", false).Error; err != nil {
		t.Fatalf("disallow %s: %v", u.Username, err)
	}
}

func makeAdmin(t *testing.T, db *gorm.DB, u models.User) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", u.ID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("make admin %s: %v", u.Username, err)
	}
}

func seedGroup(t *testing.T, db *gorm.DB, name string, coordinator models.User, members ...models.User) models.Group {
	t.Helper()
	g := models.Group{ID: uuid.NewString(), Name: name, Slug: name, CoordinatorID: coordinator.ID}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	ids := []string{coordinator.ID}
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Update("group_id", g.ID).Error; err != nil {
		t.Fatalf("assign group %s: %v", name, err)
	}
	return g
}

func seedQuestion(t *testing.T, db *gorm.DB, slug, difficulty string, points int) models.Question {
	t.Helper()
	q := models.Question{ID: uuid.NewString(), Slug: slug, Title: slug, Difficulty: difficulty, Points: points}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed question %s: %v", slug, err)
	}
	return q
}

func seedContest(t *testing.T, db *gorm.DB, start, end time.Time, questions ...models.Question) models.Contest {
	t.Helper()
	c := models.Contest{StartTime: start, EndTime: end, Status: models.ContestStatusActive}
	for i, q := range questions {
		c.Questions = append(c.Questions, models.ContestQuestion{ID: uuid.NewString(), QuestionID: q.ID, SortOrder: i})
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed contest: %v", err)
	}
	return c
}

func seedAttempt(t *testing.T, db *gorm.DB, c models.Contest, g models.Group, score float64) models.GroupOnContest {
	t.Helper()
	a := models.GroupOnContest{ID: uuid.NewString(), ContestID: c.ID, GroupID: g.ID, Score: score}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	return a
}

func seedSubmission(t *testing.T, db *gorm.DB, u models.User, q models.Question, contestID *uint, score float64, at time.Time) models.Submission {
	t.Helper()
	s := models.Submission{
		ID: uuid.NewString(), UserID: u.ID, QuestionID: q.ID, ContestID: contestID,
		Score: score, Status: models.SubmissionStatusAccepted, CreatedAt: at,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return s
}

func uintPtr(v uint) *uint { return &v }

// request drives app with an optional JSON body and caller identity.
func request(t *testing.T, app *fiber.App, method, path string, body any, userID string, roles ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if len(roles) > 0 {
		req.Header.Set("X-User-Roles", strings.Join(roles, ","))
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}
