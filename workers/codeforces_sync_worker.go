// workers/codeforces_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"algo-journey/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CodeforcesSubmission is one entry of the user.status API result.
type CodeforcesSubmission struct {
	ID                  int64  `json:"id"`
	ContestID           int    `json:"contestId"`
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	Problem             struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
		Name      string `json:"name"`
	} `json:"problem"`
}

// UserStatusResponse is the envelope every Codeforces API call returns.
type UserStatusResponse struct {
	Status  string                 `json:"status"`
	Comment string                 `json:"comment,omitempty"`
	Result  []CodeforcesSubmission `json:"result"`
}

// ScoreRecomputer refreshes contest totals after new submissions land.
type ScoreRecomputer interface {
	RecomputeContestScores(ctx context.Context, contestID uint) error
}

type CodeforcesSyncWorker struct {
	db         *gorm.DB
	scores     ScoreRecomputer
	interval   time.Duration
	baseURL    string // e.g., "https://codeforces.com"
	batchSize  int
	httpClient *http.Client
}

func NewCodeforcesSyncWorker(db *gorm.DB, scores ScoreRecomputer, baseURL string, interval time.Duration, httpClient *http.Client) *CodeforcesSyncWorker {
	return &CodeforcesSyncWorker{
		db:         db,
		scores:     scores,
		interval:   interval,
		baseURL:    baseURL,
		batchSize:  50,
		httpClient: httpClient,
	}
}

func (w *CodeforcesSyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Println("⏸️ Codeforces Sync Worker disabled (CODEFORCES_SYNC_INTERVAL=0)")
		return
	}
	log.Println("🔁 Starting Codeforces Sync Worker (codeforces → submissions)…")
	go w.run(ctx)
}

func (w *CodeforcesSyncWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.SyncActiveContests(ctx); err != nil {
				log.Printf("❌ [CF_SYNC] Sync failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Codeforces Sync Worker stopped")
			return
		}
	}
}

var problemURLPattern = regexp.MustCompile(`/(?:problemset/problem|contest)/(\d+)/(?:problem/)?([A-Za-z][A-Za-z0-9]*)/?$`)

// ProblemKey extracts "<contest>/<index>" from a Codeforces problem URL.
func ProblemKey(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	m := problemURLPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1] + "/" + m[2], true
}

type syncMember struct {
	ID               string
	CodeforcesHandle string
}

// SyncActiveContests ingests accepted Codeforces submissions for every
// eligible member of every group attempting an active contest.
func (w *CodeforcesSyncWorker) SyncActiveContests(ctx context.Context) error {
	var contests []models.Contest
	if err := w.db.WithContext(ctx).
		Preload("Questions.Question").
		Where("status = ?", models.ContestStatusActive).
		Find(&contests).Error; err != nil {
		return fmt.Errorf("load active contests: %w", err)
	}

	for _, contest := range contests {
		if err := w.syncContest(ctx, contest); err != nil {
			log.Printf("⚠️ [CF_SYNC] contest %d: %v", contest.ID, err)
		}
	}
	return nil
}

func (w *CodeforcesSyncWorker) syncContest(ctx context.Context, contest models.Contest) error {
	problems := make(map[string]models.Question)
	for _, cq := range contest.Questions {
		if cq.Question.CodeforcesURL == nil {
			continue
		}
		if key, ok := ProblemKey(*cq.Question.CodeforcesURL); ok {
			problems[key] = cq.Question
		}
	}
	if len(problems) == 0 {
		return nil
	}

	var members []syncMember
	if err := w.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id, users.codeforces_handle").
		Joins("JOIN group_on_contests ON group_on_contests.group_id = users.group_id").
		Where("group_on_contests.contest_id = ?", contest.ID).
		Where("users.is_allowed_to_participate = ? AND users.codeforces_handle IS NOT NULL AND users.codeforces_handle <> ''", true).
		Scan(&members).Error; err != nil {
		return fmt.Errorf("load members: %w", err)
	}

	var upserted int
	for _, m := range members {
		subs, err := w.fetchUserStatus(ctx, m.CodeforcesHandle)
		if err != nil {
			log.Printf("⚠️ [CF_SYNC] %s: %v", m.CodeforcesHandle, err)
			continue
		}
		for _, cf := range subs {
			q, ok := matchSubmission(cf, contest, problems)
			if !ok {
				continue
			}
			if err := w.upsertSubmission(ctx, m.ID, contest.ID, q, cf); err != nil {
				log.Printf("⚠️ [CF_SYNC] Failed to upsert submission %d for %s: %v", cf.ID, m.CodeforcesHandle, err)
				continue
			}
			upserted++
		}
	}

	if err := w.scores.RecomputeContestScores(ctx, contest.ID); err != nil {
		return fmt.Errorf("recompute scores: %w", err)
	}
	log.Printf("[CF_SYNC] ✅ Contest %d: %d member(s) checked, %d accepted submission(s) stored", contest.ID, len(members), upserted)
	return nil
}

// matchSubmission keeps accepted submissions made during the contest on one
// of its questions.
func matchSubmission(cf CodeforcesSubmission, contest models.Contest, problems map[string]models.Question) (models.Question, bool) {
	if cf.Verdict != "OK" {
		return models.Question{}, false
	}
	at := time.Unix(cf.CreationTimeSeconds, 0).UTC()
	if at.Before(contest.StartTime) || at.After(contest.EndTime) {
		return models.Question{}, false
	}
	q, ok := problems[fmt.Sprintf("%d/%s", cf.Problem.ContestID, cf.Problem.Index)]
	return q, ok
}

// upsertSubmission stores the submission, replacing an existing one only when
// the new score is higher.
func (w *CodeforcesSyncWorker) upsertSubmission(ctx context.Context, userID string, contestID uint, q models.Question, cf CodeforcesSubmission) error {
	sub := models.Submission{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: q.ID,
		ContestID:  &contestID,
		Score:      float64(q.Points),
		Status:     models.SubmissionStatusAccepted,
		ExternalID: fmt.Sprintf("cf-%d", cf.ID),
		CreatedAt:  time.Unix(cf.CreationTimeSeconds, 0).UTC(),
	}
	return w.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}, {Name: "contest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "status", "external_id", "created_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "submissions.score < excluded.score"},
		}},
	}).Create(&sub).Error
}

func (w *CodeforcesSyncWorker) fetchUserStatus(ctx context.Context, handle string) ([]CodeforcesSubmission, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Codeforces API URL '%s': %w", w.baseURL, err)
	}
	endpoint := base.JoinPath("/api/user.status")
	q := endpoint.Query()
	q.Set("handle", handle)
	q.Set("from", "1")
	q.Set("count", fmt.Sprint(w.batchSize))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to Codeforces failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var body UserStatusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&body); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("codeforces returned %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode Codeforces response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "OK" {
		return nil, fmt.Errorf("codeforces returned %d: %s", resp.StatusCode, body.Comment)
	}
	return body.Result, nil
}
