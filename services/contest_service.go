package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"algo-journey/leaderboard"
	"algo-journey/middleware"
	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContestService struct {
	DB             *gorm.DB
	Order          leaderboard.GroupOrder
	StreamInterval time.Duration
	Archive        Archiver // nil disables the standings archive
}

func NewContestService(db *gorm.DB, order leaderboard.GroupOrder, streamInterval time.Duration, archive Archiver) *ContestService {
	return &ContestService{DB: db, Order: order, StreamInterval: streamInterval, Archive: archive}
}

// LoadSnapshot reads one contest with everything the leaderboard needs.
// Attempts come back in upstream rank order (attempt score, highest first)
// and members by username. Only submissions made for this contest, on one
// of its questions, are attached.
func (s *ContestService) LoadSnapshot(ctx context.Context, contestID uint) (leaderboard.Contest, error) {
	var contest models.Contest
	err := s.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Questions.Question").
		Preload("AttemptedGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("score DESC, created_at ASC")
		}).
		Preload("AttemptedGroups.Group").
		Preload("AttemptedGroups.Group.Coordinator").
		Preload("AttemptedGroups.Group.Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("username ASC")
		}).
		Preload("AttemptedGroups.Group.Members.Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Where("contest_id = ?", contestID).Order("created_at ASC")
		}).
		First(&contest, contestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaderboard.Contest{}, ErrContestNotFound
	}
	if err != nil {
		return leaderboard.Contest{}, fmt.Errorf("load contest %d: %w", contestID, err)
	}
	return toSnapshot(contest), nil
}

func toSnapshot(c models.Contest) leaderboard.Contest {
	out := leaderboard.Contest{
		ID:              leaderboard.IDFromUint(c.ID),
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		Status:          leaderboard.ContestStatus(c.Status),
		Questions:       make([]leaderboard.ContestQuestion, 0, len(c.Questions)),
		AttemptedGroups: make([]leaderboard.GroupAttempt, 0, len(c.AttemptedGroups)),
	}

	inContest := make(map[string]bool, len(c.Questions))
	for _, cq := range c.Questions {
		inContest[cq.QuestionID] = true
		out.Questions = append(out.Questions, leaderboard.ContestQuestion{Question: leaderboard.Question{
			ID:          cq.Question.ID,
			Difficulty:  leaderboard.Difficulty(cq.Question.Difficulty),
			Points:      cq.Question.Points,
			Slug:        cq.Question.Slug,
			ExternalURL: cq.Question.ExternalURL(),
		}})
	}

	for _, a := range c.AttemptedGroups {
		g := leaderboard.Group{
			ID:          a.Group.ID,
			Name:        a.Group.Name,
			Score:       a.Group.GroupPoints,
			Coordinator: leaderboard.Coordinator{Username: a.Group.Coordinator.Username},
			Members:     make([]leaderboard.Member, 0, len(a.Group.Members)),
		}
		for _, u := range a.Group.Members {
			allowed := u.IsAllowedToParticipate
			m := leaderboard.Member{
				ID:                     u.ID,
				Username:               u.Username,
				IsAllowedToParticipate: &allowed,
				Submissions:            make([]leaderboard.Submission, 0, len(u.Submissions)),
			}
			for _, sub := range u.Submissions {
				if !inContest[sub.QuestionID] {
					continue
				}
				m.Submissions = append(m.Submissions, leaderboard.Submission{
					ID:        sub.ID,
					Score:     sub.Score,
					Status:    sub.Status,
					CreatedAt: sub.CreatedAt,
					Question:  leaderboard.QuestionRef{ID: sub.QuestionID},
				})
			}
			g.Members = append(g.Members, m)
		}
		out.AttemptedGroups = append(out.AttemptedGroups, leaderboard.GroupAttempt{ID: a.ID, Score: a.Score, Group: g})
	}
	return out
}

// View renders the ranked leaderboard of one contest.
func (s *ContestService) View(ctx context.Context, contestID uint) (leaderboard.ContestView, error) {
	snap, err := s.LoadSnapshot(ctx, contestID)
	if err != nil {
		return leaderboard.ContestView{}, err
	}
	return leaderboard.BuildView(snap, s.Order), nil
}

func contestIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// loadFailed keeps a failed fetch distinct from an empty leaderboard.
func loadFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrContestNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "could not load leaderboard", "cause": err.Error()})
	}
	log.Printf("❌ [LEADERBOARD] %s: %v", c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load leaderboard"})
}

// ListContests returns every contest, newest first, each fully ranked.
func (s *ContestService) ListContests(c *fiber.Ctx) error {
	var ids []uint
	if err := s.DB.WithContext(c.UserContext()).Model(&models.Contest{}).
		Order("start_time DESC, id DESC").
		Pluck("id", &ids).Error; err != nil {
		return loadFailed(c, err)
	}

	views := make([]leaderboard.ContestView, 0, len(ids))
	for _, id := range ids {
		v, err := s.View(c.UserContext(), id)
		if err != nil {
			return loadFailed(c, err)
		}
		views = append(views, v)
	}
	return c.JSON(fiber.Map{"contests": views})
}

func (s *ContestService) GetContest(c *fiber.Ctx) error {
	id, ok := contestIDParam(c)
	if !ok {
		return badRequest(c, "invalid contest id")
	}
	v, err := s.View(c.UserContext(), id)
	if err != nil {
		return loadFailed(c, err)
	}
	return c.JSON(v)
}

// GetSnapshot exposes the raw provider record consumed by the ranking code.
func (s *ContestService) GetSnapshot(c *fiber.Ctx) error {
	id, ok := contestIDParam(c)
	if !ok {
		return badRequest(c, "invalid contest id")
	}
	snap, err := s.LoadSnapshot(c.UserContext(), id)
	if err != nil {
		return loadFailed(c, err)
	}
	return c.JSON(snap)
}

func (s *ContestService) GetGroupStanding(c *fiber.Ctx) error {
	id, ok := contestIDParam(c)
	if !ok {
		return badRequest(c, "invalid contest id")
	}
	v, err := s.View(c.UserContext(), id)
	if err != nil {
		return loadFailed(c, err)
	}
	groupID := c.Params("group_id")
	for _, g := range v.Groups {
		if g.GroupID == groupID {
			return c.JSON(fiber.Map{"contestId": v.ID, "questions": v.Questions, "group": g})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "group did not attempt this contest"})
}

type CreateContestInput struct {
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	QuestionIDs []string  `json:"questionIds"`
}

// CreateContest stores a new ACTIVE contest with its questions in the given order.
func (s *ContestService) CreateContest(ctx context.Context, in CreateContestInput) (*models.Contest, error) {
	ids := make([]string, 0, len(in.QuestionIDs))
	seen := make(map[string]bool, len(in.QuestionIDs))
	for _, id := range in.QuestionIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, ErrQuestionNotFound
	}

	var found int64
	if err := s.DB.WithContext(ctx).Model(&models.Question{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return nil, err
	}
	if int(found) != len(ids) {
		return nil, ErrQuestionNotFound
	}

	contest := models.Contest{
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Status:    models.ContestStatusActive,
	}
	for i, qid := range ids {
		contest.Questions = append(contest.Questions, models.ContestQuestion{
			ID:         uuid.NewString(),
			QuestionID: qid,
			SortOrder:  i,
		})
	}
	if err := s.DB.WithContext(ctx).Create(&contest).Error; err != nil {
		return nil, fmt.Errorf("create contest: %w", err)
	}
	return &contest, nil
}

func (s *ContestService) HandleCreateContest(c *fiber.Ctx) error {
	var in CreateContestInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return badRequest(c, "startTime and endTime are required (RFC3339)")
	}
	if !in.EndTime.After(in.StartTime) {
		return badRequest(c, "endTime must be after startTime")
	}
	if len(in.QuestionIDs) == 0 {
		return badRequest(c, "at least one question is required")
	}

	contest, err := s.CreateContest(c.UserContext(), in)
	if errors.Is(err, ErrQuestionNotFound) {
		return badRequest(c, "one or more questions do not exist")
	}
	if err != nil {
		return fail(c, err)
	}
	log.Printf("✅ Contest %d created with %d question(s)", contest.ID, len(contest.Questions))
	return c.Status(fiber.StatusCreated).JSON(contest)
}

// RegisterAttempt enters groupID into an active contest. Registering twice
// returns the existing attempt.
func (s *ContestService) RegisterAttempt(ctx context.Context, contestID uint, groupID string) (*models.GroupOnContest, error) {
	var contest models.Contest
	if err := s.DB.WithContext(ctx).First(&contest, contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	if contest.Status != models.ContestStatusActive {
		return nil, ErrContestClosed
	}

	var group models.Group
	if err := s.DB.WithContext(ctx).Select("id").First(&group, "id = ?", groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	attempt := models.GroupOnContest{ID: uuid.NewString(), ContestID: contestID, GroupID: groupID}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contest_id"}, {Name: "group_id"}},
		DoNothing: true,
	}).Create(&attempt).Error; err != nil {
		return nil, fmt.Errorf("register attempt: %w", err)
	}

	var stored models.GroupOnContest
	if err := s.DB.WithContext(ctx).
		Where("contest_id = ? AND group_id = ?", contestID, groupID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// HandleRegisterAttempt registers the caller's group. Admins may name any
// group with {"groupId": "..."}; coordinators only their own.
func (s *ContestService) HandleRegisterAttempt(c *fiber.Ctx) error {
	id, ok := contestIDParam(c)
	if !ok {
		return badRequest(c, "invalid contest id")
	}
	var req struct {
		GroupID string `json:"groupId"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid JSON")
		}
	}

	isAdmin, err := middleware.IsAdmin(c, s.DB)
	if err != nil {
		return fail(c, err)
	}

	groupID := req.GroupID
	if !isAdmin || groupID == "" {
		var led models.Group
		err := s.DB.WithContext(c.UserContext()).Select("id").
			Where("coordinator_id = ?", middleware.UserID(c)).
			First(&led).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only a group coordinator or admin can register an attempt"})
		}
		if err != nil {
			return fail(c, err)
		}
		if groupID != "" && groupID != led.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you can only register your own group"})
		}
		groupID = led.ID
	}

	attempt, err := s.RegisterAttempt(c.UserContext(), id, groupID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(attempt)
}
