package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"algo-journey/middleware"
	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultFeedbackLimit = 50
	maxFeedbackLimit     = 200
)

type FeedbackService struct {
	DB *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{DB: db}
}

// Submit stores trimmed feedback from userID with a snapshot of their username.
func (s *FeedbackService) Submit(ctx context.Context, userID, content string) (*models.Feedback, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Select("id", "username").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fb := models.Feedback{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(&fb).Error; err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	return &fb, nil
}

func (s *FeedbackService) List(ctx context.Context, limit, offset int) ([]models.Feedback, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []models.Feedback{}
	if err := s.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Feedback{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (s *FeedbackService) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return badRequest(c, "Feedback content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxFeedbackLength {
		return badRequest(c, fmt.Sprintf("Feedback must be %d characters or less", models.MaxFeedbackLength))
	}

	fb, err := s.Submit(c.UserContext(), middleware.UserID(c), content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Feedback submitted successfully",
		"feedback": fiber.Map{
			"id":        fb.ID,
			"createdAt": fb.CreatedAt,
		},
	})
}

func (s *FeedbackService) ListFeedback(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultFeedbackLimit)))
	if err != nil || limit <= 0 {
		return badRequest(c, "limit must be a positive integer")
	}
	if limit > maxFeedbackLimit {
		limit = maxFeedbackLimit
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return badRequest(c, "offset must be a non-negative integer")
	}

	items, total, err := s.List(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"feedback": items,
		"pagination": fiber.Map{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": int64(offset+len(items)) < total,
		},
	})
}

func (s *FeedbackService) DeleteFeedback(c *fiber.Ctx) error {
	var req struct {
		FeedbackID string `json:"feedbackId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if strings.TrimSpace(req.FeedbackID) == "" {
		return badRequest(c, "Feedback ID is required")
	}
	if err := s.Delete(c.UserContext(), req.FeedbackID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Feedback deleted successfully"})
}
