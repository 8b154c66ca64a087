package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrContestNotFound   = errors.New("contest not found")
	ErrContestClosed     = errors.New("contest is no longer active")
	ErrGroupNotFound     = errors.New("group not found")
	ErrGroupNameTaken    = errors.New("a group with this name already exists")
	ErrAlreadyInGroup    = errors.New("user already belongs to a group")
	ErrNotInGroup        = errors.New("user does not belong to a group")
	ErrCoordinatorLeave  = errors.New("the coordinator cannot leave their own group")
	ErrUserNotFound      = errors.New("user not found")
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrQuestionSlugTaken = errors.New("a question with this slug already exists")
	ErrForbidden         = errors.New("not allowed")
)

// statusFor maps a service error onto the HTTP status the handlers report.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrContestNotFound), errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrUserNotFound), errors.Is(err, ErrFeedbackNotFound),
		errors.Is(err, ErrQuestionNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrGroupNameTaken), errors.Is(err, ErrAlreadyInGroup),
		errors.Is(err, ErrNotInGroup), errors.Is(err, ErrCoordinatorLeave),
		errors.Is(err, ErrContestClosed), errors.Is(err, ErrQuestionSlugTaken):
		return fiber.StatusConflict
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// fail writes err as a JSON error body. Unknown errors are logged and hidden.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
