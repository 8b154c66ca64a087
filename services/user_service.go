// services/user_service.go
package services

import (
	"errors"
	"strconv"

	"algo-journey/middleware"
	"algo-journey/models"
	"algo-journey/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetMe answers the role checks the UI needs in one call.
func (s *UserService) GetMe(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, ErrUserNotFound)
		}
		return fail(c, err)
	}

	isAdmin, err := middleware.IsAdmin(c, s.DB)
	if err != nil {
		return fail(c, err)
	}
	var led int64
	if err := s.DB.WithContext(ctx).Model(&models.Group{}).
		Where("coordinator_id = ?", user.ID).Count(&led).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"id":               user.ID,
		"username":         user.Username,
		"isAdmin":          isAdmin,
		"isCoordinator":    led > 0,
		"groupId":          user.GroupID,
		"codeforcesHandle": user.CodeforcesHandle,
	})
}

// SearchUsers matches username or email regardless of case and accents.
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	isAdmin, err := middleware.IsAdmin(c, s.DB)
	if err != nil {
		return fail(c, err)
	}

	db := s.DB.WithContext(c.UserContext()).Model(&models.User{}).Order("username ASC").Limit(limit)
	if q := utils.Fold(c.Query("q")); q != "" {
		db = db.Where("search_key LIKE ?", "%"+q+"%")
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return fail(c, err)
	}

	type UserSummary struct {
		ID       string  `json:"id"`
		Username string  `json:"username"`
		Email    string  `json:"email,omitempty"` // admins only
		GroupID  *string `json:"groupId"`
	}
	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{ID: u.ID, Username: u.Username, GroupID: u.GroupID}
		if isAdmin {
			res[i].Email = u.Email
		}
	}
	return c.JSON(fiber.Map{"users": res})
}
