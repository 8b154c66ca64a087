// handlers/community_routes.go
package handlers

import (
	"algo-journey/middleware"
	"algo-journey/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupCommunityRoutes wires identity, groups and feedback.
func SetupCommunityRoutes(app *fiber.App, db *gorm.DB, userService *services.UserService, groupService *services.GroupService, feedbackService *services.FeedbackService) {
	userCtx := middleware.UserContextMiddleware()
	adminOnly := middleware.AdminOnly(db)

	app.Get("/me", userCtx, userService.GetMe)
	app.Get("/users/search", userCtx, userService.SearchUsers)

	// Groups
	app.Get("/groups", userCtx, groupService.ListGroups)
	app.Post("/groups/leave", userCtx, groupService.LeaveGroup)
	app.Get("/groups/by-name/:name/members", userCtx, groupService.GetMembersByName)
	app.Post("/groups/:id/join", userCtx, groupService.JoinGroup)
	app.Post("/groups/:id/members", userCtx, groupService.AddGroupMembers)

	// Feedback
	app.Post("/feedback", userCtx, feedbackService.SubmitFeedback)

	// 🔐 Admin endpoints
	app.Post("/admin/groups", userCtx, adminOnly, groupService.CreateGroup)
	app.Delete("/admin/groups/:id", userCtx, adminOnly, groupService.DeleteGroup)
	app.Get("/admin/feedback", userCtx, adminOnly, feedbackService.ListFeedback)
	app.Delete("/admin/feedback", userCtx, adminOnly, feedbackService.DeleteFeedback)
}
