// handlers/contest_routes.go
package handlers

import (
	"algo-journey/middleware"
	"algo-journey/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContestRoutes(app *fiber.App, contestService *services.ContestService) {
	// 🔓 Leaderboards are readable by anyone the Gateway lets through
	app.Get("/contests", contestService.ListContests)
	app.Get("/contests/:id", contestService.GetContest)
	app.Get("/contests/:id/snapshot", contestService.GetSnapshot)
	app.Get("/contests/:id/stream", contestService.StreamLeaderboardSSE)
	app.Get("/contests/:id/groups/:group_id", contestService.GetGroupStanding)

	// 🔐 Authenticated routes. Middleware is attached per route so public
	// paths registered later are not swept up by a prefix group.
	userCtx := middleware.UserContextMiddleware()
	adminOnly := middleware.AdminOnly(contestService.DB)

	app.Post("/contests/:id/attempts", userCtx, contestService.HandleRegisterAttempt)
	app.Post("/admin/contests", userCtx, adminOnly, contestService.HandleCreateContest)
}
