package handlers

import (
	"algo-journey/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	app.Get("/leaderboard/weekly", leaderboardService.GetWeekly)
	app.Post("/leaderboard/weekly", leaderboardService.GetWeekly)
	app.Get("/leaderboard/groups", leaderboardService.GetGroups)
	app.Post("/leaderboard/groups", leaderboardService.GetGroups)
}
