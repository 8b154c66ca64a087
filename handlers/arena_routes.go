package handlers

import (
	"algo-journey/middleware"
	"algo-journey/services"

	"github.com/gofiber/fiber/v2"
)

func SetupArenaRoutes(app *fiber.App, questionService *services.QuestionService) {
	userCtx := middleware.UserContextMiddleware()

	app.Get("/tags", questionService.GetTags)
	app.Post("/questions/topic", userCtx, questionService.GetTopicQuestions)
	app.Get("/progress", userCtx, questionService.GetProgress)

	app.Post("/admin/questions", userCtx, middleware.AdminOnly(questionService.DB), questionService.CreateQuestion)
}
