package progressRoutes

import (
	progressControllers "credlyse/controllers/progress"
	"credlyse/middleware"
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	progressGroup.Post("/start", progressControllers.StartVideo)
	progressGroup.Post("/heartbeat", middleware.RateLimit(120, time.Minute), progressControllers.Heartbeat)
	progressGroup.Post("/complete", progressControllers.CompleteVideo)
	progressGroup.Post("/quiz/submit", middleware.RateLimit(30, time.Minute), progressControllers.SubmitQuiz)
	progressGroup.Get("/enrollments", progressControllers.GetEnrollments)
}
