package extensionRoutes

import (
	extensionControllers "credlyse/controllers/extension"
	progressControllers "credlyse/controllers/progress"
	"credlyse/middleware"
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupExtensionRoutes(app *fiber.App) {
	extensionGroup := app.Group("/extension")

	extensionGroup.Get("/playlist-status", middleware.OptionalJWTMiddleware,
		extensionControllers.GetPlaylistStatus)
	extensionGroup.Get("/video-quiz/:videoId", middleware.JWTMiddleware,
		progressControllers.GetQuiz)
	extensionGroup.Post("/enroll/:playlistId", middleware.JWTMiddleware,
		middleware.RateLimit(10, time.Minute),
		extensionControllers.EnrollInPlaylist)
}
