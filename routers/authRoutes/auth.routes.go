package authRoutes

import (
	authControllers "credlyse/controllers/auth"
	"credlyse/middleware"
	authValidators "credlyse/validators/auth"
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", middleware.RateLimit(10, time.Minute), authValidators.Login(), authControllers.Login)
	authGroup.Post("/verify/email", authControllers.VerifyEmail)
	authGroup.Post("/resend/otp", middleware.RateLimit(3, time.Minute), authControllers.ResendOTP)
	authGroup.Patch("/reset/password", authControllers.ResetPassword)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
}
