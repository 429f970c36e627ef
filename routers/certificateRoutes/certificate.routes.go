package certificateRoutes

import (
	certificateControllers "credlyse/controllers/certificate"
	"credlyse/middleware"
	courseValidators "credlyse/validators/course"
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	// Public verification endpoint behind the QR code. No auth.
	certGroup.Get("/:certificateId/verify", certificateControllers.VerifyCertificate)

	courseCertGroup := app.Group("/course/:courseId/certificate",
		middleware.JWTMiddleware, courseValidators.CourseID())

	courseCertGroup.Get("/eligibility", certificateControllers.CheckEligibility)
	courseCertGroup.Post("/claim", middleware.RateLimit(5, time.Minute), certificateControllers.ClaimCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, certificateControllers.GetUserCertificates)
}
