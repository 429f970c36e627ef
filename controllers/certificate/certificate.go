package certificateController

import (
	"credlyse/config"
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"credlyse/utils"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluateEligibility re-derives certificate eligibility from the progress
// rows: every video in the playlist must be WATCHED with its quiz passed.
// Returns the list of human-readable requirements still missing. The derived
// Enrollment.IsCompleted cache is refreshed as a side effect but never
// trusted as an input.
func EvaluateEligibility(db *gorm.DB, enrollment *models.Enrollment) (bool, []string) {
	var videos []models.Video
	if err := db.Where("playlist_id = ?", enrollment.PlaylistID).Order("id asc").Find(&videos).Error; err != nil {
		return false, []string{"failed to load course videos"}
	}
	if len(videos) == 0 {
		return false, []string{"course has no videos"}
	}

	var records []models.VideoProgress
	if err := db.Where("enrollment_id = ?", enrollment.ID).Find(&records).Error; err != nil {
		return false, []string{"failed to load progress"}
	}
	progressByVideo := make(map[uint]models.VideoProgress, len(records))
	for _, p := range records {
		progressByVideo[p.VideoID] = p
	}

	var missing []string
	for _, video := range videos {
		p, ok := progressByVideo[video.ID]
		if !ok || p.WatchStatus != models.WatchWatched {
			missing = append(missing, fmt.Sprintf("watch \"%s\"", video.Title))
			continue
		}
		if !p.IsQuizPassed {
			missing = append(missing, fmt.Sprintf("pass the quiz for \"%s\"", video.Title))
		}
	}

	eligible := len(missing) == 0
	if enrollment.IsCompleted != eligible {
		enrollment.IsCompleted = eligible
		db.Save(enrollment)
	}

	return eligible, missing
}

// CheckEligibility reports whether the caller can claim a certificate for a
// course, listing every unmet requirement.
func CheckEligibility(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, ok := c.Locals("courseID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND playlist_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	eligible, missing := EvaluateEligibility(db, &enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility checked!", fiber.Map{
		"eligible":             eligible,
		"missing_requirements": missing,
	})
}

// ClaimCertificate issues the certificate for a completed course. Idempotent:
// a repeat claim returns the existing certificate, and a concurrent duplicate
// insert loses the unique-index race and re-reads the winner's row.
func ClaimCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, ok := c.Locals("courseID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND playlist_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var existing models.Certificate
	if err := db.Where("user_id = ? AND playlist_id = ?", userID, enrollment.PlaylistID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", certificatePayload(&existing))
	}

	eligible, missing := EvaluateEligibility(db, &enrollment)
	if !eligible {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course not completed yet!", fiber.Map{
			"missing_requirements": missing,
		})
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}
	var playlist models.Playlist
	if err := db.First(&playlist, enrollment.PlaylistID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	certificate := models.Certificate{
		ID:         uuid.New(),
		UserID:     userID,
		PlaylistID: enrollment.PlaylistID,
		IssuedAt:   time.Now(),
	}

	pdfURL, err := utils.RenderCertificatePDF(certificate.ID.String(), user.FullName, playlist.Title,
		certificate.IssuedAt.Format("January 2, 2006"))
	if err != nil {
		log.Printf("Error rendering certificate PDF: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to render certificate!", nil)
	}
	certificate.PdfURL = pdfURL

	if err := db.Create(&certificate).Error; err != nil {
		// Unique (user_id, playlist_id) lost the race; return the winner.
		if readErr := db.Where("user_id = ? AND playlist_id = ?", userID, enrollment.PlaylistID).First(&existing).Error; readErr == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", certificatePayload(&existing))
		}
		log.Printf("Error creating certificate: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	enrollment.CertificateURL = certificate.PdfURL
	db.Save(&enrollment)

	go func(email, name, course, url string) {
		utils.SendCertificateEmail(email, name, course, config.AppConfig.PublicBaseURL+url)
	}(user.Email, user.FullName, playlist.Title, certificate.PdfURL)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued!", certificatePayload(&certificate))
}

// VerifyCertificate is the public verification endpoint behind the QR code
// printed on every certificate. No auth.
func VerifyCertificate(c *fiber.Ctx) error {
	certificateID, err := uuid.Parse(c.Params("certificateId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate id!", nil)
	}

	db := database.Database.Db

	var certificate models.Certificate
	if err := db.Where("id = ?", certificateID).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var user models.User
	var playlist models.Playlist
	db.First(&user, certificate.UserID)
	db.First(&playlist, certificate.PlaylistID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"certificate_id": certificate.ID,
		"student_name":   user.FullName,
		"course_title":   playlist.Title,
		"issued_at":      certificate.IssuedAt,
		"pdf_url":        certificate.PdfURL,
	})
}

// GetUserCertificates lists the caller's issued certificates.
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var certificates []models.Certificate
	if err := db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]fiber.Map, len(certificates))
	for i := range certificates {
		payload := certificatePayload(&certificates[i])
		var playlist models.Playlist
		if db.First(&playlist, certificates[i].PlaylistID).Error == nil {
			payload["course_title"] = playlist.Title
		}
		result[i] = payload
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", result)
}

func certificatePayload(cert *models.Certificate) fiber.Map {
	return fiber.Map{
		"certificate_id": cert.ID,
		"playlist_id":    cert.PlaylistID,
		"pdf_url":        cert.PdfURL,
		"issued_at":      cert.IssuedAt,
		"verify_url":     config.AppConfig.PublicBaseURL + "/certificate/" + cert.ID.String() + "/verify",
	}
}
