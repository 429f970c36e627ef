package progressController

import (
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"credlyse/utils"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// completionThresholdPct is the strict-completion gate: a video counts as
// watched only once 98% of its duration has been accumulated.
const completionThresholdPct = 98

// MeetsCompletionThreshold reports whether the accumulated watch time passes
// the 98% gate for the given duration. Integer math, no rounding surprises:
// duration 100s needs 98s, 97s fails.
func MeetsCompletionThreshold(secondsWatched, durationSeconds int) bool {
	return secondsWatched*100 >= durationSeconds*completionThresholdPct
}

// ClampWatchTime adds elapsed seconds to the accumulated total, capped at the
// video duration so duplicate or delayed heartbeats never over-count.
func ClampWatchTime(current, elapsed, durationSeconds int) int {
	total := current + elapsed
	if durationSeconds > 0 && total > durationSeconds {
		return durationSeconds
	}
	return total
}

func getVideo(db *gorm.DB, videoID uint) (*models.Video, error) {
	var video models.Video
	if err := db.First(&video, videoID).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func getOrCreateEnrollment(db *gorm.DB, userID, playlistID uint) (*models.Enrollment, bool, error) {
	var enrollment models.Enrollment
	err := db.Where("user_id = ? AND playlist_id = ?", userID, playlistID).First(&enrollment).Error
	if err == nil {
		return &enrollment, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	enrollment = models.Enrollment{
		UserID:       userID,
		PlaylistID:   playlistID,
		LastActiveAt: time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		// A concurrent start may have created it first; re-read.
		if readErr := db.Where("user_id = ? AND playlist_id = ?", userID, playlistID).First(&enrollment).Error; readErr == nil {
			return &enrollment, false, nil
		}
		return nil, false, err
	}
	return &enrollment, true, nil
}

func getOrCreateProgress(db *gorm.DB, enrollmentID, videoID uint) (*models.VideoProgress, error) {
	var progress models.VideoProgress
	err := db.Where("enrollment_id = ? AND video_id = ?", enrollmentID, videoID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	progress = models.VideoProgress{
		EnrollmentID: enrollmentID,
		VideoID:      videoID,
		WatchStatus:  models.WatchNotStarted,
	}
	if err := db.Create(&progress).Error; err != nil {
		if readErr := db.Where("enrollment_id = ? AND video_id = ?", enrollmentID, videoID).First(&progress).Error; readErr == nil {
			return &progress, nil
		}
		return nil, err
	}
	return &progress, nil
}

// findProgress resolves the (enrollment, progress) pair for a user and video
// without creating anything. Used by heartbeat/complete/quiz, which require
// /start to have run first.
func findProgress(db *gorm.DB, userID uint, video *models.Video) (*models.Enrollment, *models.VideoProgress, error) {
	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND playlist_id = ?", userID, video.PlaylistID).First(&enrollment).Error; err != nil {
		return nil, nil, fmt.Errorf("not enrolled")
	}

	var progress models.VideoProgress
	if err := db.Where("enrollment_id = ? AND video_id = ?", enrollment.ID, video.ID).First(&progress).Error; err != nil {
		return &enrollment, nil, fmt.Errorf("no progress")
	}

	return &enrollment, &progress, nil
}

func progressPayload(p *models.VideoProgress) fiber.Map {
	return fiber.Map{
		"video_id":        p.VideoID,
		"watch_status":    p.WatchStatus,
		"seconds_watched": p.SecondsWatched,
		"quiz_score":      p.QuizScore,
		"is_quiz_passed":  p.IsQuizPassed,
	}
}

// StartVideo is the lazy-linking entry point: the enrollment and progress
// rows are created here on first play, never by merely viewing a playlist.
// Idempotent; repeated calls never reset accumulated watch time.
func StartVideo(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		VideoID uint `json:"video_id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.VideoID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "video_id is required!", nil)
	}

	db := database.Database.Db

	video, err := getVideo(db, reqData.VideoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	enrollment, created, err := getOrCreateEnrollment(db, userID, video.PlaylistID)
	if err != nil {
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start video!", nil)
	}

	if created {
		go func(enrollmentUserID, playlistID uint) {
			var user models.User
			var playlist models.Playlist
			if database.Database.Db.First(&user, enrollmentUserID).Error == nil &&
				database.Database.Db.First(&playlist, playlistID).Error == nil {
				utils.SendEnrollmentEmail(user.Email, user.FullName, playlist.Title)
			}
		}(userID, video.PlaylistID)
	}

	progress, err := getOrCreateProgress(db, enrollment.ID, video.ID)
	if err != nil {
		log.Printf("Error creating progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start video!", nil)
	}

	if progress.WatchStatus == models.WatchNotStarted {
		progress.WatchStatus = models.WatchInProgress
		db.Save(progress)
	}

	enrollment.LastActiveAt = time.Now()
	db.Save(enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video started!", progressPayload(progress))
}

// Heartbeat adds elapsed watch time for a video. Elapsed time must be
// positive; the accumulated total is clamped at the video duration.
func Heartbeat(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		VideoID        uint `json:"video_id"`
		ElapsedSeconds int  `json:"elapsed_seconds"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.VideoID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "video_id is required!", nil)
	}
	if reqData.ElapsedSeconds <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "elapsed_seconds must be positive!", nil)
	}

	db := database.Database.Db

	video, err := getVideo(db, reqData.VideoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	enrollment, progress, err := findProgress(db, userID, video)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found. Call /start first!", nil)
	}

	progress.SecondsWatched = ClampWatchTime(progress.SecondsWatched, reqData.ElapsedSeconds, video.DurationSeconds)
	if progress.WatchStatus == models.WatchNotStarted {
		progress.WatchStatus = models.WatchInProgress
	}
	db.Save(progress)

	enrollment.LastActiveAt = time.Now()
	db.Save(enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Heartbeat recorded!", progressPayload(progress))
}

// CompleteVideo transitions a video to WATCHED, but only once the 98% gate
// is met. Videos without a quiz auto-pass so they cannot block eligibility.
func CompleteVideo(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		VideoID uint `json:"video_id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.VideoID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "video_id is required!", nil)
	}

	db := database.Database.Db

	video, err := getVideo(db, reqData.VideoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	enrollment, progress, err := findProgress(db, userID, video)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found. Call /start first!", nil)
	}

	if !MeetsCompletionThreshold(progress.SecondsWatched, video.DurationSeconds) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Not enough watch time to complete this video!", progressPayload(progress))
	}

	progress.WatchStatus = models.WatchWatched
	if !video.HasQuiz {
		// No quiz to pass; auto-pass so eligibility is not blocked
		score := 100
		progress.QuizScore = &score
		progress.IsQuizPassed = true
	}
	db.Save(progress)

	refreshEnrollmentCompletion(db, enrollment)

	enrollment.LastActiveAt = time.Now()
	db.Save(enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video completed!", progressPayload(progress))
}

// GetEnrollments lists the caller's enrollments with playlist summaries.
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", userID).
		Preload("Playlist").Preload("Playlist.Videos").
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]fiber.Map, len(enrollments))
	for i, enrollment := range enrollments {
		thumbnailURL := ""
		if len(enrollment.Playlist.Videos) > 0 {
			thumbnailURL = "https://img.youtube.com/vi/" + enrollment.Playlist.Videos[0].YoutubeVideoID + "/mqdefault.jpg"
		}
		result[i] = fiber.Map{
			"id":           enrollment.ID,
			"playlist_id":  enrollment.PlaylistID,
			"is_completed": enrollment.IsCompleted,
			"enrolled_at":  enrollment.CreatedAt,
			"playlist": fiber.Map{
				"id":                  enrollment.Playlist.ID,
				"title":               enrollment.Playlist.Title,
				"description":         enrollment.Playlist.Description,
				"thumbnail_url":       thumbnailURL,
				"video_count":         enrollment.Playlist.TotalVideos,
				"is_published":        enrollment.Playlist.IsPublished,
				"youtube_playlist_id": enrollment.Playlist.YoutubeID,
			},
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", result)
}

// refreshEnrollmentCompletion recomputes the derived IsCompleted cache: every
// video in the playlist watched with its quiz passed. Safe to call anytime,
// never trusted at claim time (the claim path re-derives eligibility).
func refreshEnrollmentCompletion(db *gorm.DB, enrollment *models.Enrollment) {
	var videos []models.Video
	if err := db.Where("playlist_id = ?", enrollment.PlaylistID).Find(&videos).Error; err != nil || len(videos) == 0 {
		return
	}

	var records []models.VideoProgress
	if err := db.Where("enrollment_id = ?", enrollment.ID).Find(&records).Error; err != nil {
		return
	}
	progressByVideo := make(map[uint]models.VideoProgress, len(records))
	for _, p := range records {
		progressByVideo[p.VideoID] = p
	}

	for _, video := range videos {
		p, ok := progressByVideo[video.ID]
		if !ok || p.WatchStatus != models.WatchWatched || !p.IsQuizPassed {
			if enrollment.IsCompleted {
				enrollment.IsCompleted = false
				db.Save(enrollment)
			}
			return
		}
	}

	if !enrollment.IsCompleted {
		enrollment.IsCompleted = true
		db.Save(enrollment)
	}
}
