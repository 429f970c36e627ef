package courseController

import (
	"context"
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"credlyse/utils"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AnalyzeCourse triggers background quiz generation for every PENDING or
// FAILED video in the course. The request returns immediately; callers poll
// GetAnalysisStatus to observe PENDING → RUNNING → COMPLETED/FAILED.
func AnalyzeCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var playlist models.Playlist
	if err := db.First(&playlist, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if playlist.CreatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only analyze your own courses!", nil)
	}

	var videos []models.Video
	if err := db.Where("playlist_id = ? AND analysis_status IN ?", playlist.ID,
		[]string{models.AnalysisPending, models.AnalysisFailed}).Find(&videos).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch videos!", nil)
	}

	if len(videos) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No videos pending analysis.", fiber.Map{
			"queued": 0,
		})
	}

	for _, video := range videos {
		db.Model(&models.Video{}).Where("id = ?", video.ID).
			Update("analysis_status", models.AnalysisRunning)

		go analyzeVideo(video.ID)
	}

	return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Analysis started.", fiber.Map{
		"queued": len(videos),
	})
}

// analyzeVideo runs the transcript + quiz pipeline for one video.
// Fire-and-forget: failures are recorded on the row, never retried here.
func analyzeVideo(videoID uint) {
	db := database.Database.Db

	var video models.Video
	if err := db.First(&video, videoID).Error; err != nil {
		log.Printf("[ANALYZE] Video %d vanished before analysis: %v", videoID, err)
		return
	}

	transcript := utils.FetchTranscript(video.YoutubeVideoID)

	var quiz *models.Quiz
	var err error
	if transcript != "" {
		quiz, err = utils.GenerateQuizFromTranscript(context.Background(), transcript)
	} else {
		// Fallback provider when no transcript is available
		quiz, err = utils.GenerateQuizFromTitle(video.Title)
	}

	if err != nil {
		log.Printf("[ANALYZE] Quiz generation failed for video %d (%s): %v", video.ID, video.YoutubeVideoID, err)
		db.Model(&models.Video{}).Where("id = ?", video.ID).
			Update("analysis_status", models.AnalysisFailed)
		return
	}

	quizJSON, err := json.Marshal(quiz)
	if err != nil {
		log.Printf("[ANALYZE] Failed to marshal quiz for video %d: %v", video.ID, err)
		db.Model(&models.Video{}).Where("id = ?", video.ID).
			Update("analysis_status", models.AnalysisFailed)
		return
	}

	updates := map[string]interface{}{
		"transcript_text": transcript,
		"has_quiz":        true,
		"quiz_data":       datatypes.JSON(quizJSON),
		"analysis_status": models.AnalysisCompleted,
	}
	if err := db.Model(&models.Video{}).Where("id = ?", video.ID).Updates(updates).Error; err != nil {
		log.Printf("[ANALYZE] Failed to store quiz for video %d: %v", video.ID, err)
	}
}

// GetAnalysisStatus reports per-video analysis state for polling.
func GetAnalysisStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var playlist models.Playlist
	if err := db.First(&playlist, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if playlist.CreatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view your own courses!", nil)
	}

	var videos []models.Video
	db.Where("playlist_id = ?", playlist.ID).Order("id asc").Find(&videos)

	type videoStatus struct {
		VideoID        uint   `json:"video_id"`
		Title          string `json:"title"`
		AnalysisStatus string `json:"analysis_status"`
		HasQuiz        bool   `json:"has_quiz"`
	}

	statuses := make([]videoStatus, len(videos))
	done := 0
	for i, v := range videos {
		statuses[i] = videoStatus{
			VideoID:        v.ID,
			Title:          v.Title,
			AnalysisStatus: v.AnalysisStatus,
			HasQuiz:        v.HasQuiz,
		}
		if v.AnalysisStatus == models.AnalysisCompleted {
			done++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analysis status fetched successfully!", fiber.Map{
		"total":     len(videos),
		"completed": done,
		"videos":    statuses,
	})
}
