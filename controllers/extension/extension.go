package extensionController

import (
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"credlyse/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPlaylistStatus tells the browser extension whether a YouTube playlist is
// a published course on the platform, and, when the caller is logged in,
// whether they are enrolled. Auth is optional here.
func GetPlaylistStatus(c *fiber.Ctx) error {
	youtubePlaylistID := c.Query("youtube_playlist_id")
	if youtubePlaylistID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "youtube_playlist_id is required!", nil)
	}

	db := database.Database.Db

	var playlist models.Playlist
	err := db.Where("youtube_id = ? AND is_published = ?", youtubePlaylistID, true).First(&playlist).Error
	if err == gorm.ErrRecordNotFound {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Playlist status fetched!", fiber.Map{
			"is_course":   false,
			"is_enrolled": false,
		})
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch playlist status!", nil)
	}

	isEnrolled := false
	if userID, ok := c.Locals("userId").(uint); ok {
		var enrollment models.Enrollment
		if db.Where("user_id = ? AND playlist_id = ?", userID, playlist.ID).
			First(&enrollment).Error == nil {
			isEnrolled = true
		}
	}

	var videos []models.Video
	db.Where("playlist_id = ?", playlist.ID).Order("id asc").Find(&videos)

	videoList := make([]fiber.Map, len(videos))
	for i, video := range videos {
		videoList[i] = fiber.Map{
			"id":               video.ID,
			"youtube_video_id": video.YoutubeVideoID,
			"title":            video.Title,
			"duration_seconds": video.DurationSeconds,
			"has_quiz":         video.HasQuiz,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Playlist status fetched!", fiber.Map{
		"is_course":   true,
		"is_enrolled": isEnrolled,
		"course": fiber.Map{
			"id":           playlist.ID,
			"title":        playlist.Title,
			"total_videos": playlist.TotalVideos,
		},
		"videos": videoList,
	})
}

// EnrollInPlaylist enrolls the caller into a published course by its YouTube
// playlist id. Idempotent; re-enrolling returns the existing enrollment.
func EnrollInPlaylist(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	youtubePlaylistID := c.Params("playlistId")
	if youtubePlaylistID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "playlistId is required!", nil)
	}

	db := database.Database.Db

	var playlist models.Playlist
	if err := db.Where("youtube_id = ? AND is_published = ?", youtubePlaylistID, true).
		First(&playlist).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing models.Enrollment
	if err := db.Where("user_id = ? AND playlist_id = ?", userID, playlist.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled!", fiber.Map{
			"enrollment_id": existing.ID,
			"playlist_id":   playlist.ID,
		})
	}

	enrollment := models.Enrollment{
		UserID:       userID,
		PlaylistID:   playlist.ID,
		LastActiveAt: time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if readErr := db.Where("user_id = ? AND playlist_id = ?", userID, playlist.ID).
			First(&existing).Error; readErr == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled!", fiber.Map{
				"enrollment_id": existing.ID,
				"playlist_id":   playlist.ID,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	go func(enrolledUserID uint, courseTitle string) {
		var user models.User
		if database.Database.Db.First(&user, enrolledUserID).Error == nil {
			utils.SendEnrollmentEmail(user.Email, user.FullName, courseTitle)
		}
	}(userID, playlist.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", fiber.Map{
		"enrollment_id": enrollment.ID,
		"playlist_id":   playlist.ID,
	})
}
