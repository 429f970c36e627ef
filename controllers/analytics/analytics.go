package analyticsController

import (
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

const recentActivityDays = 7

// GetCourseAnalytics returns per-student progress rows and course-level
// aggregates for a course the caller owns.
func GetCourseAnalytics(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, ok := c.Locals("courseID").(int)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var playlist models.Playlist
	if err := db.First(&playlist, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if playlist.CreatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	var videos []models.Video
	db.Where("playlist_id = ?", playlist.ID).Find(&videos)
	totalVideos := len(videos)

	var enrollments []models.Enrollment
	if err := db.Where("playlist_id = ?", playlist.ID).Order("created_at asc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics!", nil)
	}

	completedCount := 0
	certificateCount := 0
	students := make([]fiber.Map, len(enrollments))

	for i, enrollment := range enrollments {
		var user models.User
		db.First(&user, enrollment.UserID)

		var records []models.VideoProgress
		db.Where("enrollment_id = ?", enrollment.ID).Find(&records)

		watched := 0
		quizzesPassed := 0
		secondsWatched := 0
		scoreSum := 0
		scoreCount := 0
		for _, p := range records {
			if p.WatchStatus == models.WatchWatched {
				watched++
			}
			if p.IsQuizPassed {
				quizzesPassed++
			}
			secondsWatched += p.SecondsWatched
			if p.QuizScore != nil {
				scoreSum += *p.QuizScore
				scoreCount++
			}
		}

		progressPct := 0
		if totalVideos > 0 {
			progressPct = 100 * watched / totalVideos
		}
		averageScore := 0
		if scoreCount > 0 {
			averageScore = scoreSum / scoreCount
		}

		hasCertificate := false
		var certificate models.Certificate
		if db.Where("user_id = ? AND playlist_id = ?", enrollment.UserID, playlist.ID).
			First(&certificate).Error == nil {
			hasCertificate = true
			certificateCount++
		}
		if enrollment.IsCompleted {
			completedCount++
		}

		students[i] = fiber.Map{
			"student_name":    user.FullName,
			"student_email":   user.Email,
			"enrolled_at":     enrollment.CreatedAt,
			"last_active_at":  enrollment.LastActiveAt,
			"videos_watched":  watched,
			"quizzes_passed":  quizzesPassed,
			"progress_pct":    progressPct,
			"seconds_watched": secondsWatched,
			"average_score":   averageScore,
			"is_completed":    enrollment.IsCompleted,
			"has_certificate": hasCertificate,
		}
	}

	completionRate := 0
	if len(enrollments) > 0 {
		completionRate = 100 * completedCount / len(enrollments)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"course": fiber.Map{
			"id":           playlist.ID,
			"title":        playlist.Title,
			"total_videos": totalVideos,
		},
		"totals": fiber.Map{
			"enrollments":         len(enrollments),
			"completed":           completedCount,
			"certificates_issued": certificateCount,
			"completion_rate_pct": completionRate,
		},
		"recent_activity": recentActivityBuckets(playlist.ID),
		"students":        students,
	})
}

// recentActivityBuckets counts active enrollments per calendar day over the
// trailing week, oldest bucket first. Day boundaries are local midnight.
func recentActivityBuckets(playlistID uint) []fiber.Map {
	db := database.Database.Db

	buckets := make([]fiber.Map, 0, recentActivityDays)
	for i := recentActivityDays - 1; i >= 0; i-- {
		day := now.With(time.Now().AddDate(0, 0, -i))
		start := day.BeginningOfDay()
		end := day.EndOfDay()

		var active int64
		db.Model(&models.Enrollment{}).
			Where("playlist_id = ? AND last_active_at BETWEEN ? AND ?", playlistID, start, end).
			Count(&active)

		buckets = append(buckets, fiber.Map{
			"date":            start.Format("2006-01-02"),
			"active_students": active,
		})
	}

	return buckets
}
