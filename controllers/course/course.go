package courseController

import (
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"credlyse/utils"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse imports a YouTube playlist or single video as a new draft
// course. CREATOR only; the role gate sits on the route.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		YoutubeURL string `json:"youtube_url" validate:"required,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	youtubeID, contentType, err := utils.ParseYoutubeURL(reqData.YoutubeURL)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	db := database.Database.Db

	// Reject duplicates by YouTube ID
	if err := db.Where("youtube_id = ?", youtubeID).First(&models.Playlist{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course with this YouTube ID already exists!", nil)
	}

	metadata, err := utils.FetchYoutubeMetadata(youtubeID, contentType)
	if err != nil {
		log.Printf("Error fetching YouTube metadata for %s: %v", youtubeID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to fetch YouTube metadata!", nil)
	}
	if len(metadata.Videos) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Playlist has no videos!", nil)
	}

	playlist := models.Playlist{
		CreatorID:   userID,
		YoutubeID:   youtubeID,
		Title:       metadata.Title,
		Description: metadata.Description,
		Type:        contentType,
		TotalVideos: len(metadata.Videos),
		IsPublished: false, // draft by default
	}

	tx := db.Begin()
	if err := tx.Create(&playlist).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating playlist: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	for _, videoData := range metadata.Videos {
		video := models.Video{
			PlaylistID:      playlist.ID,
			YoutubeVideoID:  videoData.VideoID,
			Title:           videoData.Title,
			DurationSeconds: videoData.DurationSeconds,
			AnalysisStatus:  models.AnalysisPending,
		}
		if err := tx.Create(&video).Error; err != nil {
			tx.Rollback()
			log.Printf("Error creating video %s: %v", videoData.VideoID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course videos!", nil)
		}
	}
	tx.Commit()

	db.Preload("Videos").First(&playlist, playlist.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", playlist)
}

// GetAllCourses lists published courses, paginated, with optional search on
// title or creator name.
func GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page   *int   `json:"page"`
		Limit  *int   `json:"limit"`
		Search string `json:"search"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	page := 1
	if reqData.Page != nil {
		page = *reqData.Page
	}
	limit := 10
	if reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Playlist{}).Where("playlists.is_published = ?", true)

	if search := strings.TrimSpace(reqData.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		db = db.Joins("JOIN users ON users.id = playlists.creator_id").
			Where("lower(playlists.title) LIKE ? OR lower(users.full_name) LIKE ?", term, term)
	}

	var total int64
	db.Count(&total)

	var playlists []models.Playlist
	if err := db.Offset(offset).Limit(limit).Order("playlists.id desc").Find(&playlists).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": playlists,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetMyCourses lists courses created by the authenticated creator.
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var playlists []models.Playlist
	if err := database.Database.Db.Where("creator_id = ?", userID).Order("id desc").Find(&playlists).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", playlists)
}

// GetCourseDetails returns a course with its video list. Public.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var playlist models.Playlist
	if err := database.Database.Db.Preload("Videos").First(&playlist, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", playlist)
}

// PublishCourse flips the draft flag. Only the creator of the course can
// publish it; the flag never goes back to draft.
func PublishCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var playlist models.Playlist
	if err := database.Database.Db.First(&playlist, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if playlist.CreatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only publish your own courses!", nil)
	}

	playlist.IsPublished = true
	database.Database.Db.Save(&playlist)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", playlist)
}
