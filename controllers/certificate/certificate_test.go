package certificateController

import (
	"bytes"
	"credlyse/database"
	"credlyse/models"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single pooled connection keeps every query on the same in-memory db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedCompletedCourse(t *testing.T, db *gorm.DB, videoCount int, completed bool) (*models.User, *models.Playlist, *models.Enrollment) {
	t.Helper()
	user := models.User{FullName: "Ada Lovelace", Email: "ada@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	creator := models.User{FullName: "Course Creator", Email: "creator@example.com", Role: models.RoleCreator}
	require.NoError(t, db.Create(&creator).Error)

	playlist := models.Playlist{
		CreatorID:   creator.ID,
		YoutubeID:   "PLcert",
		Title:       "Distributed Systems",
		Type:        models.PlaylistTypePlaylist,
		TotalVideos: videoCount,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&playlist).Error)

	enrollment := models.Enrollment{UserID: user.ID, PlaylistID: playlist.ID, LastActiveAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)

	score := 100
	for i := 0; i < videoCount; i++ {
		video := models.Video{
			PlaylistID:      playlist.ID,
			YoutubeVideoID:  fmt.Sprintf("cert%d", i),
			Title:           fmt.Sprintf("Lecture %d", i+1),
			DurationSeconds: 600,
			AnalysisStatus:  models.AnalysisCompleted,
		}
		require.NoError(t, db.Create(&video).Error)

		if completed {
			require.NoError(t, db.Create(&models.VideoProgress{
				EnrollmentID:   enrollment.ID,
				VideoID:        video.ID,
				WatchStatus:    models.WatchWatched,
				SecondsWatched: 600,
				QuizScore:      &score,
				IsQuizPassed:   true,
			}).Error)
		}
	}

	return &user, &playlist, &enrollment
}

func newTestApp(userID uint, courseID int) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		c.Locals("courseID", courseID)
		return c.Next()
	})
	app.Get("/eligibility", CheckEligibility)
	app.Post("/claim", ClaimCertificate)
	app.Get("/certificate/:certificateId/verify", VerifyCertificate)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(nil))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

// chdirTemp points the working directory at a temp dir so rendered PDFs land
// there instead of the package directory.
func chdirTemp(t *testing.T) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(original) })
}

func TestEvaluateEligibilityListsMissingRequirements(t *testing.T) {
	db := setupTestDB(t)
	_, playlist, enrollment := seedCompletedCourse(t, db, 3, false)

	eligible, missing := EvaluateEligibility(db, enrollment)
	assert.False(t, eligible)
	assert.Len(t, missing, 3)
	assert.Contains(t, missing[0], "watch")

	// watch all but fail one quiz
	var videos []models.Video
	require.NoError(t, db.Where("playlist_id = ?", playlist.ID).Order("id asc").Find(&videos).Error)
	for i, video := range videos {
		passed := i != 1
		require.NoError(t, db.Create(&models.VideoProgress{
			EnrollmentID: enrollment.ID,
			VideoID:      video.ID,
			WatchStatus:  models.WatchWatched,
			IsQuizPassed: passed,
		}).Error)
	}

	eligible, missing = EvaluateEligibility(db, enrollment)
	assert.False(t, eligible)
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0], "pass the quiz")
	assert.Contains(t, missing[0], videos[1].Title)
}

func TestEvaluateEligibilityRefreshesCompletionCache(t *testing.T) {
	db := setupTestDB(t)
	_, _, enrollment := seedCompletedCourse(t, db, 2, true)

	eligible, missing := EvaluateEligibility(db, enrollment)
	assert.True(t, eligible)
	assert.Empty(t, missing)

	var reloaded models.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.True(t, reloaded.IsCompleted)
}

func TestClaimRejectsIncompleteCourse(t *testing.T) {
	db := setupTestDB(t)
	user, playlist, _ := seedCompletedCourse(t, db, 2, false)
	app := newTestApp(user.ID, int(playlist.ID))

	status, body := doRequest(t, app, "POST", "/claim")
	assert.Equal(t, fiber.StatusBadRequest, status)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["missing_requirements"])
}

func TestClaimIssuesCertificateOnce(t *testing.T) {
	chdirTemp(t)
	db := setupTestDB(t)
	user, playlist, _ := seedCompletedCourse(t, db, 2, true)
	app := newTestApp(user.ID, int(playlist.ID))

	status, body := doRequest(t, app, "POST", "/claim")
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	pdfURL := data["pdf_url"].(string)
	assert.Contains(t, pdfURL, "/static/certificates/")

	// rendered PDF exists on disk
	onDisk := filepath.Join(".", pdfURL[len("/"):])
	info, err := os.Stat(onDisk)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// repeat claim returns the same certificate, no second row
	status, body = doRequest(t, app, "POST", "/claim")
	assert.Equal(t, fiber.StatusOK, status)
	repeat := body["data"].(map[string]interface{})
	assert.Equal(t, data["certificate_id"], repeat["certificate_id"])

	var count int64
	db.Model(&models.Certificate{}).Where("user_id = ? AND playlist_id = ?", user.ID, playlist.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// enrollment carries the PDF URL
	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&enrollment).Error)
	assert.Equal(t, pdfURL, enrollment.CertificateURL)
}

func TestConcurrentClaimsProduceSingleCertificate(t *testing.T) {
	chdirTemp(t)
	db := setupTestDB(t)
	user, playlist, _ := seedCompletedCourse(t, db, 1, true)
	app := newTestApp(user.ID, int(playlist.ID))

	const claimers = 5
	var wg sync.WaitGroup
	statuses := make([]int, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/claim", bytes.NewReader(nil))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if err == nil {
				statuses[slot] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	for _, status := range statuses {
		assert.Contains(t, []int{fiber.StatusOK, fiber.StatusCreated}, status)
	}

	var count int64
	db.Model(&models.Certificate{}).Where("user_id = ? AND playlist_id = ?", user.ID, playlist.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestVerifyCertificate(t *testing.T) {
	chdirTemp(t)
	db := setupTestDB(t)
	user, playlist, _ := seedCompletedCourse(t, db, 1, true)
	app := newTestApp(user.ID, int(playlist.ID))

	status, body := doRequest(t, app, "POST", "/claim")
	require.Equal(t, fiber.StatusCreated, status)
	certificateID := body["data"].(map[string]interface{})["certificate_id"].(string)

	status, body = doRequest(t, app, "GET", "/certificate/"+certificateID+"/verify")
	assert.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Ada Lovelace", data["student_name"])
	assert.Equal(t, "Distributed Systems", data["course_title"])
}

func TestVerifyCertificateNotFound(t *testing.T) {
	db := setupTestDB(t)
	_ = db
	app := newTestApp(1, 1)

	status, _ := doRequest(t, app, "GET", "/certificate/3f0c8dfc-0000-0000-0000-000000000000/verify")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doRequest(t, app, "GET", "/certificate/not-a-uuid/verify")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
