package progressController

import (
	"credlyse/database"
	"credlyse/middleware"
	"credlyse/models"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const quizPassThreshold = 75

// GradeQuiz scores an ordered answer sheet against the stored questions.
// Returns the percentage score and whether it clears the pass threshold.
func GradeQuiz(quiz *models.Quiz, answers []int) (int, bool) {
	correct := 0
	for i, question := range quiz.Questions {
		if i < len(answers) && answers[i] == question.CorrectIndex {
			correct++
		}
	}
	score := 100 * correct / len(quiz.Questions)
	return score, score >= quizPassThreshold
}

// GetQuiz returns the quiz questions for a video with the correct answers
// stripped out.
func GetQuiz(c *fiber.Ctx) error {
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	videoID, _ := c.ParamsInt("videoId")
	if videoID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid video id!", nil)
	}

	db := database.Database.Db

	var video models.Video
	if err := db.First(&video, videoID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	if !video.HasQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No quiz available for this video!", nil)
	}

	quiz, err := video.Quiz()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz!", nil)
	}

	questions := make([]fiber.Map, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = fiber.Map{
			"question": q.Question,
			"choices":  q.Choices,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"video_id":  video.ID,
		"questions": questions,
	})
}

// SubmitQuiz grades an ordered answer sheet for a video's quiz. Retakes are
// allowed; the latest attempt always overwrites the stored score.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		VideoID uint  `json:"video_id"`
		Answers []int `json:"answers"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.VideoID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "video_id is required!", nil)
	}

	db := database.Database.Db

	video, err := getVideo(db, reqData.VideoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	if !video.HasQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No quiz available for this video!", nil)
	}

	quiz, err := video.Quiz()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz!", nil)
	}

	if len(reqData.Answers) != len(quiz.Questions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			fmt.Sprintf("Expected %d answers, got %d!", len(quiz.Questions), len(reqData.Answers)), nil)
	}

	enrollment, progress, err := findProgress(db, userID, video)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found. Call /start first!", nil)
	}

	score, passed := GradeQuiz(quiz, reqData.Answers)

	progress.QuizScore = &score
	progress.IsQuizPassed = passed
	db.Save(progress)

	if passed {
		refreshEnrollmentCompletion(db, enrollment)
	}

	enrollment.LastActiveAt = time.Now()
	db.Save(enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"video_id": video.ID,
		"score":    score,
		"passed":   passed,
	})
}
