package courseValidator

import (
	"credlyse/middleware"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			YoutubeURL string `json:"youtube_url" validate:"required,url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "YoutubeURL":
					errors["youtube_url"] = "A valid YouTube URL is required!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseList validator middleware
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Search string `json:"search"`
		})

		if page, err := strconv.Atoi(c.Query("page")); err == nil {
			reqData.Page = &page
		}
		if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
			reqData.Limit = &limit
		}
		reqData.Search = c.Query("search")

		if (reqData.Page != nil && *reqData.Page < 1) || (reqData.Limit != nil && *reqData.Limit < 1) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "page and limit must be positive!", nil)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// CourseID validates the :courseId path parameter.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(c.Params("courseId"))
		if err != nil || courseID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
