package courseValidator

import (
	"strings"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func isValidLessonType(lessonType string) bool {
	return lessonType == courseModels.LessonTypeVideo || lessonType == courseModels.LessonTypeQuiz
}

// CreateLesson validator middleware
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string `json:"title"`
			Type     string `json:"type"`
			VideoURL string `json:"video_url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if len(strings.TrimSpace(reqData.Title)) == 0 {
			errors["title"] = "Title is required!"
		}

		// Validate Type
		if !isValidLessonType(reqData.Type) {
			errors["type"] = "Type must be VIDEO or QUIZ!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validator middleware
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    *string `json:"title"`
			Type     *string `json:"type"`
			VideoURL *string `json:"video_url"`
			Order    *int    `json:"order"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title if provided
		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) == 0 {
			errors["title"] = "Title cannot be empty!"
		}

		// Validate Type if provided
		if reqData.Type != nil && !isValidLessonType(*reqData.Type) {
			errors["type"] = "Type must be VIDEO or QUIZ!"
		}

		// Validate Order if provided
		if reqData.Order != nil && *reqData.Order < 1 {
			errors["order"] = "Order must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// ReorderLessons validator middleware
func ReorderLessons() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LessonIDs []uint `json:"lesson_ids"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate lesson list
		if len(reqData.LessonIDs) == 0 {
			errors["lesson_ids"] = "Lesson list cannot be empty!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonReorder", reqData)
		return c.Next()
	}
}
