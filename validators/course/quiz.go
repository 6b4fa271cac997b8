package courseValidator

import (
	"strings"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// Question validator middleware, shared by create and update.
func Question() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionText  string                        `json:"question_text"`
			Options       []courseModels.QuestionOption `json:"options"`
			CorrectAnswer string                        `json:"correct_answer"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Question Text
		if len(strings.TrimSpace(reqData.QuestionText)) == 0 {
			errors["question_text"] = "Question text is required!"
		}

		// Validate Options
		if len(reqData.Options) < 2 {
			errors["options"] = "At least two options are required!"
		} else {
			for _, option := range reqData.Options {
				if strings.TrimSpace(option.ID) == "" || strings.TrimSpace(option.Text) == "" {
					errors["options"] = "Every option needs an id and a text!"
					break
				}
			}
		}

		// Validate Correct Answer
		if strings.TrimSpace(reqData.CorrectAnswer) == "" {
			errors["correct_answer"] = "Correct answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// SubmitQuiz validator middleware
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[uint]string `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Answers
		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}
