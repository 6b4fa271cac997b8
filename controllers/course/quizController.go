package controllers

import (
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GetLessonQuestions returns the questions of a quiz lesson without their
// correct answers.
func GetLessonQuestions(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	views, err := quizEvaluator().GetQuestionsByLesson(lessonID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch questions!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"questions": views,
	})
}

// CreateQuestion adds a question to a quiz lesson.
func CreateQuestion(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		QuestionText  string                        `json:"question_text"`
		Options       []courseModels.QuestionOption `json:"options"`
		CorrectAnswer string                        `json:"correct_answer"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	view, err := quizEvaluator().CreateQuestion(lessonID, reqData.QuestionText, reqData.Options, reqData.CorrectAnswer)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to create question!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", view)
}

// UpdateQuestion replaces a question's text, options and correct answer.
func UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := paramID(c, "question_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		QuestionText  string                        `json:"question_text"`
		Options       []courseModels.QuestionOption `json:"options"`
		CorrectAnswer string                        `json:"correct_answer"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	view, err := quizEvaluator().UpdateQuestion(questionID, reqData.QuestionText, reqData.Options, reqData.CorrectAnswer)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to update question!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", view)
}

// DeleteQuestion removes a question permanently.
func DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := paramID(c, "question_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
	}

	if err := quizEvaluator().DeleteQuestion(questionID); err != nil {
		return serviceErrorResponse(c, err, "Failed to delete question!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// SubmitQuiz grades one attempt and returns the full per-question result.
// A passing score auto-completes the lesson and recomputes progress.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers map[uint]string `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := quizEvaluator().Submit(userID, lessonID, reqData.Answers)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to submit quiz!")
	}

	// Completion email only when the pass finished the whole course.
	if result.Passed {
		if courseID, lookupErr := lessonCourseID(lessonID); lookupErr == nil {
			view, progressErr := structureService().Progress().GetCourseProgress(userID, courseID)
			if progressErr == nil && view.PercentComplete >= 100 {
				go utils.SendCourseCompletionEmail(userID, view.CourseTitle)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", result)
}
