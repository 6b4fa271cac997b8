package controllers

import (
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ListLessons returns the ordered lessons of a chapter with the caller's
// completion flags.
func ListLessons(c *fiber.Ctx) error {
	chapterID, err := paramID(c, "chapter_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chapter ID!", nil)
	}

	views, err := structureService().ListLessons(chapterID, optionalUserID(c))
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch lessons!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": views,
	})
}

// GetLessonDetail returns one lesson; quiz lessons carry their questions
// without correct answers.
func GetLessonDetail(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	view, err := structureService().GetLessonDetail(lessonID, optionalUserID(c))
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", view)
}

// CreateLesson appends a lesson at the end of the chapter.
func CreateLesson(c *fiber.Ctx) error {
	chapterID, err := paramID(c, "chapter_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chapter ID!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title    string `json:"title"`
		Type     string `json:"type"`
		VideoURL string `json:"video_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	view, err := structureService().CreateLesson(chapterID, reqData.Title, reqData.Type, reqData.VideoURL)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to create lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", view)
}

// UpdateLesson applies field updates and moves the lesson when a new order
// is requested.
func UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*struct {
		Title    *string `json:"title"`
		Type     *string `json:"type"`
		VideoURL *string `json:"video_url"`
		Order    *int    `json:"order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	view, err := structureService().UpdateLesson(lessonID, reqData.Title, reqData.Type, reqData.VideoURL, reqData.Order)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to update lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", view)
}

// DeleteLesson removes the lesson with its questions and completion facts.
func DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	if err := structureService().DeleteLesson(lessonID); err != nil {
		return serviceErrorResponse(c, err, "Failed to delete lesson!")
	}

	go utils.PurgeLessonMedia(lessonID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ReorderLessons rewrites the lesson order of one chapter.
func ReorderLessons(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLessonReorder").(*struct {
		LessonIDs []uint `json:"lesson_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	views, err := structureService().ReorderLessons(reqData.LessonIDs)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to reorder lessons!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons reordered successfully!", fiber.Map{
		"lessons": views,
	})
}

// MarkLessonComplete records a direct completion (watched video) and
// recomputes course progress. When the course hits 100% a congratulation
// email goes out best effort.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID, err := paramID(c, "lesson_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	svc := structureService()
	courseID, err := svc.MarkLessonComplete(userID, lessonID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to mark lesson as completed!")
	}

	view, err := svc.Progress().GetCourseProgress(userID, courseID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch progress!")
	}

	if view.PercentComplete >= 100 {
		go utils.SendCourseCompletionEmail(userID, view.CourseTitle)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", view)
}
