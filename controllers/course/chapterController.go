package controllers

import (
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ListChapters returns the ordered chapters of a course. Authenticated
// callers get their completion counts; anonymous callers get structure only.
func ListChapters(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	views, err := structureService().ListChapters(courseID, optionalUserID(c))
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch chapters!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully!", fiber.Map{
		"chapters": views,
	})
}

// GetChapter returns a single chapter without user progress.
func GetChapter(c *fiber.Ctx) error {
	chapterID, err := paramID(c, "chapter_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chapter ID!", nil)
	}

	view, err := structureService().GetChapter(chapterID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch chapter!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully!", view)
}

// CreateChapter appends a chapter at the end of the course.
func CreateChapter(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	reqData, ok := c.Locals("validatedChapter").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	view, err := structureService().CreateChapter(courseID, reqData.Title, reqData.Description)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to create chapter!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", view)
}

// UpdateChapter applies field updates and moves the chapter when a new
// order is requested.
func UpdateChapter(c *fiber.Ctx) error {
	chapterID, err := paramID(c, "chapter_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chapter ID!", nil)
	}

	reqData, ok := c.Locals("validatedChapterUpdate").(*struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Order       *int    `json:"order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	view, err := structureService().UpdateChapter(chapterID, reqData.Title, reqData.Description, reqData.Order)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to update chapter!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter updated successfully!", view)
}

// DeleteChapter removes the chapter with its lessons and completion facts.
func DeleteChapter(c *fiber.Ctx) error {
	chapterID, err := paramID(c, "chapter_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid chapter ID!", nil)
	}

	if err := structureService().DeleteChapter(chapterID); err != nil {
		return serviceErrorResponse(c, err, "Failed to delete chapter!")
	}

	// Let the media service drop any stored assets; best effort only.
	go utils.PurgeChapterMedia(chapterID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", nil)
}

// ReorderChapters rewrites the chapter order of one course.
func ReorderChapters(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedChapterReorder").(*struct {
		ChapterIDs []uint `json:"chapter_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	views, err := structureService().ReorderChapters(reqData.ChapterIDs)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to reorder chapters!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters reordered successfully!", fiber.Map{
		"chapters": views,
	})
}
