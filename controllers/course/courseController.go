package controllers

import (
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ListCourses returns the catalog. Non-admin callers only ever see published
// courses; on admin routes ?all=true includes drafts.
func ListCourses(c *fiber.Ctx) error {
	isAdmin, _ := c.Locals("isAdmin").(bool)
	publishedOnly := !isAdmin || c.Query("all") != "true"

	courses, err := structureService().ListCourses(publishedOnly)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourse returns a single course record.
func GetCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	course, err := structureService().GetCourse(courseID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// CreateCourse registers a new course shell with no chapters.
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Author      string `json:"author"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := structureService().CreateCourse(reqData.Title, reqData.Description, reqData.Author)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to create course!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse applies partial field updates, including publish state.
func UpdateCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Author      *string `json:"author"`
		IsPublished *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, err := structureService().UpdateCourse(courseID, reqData.Title, reqData.Description, reqData.Author, reqData.IsPublished)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to update course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes the course and everything under it.
func DeleteCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	if err := structureService().DeleteCourse(courseID); err != nil {
		return serviceErrorResponse(c, err, "Failed to delete course!")
	}

	go utils.PurgeCourseMedia(courseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
