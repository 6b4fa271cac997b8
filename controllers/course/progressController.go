package controllers

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetCourseProgress returns the caller's percentage and counts for one course.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	view, err := structureService().Progress().GetCourseProgress(userID, courseID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", view)
}

// ListMyProgress returns the caller's progress across every started course.
func ListMyProgress(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	views, err := structureService().Progress().ListUserProgress(userID)
	if err != nil {
		return serviceErrorResponse(c, err, "Failed to fetch progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress": views,
	})
}

// ResetCourseProgress wipes the caller's completions and cached progress for
// one course so it can be retaken from scratch.
func ResetCourseProgress(c *fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := paramID(c, "course_id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	if err := structureService().ResetCourseProgress(userID, courseID); err != nil {
		return serviceErrorResponse(c, err, "Failed to reset progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress reset successfully!", nil)
}
