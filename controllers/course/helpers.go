package controllers

import (
	"errors"
	"log"
	"strconv"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseService "lms/services/course"

	"github.com/gofiber/fiber/v2"
)

// structureService builds the engine on the shared database handle. The
// services are stateless, so a per-request instance is fine.
func structureService() *courseService.CourseStructureService {
	return courseService.NewCourseStructureService(database.Database.Db)
}

func quizEvaluator() *courseService.QuizEvaluator {
	svc := structureService()
	return courseService.NewQuizEvaluator(database.Database.Db, svc.Tracker(), svc.Progress())
}

// requireUserID reads the identity set by the JWT middleware.
func requireUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok
}

// optionalUserID returns nil for anonymous callers on optional-auth routes.
func optionalUserID(c *fiber.Ctx) *uint {
	if userID, ok := c.Locals("userId").(uint); ok {
		return &userID
	}
	return nil
}

// lessonCourseID resolves the owning course of a lesson.
func lessonCourseID(lessonID uint) (uint, error) {
	var lesson courseModels.Lesson
	if err := database.Database.Db.Select("course_id").First(&lesson, lessonID).Error; err != nil {
		return 0, err
	}
	return lesson.CourseID, nil
}

// paramID parses a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.Atoi(c.Params(name))
	if err != nil || raw <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(raw), nil
}

// serviceErrorResponse maps engine errors onto HTTP statuses. Everything
// propagates unchanged from the services; nothing is swallowed here.
func serviceErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, courseService.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, courseService.ErrValidation):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, courseService.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, courseService.ErrDataIntegrity):
		// A prior write defect; keep the detail in the logs, not the response.
		log.Printf("Data integrity error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Stored course data is corrupt!", nil)
	default:
		log.Printf("Unexpected service error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
	}
}
