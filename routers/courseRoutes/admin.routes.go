package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.AdminOnlyMiddleware)

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Get("/list", controllers.ListCourses)
	adminGroup.Get("/:course_id", controllers.GetCourse)
	adminGroup.Put("/:course_id", validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:course_id", controllers.DeleteCourse)

	// Chapter management
	adminGroup.Post("/:course_id/chapter", validators.CreateChapter(), controllers.CreateChapter)
	adminGroup.Put("/:course_id/chapters/reorder", validators.ReorderChapters(), controllers.ReorderChapters)

	chapterGroup := app.Group("/admin/chapter", middleware.JWTMiddleware, middleware.AdminOnlyMiddleware)
	chapterGroup.Put("/:chapter_id", validators.UpdateChapter(), controllers.UpdateChapter)
	chapterGroup.Delete("/:chapter_id", controllers.DeleteChapter)

	// Lesson management
	chapterGroup.Post("/:chapter_id/lesson", validators.CreateLesson(), controllers.CreateLesson)
	chapterGroup.Put("/:chapter_id/lessons/reorder", validators.ReorderLessons(), controllers.ReorderLessons)

	lessonGroup := app.Group("/admin/lesson", middleware.JWTMiddleware, middleware.AdminOnlyMiddleware)
	lessonGroup.Put("/:lesson_id", validators.UpdateLesson(), controllers.UpdateLesson)
	lessonGroup.Delete("/:lesson_id", controllers.DeleteLesson)

	// Question management
	lessonGroup.Post("/:lesson_id/question", validators.Question(), controllers.CreateQuestion)

	questionGroup := app.Group("/admin/question", middleware.JWTMiddleware, middleware.AdminOnlyMiddleware)
	questionGroup.Put("/:question_id", validators.Question(), controllers.UpdateQuestion)
	questionGroup.Delete("/:question_id", controllers.DeleteQuestion)
}
