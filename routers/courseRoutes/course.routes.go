package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes. Reads allow
// anonymous access; structure annotations depend on an optional token.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog browsing
	courseGroup.Get("/list", middleware.OptionalJWTMiddleware, controllers.ListCourses)
	courseGroup.Get("/:course_id", middleware.OptionalJWTMiddleware, controllers.GetCourse)

	// Structure browsing
	courseGroup.Get("/:course_id/chapters", middleware.OptionalJWTMiddleware, controllers.ListChapters)

	chapterGroup := app.Group("/chapter")
	chapterGroup.Get("/:chapter_id", middleware.OptionalJWTMiddleware, controllers.GetChapter)
	chapterGroup.Get("/:chapter_id/lessons", middleware.OptionalJWTMiddleware, controllers.ListLessons)

	lessonGroup := app.Group("/lesson")
	lessonGroup.Get("/:lesson_id", middleware.OptionalJWTMiddleware, controllers.GetLessonDetail)
	lessonGroup.Get("/:lesson_id/questions", middleware.OptionalJWTMiddleware, controllers.GetLessonQuestions)

	// Completion and quizzes
	lessonGroup.Post("/:lesson_id/complete", middleware.JWTMiddleware, controllers.MarkLessonComplete)
	lessonGroup.Post("/:lesson_id/quiz/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Progress tracking
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, controllers.GetCourseProgress)
	courseGroup.Post("/:course_id/progress/reset", middleware.JWTMiddleware, controllers.ResetCourseProgress)

	userGroup := app.Group("/user")
	userGroup.Get("/progress", middleware.JWTMiddleware, controllers.ListMyProgress)
}
