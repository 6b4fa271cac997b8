package course

import (
	"time"

	courseModels "lms/models/course"
)

// ChapterView is the chapter response shape, annotated with per-user
// completion counts. CompletedLessons is 0 for anonymous callers.
type ChapterView struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Order            int    `json:"order"`
	LessonsCount     int    `json:"lessons_count"`
	CompletedLessons int    `json:"completed_lessons"`
}

// LessonView is the lesson response shape. Questions is only populated for
// QUIZ lessons and never includes correct answers.
type LessonView struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Type      string         `json:"type"`
	VideoURL  string         `json:"video_url"`
	Order     int            `json:"order"`
	Completed bool           `json:"completed"`
	Questions []QuestionView `json:"questions"`
}

// QuestionView exposes a quiz question without its correct answer.
type QuestionView struct {
	ID           uint                          `json:"id"`
	QuestionText string                        `json:"question_text"`
	Options      []courseModels.QuestionOption `json:"options"`
}

// ProgressView is the per-user, per-course progress snapshot.
type ProgressView struct {
	CourseID         uint       `json:"course_id"`
	CourseTitle      string     `json:"course_title"`
	PercentComplete  int        `json:"percent_complete"`
	CompletedLessons int        `json:"completed_lessons"`
	TotalLessons     int        `json:"total_lessons"`
	LastAccessedAt   *time.Time `json:"last_accessed_at"`
}

// QuizResult is the full diagnostic outcome of one quiz submission,
// returned for passing and failing attempts alike.
type QuizResult struct {
	Score           int           `json:"score"`
	TotalQuestions  int           `json:"total_questions"`
	CorrectAnswers  int           `json:"correct_answers"`
	Passed          bool          `json:"passed"`
	QuestionResults map[uint]bool `json:"question_results"`
}
