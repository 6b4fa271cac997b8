package course

import "gorm.io/gorm"

// Lesson types
const (
	LessonTypeVideo = "VIDEO"
	LessonTypeQuiz  = "QUIZ"
)

// Lesson represents a single ordered lesson within a chapter. VideoURL is
// never null; a missing value is stored as the empty string.
type Lesson struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	ChapterID  uint   `json:"chapter_id" gorm:"index;not null"`
	Title      string `json:"title"`
	Type       string `json:"type" gorm:"default:'VIDEO'"` // VIDEO, QUIZ
	VideoURL   string `json:"video_url" gorm:"default:''"`
	OrderIndex int    `json:"order" gorm:"column:order_index;default:0"`
}
