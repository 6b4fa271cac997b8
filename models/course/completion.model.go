package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonCompletion is a per-user completion fact. One row per
// (user, lesson); the score only ever rises once set.
type LessonCompletion struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID uint `json:"lesson_id" gorm:"uniqueIndex:idx_user_lesson;not null"`
	Score    *int `json:"score"` // 0-100, nil for plain video completions
}

// CourseProgress caches the derived percent-complete for a user and course.
// Recomputed after every completion; deleted on course progress reset.
type CourseProgress struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID        uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	PercentComplete int        `json:"percent_complete" gorm:"default:0"`
	LastAccessedAt  *time.Time `json:"last_accessed_at"`
}
