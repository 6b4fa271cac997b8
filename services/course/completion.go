package course

import (
	"errors"
	"fmt"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionTracker records per-user lesson completion facts. Marking is
// idempotent: one row per (user, lesson), enforced by a unique index, and a
// stored score only ever rises.
type CompletionTracker struct {
	db *gorm.DB
}

func NewCompletionTracker(db *gorm.DB) *CompletionTracker {
	return &CompletionTracker{db: db}
}

// MarkComplete records that the user finished the lesson. Safe under
// concurrent duplicate calls: a single insert-or-update keyed on the
// (user_id, lesson_id) unique index, never read-then-write.
func (t *CompletionTracker) MarkComplete(userID, lessonID uint, score *int) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return t.markCompleteTx(tx, userID, lessonID, score)
	})
}

func (t *CompletionTracker) markCompleteTx(tx *gorm.DB, userID, lessonID uint, score *int) error {
	var lesson courseModels.Lesson
	if err := tx.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return err
	}

	completion := courseModels.LessonCompletion{
		UserID:   userID,
		LessonID: lessonID,
		Score:    score,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			// The score only ever rises; a nil incoming score is a no-op.
			"score": gorm.Expr("CASE WHEN excluded.score IS NOT NULL AND (score IS NULL OR excluded.score > score) THEN excluded.score ELSE score END"),
			"updated_at": time.Now(),
		}),
	}).Create(&completion).Error
}

// IsComplete reports whether the user has completed the lesson.
func (t *CompletionTracker) IsComplete(userID, lessonID uint) (bool, error) {
	return t.isCompleteTx(t.db, userID, lessonID)
}

func (t *CompletionTracker) isCompleteTx(tx *gorm.DB, userID, lessonID uint) (bool, error) {
	var count int64
	err := tx.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&count).Error
	return count > 0, err
}

// CountCompleted counts the user's completions for lessons that currently
// belong to the course.
func (t *CompletionTracker) CountCompleted(userID, courseID uint) (int, error) {
	return t.countCompletedTx(t.db, userID, courseID)
}

func (t *CompletionTracker) countCompletedTx(tx *gorm.DB, userID, courseID uint) (int, error) {
	var count int64
	err := tx.Model(&courseModels.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.user_id = ? AND lessons.course_id = ?", userID, courseID).
		Count(&count).Error
	return int(count), err
}

// TotalLessons counts the lessons currently under the course.
func (t *CompletionTracker) TotalLessons(courseID uint) (int, error) {
	return t.totalLessonsTx(t.db, courseID)
}

func (t *CompletionTracker) totalLessonsTx(tx *gorm.DB, courseID uint) (int, error) {
	var count int64
	err := tx.Model(&courseModels.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return int(count), err
}

// ResetCourse irreversibly deletes every completion the user holds for
// lessons in the course, along with the cached progress row.
func (t *CompletionTracker) ResetCourse(userID, courseID uint) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().
			Where("user_id = ? AND lesson_id IN (?)",
				userID,
				tx.Model(&courseModels.Lesson{}).Select("id").Where("course_id = ?", courseID),
			).
			Delete(&courseModels.LessonCompletion{}).Error
		if err != nil {
			return err
		}

		return tx.Unscoped().
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Delete(&courseModels.CourseProgress{}).Error
	})
}
