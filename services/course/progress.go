package course

import (
	"errors"
	"fmt"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressCalculator derives per-user course progress snapshots from
// completion facts and maintains the cached CourseProgress rows.
type ProgressCalculator struct {
	db      *gorm.DB
	tracker *CompletionTracker
}

func NewProgressCalculator(db *gorm.DB, tracker *CompletionTracker) *ProgressCalculator {
	return &ProgressCalculator{db: db, tracker: tracker}
}

// Percent computes the completion percentage with truncating integer
// division: 1 of 3 lessons is 33, never 34.
func Percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return completed * 100 / total
}

// GetCourseProgress returns the progress snapshot for one course. A cached
// row is authoritative for percent and last-accessed time; without one the
// percent is computed on demand and last-accessed stays nil.
func (p *ProgressCalculator) GetCourseProgress(userID, courseID uint) (*ProgressView, error) {
	var crs courseModels.Course
	if err := p.db.First(&crs, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
		}
		return nil, err
	}

	completed, err := p.tracker.CountCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}
	total, err := p.tracker.TotalLessons(courseID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		CourseID:         courseID,
		CourseTitle:      crs.Title,
		PercentComplete:  Percent(completed, total),
		CompletedLessons: completed,
		TotalLessons:     total,
	}

	var cached courseModels.CourseProgress
	err = p.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cached).Error
	if err == nil {
		view.PercentComplete = cached.PercentComplete
		view.LastAccessedAt = cached.LastAccessedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return view, nil
}

// ListUserProgress returns a snapshot for every course the user has cached
// progress in.
func (p *ProgressCalculator) ListUserProgress(userID uint) ([]ProgressView, error) {
	var rows []courseModels.CourseProgress
	if err := p.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]ProgressView, 0, len(rows))
	for _, row := range rows {
		var crs courseModels.Course
		if err := p.db.First(&crs, row.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // course deleted, stale cache row
			}
			return nil, err
		}

		completed, err := p.tracker.CountCompleted(userID, row.CourseID)
		if err != nil {
			return nil, err
		}
		total, err := p.tracker.TotalLessons(row.CourseID)
		if err != nil {
			return nil, err
		}

		views = append(views, ProgressView{
			CourseID:         row.CourseID,
			CourseTitle:      crs.Title,
			PercentComplete:  row.PercentComplete,
			CompletedLessons: completed,
			TotalLessons:     total,
			LastAccessedAt:   row.LastAccessedAt,
		})
	}
	return views, nil
}

// Recompute re-derives the cached progress row from authoritative counts.
// Concurrent recomputes are tolerated: the last writer wins and the value is
// always re-derived, so no corruption can stick.
func (p *ProgressCalculator) Recompute(userID, courseID uint) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		return p.recomputeTx(tx, userID, courseID)
	})
}

func (p *ProgressCalculator) recomputeTx(tx *gorm.DB, userID, courseID uint) error {
	total, err := p.tracker.totalLessonsTx(tx, courseID)
	if err != nil {
		return err
	}
	if total == 0 {
		// Nothing to show; avoid writing spurious zero rows for empty courses.
		return nil
	}

	completed, err := p.tracker.countCompletedTx(tx, userID, courseID)
	if err != nil {
		return err
	}

	now := time.Now()
	progress := courseModels.CourseProgress{
		UserID:          userID,
		CourseID:        courseID,
		PercentComplete: Percent(completed, total),
		LastAccessedAt:  &now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"percent_complete", "last_accessed_at", "updated_at"}),
	}).Create(&progress).Error
}
