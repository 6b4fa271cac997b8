package course

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Chapter{},
		&courseModels.Lesson{},
		&courseModels.Question{},
		&courseModels.LessonCompletion{},
		&courseModels.CourseProgress{},
	))
	return db
}

func setupService(t *testing.T) (*CourseStructureService, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	return NewCourseStructureService(db), db
}

func seedCourse(t *testing.T, svc *CourseStructureService, title string) uint {
	t.Helper()
	crs, err := svc.CreateCourse(title, "test course", "tester")
	require.NoError(t, err)
	return crs.ID
}

func seedChapter(t *testing.T, svc *CourseStructureService, courseID uint, title string) uint {
	t.Helper()
	ch, err := svc.CreateChapter(courseID, title, "")
	require.NoError(t, err)
	return ch.ID
}

func seedLesson(t *testing.T, svc *CourseStructureService, chapterID uint, title, lessonType string) uint {
	t.Helper()
	lesson, err := svc.CreateLesson(chapterID, title, lessonType, "")
	require.NoError(t, err)
	return lesson.ID
}

// chapterOrders returns chapter ids keyed by their order_index, ordered 1..N.
func chapterOrders(t *testing.T, db *gorm.DB, courseID uint) ([]uint, []int) {
	t.Helper()
	var chapters []courseModels.Chapter
	require.NoError(t, db.Where("course_id = ?", courseID).Order("order_index asc").Find(&chapters).Error)

	ids := make([]uint, len(chapters))
	orders := make([]int, len(chapters))
	for i, ch := range chapters {
		ids[i] = ch.ID
		orders[i] = ch.OrderIndex
	}
	return ids, orders
}

func lessonOrders(t *testing.T, db *gorm.DB, chapterID uint) ([]uint, []int) {
	t.Helper()
	var lessons []courseModels.Lesson
	require.NoError(t, db.Where("chapter_id = ?", chapterID).Order("order_index asc").Find(&lessons).Error)

	ids := make([]uint, len(lessons))
	orders := make([]int, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
		orders[i] = l.OrderIndex
	}
	return ids, orders
}

// requireContiguous asserts the order values form exactly 1..N.
func requireContiguous(t *testing.T, orders []int) {
	t.Helper()
	for i, order := range orders {
		require.Equal(t, i+1, order, "order values must be a contiguous 1..N sequence, got %v", orders)
	}
}
