package course

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListChaptersAnnotatesProgress(t *testing.T) {
	svc, _ := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	ch1 := seedChapter(t, svc, courseID, "Intro")
	ch2 := seedChapter(t, svc, courseID, "Advanced")

	l1 := seedLesson(t, svc, ch1, "One", "VIDEO")
	seedLesson(t, svc, ch1, "Two", "VIDEO")
	seedLesson(t, svc, ch2, "Three", "VIDEO")

	_, err := svc.MarkLessonComplete(7, l1)
	require.NoError(t, err)

	userID := uint(7)
	views, err := svc.ListChapters(courseID, &userID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "Intro", views[0].Title)
	assert.Equal(t, 2, views[0].LessonsCount)
	assert.Equal(t, 1, views[0].CompletedLessons)
	assert.Equal(t, 1, views[0].Order)

	assert.Equal(t, 1, views[1].LessonsCount)
	assert.Equal(t, 0, views[1].CompletedLessons)
	assert.Equal(t, 2, views[1].Order)

	// Anonymous callers get structure without progress.
	views, err = svc.ListChapters(courseID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, views[0].CompletedLessons)
}

func TestListChaptersUnknownCourse(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.ListChapters(424242, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateChapterRequiresCourse(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.CreateChapter(424242, "orphan", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateLessonValidatesType(t *testing.T) {
	svc, _ := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Intro")

	_, err := svc.CreateLesson(chapterID, "Bad", "ARTICLE", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLessonVideoURLNeverNull(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Intro")

	view, err := svc.CreateLesson(chapterID, "No video", "QUIZ", "")
	require.NoError(t, err)
	assert.Equal(t, "", view.VideoURL)

	var lesson courseModels.Lesson
	require.NoError(t, db.First(&lesson, view.ID).Error)
	assert.Equal(t, "", lesson.VideoURL)

	url := "https://cdn.example.com/v/1.mp4"
	updated, err := svc.UpdateLesson(view.ID, nil, nil, &url, nil)
	require.NoError(t, err)
	assert.Equal(t, url, updated.VideoURL)
}

func TestUpdateChapterFields(t *testing.T) {
	svc, _ := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Untitled")

	title := "Getting Started"
	description := "Install the toolchain"
	view, err := svc.UpdateChapter(chapterID, &title, &description, nil)
	require.NoError(t, err)

	assert.Equal(t, title, view.Title)
	assert.Equal(t, description, view.Description)
	assert.Equal(t, 1, view.Order)
}

func TestDeleteChapterPurgesLessonData(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Intro")
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")

	evaluator := NewQuizEvaluator(db, svc.Tracker(), svc.Progress())
	seedQuestions(t, evaluator, lessonID, 2)
	_, err := svc.MarkLessonComplete(7, lessonID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteChapter(chapterID))

	var lessons, questions, completions int64
	require.NoError(t, db.Model(&courseModels.Lesson{}).Where("chapter_id = ?", chapterID).Count(&lessons).Error)
	require.NoError(t, db.Model(&courseModels.Question{}).Where("lesson_id = ?", lessonID).Count(&questions).Error)
	require.NoError(t, db.Model(&courseModels.LessonCompletion{}).Where("lesson_id = ?", lessonID).Count(&completions).Error)
	assert.EqualValues(t, 0, lessons)
	assert.EqualValues(t, 0, questions)
	assert.EqualValues(t, 0, completions, "dangling completions are purged with their content")
}

func TestDeleteCourseCascades(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Intro")
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")

	evaluator := NewQuizEvaluator(db, svc.Tracker(), svc.Progress())
	seedQuestions(t, evaluator, lessonID, 1)
	_, err := svc.MarkLessonComplete(7, lessonID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(courseID))

	for model, label := range map[interface{}]string{
		&courseModels.Chapter{}:          "chapters",
		&courseModels.Lesson{}:           "lessons",
		&courseModels.Question{}:         "questions",
		&courseModels.LessonCompletion{}: "completions",
		&courseModels.CourseProgress{}:   "progress rows",
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.EqualValues(t, 0, count, "expected no %s to survive course deletion", label)
	}

	_, err = svc.GetCourse(courseID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCoursePartialFields(t *testing.T) {
	svc, _ := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	published := true
	crs, err := svc.UpdateCourse(courseID, nil, nil, nil, &published)
	require.NoError(t, err)
	assert.True(t, crs.IsPublished)
	assert.Equal(t, "Go Basics", crs.Title, "unset fields stay untouched")

	courses, err := svc.ListCourses(true)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

// TestCourseLifecycleEndToEnd walks the full scenario: a course with one
// chapter of three lessons (two videos, one quiz), direct completion, a
// passing quiz, and a reset.
func TestCourseLifecycleEndToEnd(t *testing.T) {
	svc, db := setupService(t)
	evaluator := NewQuizEvaluator(db, svc.Tracker(), svc.Progress())

	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Intro")

	video1 := seedLesson(t, svc, chapterID, "Video 1", "VIDEO")
	seedLesson(t, svc, chapterID, "Video 2", "VIDEO")
	quiz := seedLesson(t, svc, chapterID, "Final Quiz", "QUIZ")

	q1, err := evaluator.CreateQuestion(quiz, "first question", abOptions(), "A")
	require.NoError(t, err)
	q2, err := evaluator.CreateQuestion(quiz, "second question", abOptions(), "B")
	require.NoError(t, err)

	// Watch the first video: 1 of 3 lessons done.
	returnedCourse, err := svc.MarkLessonComplete(7, video1)
	require.NoError(t, err)
	assert.Equal(t, courseID, returnedCourse)

	view, err := svc.Progress().GetCourseProgress(7, courseID)
	require.NoError(t, err)
	assert.Equal(t, 33, view.PercentComplete)

	// Ace the quiz: lesson auto-completed, 2 of 3 done.
	result, err := evaluator.Submit(7, quiz, map[uint]string{q1.ID: "A", q2.ID: "B"})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.True(t, result.QuestionResults[q1.ID])
	assert.True(t, result.QuestionResults[q2.ID])

	view, err = svc.Progress().GetCourseProgress(7, courseID)
	require.NoError(t, err)
	assert.Equal(t, 66, view.PercentComplete)
	assert.Equal(t, 2, view.CompletedLessons)
	assert.Equal(t, 3, view.TotalLessons)

	// Reset: everything gone.
	require.NoError(t, svc.ResetCourseProgress(7, courseID))

	view, err = svc.Progress().GetCourseProgress(7, courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.PercentComplete)

	for _, lessonID := range []uint{video1, quiz} {
		done, err := svc.Tracker().IsComplete(7, lessonID)
		require.NoError(t, err)
		assert.False(t, done)
	}
}
