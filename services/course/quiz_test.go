package course

import (
	"fmt"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQuiz(t *testing.T) (*CourseStructureService, *QuizEvaluator, uint, uint) {
	t.Helper()
	svc, db := setupService(t)
	evaluator := NewQuizEvaluator(db, svc.Tracker(), svc.Progress())

	courseID := seedCourse(t, svc, "Go Basics")
	chapterID := seedChapter(t, svc, courseID, "Intro")
	return svc, evaluator, courseID, chapterID
}

func abOptions() []courseModels.QuestionOption {
	return []courseModels.QuestionOption{
		{ID: "A", Text: "first"},
		{ID: "B", Text: "second"},
	}
}

// seedQuestions creates n questions on the lesson, all with correct answer "A".
func seedQuestions(t *testing.T, evaluator *QuizEvaluator, lessonID uint, n int) []uint {
	t.Helper()
	ids := make([]uint, n)
	for i := 0; i < n; i++ {
		view, err := evaluator.CreateQuestion(lessonID, fmt.Sprintf("question %d", i+1), abOptions(), "A")
		require.NoError(t, err)
		ids[i] = view.ID
	}
	return ids
}

func answerFirstN(questionIDs []uint, n int) map[uint]string {
	answers := make(map[uint]string)
	for i, id := range questionIDs {
		if i < n {
			answers[id] = "A"
		} else {
			answers[id] = "B"
		}
	}
	return answers
}

func TestSubmitScoresExactly70AsPassed(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	questions := seedQuestions(t, evaluator, lessonID, 10)

	result, err := evaluator.Submit(7, lessonID, answerFirstN(questions, 7))
	require.NoError(t, err)

	assert.Equal(t, 70, result.Score)
	assert.Equal(t, 10, result.TotalQuestions)
	assert.Equal(t, 7, result.CorrectAnswers)
	assert.True(t, result.Passed)
}

func TestSubmitScoreTruncatesBelowThreshold(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	questions := seedQuestions(t, evaluator, lessonID, 13)

	// 9 of 13 is 69.23, truncated to 69: one point short of passing.
	result, err := evaluator.Submit(7, lessonID, answerFirstN(questions, 9))
	require.NoError(t, err)

	assert.Equal(t, 69, result.Score)
	assert.False(t, result.Passed)

	done, err := svc.Tracker().IsComplete(7, lessonID)
	require.NoError(t, err)
	assert.False(t, done, "failing attempt must not complete the lesson")
}

func TestSubmitAbsentAnswersCountIncorrect(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	questions := seedQuestions(t, evaluator, lessonID, 4)

	// Answer only one question; the rest are graded incorrect.
	result, err := evaluator.Submit(7, lessonID, map[uint]string{questions[0]: "A"})
	require.NoError(t, err)

	assert.Equal(t, 25, result.Score)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.False(t, result.Passed)
	assert.True(t, result.QuestionResults[questions[0]])
	for _, id := range questions[1:] {
		assert.False(t, result.QuestionResults[id])
	}
}

func TestSubmitToLessonWithoutQuestions(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	lessonID := seedLesson(t, svc, chapterID, "Empty Quiz", "QUIZ")

	_, err := evaluator.Submit(7, lessonID, map[uint]string{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitToUnknownLesson(t *testing.T) {
	_, evaluator, _, _ := setupQuiz(t)

	_, err := evaluator.Submit(7, 9999, map[uint]string{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitFailsOnCorruptOptions(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	db := evaluator.db
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	seedQuestions(t, evaluator, lessonID, 1)

	// A row written by a prior defect: options that are not valid JSON.
	corrupt := courseModels.Question{
		LessonID:      lessonID,
		QuestionText:  "broken",
		Options:       []byte("{not json"),
		CorrectAnswer: "A",
	}
	require.NoError(t, db.Create(&corrupt).Error)

	_, err := evaluator.Submit(7, lessonID, map[uint]string{})
	assert.ErrorIs(t, err, ErrDataIntegrity)

	done, checkErr := svc.Tracker().IsComplete(7, lessonID)
	require.NoError(t, checkErr)
	assert.False(t, done, "a partially graded attempt must not leave side effects")
}

func TestSubmitFailsOnMissingCorrectAnswer(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	db := evaluator.db
	lessonID := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")

	question := courseModels.Question{
		LessonID:     lessonID,
		QuestionText: "no answer recorded",
		Options:      []byte(`[{"id":"A","text":"first"},{"id":"B","text":"second"}]`),
	}
	require.NoError(t, db.Create(&question).Error)

	_, err := evaluator.Submit(7, lessonID, map[uint]string{question.ID: "A"})
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestPassingSubmissionCompletesLessonAndRecomputes(t *testing.T) {
	svc, evaluator, courseID, chapterID := setupQuiz(t)

	seedLesson(t, svc, chapterID, "Video 1", "VIDEO")
	seedLesson(t, svc, chapterID, "Video 2", "VIDEO")
	quizLesson := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	questions := seedQuestions(t, evaluator, quizLesson, 2)

	before, err := svc.Tracker().CountCompleted(7, courseID)
	require.NoError(t, err)

	result, err := evaluator.Submit(7, quizLesson, answerFirstN(questions, 2))
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)

	after, err := svc.Tracker().CountCompleted(7, courseID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	view, err := svc.Progress().GetCourseProgress(7, courseID)
	require.NoError(t, err)
	assert.Equal(t, 33, view.PercentComplete)
	require.NotNil(t, view.LastAccessedAt)
}

func TestPassingSubmissionStoresScore(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	db := evaluator.db
	quizLesson := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	questions := seedQuestions(t, evaluator, quizLesson, 10)

	_, err := evaluator.Submit(7, quizLesson, answerFirstN(questions, 8))
	require.NoError(t, err)

	var completion courseModels.LessonCompletion
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 7, quizLesson).First(&completion).Error)
	require.NotNil(t, completion.Score)
	assert.Equal(t, 80, *completion.Score)

	// A weaker retake never lowers the stored score.
	_, err = evaluator.Submit(7, quizLesson, answerFirstN(questions, 7))
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", 7, quizLesson).First(&completion).Error)
	assert.Equal(t, 80, *completion.Score)
}

func TestCreateQuestionValidation(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	videoLesson := seedLesson(t, svc, chapterID, "Video", "VIDEO")
	quizLesson := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")

	_, err := evaluator.CreateQuestion(videoLesson, "q", abOptions(), "A")
	assert.ErrorIs(t, err, ErrValidation, "questions only belong on quiz lessons")

	_, err = evaluator.CreateQuestion(quizLesson, "q", abOptions(), "Z")
	assert.ErrorIs(t, err, ErrValidation, "correct answer must match an option")

	_, err = evaluator.CreateQuestion(quizLesson, "q", []courseModels.QuestionOption{{ID: "A"}}, "A")
	assert.ErrorIs(t, err, ErrValidation, "a question needs at least two options")

	_, err = evaluator.CreateQuestion(9999, "q", abOptions(), "A")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionViewsHideCorrectAnswer(t *testing.T) {
	svc, evaluator, _, chapterID := setupQuiz(t)
	quizLesson := seedLesson(t, svc, chapterID, "Quiz", "QUIZ")
	seedQuestions(t, evaluator, quizLesson, 2)

	views, err := evaluator.GetQuestionsByLesson(quizLesson)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, view := range views {
		assert.Len(t, view.Options, 2)
		assert.NotEmpty(t, view.QuestionText)
	}

	lessonView, err := svc.GetLessonDetail(quizLesson, nil)
	require.NoError(t, err)
	assert.Len(t, lessonView.Questions, 2)
}
