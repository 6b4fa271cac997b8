package course

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PassThreshold is the minimum score (inclusive) for a quiz attempt to count
// as passed and auto-complete the lesson.
const PassThreshold = 70

// QuizEvaluator scores quiz submissions and manages the questions of QUIZ
// lessons. A passing submission marks the lesson complete and recomputes the
// caller's course progress in the same transaction.
type QuizEvaluator struct {
	db       *gorm.DB
	tracker  *CompletionTracker
	progress *ProgressCalculator
}

func NewQuizEvaluator(db *gorm.DB, tracker *CompletionTracker, progress *ProgressCalculator) *QuizEvaluator {
	return &QuizEvaluator{db: db, tracker: tracker, progress: progress}
}

// decodeOptions parses the stored options JSON of a question. A row that
// cannot be parsed, or that has no correct answer recorded, indicates a
// prior write defect and fails the whole request.
func decodeOptions(q *courseModels.Question) ([]courseModels.QuestionOption, error) {
	var options []courseModels.QuestionOption
	if len(q.Options) > 0 {
		if err := json.Unmarshal(q.Options, &options); err != nil {
			log.Printf("Corrupt options JSON on question %d: %v", q.ID, err)
			return nil, fmt.Errorf("%w: question %d has malformed options", ErrDataIntegrity, q.ID)
		}
	}
	return options, nil
}

// GetQuestionsByLesson returns the questions of a quiz lesson without their
// correct answers.
func (q *QuizEvaluator) GetQuestionsByLesson(lessonID uint) ([]QuestionView, error) {
	var lesson courseModels.Lesson
	if err := q.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return nil, err
	}

	var questions []courseModels.Question
	if err := q.db.Where("lesson_id = ?", lessonID).Find(&questions).Error; err != nil {
		return nil, err
	}

	views := make([]QuestionView, 0, len(questions))
	for i := range questions {
		options, err := decodeOptions(&questions[i])
		if err != nil {
			return nil, err
		}
		views = append(views, QuestionView{
			ID:           questions[i].ID,
			QuestionText: questions[i].QuestionText,
			Options:      options,
		})
	}
	return views, nil
}

// CreateQuestion adds a question to a QUIZ lesson. The correct answer must
// reference one of the supplied options.
func (q *QuizEvaluator) CreateQuestion(lessonID uint, text string, options []courseModels.QuestionOption, correctAnswer string) (*QuestionView, error) {
	var lesson courseModels.Lesson
	if err := q.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return nil, err
	}
	if lesson.Type != courseModels.LessonTypeQuiz {
		return nil, fmt.Errorf("%w: lesson %d is not a quiz", ErrValidation, lessonID)
	}

	if err := validateAnswer(options, correctAnswer); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}

	question := courseModels.Question{
		LessonID:      lessonID,
		QuestionText:  text,
		Options:       datatypes.JSON(raw),
		CorrectAnswer: correctAnswer,
	}
	if err := q.db.Create(&question).Error; err != nil {
		return nil, err
	}

	return &QuestionView{ID: question.ID, QuestionText: text, Options: options}, nil
}

// UpdateQuestion replaces the text, options and correct answer of a question.
func (q *QuizEvaluator) UpdateQuestion(questionID uint, text string, options []courseModels.QuestionOption, correctAnswer string) (*QuestionView, error) {
	var question courseModels.Question
	if err := q.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return nil, err
	}

	if err := validateAnswer(options, correctAnswer); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}

	question.QuestionText = text
	question.Options = datatypes.JSON(raw)
	question.CorrectAnswer = correctAnswer
	if err := q.db.Save(&question).Error; err != nil {
		return nil, err
	}

	return &QuestionView{ID: question.ID, QuestionText: text, Options: options}, nil
}

// DeleteQuestion removes a question permanently.
func (q *QuizEvaluator) DeleteQuestion(questionID uint) error {
	var question courseModels.Question
	if err := q.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
		}
		return err
	}
	return q.db.Unscoped().Delete(&question).Error
}

func validateAnswer(options []courseModels.QuestionOption, correctAnswer string) error {
	if len(options) < 2 {
		return fmt.Errorf("%w: a question needs at least two options", ErrValidation)
	}
	for _, opt := range options {
		if opt.ID == correctAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer %q does not match any option", ErrValidation, correctAnswer)
}

// Submit grades one quiz attempt. Answers map question ids to the selected
// option id; an absent answer counts as incorrect. The full per-question
// result is returned whether or not the attempt passed.
func (q *QuizEvaluator) Submit(userID, lessonID uint, answers map[uint]string) (*QuizResult, error) {
	var lesson courseModels.Lesson
	if err := q.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return nil, err
	}

	var questions []courseModels.Question
	if err := q.db.Where("lesson_id = ?", lessonID).Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: lesson %d has no questions to submit", ErrValidation, lessonID)
	}

	result := &QuizResult{
		TotalQuestions:  len(questions),
		QuestionResults: make(map[uint]bool, len(questions)),
	}

	for i := range questions {
		question := &questions[i]

		// Options must decode and the stored answer must be present before
		// any grading happens; a partial grade must never leak out.
		if _, err := decodeOptions(question); err != nil {
			return nil, err
		}
		if question.CorrectAnswer == "" {
			log.Printf("Question %d has no correct answer recorded", question.ID)
			return nil, fmt.Errorf("%w: question %d has no correct answer", ErrDataIntegrity, question.ID)
		}

		correct := answers[question.ID] == question.CorrectAnswer
		result.QuestionResults[question.ID] = correct
		if correct {
			result.CorrectAnswers++
		}
	}

	result.Score = result.CorrectAnswers * 100 / result.TotalQuestions
	result.Passed = result.Score >= PassThreshold

	if result.Passed {
		score := result.Score
		err := q.db.Transaction(func(tx *gorm.DB) error {
			if err := q.tracker.markCompleteTx(tx, userID, lessonID, &score); err != nil {
				return err
			}
			return q.progress.recomputeTx(tx, userID, lesson.CourseID)
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
