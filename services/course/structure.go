package course

import (
	"errors"
	"fmt"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// CourseStructureService is the public face of the engine. It combines the
// ordering store (chapter/lesson CRUD and reorder) with the completion
// tracker and progress calculator, and decorates structure responses with
// per-user progress.
type CourseStructureService struct {
	db       *gorm.DB
	ordering OrderingStore
	tracker  *CompletionTracker
	progress *ProgressCalculator
}

func NewCourseStructureService(db *gorm.DB) *CourseStructureService {
	tracker := NewCompletionTracker(db)
	return &CourseStructureService{
		db:       db,
		tracker:  tracker,
		progress: NewProgressCalculator(db, tracker),
	}
}

// Tracker exposes the completion tracker for callers that only need facts.
func (s *CourseStructureService) Tracker() *CompletionTracker { return s.tracker }

// Progress exposes the progress calculator for read-side callers.
func (s *CourseStructureService) Progress() *ProgressCalculator { return s.progress }

// ---------------------------------------------------------------------------
// Courses

// CreateCourse creates a new course shell with no chapters.
func (s *CourseStructureService) CreateCourse(title, description, author string) (*courseModels.Course, error) {
	crs := courseModels.Course{
		Title:       title,
		Description: description,
		Author:      author,
	}
	if err := s.db.Create(&crs).Error; err != nil {
		return nil, err
	}
	return &crs, nil
}

// UpdateCourse applies the non-empty fields to an existing course.
func (s *CourseStructureService) UpdateCourse(courseID uint, title, description, author *string, isPublished *bool) (*courseModels.Course, error) {
	var crs courseModels.Course
	if err := s.db.First(&crs, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
		}
		return nil, err
	}

	if title != nil {
		crs.Title = *title
	}
	if description != nil {
		crs.Description = *description
	}
	if author != nil {
		crs.Author = *author
	}
	if isPublished != nil {
		crs.IsPublished = *isPublished
	}

	if err := s.db.Save(&crs).Error; err != nil {
		return nil, err
	}
	return &crs, nil
}

// DeleteCourse removes the course and everything it owns: chapters, lessons,
// questions, completion facts and cached progress, all in one transaction.
func (s *CourseStructureService) DeleteCourse(courseID uint) error {
	var crs courseModels.Course
	if err := s.db.First(&crs, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: course %d", ErrNotFound, courseID)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		lessonIDs := tx.Model(&courseModels.Lesson{}).Select("id").Where("course_id = ?", courseID)

		if err := tx.Unscoped().Where("lesson_id IN (?)", lessonIDs).Delete(&courseModels.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("lesson_id IN (?)", lessonIDs).Delete(&courseModels.LessonCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", courseID).Delete(&courseModels.CourseProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", courseID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", courseID).Delete(&courseModels.Chapter{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&crs).Error
	})
}

// ListCourses returns all courses, optionally only published ones.
func (s *CourseStructureService) ListCourses(publishedOnly bool) ([]courseModels.Course, error) {
	var courses []courseModels.Course
	q := s.db.Order("id asc")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse fetches a single course by id.
func (s *CourseStructureService) GetCourse(courseID uint) (*courseModels.Course, error) {
	var crs courseModels.Course
	if err := s.db.First(&crs, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
		}
		return nil, err
	}
	return &crs, nil
}

// ---------------------------------------------------------------------------
// Chapters

func (s *CourseStructureService) chapterView(chapter *courseModels.Chapter, userID *uint) (ChapterView, error) {
	view := ChapterView{
		ID:          chapter.ID,
		Title:       chapter.Title,
		Description: chapter.Description,
		Order:       chapter.OrderIndex,
	}

	var lessonsCount int64
	err := s.db.Model(&courseModels.Lesson{}).
		Where("chapter_id = ?", chapter.ID).
		Count(&lessonsCount).Error
	if err != nil {
		return view, err
	}
	view.LessonsCount = int(lessonsCount)

	// Anonymous callers get structure without progress.
	if userID != nil {
		var completed int64
		err := s.db.Model(&courseModels.LessonCompletion{}).
			Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
			Where("lesson_completions.user_id = ? AND lessons.chapter_id = ?", *userID, chapter.ID).
			Count(&completed).Error
		if err != nil {
			return view, err
		}
		view.CompletedLessons = int(completed)
	}
	return view, nil
}

// ListChapters returns the chapters of a course in order, each annotated
// with its lesson count and the caller's completed count.
func (s *CourseStructureService) ListChapters(courseID uint, userID *uint) ([]ChapterView, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}

	var chapters []courseModels.Chapter
	err := s.db.Where("course_id = ?", courseID).
		Order("order_index asc").
		Find(&chapters).Error
	if err != nil {
		return nil, err
	}

	views := make([]ChapterView, 0, len(chapters))
	for i := range chapters {
		view, err := s.chapterView(&chapters[i], userID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetChapter fetches a single chapter view without user progress.
func (s *CourseStructureService) GetChapter(chapterID uint) (*ChapterView, error) {
	var chapter courseModels.Chapter
	if err := s.db.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chapter %d", ErrNotFound, chapterID)
		}
		return nil, err
	}
	view, err := s.chapterView(&chapter, nil)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateChapter appends a new chapter at the end of the course.
func (s *CourseStructureService) CreateChapter(courseID uint, title, description string) (*ChapterView, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}

	chapter := courseModels.Chapter{
		CourseID:    courseID,
		Title:       title,
		Description: description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.ordering.Append(tx, &courseModels.Chapter{}, "course_id", courseID)
		if err != nil {
			return err
		}
		chapter.OrderIndex = order
		return tx.Create(&chapter).Error
	})
	if err != nil {
		return nil, err
	}

	return &ChapterView{
		ID:          chapter.ID,
		Title:       chapter.Title,
		Description: chapter.Description,
		Order:       chapter.OrderIndex,
	}, nil
}

// UpdateChapter applies field updates; a changed order moves the chapter
// within its course using the shift algorithm.
func (s *CourseStructureService) UpdateChapter(chapterID uint, title, description *string, newOrder *int) (*ChapterView, error) {
	var chapter courseModels.Chapter
	if err := s.db.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chapter %d", ErrNotFound, chapterID)
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if title != nil {
			chapter.Title = *title
		}
		if description != nil {
			chapter.Description = *description
		}
		if err := tx.Save(&chapter).Error; err != nil {
			return err
		}

		if newOrder != nil && *newOrder != chapter.OrderIndex {
			err := s.ordering.Move(tx, &courseModels.Chapter{}, "course_id", chapter.CourseID, chapter.ID, chapter.OrderIndex, *newOrder)
			if err != nil {
				return err
			}
			chapter.OrderIndex = *newOrder
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := s.chapterView(&chapter, nil)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteChapter removes the chapter, its lessons with their questions and
// completion facts, and closes the ordering gap.
func (s *CourseStructureService) DeleteChapter(chapterID uint) error {
	var chapter courseModels.Chapter
	if err := s.db.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: chapter %d", ErrNotFound, chapterID)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		lessonIDs := tx.Model(&courseModels.Lesson{}).Select("id").Where("chapter_id = ?", chapterID)

		if err := tx.Unscoped().Where("lesson_id IN (?)", lessonIDs).Delete(&courseModels.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("lesson_id IN (?)", lessonIDs).Delete(&courseModels.LessonCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("chapter_id = ?", chapterID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		return s.ordering.Remove(tx, &courseModels.Chapter{}, "course_id", chapter.CourseID, chapter.ID, chapter.OrderIndex)
	})
}

// ReorderChapters rewrites the chapter sequence of one course to match the
// given id order.
func (s *CourseStructureService) ReorderChapters(ids []uint) ([]ChapterView, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: chapter id list must not be empty", ErrValidation)
	}

	var courseID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		parentID, err := s.ordering.BulkReorder(tx, &courseModels.Chapter{}, "course_id", ids)
		if err != nil {
			return err
		}
		courseID = parentID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ListChapters(courseID, nil)
}

// ---------------------------------------------------------------------------
// Lessons

func (s *CourseStructureService) lessonView(lesson *courseModels.Lesson, userID *uint) (LessonView, error) {
	view := LessonView{
		ID:        lesson.ID,
		Title:     lesson.Title,
		Type:      lesson.Type,
		VideoURL:  lesson.VideoURL,
		Order:     lesson.OrderIndex,
		Questions: []QuestionView{},
	}

	if userID != nil {
		completed, err := s.tracker.IsComplete(*userID, lesson.ID)
		if err != nil {
			return view, err
		}
		view.Completed = completed
	}

	if lesson.Type == courseModels.LessonTypeQuiz {
		var questions []courseModels.Question
		if err := s.db.Where("lesson_id = ?", lesson.ID).Find(&questions).Error; err != nil {
			return view, err
		}
		for i := range questions {
			options, err := decodeOptions(&questions[i])
			if err != nil {
				return view, err
			}
			view.Questions = append(view.Questions, QuestionView{
				ID:           questions[i].ID,
				QuestionText: questions[i].QuestionText,
				Options:      options,
			})
		}
	}
	return view, nil
}

// ListLessons returns the lessons of a chapter in order with the caller's
// completion flags and, for quizzes, their questions.
func (s *CourseStructureService) ListLessons(chapterID uint, userID *uint) ([]LessonView, error) {
	var chapter courseModels.Chapter
	if err := s.db.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chapter %d", ErrNotFound, chapterID)
		}
		return nil, err
	}

	var lessons []courseModels.Lesson
	err := s.db.Where("chapter_id = ?", chapterID).
		Order("order_index asc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	views := make([]LessonView, 0, len(lessons))
	for i := range lessons {
		view, err := s.lessonView(&lessons[i], userID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetLessonDetail fetches one lesson with the caller's completion flag.
func (s *CourseStructureService) GetLessonDetail(lessonID uint, userID *uint) (*LessonView, error) {
	var lesson courseModels.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return nil, err
	}
	view, err := s.lessonView(&lesson, userID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateLesson appends a new lesson at the end of the chapter. A missing
// video URL is stored as the empty string, never null.
func (s *CourseStructureService) CreateLesson(chapterID uint, title, lessonType, videoURL string) (*LessonView, error) {
	var chapter courseModels.Chapter
	if err := s.db.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chapter %d", ErrNotFound, chapterID)
		}
		return nil, err
	}

	if lessonType != courseModels.LessonTypeVideo && lessonType != courseModels.LessonTypeQuiz {
		return nil, fmt.Errorf("%w: unknown lesson type %q", ErrValidation, lessonType)
	}

	lesson := courseModels.Lesson{
		CourseID:  chapter.CourseID,
		ChapterID: chapterID,
		Title:     title,
		Type:      lessonType,
		VideoURL:  videoURL,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.ordering.Append(tx, &courseModels.Lesson{}, "chapter_id", chapterID)
		if err != nil {
			return err
		}
		lesson.OrderIndex = order
		return tx.Create(&lesson).Error
	})
	if err != nil {
		return nil, err
	}

	return &LessonView{
		ID:        lesson.ID,
		Title:     lesson.Title,
		Type:      lesson.Type,
		VideoURL:  lesson.VideoURL,
		Order:     lesson.OrderIndex,
		Questions: []QuestionView{},
	}, nil
}

// UpdateLesson applies field updates; a changed order moves the lesson
// within its chapter.
func (s *CourseStructureService) UpdateLesson(lessonID uint, title, lessonType, videoURL *string, newOrder *int) (*LessonView, error) {
	var lesson courseModels.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return nil, err
	}

	if lessonType != nil && *lessonType != courseModels.LessonTypeVideo && *lessonType != courseModels.LessonTypeQuiz {
		return nil, fmt.Errorf("%w: unknown lesson type %q", ErrValidation, *lessonType)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if title != nil {
			lesson.Title = *title
		}
		if lessonType != nil {
			lesson.Type = *lessonType
		}
		if videoURL != nil {
			lesson.VideoURL = *videoURL
		}
		if err := tx.Save(&lesson).Error; err != nil {
			return err
		}

		if newOrder != nil && *newOrder != lesson.OrderIndex {
			err := s.ordering.Move(tx, &courseModels.Lesson{}, "chapter_id", lesson.ChapterID, lesson.ID, lesson.OrderIndex, *newOrder)
			if err != nil {
				return err
			}
			lesson.OrderIndex = *newOrder
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := s.lessonView(&lesson, nil)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteLesson removes the lesson with its questions and completion facts
// and closes the ordering gap in its chapter.
func (s *CourseStructureService) DeleteLesson(lessonID uint) error {
	var lesson courseModels.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("lesson_id = ?", lessonID).Delete(&courseModels.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("lesson_id = ?", lessonID).Delete(&courseModels.LessonCompletion{}).Error; err != nil {
			return err
		}
		return s.ordering.Remove(tx, &courseModels.Lesson{}, "chapter_id", lesson.ChapterID, lesson.ID, lesson.OrderIndex)
	})
}

// ReorderLessons rewrites the lesson sequence of one chapter to match the
// given id order.
func (s *CourseStructureService) ReorderLessons(ids []uint) ([]LessonView, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: lesson id list must not be empty", ErrValidation)
	}

	var chapterID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		parentID, err := s.ordering.BulkReorder(tx, &courseModels.Lesson{}, "chapter_id", ids)
		if err != nil {
			return err
		}
		chapterID = parentID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ListLessons(chapterID, nil)
}

// ---------------------------------------------------------------------------
// Completion

// MarkLessonComplete records a direct completion (a watched video) and
// recomputes the course progress in the same transaction. The lesson's
// course id is returned for follow-up reads.
func (s *CourseStructureService) MarkLessonComplete(userID, lessonID uint) (uint, error) {
	var lesson courseModels.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
		}
		return 0, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.tracker.markCompleteTx(tx, userID, lessonID, nil); err != nil {
			return err
		}
		return s.progress.recomputeTx(tx, userID, lesson.CourseID)
	})
	if err != nil {
		return 0, err
	}
	return lesson.CourseID, nil
}

// ResetCourseProgress wipes the user's completions and cached progress for
// the course.
func (s *CourseStructureService) ResetCourseProgress(userID, courseID uint) error {
	if _, err := s.GetCourse(courseID); err != nil {
		return err
	}
	return s.tracker.ResetCourse(userID, courseID)
}
