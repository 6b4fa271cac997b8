package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsContiguousOrders(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	seedChapter(t, svc, courseID, "Intro")
	seedChapter(t, svc, courseID, "Syntax")
	seedChapter(t, svc, courseID, "Concurrency")

	_, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
}

func TestMoveChapterDown(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	a := seedChapter(t, svc, courseID, "A")
	b := seedChapter(t, svc, courseID, "B")
	c := seedChapter(t, svc, courseID, "C")
	d := seedChapter(t, svc, courseID, "D")

	// Move B from 2 to 4: C and D shift up, B lands last.
	newOrder := 4
	_, err := svc.UpdateChapter(b, nil, nil, &newOrder)
	require.NoError(t, err)

	ids, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{a, c, d, b}, ids)
}

func TestMoveChapterUp(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	a := seedChapter(t, svc, courseID, "A")
	b := seedChapter(t, svc, courseID, "B")
	c := seedChapter(t, svc, courseID, "C")
	d := seedChapter(t, svc, courseID, "D")

	// Move D from 4 to 1: A, B and C shift down.
	newOrder := 1
	_, err := svc.UpdateChapter(d, nil, nil, &newOrder)
	require.NoError(t, err)

	ids, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{d, a, b, c}, ids)
}

func TestMoveToSamePositionIsNoOp(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	a := seedChapter(t, svc, courseID, "A")
	b := seedChapter(t, svc, courseID, "B")
	c := seedChapter(t, svc, courseID, "C")

	sameOrder := 2
	_, err := svc.UpdateChapter(b, nil, nil, &sameOrder)
	require.NoError(t, err)

	ids, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{a, b, c}, ids)
}

func TestMoveOutOfRangeFails(t *testing.T) {
	svc, _ := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	seedChapter(t, svc, courseID, "A")
	b := seedChapter(t, svc, courseID, "B")

	tooHigh := 5
	_, err := svc.UpdateChapter(b, nil, nil, &tooHigh)
	assert.ErrorIs(t, err, ErrValidation)

	tooLow := 0
	_, err = svc.UpdateChapter(b, nil, nil, &tooLow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteMiddleChapterThenAppend(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	a := seedChapter(t, svc, courseID, "A")
	b := seedChapter(t, svc, courseID, "B")
	c := seedChapter(t, svc, courseID, "C")

	require.NoError(t, svc.DeleteChapter(b))

	newChapter, err := svc.CreateChapter(courseID, "D", "")
	require.NoError(t, err)
	assert.Equal(t, 3, newChapter.Order)

	ids, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{a, c, newChapter.ID}, ids)
}

func TestBulkReorderChapters(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	a := seedChapter(t, svc, courseID, "A")
	b := seedChapter(t, svc, courseID, "B")
	c := seedChapter(t, svc, courseID, "C")

	views, err := svc.ReorderChapters([]uint{c, a, b})
	require.NoError(t, err)
	require.Len(t, views, 3)

	ids, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{c, a, b}, ids)
}

func TestBulkReorderRejectsUnknownIDs(t *testing.T) {
	svc, _ := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	a := seedChapter(t, svc, courseID, "A")

	_, err := svc.ReorderChapters([]uint{a, 9999})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulkReorderRejectsMixedParents(t *testing.T) {
	svc, _ := setupService(t)
	courseA := seedCourse(t, svc, "Course A")
	courseB := seedCourse(t, svc, "Course B")

	chA := seedChapter(t, svc, courseA, "A1")
	chB := seedChapter(t, svc, courseB, "B1")

	_, err := svc.ReorderChapters([]uint{chA, chB})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulkReorderRejectsEmptyList(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.ReorderChapters(nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ReorderLessons([]uint{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLessonOrderingIsScopedToChapter(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	ch1 := seedChapter(t, svc, courseID, "One")
	ch2 := seedChapter(t, svc, courseID, "Two")

	l1 := seedLesson(t, svc, ch1, "1a", "VIDEO")
	l2 := seedLesson(t, svc, ch1, "1b", "VIDEO")
	m1 := seedLesson(t, svc, ch2, "2a", "VIDEO")
	m2 := seedLesson(t, svc, ch2, "2b", "VIDEO")

	// Each chapter has its own 1..N sequence.
	ids, orders := lessonOrders(t, db, ch1)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{l1, l2}, ids)

	ids, orders = lessonOrders(t, db, ch2)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{m1, m2}, ids)

	// Deleting in one chapter leaves the other untouched.
	require.NoError(t, svc.DeleteLesson(l1))

	ids, orders = lessonOrders(t, db, ch1)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{l2}, ids)

	ids, orders = lessonOrders(t, db, ch2)
	requireContiguous(t, orders)
	assert.Equal(t, []uint{m1, m2}, ids)
}

func TestContiguityAfterMixedMutationSequence(t *testing.T) {
	svc, db := setupService(t)
	courseID := seedCourse(t, svc, "Go Basics")

	var ids []uint
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, seedChapter(t, svc, courseID, title))
	}

	moveTo := 2
	_, err := svc.UpdateChapter(ids[4], nil, nil, &moveTo)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteChapter(ids[0]))

	seedChapter(t, svc, courseID, "F")

	_, err = svc.ReorderChapters(func() []uint {
		current, _ := chapterOrders(t, db, courseID)
		// reverse
		for i, j := 0, len(current)-1; i < j; i, j = i+1, j-1 {
			current[i], current[j] = current[j], current[i]
		}
		return current
	}())
	require.NoError(t, err)

	moveTo = 4
	_, err = svc.UpdateChapter(ids[1], nil, nil, &moveTo)
	require.NoError(t, err)

	_, orders := chapterOrders(t, db, courseID)
	requireContiguous(t, orders)
}
