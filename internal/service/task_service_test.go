package service

import (
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaskService(db *gorm.DB) *TaskService {
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewLessonRepository(db),
		repository.NewAttemptRepository(db),
	)
}

func TestNextTaskGuestGetsFirst(t *testing.T) {
	db := newTestDB(t)
	s := newTaskService(db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")
	first := seedTask(t, db, lesson.ID)
	seedTask(t, db, lesson.ID)

	task, err := s.NextTask(lesson.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, task.ID)
}

func TestNextTaskLeastAttempted(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newTaskService(db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")
	t1 := seedTask(t, db, lesson.ID)
	t2 := seedTask(t, db, lesson.ID)
	t3 := seedTask(t, db, lesson.ID)

	submit(t, attempts, 1, t1.ID, true)
	submit(t, attempts, 1, t1.ID, false)
	submit(t, attempts, 1, t2.ID, true)

	userID := uint(1)
	task, err := s.NextTask(lesson.ID, &userID)
	require.NoError(t, err)
	assert.Equal(t, t3.ID, task.ID)

	// Another user's attempts do not count.
	otherID := uint(2)
	task, err = s.NextTask(lesson.ID, &otherID)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, task.ID)
}

func TestNextTaskTieBreaksByID(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newTaskService(db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")
	t1 := seedTask(t, db, lesson.ID)
	t2 := seedTask(t, db, lesson.ID)

	submit(t, attempts, 1, t1.ID, true)
	submit(t, attempts, 1, t2.ID, true)

	userID := uint(1)
	task, err := s.NextTask(lesson.ID, &userID)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, task.ID)
}

func TestNextTaskUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	s := newTaskService(db)

	_, err := s.NextTask(999, nil)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestNextTaskEmptyLesson(t *testing.T) {
	db := newTestDB(t)
	s := newTaskService(db)

	lesson := seedLesson(t, db, "Empty", "📌 Articles")
	_, err := s.NextTask(lesson.ID, nil)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
}
