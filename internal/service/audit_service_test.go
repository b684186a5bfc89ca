package service

import (
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuditService(db *gorm.DB) *AuditService {
	return NewAuditService(
		repository.NewProgressRepository(db),
		repository.NewAttemptRepository(db),
	)
}

func TestReconcileAggregatesClean(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newAuditService(db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")
	task := seedTask(t, db, lesson.ID)
	submit(t, attempts, 1, task.ID, true)
	submit(t, attempts, 1, task.ID, false)

	report, err := s.ReconcileAggregates()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Zero(t, report.Mismatched)
}

func TestReconcileAggregatesDetectsDrift(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newAuditService(db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")
	task := seedTask(t, db, lesson.ID)
	submit(t, attempts, 1, task.ID, true)

	// Out-of-band surgery on the aggregate.
	require.NoError(t, db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", 1, lesson.ID).
		Update("attempts", 5).Error)

	report, err := s.ReconcileAggregates()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 1, report.Mismatched)
}
