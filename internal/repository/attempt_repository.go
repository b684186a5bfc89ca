package repository

import (
	"english_edu_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateTx inserts the attempt inside the caller's transaction. Attempts are
// append-only; nothing in this service ever updates or deletes them.
func (r *AttemptRepository) CreateTx(tx *gorm.DB, attempt *model.TaskAttempt) error {
	return tx.Create(attempt).Error
}

// RecentResultsTx returns correctness of the newest attempts for the resolved
// lesson, newest first. Recency is finished_at descending with ties broken by
// id descending (insertion order). Rows predating the denormalized lesson_id
// column are matched through their task, same as the aggregation paths.
func (r *AttemptRepository) RecentResultsTx(tx *gorm.DB, userID, lessonID uint, limit int) ([]bool, error) {
	var results []bool
	err := tx.Raw(`
		SELECT ta.is_correct
		FROM task_attempts ta
		LEFT JOIN tasks t ON t.id = ta.task_id
		WHERE ta.user_id = ?
		  AND COALESCE(ta.lesson_id, t.lesson_id) = ?
		ORDER BY ta.finished_at DESC, ta.id DESC
		LIMIT ?`,
		userID, lessonID, limit,
	).Scan(&results).Error
	return results, err
}

// AttemptCountsByTask returns the user's historical attempt count per task,
// for least-attempted-first task selection. Tasks with no attempts are absent
// from the map.
func (r *AttemptRepository) AttemptCountsByTask(userID uint, taskIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int)
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID uint
		N      int
	}
	err := r.DB.Model(&model.TaskAttempt{}).
		Select("task_id AS task_id, COUNT(*) AS n").
		Where("user_id = ? AND task_id IN ?", userID, taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TaskID] = row.N
	}
	return counts, nil
}

// CountForLesson is used by the nightly aggregate audit to compare raw
// attempt totals against the lesson_progress counters.
func (r *AttemptRepository) CountForLesson(userID, lessonID uint) (total int64, correct int64, err error) {
	row := r.DB.Raw(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN ta.is_correct THEN 1 ELSE 0 END), 0)
		FROM task_attempts ta
		LEFT JOIN tasks t ON t.id = ta.task_id
		WHERE ta.user_id = ?
		  AND COALESCE(ta.lesson_id, t.lesson_id) = ?`,
		userID, lessonID,
	).Row()
	err = row.Scan(&total, &correct)
	return total, correct, err
}
