package repository

import (
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// UpsertLessonProgressTx applies one attempt to the (user, lesson) aggregate
// as a single conflict-on-unique-key statement. Concurrent attempts serialize
// on the row; counters are incremented relative to the stored values, never a
// value read earlier, so no interleaving loses an update. last_attempt_at is
// a monotonic watermark and never regresses.
//
// The accuracy expression references the pre-update counters; it is assigned
// before attempts/correct (assignments apply in sorted column order).
func (r *ProgressRepository) UpsertLessonProgressTx(tx *gorm.DB, userID, lessonID uint, isCorrect bool, at time.Time) error {
	inc := 0
	if isCorrect {
		inc = 1
	}

	row := &model.LessonProgress{
		UserID:        userID,
		LessonID:      lessonID,
		Attempts:      1,
		Correct:       inc,
		Accuracy:      float64(inc),
		Mastered:      false,
		LastAttemptAt: &at,
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"accuracy":        gorm.Expr("(lesson_progress.correct + ?) / (lesson_progress.attempts + 1.0)", inc),
			"attempts":        gorm.Expr("lesson_progress.attempts + 1"),
			"correct":         gorm.Expr("lesson_progress.correct + ?", inc),
			"last_attempt_at": gorm.Expr("CASE WHEN lesson_progress.last_attempt_at IS NULL OR lesson_progress.last_attempt_at < ? THEN ? ELSE lesson_progress.last_attempt_at END", at, at),
			"updated_at":      time.Now(),
		}),
	}).Create(row).Error
}

// UpsertTopicStatsTx mirrors the lesson upsert for the (user, topic) aggregate.
// The flat topic string is the unique key; the parsed codes ride along for
// split-mode reads.
func (r *ProgressRepository) UpsertTopicStatsTx(tx *gorm.DB, userID uint, topic, topicCode, subtopicCode string, isCorrect bool) error {
	inc := 0
	if isCorrect {
		inc = 1
	}

	row := &model.TopicStats{
		UserID:       userID,
		Topic:        topic,
		TopicCode:    topicCode,
		SubtopicCode: subtopicCode,
		Attempts:     1,
		Correct:      inc,
		Accuracy:     float64(inc),
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"accuracy":   gorm.Expr("(topic_stats.correct + ?) / (topic_stats.attempts + 1.0)", inc),
			"attempts":   gorm.Expr("topic_stats.attempts + 1"),
			"correct":    gorm.Expr("topic_stats.correct + ?", inc),
			"updated_at": time.Now(),
		}),
	}).Create(row).Error
}

// MarkMasteredTx is the one-way latch. It only ever writes true, and only
// where mastered is still false, so no evaluation order can unset mastery.
func (r *ProgressRepository) MarkMasteredTx(tx *gorm.DB, userID, lessonID uint) (bool, error) {
	res := tx.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ? AND mastered = ?", userID, lessonID, false).
		Update("mastered", true)
	return res.RowsAffected > 0, res.Error
}

func (r *ProgressRepository) GetTx(tx *gorm.DB, userID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) Get(userID, lessonID uint) (*model.LessonProgress, error) {
	return r.GetTx(r.DB, userID, lessonID)
}

// ListForUser returns per-lesson progress joined with lesson titles, mastered
// lessons first, most recently practiced first within each group.
func (r *ProgressRepository) ListForUser(userID uint) ([]model.LessonProgressSummary, error) {
	var rows []model.LessonProgressSummary
	err := r.DB.Raw(`
		SELECT l.id AS lesson_id, l.title, l.topic,
		       lp.attempts, lp.correct, lp.accuracy, lp.mastered, lp.last_attempt_at
		FROM lesson_progress lp
		JOIN lessons l ON l.id = lp.lesson_id
		WHERE lp.user_id = ?
		ORDER BY lp.mastered DESC, lp.last_attempt_at DESC`,
		userID,
	).Scan(&rows).Error
	return rows, err
}

// ListForUserByLessons returns the user's progress rows for the given lessons
// keyed by lesson id, for overview annotation.
func (r *ProgressRepository) ListForUserByLessons(userID uint, lessonIDs []uint) (map[uint]model.LessonProgress, error) {
	result := make(map[uint]model.LessonProgress)
	if len(lessonIDs) == 0 {
		return result, nil
	}

	var rows []model.LessonProgress
	err := r.DB.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.LessonID] = row
	}
	return result, nil
}

// WeakTopics returns the user's worst-accuracy topics among those with enough
// volume to be meaningful. The grouping shape follows the schema contract
// fixed at startup: flat topic strings, or the split topic/subtopic codes.
func (r *ProgressRepository) WeakTopics(userID uint, topicKeyMode string, minAttempts, limit int) ([]model.WeakTopic, error) {
	var rows []model.WeakTopic

	if topicKeyMode == config.TopicKeySplit {
		err := r.DB.Raw(`
			SELECT topic_code AS topic, subtopic_code AS subtopic,
			       SUM(attempts) AS attempts, SUM(correct) AS correct,
			       CASE WHEN SUM(attempts) > 0 THEN SUM(correct) * 1.0 / SUM(attempts) ELSE 0 END AS accuracy
			FROM topic_stats
			WHERE user_id = ?
			GROUP BY topic_code, subtopic_code
			HAVING SUM(attempts) >= ?
			ORDER BY accuracy ASC, attempts DESC
			LIMIT ?`,
			userID, minAttempts, limit,
		).Scan(&rows).Error
		return rows, err
	}

	err := r.DB.Raw(`
		SELECT topic, '' AS subtopic, attempts, correct, accuracy
		FROM topic_stats
		WHERE user_id = ? AND attempts >= ?
		ORDER BY accuracy ASC, attempts DESC
		LIMIT ?`,
		userID, minAttempts, limit,
	).Scan(&rows).Error
	return rows, err
}

func (r *ProgressRepository) GetTopicStats(userID uint, topic string) (*model.TopicStats, error) {
	var stats model.TopicStats
	err := r.DB.Where("user_id = ? AND topic = ?", userID, topic).First(&stats).Error
	return &stats, err
}

// ListAll streams every aggregate row; used only by the nightly audit job.
func (r *ProgressRepository) ListAll(batch int, fn func([]model.LessonProgress) error) error {
	var rows []model.LessonProgress
	return r.DB.FindInBatches(&rows, batch, func(tx *gorm.DB, _ int) error {
		return fn(rows)
	}).Error
}
