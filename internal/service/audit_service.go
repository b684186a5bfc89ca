package service

import (
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

const auditBatchSize = 500

// AuditService reconciles lesson_progress counters against the raw attempt
// log. Aggregates are maintained transactionally with each attempt, so a
// mismatch means a bug or out-of-band data surgery; the audit only reports,
// it never repairs.
type AuditService struct {
	ProgressRepo *repository.ProgressRepository
	AttemptRepo  *repository.AttemptRepository
}

func NewAuditService(progressRepo *repository.ProgressRepository, attemptRepo *repository.AttemptRepository) *AuditService {
	return &AuditService{ProgressRepo: progressRepo, AttemptRepo: attemptRepo}
}

type AuditReport struct {
	Checked    int `json:"checked"`
	Mismatched int `json:"mismatched"`
}

// ReconcileAggregates walks every lesson_progress row and recounts its
// attempts from task_attempts.
func (s *AuditService) ReconcileAggregates() (*AuditReport, error) {
	report := &AuditReport{}

	err := s.ProgressRepo.ListAll(auditBatchSize, func(rows []model.LessonProgress) error {
		for _, row := range rows {
			report.Checked++

			total, correct, err := s.AttemptRepo.CountForLesson(row.UserID, row.LessonID)
			if err != nil {
				return err
			}
			if total != int64(row.Attempts) || correct != int64(row.Correct) {
				report.Mismatched++
				logger.Log.Warn("aggregate mismatch",
					zap.Uint("user_id", row.UserID),
					zap.Uint("lesson_id", row.LessonID),
					zap.Int("stored_attempts", row.Attempts),
					zap.Int64("counted_attempts", total),
					zap.Int("stored_correct", row.Correct),
					zap.Int64("counted_correct", correct),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("aggregate audit finished",
		zap.Int("checked", report.Checked),
		zap.Int("mismatched", report.Mismatched),
	)
	return report, nil
}
