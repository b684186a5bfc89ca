package service

import (
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"english_edu_backend/pkg/logger"
	"english_edu_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttemptService is the aggregation core. Every ingested attempt runs one
// transaction that inserts the attempt row, bumps both aggregates and
// re-evaluates mastery; a failure anywhere rolls the whole thing back.
type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	TaskRepo     *repository.TaskRepository
	LessonRepo   *repository.LessonRepository
	ProgressRepo *repository.ProgressRepository
	DB           *gorm.DB
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	taskRepo *repository.TaskRepository,
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		TaskRepo:     taskRepo,
		LessonRepo:   lessonRepo,
		ProgressRepo: progressRepo,
		DB:           db,
	}
}

// SubmitAttemptInput carries one answer submission. UserID nil means a guest:
// nothing is persisted and the returned snapshot is synthesized.
type SubmitAttemptInput struct {
	UserID    *uint
	TaskID    uint
	LessonID  *uint
	IsCorrect bool
	Score     *float64
	Response  datatypes.JSON
}

type SubmitAttemptResult struct {
	AttemptID uint                   `json:"attemptId,omitempty"`
	LessonID  uint                   `json:"lessonId"`
	Persisted bool                   `json:"persisted"`
	Progress  model.ProgressSnapshot `json:"progress"`
}

// resolveLesson ties an attempt to its lesson: the denormalized lesson id on
// the submission wins, otherwise the task's lesson is used. Both the lesson
// row and its topic are resolved here once, shared by every aggregation path.
func (s *AttemptService) resolveLesson(input *SubmitAttemptInput) (*model.Lesson, *model.Task, error) {
	task, err := s.TaskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrTaskNotFound
		}
		return nil, nil, err
	}

	if input.LessonID != nil {
		lesson, err := s.LessonRepo.FindByID(*input.LessonID)
		if err == nil {
			return lesson, task, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		// Denormalized id points nowhere; fall through to the task join.
	}

	lesson, err := s.LessonRepo.FindByID(task.LessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrLessonResolution
		}
		return nil, nil, err
	}
	return lesson, task, nil
}

// resolveTopic picks the stats key for an attempt: the lesson topic, then the
// task-level override, then the unknown sentinel.
func resolveTopic(lesson *model.Lesson, task *model.Task) string {
	if lesson.Topic != "" {
		return lesson.Topic
	}
	if task.Topic != nil && *task.Topic != "" {
		return *task.Topic
	}
	return util.UnknownTopic
}

func (s *AttemptService) SubmitAttempt(input SubmitAttemptInput) (*SubmitAttemptResult, error) {
	lesson, task, err := s.resolveLesson(&input)
	if err != nil {
		return nil, err
	}

	correctInc := 0
	if input.IsCorrect {
		correctInc = 1
	}

	// Guests get the uniform response shape with no side effects.
	if input.UserID == nil {
		monitoring.AttemptCounter.WithLabelValues(boolLabel(input.IsCorrect), "false").Inc()
		return &SubmitAttemptResult{
			LessonID:  lesson.ID,
			Persisted: false,
			Progress: model.ProgressSnapshot{
				Attempts: 1,
				Correct:  correctInc,
				Accuracy: float64(correctInc),
				Mastered: false,
			},
		}, nil
	}

	userID := *input.UserID
	now := time.Now()
	topic := resolveTopic(lesson, task)
	parts := util.ParseTopic(topic)

	var (
		attemptID     uint
		snapshot      model.ProgressSnapshot
		newlyMastered bool
	)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		lessonID := lesson.ID
		attempt := &model.TaskAttempt{
			UserID:      userID,
			TaskID:      task.ID,
			LessonID:    &lessonID,
			IsCorrect:   input.IsCorrect,
			Score:       input.Score,
			Response:    input.Response,
			SubmittedAt: now,
			FinishedAt:  now,
		}
		if err := s.AttemptRepo.CreateTx(tx, attempt); err != nil {
			return err
		}
		attemptID = attempt.ID

		if err := s.ProgressRepo.UpsertLessonProgressTx(tx, userID, lesson.ID, input.IsCorrect, now); err != nil {
			return err
		}

		if err := s.ProgressRepo.UpsertTopicStatsTx(tx, userID, topic, parts.SectionCode, parts.SubsectionCode, input.IsCorrect); err != nil {
			return err
		}

		progress, err := s.ProgressRepo.GetTx(tx, userID, lesson.ID)
		if err != nil {
			return err
		}

		if !progress.Mastered {
			recent, err := s.AttemptRepo.RecentResultsTx(tx, userID, lesson.ID, MasteryStreakLength)
			if err != nil {
				return err
			}
			if EvaluateMastery(progress.Attempts, progress.Correct, progress.Accuracy, recent) {
				latched, err := s.ProgressRepo.MarkMasteredTx(tx, userID, lesson.ID)
				if err != nil {
					return err
				}
				progress.Mastered = true
				newlyMastered = latched
			}
		}

		snapshot = model.ProgressSnapshot{
			Attempts: progress.Attempts,
			Correct:  progress.Correct,
			Accuracy: progress.Accuracy,
			Mastered: progress.Mastered,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.AttemptCounter.WithLabelValues(boolLabel(input.IsCorrect), "true").Inc()
	if newlyMastered {
		monitoring.MasteryCounter.Inc()
		logger.Log.Info("lesson mastered",
			zap.Uint("user_id", userID),
			zap.Uint("lesson_id", lesson.ID),
			zap.Int("attempts", snapshot.Attempts),
			zap.Float64("accuracy", snapshot.Accuracy),
		)
	}

	return &SubmitAttemptResult{
		AttemptID: attemptID,
		LessonID:  lesson.ID,
		Persisted: true,
		Progress:  snapshot,
	}, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
