package service

import (
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"errors"
	"sort"

	"gorm.io/gorm"
)

type TaskService struct {
	TaskRepo    *repository.TaskRepository
	LessonRepo  *repository.LessonRepository
	AttemptRepo *repository.AttemptRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, lessonRepo *repository.LessonRepository, attemptRepo *repository.AttemptRepository) *TaskService {
	return &TaskService{
		TaskRepo:    taskRepo,
		LessonRepo:  lessonRepo,
		AttemptRepo: attemptRepo,
	}
}

// NextTask picks the lesson task the user has attempted least, unattempted
// first, ties broken by ascending task id. Without a user it is simply the
// lowest-id task.
func (s *TaskService) NextTask(lessonID uint, userID *uint) (*model.Task, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	tasks, err := s.TaskRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, util.ErrTaskNotFound
	}

	if userID == nil {
		return &tasks[0], nil
	}

	taskIDs := make([]uint, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}
	counts, err := s.AttemptRepo.AttemptCountsByTask(*userID, taskIDs)
	if err != nil {
		return nil, err
	}

	// tasks are already in ascending id order; the stable sort keeps that as
	// the tie-break.
	sort.SliceStable(tasks, func(i, j int) bool {
		return counts[tasks[i].ID] < counts[tasks[j].ID]
	})

	return &tasks[0], nil
}
