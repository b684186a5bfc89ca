package repository

import (
	"english_edu_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) FindByID(id uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.First(&task, id).Error
	return &task, err
}

func (r *TaskRepository) ListByLesson(lessonID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("lesson_id = ?", lessonID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// LessonIDsWithTasks reports which of the given lessons have at least one
// task, in a single query. The tree builder uses this for the hasPractice
// annotation instead of probing per unit.
func (r *TaskRepository) LessonIDsWithTasks(lessonIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(lessonIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := r.DB.Model(&model.Task{}).
		Distinct("lesson_id").
		Where("lesson_id IN ?", lessonIDs).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
