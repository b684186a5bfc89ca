package repository

import (
	"english_edu_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

// ListOrdered returns all lessons in ascending id order. Tree building depends
// on this ordering for deterministic first-encounter grouping.
func (r *LessonRepository) ListOrdered() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) ListByIDs(ids []uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if len(ids) == 0 {
		return lessons, nil
	}
	err := r.DB.Where("id IN ?", ids).Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Save(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Count(&count).Error
	return count, err
}
