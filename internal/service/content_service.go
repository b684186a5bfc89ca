package service

import (
	"context"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentService serves lesson theory material and manages attached media.
type ContentService struct {
	LessonRepo *repository.LessonRepository
	Storage    *StorageService
}

func NewContentService(lessonRepo *repository.LessonRepository, storage *StorageService) *ContentService {
	return &ContentService{LessonRepo: lessonRepo, Storage: storage}
}

type LessonTheory struct {
	LessonID uint          `json:"lessonId"`
	Title    string        `json:"title"`
	Topic    string        `json:"topic"`
	Theory   interface{}   `json:"theory"`
	Media    []interface{} `json:"media"`
}

// GetTheory returns the lesson's theory block from its metadata. Lessons
// without a theory block still resolve, with a null theory.
func (s *ContentService) GetTheory(lessonID uint) (*LessonTheory, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	out := &LessonTheory{
		LessonID: lesson.ID,
		Title:    lesson.Title,
		Topic:    lesson.Topic,
		Media:    []interface{}{},
	}
	if lesson.Metadata != nil {
		out.Theory = lesson.Metadata["theory"]
		if media, ok := lesson.Metadata["media"].([]interface{}); ok {
			out.Media = media
		}
	}
	return out, nil
}

// AttachMedia uploads a media file and records its URL on the lesson. Object
// names are random so an upload never clobbers an earlier one.
func (s *ContentService) AttachMedia(ctx context.Context, lessonID uint, originalName string, reader io.Reader, size int64, contentType string) (string, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrLessonNotFound
		}
		return "", err
	}

	objectName := uuid.NewString() + filepath.Ext(originalName)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if lesson.Metadata == nil {
		lesson.Metadata = map[string]interface{}{}
	}
	media, _ := lesson.Metadata["media"].([]interface{})
	lesson.Metadata["media"] = append(media, url)

	if err := s.LessonRepo.Save(lesson); err != nil {
		return "", err
	}
	return url, nil
}

// SetTheory replaces the lesson's theory block.
func (s *ContentService) SetTheory(lessonID uint, theory interface{}) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if lesson.Metadata == nil {
		lesson.Metadata = map[string]interface{}{}
	}
	lesson.Metadata["theory"] = theory

	if err := s.LessonRepo.Save(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}
