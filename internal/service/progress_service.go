package service

import (
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"strings"
)

// Weak-subtopic listing thresholds, matching the summary read path of the
// original product: only topics with real volume, worst accuracy first.
const (
	weakTopicMinAttempts = 10
	weakTopicLimit       = 5
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	LessonRepo   *repository.LessonRepository
	Config       *config.Config
}

func NewProgressService(progressRepo *repository.ProgressRepository, lessonRepo *repository.LessonRepository, cfg *config.Config) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		LessonRepo:   lessonRepo,
		Config:       cfg,
	}
}

type ProgressSummary struct {
	Lessons       []model.LessonProgressSummary `json:"lessons"`
	WeakSubtopics []model.WeakTopic             `json:"weakSubtopics"`
}

func (s *ProgressService) Summary(userID uint) (*ProgressSummary, error) {
	lessons, err := s.ProgressRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	weak, err := s.ProgressRepo.WeakTopics(userID, s.Config.Schema.TopicKeyMode, weakTopicMinAttempts, weakTopicLimit)
	if err != nil {
		return nil, err
	}

	if lessons == nil {
		lessons = []model.LessonProgressSummary{}
	}
	if weak == nil {
		weak = []model.WeakTopic{}
	}

	return &ProgressSummary{Lessons: lessons, WeakSubtopics: weak}, nil
}

// LessonsOverview lists lessons for a catalog group, optionally narrowed to a
// section/subsection (matched against parsed titles or codes), annotated with
// the requesting user's progress when a user is known. The empty-group
// fallback mirrors the tree builder.
func (s *ProgressService) LessonsOverview(userID *uint, group, section, subsection string) ([]model.OverviewLesson, error) {
	prefixes := s.Config.Catalog.GroupPrefixes(group)
	if prefixes == nil {
		return nil, util.ErrInvalidInput
	}

	lessons, err := s.LessonRepo.ListOrdered()
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if util.HasAnyPrefix(l.Topic, prefixes) {
			filtered = append(filtered, l)
		}
	}
	if len(filtered) == 0 {
		filtered = lessons
	}

	selected := make([]model.Lesson, 0, len(filtered))
	for _, l := range filtered {
		parts := util.ParseTopic(l.Topic)
		if section != "" && !matchesLevel(section, parts.Section, parts.SectionCode) {
			continue
		}
		if subsection != "" && !matchesLevel(subsection, parts.Subsection, parts.SubsectionCode) {
			continue
		}
		selected = append(selected, l)
	}

	ids := make([]uint, len(selected))
	for i, l := range selected {
		ids[i] = l.ID
	}

	progressByLesson := map[uint]model.LessonProgress{}
	if userID != nil {
		progressByLesson, err = s.ProgressRepo.ListForUserByLessons(*userID, ids)
		if err != nil {
			return nil, err
		}
	}

	overview := make([]model.OverviewLesson, 0, len(selected))
	for _, l := range selected {
		row := model.OverviewLesson{
			LessonID: l.ID,
			Title:    l.Title,
			Topic:    l.Topic,
		}
		if p, ok := progressByLesson[l.ID]; ok {
			row.Attempts = p.Attempts
			row.Correct = p.Correct
			row.Accuracy = p.Accuracy
			row.Mastered = p.Mastered
		}
		overview = append(overview, row)
	}

	return overview, nil
}

func matchesLevel(query, title, code string) bool {
	return strings.EqualFold(query, title) || strings.EqualFold(query, code)
}
