package service

import (
	"context"
	"encoding/json"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"english_edu_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CatalogService derives the three-level navigation tree from flat lesson
// topics. The tree is recomputed from lesson rows on every build; redis only
// holds an advisory copy with a short TTL and is never authoritative.
type CatalogService struct {
	LessonRepo *repository.LessonRepository
	TaskRepo   *repository.TaskRepository
	Redis      *redis.Client
	Config     *config.Config
}

func NewCatalogService(lessonRepo *repository.LessonRepository, taskRepo *repository.TaskRepository, rdb *redis.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{
		LessonRepo: lessonRepo,
		TaskRepo:   taskRepo,
		Redis:      rdb,
		Config:     cfg,
	}
}

func (s *CatalogService) GetTree(ctx context.Context, group string) (*model.CatalogTree, error) {
	prefixes := s.Config.Catalog.GroupPrefixes(group)
	if prefixes == nil {
		return nil, util.ErrInvalidInput
	}

	cacheKey := "catalog:tree:" + group
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached model.CatalogTree
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	tree, err := s.BuildTree(group)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(tree); err == nil {
			ttl := time.Duration(s.Config.Catalog.CacheTTLMinutes) * time.Minute
			if err := s.Redis.Set(ctx, cacheKey, raw, ttl).Err(); err != nil {
				logger.Log.Warn("catalog tree cache write failed", zap.Error(err))
			}
		}
	}

	return tree, nil
}

// BuildTree computes the tree from current lesson rows. Grouping is
// deterministic: lessons are traversed in ascending id order and sections,
// subsections and units keep first-encounter order.
func (s *CatalogService) BuildTree(group string) (*model.CatalogTree, error) {
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
	// Nothing matched the group's prefixes: present the full set rather than
	// an empty UI. Deliberate usability policy, not an error path.
	if len(filtered) == 0 {
		filtered = lessons
	}

	tree := &model.CatalogTree{Group: group, Sections: []*model.CatalogSection{}}
	sections := make(map[string]*model.CatalogSection)
	subsections := make(map[string]map[string]*model.CatalogSubsection)
	units := make(map[string]map[string]map[string]*model.CatalogUnit)

	var treeLessonIDs []uint
	unitsByLesson := make(map[uint][]*model.CatalogUnit)

	for _, l := range filtered {
		parts := util.ParseTopic(l.Topic)
		if parts.Section == "" {
			// Orphaned lesson: no topic to hang it on.
			continue
		}

		sec, ok := sections[parts.SectionCode]
		if !ok {
			sec = &model.CatalogSection{
				Code:        parts.SectionCode,
				Title:       parts.Section,
				Subsections: []*model.CatalogSubsection{},
			}
			sections[parts.SectionCode] = sec
			subsections[parts.SectionCode] = make(map[string]*model.CatalogSubsection)
			units[parts.SectionCode] = make(map[string]map[string]*model.CatalogUnit)
			tree.Sections = append(tree.Sections, sec)
		}

		subCode := parts.SubsectionCode
		if parts.Subsection == "" {
			subCode = model.DefaultSubsectionCode
		}
		sub, ok := subsections[parts.SectionCode][subCode]
		if !ok {
			sub = &model.CatalogSubsection{
				Code:  subCode,
				Title: parts.Subsection,
				Units: []*model.CatalogUnit{},
			}
			subsections[parts.SectionCode][subCode] = sub
			units[parts.SectionCode][subCode] = make(map[string]*model.CatalogUnit)
			sec.Subsections = append(sec.Subsections, sub)
		}

		// A lesson with no unit segment becomes its own unit, keyed by its
		// slugified title.
		unitCode := parts.UnitCode
		unitTitle := parts.Unit
		if parts.Unit == "" {
			unitCode = util.Slugify(l.Title)
			unitTitle = l.Title
		}
		unit, ok := units[parts.SectionCode][subCode][unitCode]
		if !ok {
			unit = &model.CatalogUnit{
				Code:      unitCode,
				Title:     unitTitle,
				LessonIDs: []uint{},
			}
			units[parts.SectionCode][subCode][unitCode] = unit
			sub.Units = append(sub.Units, unit)
		}
		unit.LessonIDs = append(unit.LessonIDs, l.ID)
		unitsByLesson[l.ID] = append(unitsByLesson[l.ID], unit)
		treeLessonIDs = append(treeLessonIDs, l.ID)
	}

	// One batched existence query annotates every unit.
	withTasks, err := s.TaskRepo.LessonIDsWithTasks(treeLessonIDs)
	if err != nil {
		return nil, err
	}
	for lessonID := range withTasks {
		for _, unit := range unitsByLesson[lessonID] {
			unit.HasPractice = true
		}
	}

	return tree, nil
}
