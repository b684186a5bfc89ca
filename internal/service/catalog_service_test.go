package service

import (
	"context"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testCatalogConfig() *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			GrammarPrefixes:    []string{"Grammar", "📚", "📌"},
			VocabularyPrefixes: []string{"Vocabulary", "🧠"},
			CacheTTLMinutes:    5,
		},
	}
}

func newCatalogService(db *gorm.DB) *CatalogService {
	return NewCatalogService(
		repository.NewLessonRepository(db),
		repository.NewTaskRepository(db),
		nil,
		testCatalogConfig(),
	)
}

func TestBuildTreeGroupsByTopic(t *testing.T) {
	db := newTestDB(t)
	s := newCatalogService(db)

	l1 := seedLesson(t, db, "Present Simple", "📚 Tenses / Present / Present Simple")
	seedLesson(t, db, "Present Continuous", "📚 Tenses / Present / Present Continuous")
	seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")
	seedLesson(t, db, "Food", "🧠 Vocabulary / Food")
	seedTask(t, db, l1.ID)

	tree, err := s.BuildTree("grammar")
	require.NoError(t, err)

	require.Len(t, tree.Sections, 1)
	sec := tree.Sections[0]
	assert.Equal(t, "tenses", sec.Code)
	assert.Equal(t, "Tenses", sec.Title)

	require.Len(t, sec.Subsections, 2)
	// First-encounter order: Present before Past.
	assert.Equal(t, "present", sec.Subsections[0].Code)
	assert.Equal(t, "past", sec.Subsections[1].Code)

	present := sec.Subsections[0]
	require.Len(t, present.Units, 2)
	assert.Equal(t, "present-simple", present.Units[0].Code)
	assert.Equal(t, []uint{l1.ID}, present.Units[0].LessonIDs)

	// Only the seeded lesson has a task.
	assert.True(t, present.Units[0].HasPractice)
	assert.False(t, present.Units[1].HasPractice)
}

func TestBuildTreeShortTopics(t *testing.T) {
	db := newTestDB(t)
	s := newCatalogService(db)

	// One-level topic: the lesson becomes its own unit under _default.
	l := seedLesson(t, db, "Articles Basics", "📌 Articles")

	tree, err := s.BuildTree("grammar")
	require.NoError(t, err)

	require.Len(t, tree.Sections, 1)
	sec := tree.Sections[0]
	assert.Equal(t, "articles", sec.Code)

	require.Len(t, sec.Subsections, 1)
	sub := sec.Subsections[0]
	assert.Equal(t, model.DefaultSubsectionCode, sub.Code)
	assert.Empty(t, sub.Title)

	require.Len(t, sub.Units, 1)
	assert.Equal(t, "articles-basics", sub.Units[0].Code)
	assert.Equal(t, "Articles Basics", sub.Units[0].Title)
	assert.Equal(t, []uint{l.ID}, sub.Units[0].LessonIDs)
}

func TestBuildTreeOrphanedLessonsSkipped(t *testing.T) {
	db := newTestDB(t)
	s := newCatalogService(db)

	seedLesson(t, db, "No Topic", "")
	seedLesson(t, db, "Tagged", "📚 Tenses / Past / Past Simple")

	tree, err := s.BuildTree("grammar")
	require.NoError(t, err)
	require.Len(t, tree.Sections, 1)
	assert.Equal(t, "tenses", tree.Sections[0].Code)
}

func TestBuildTreeFallsBackToFullSet(t *testing.T) {
	db := newTestDB(t)
	s := newCatalogService(db)

	// Nothing matches the vocabulary prefixes; the full set is shown instead
	// of an empty tree.
	seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")

	tree, err := s.BuildTree("vocabulary")
	require.NoError(t, err)
	require.Len(t, tree.Sections, 1)
	assert.Equal(t, "tenses", tree.Sections[0].Code)
}

func TestBuildTreeUnknownGroup(t *testing.T) {
	db := newTestDB(t)
	s := newCatalogService(db)

	_, err := s.BuildTree("phonetics")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestGetTreeWithoutRedis(t *testing.T) {
	db := newTestDB(t)
	s := newCatalogService(db)

	seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")

	// Redis is nil; GetTree must still serve from the database.
	tree, err := s.GetTree(context.Background(), "grammar")
	require.NoError(t, err)
	assert.Equal(t, "grammar", tree.Group)
	assert.Len(t, tree.Sections, 1)
}
