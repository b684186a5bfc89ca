package service

import (
	"context"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentService(t *testing.T, db *gorm.DB) *ContentService {
	t.Helper()
	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: t.TempDir()},
	}}
	return NewContentService(repository.NewLessonRepository(db), storage)
}

func TestGetTheory(t *testing.T) {
	db := newTestDB(t)
	s := newContentService(t, db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")
	lesson.Metadata = map[string]interface{}{"theory": "Use 'an' before vowels."}
	require.NoError(t, db.Save(lesson).Error)

	theory, err := s.GetTheory(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, theory.LessonID)
	assert.Equal(t, "Use 'an' before vowels.", theory.Theory)
	assert.Empty(t, theory.Media)
}

func TestGetTheoryMissingBlock(t *testing.T) {
	db := newTestDB(t)
	s := newContentService(t, db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")

	theory, err := s.GetTheory(lesson.ID)
	require.NoError(t, err)
	assert.Nil(t, theory.Theory)

	_, err = s.GetTheory(999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestSetTheory(t *testing.T) {
	db := newTestDB(t)
	s := newContentService(t, db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")

	_, err := s.SetTheory(lesson.ID, "New theory text")
	require.NoError(t, err)

	theory, err := s.GetTheory(lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "New theory text", theory.Theory)
}

func TestAttachMedia(t *testing.T) {
	db := newTestDB(t)
	s := newContentService(t, db)

	lesson := seedLesson(t, db, "Articles", "📌 Articles")

	url, err := s.AttachMedia(context.Background(), lesson.ID, "chart.png",
		strings.NewReader("fake-png-bytes"), 14, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file landed on disk under the random object name.
	local := s.Storage.Provider.(*LocalStorageProvider)
	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(local.Config.LocalPath, name))
	require.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(data))

	// And was recorded on the lesson.
	theory, err := s.GetTheory(lesson.ID)
	require.NoError(t, err)
	require.Len(t, theory.Media, 1)
	assert.Equal(t, url, theory.Media[0])
}
