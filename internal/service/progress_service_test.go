package service

import (
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/repository"
	"english_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgressService(db *gorm.DB, topicKeyMode string) *ProgressService {
	cfg := testCatalogConfig()
	cfg.Schema.TopicKeyMode = topicKeyMode
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewLessonRepository(db),
		cfg,
	)
}

func TestSummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(db, config.TopicKeyFlat)

	summary, err := s.Summary(1)
	require.NoError(t, err)
	assert.Empty(t, summary.Lessons)
	assert.Empty(t, summary.WeakSubtopics)
	// Empty slices, not nulls, in the serialized form.
	assert.NotNil(t, summary.Lessons)
	assert.NotNil(t, summary.WeakSubtopics)
}

func TestSummaryListsProgress(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newProgressService(db, config.TopicKeyFlat)

	l1 := seedLesson(t, db, "Present Simple", "📚 Tenses / Present / Present Simple")
	l2 := seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")
	t1 := seedTask(t, db, l1.ID)
	t2 := seedTask(t, db, l2.ID)

	submit(t, attempts, 1, t1.ID, true)
	submit(t, attempts, 1, t2.ID, true)
	submit(t, attempts, 1, t2.ID, true)
	submit(t, attempts, 1, t2.ID, true)

	summary, err := s.Summary(1)
	require.NoError(t, err)
	require.Len(t, summary.Lessons, 2)

	// Mastered lessons sort first.
	assert.Equal(t, l2.ID, summary.Lessons[0].LessonID)
	assert.True(t, summary.Lessons[0].Mastered)
	assert.Equal(t, "Past Simple", summary.Lessons[0].Title)
	assert.Equal(t, 3, summary.Lessons[0].Attempts)
}

func TestSummaryWeakSubtopics(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newProgressService(db, config.TopicKeyFlat)

	weak := seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")
	strong := seedLesson(t, db, "Present Simple", "📚 Tenses / Present / Present Simple")
	tw := seedTask(t, db, weak.ID)
	ts := seedTask(t, db, strong.ID)

	// Both topics clear the volume floor; the weak one is mostly wrong.
	for i := 0; i < 10; i++ {
		submit(t, attempts, 1, tw.ID, i < 2)
		submit(t, attempts, 1, ts.ID, true)
	}

	summary, err := s.Summary(1)
	require.NoError(t, err)
	require.NotEmpty(t, summary.WeakSubtopics)

	// Worst accuracy first.
	assert.Equal(t, weak.Topic, summary.WeakSubtopics[0].Topic)
	assert.Equal(t, 10, summary.WeakSubtopics[0].Attempts)
	assert.InDelta(t, 0.2, summary.WeakSubtopics[0].Accuracy, 1e-9)
}

func TestSummaryWeakSubtopicsVolumeFloor(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newProgressService(db, config.TopicKeyFlat)

	lesson := seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")
	task := seedTask(t, db, lesson.ID)

	// Too few attempts to be reported, however bad.
	for i := 0; i < 5; i++ {
		submit(t, attempts, 1, task.ID, false)
	}

	summary, err := s.Summary(1)
	require.NoError(t, err)
	assert.Empty(t, summary.WeakSubtopics)
}

func TestSummaryWeakSubtopicsSplitMode(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newProgressService(db, config.TopicKeySplit)

	// Two flat topics sharing the parsed (topic_code, subtopic_code) pair
	// roll up into one row in split mode.
	l1 := seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")
	l2 := seedLesson(t, db, "Past Continuous", "📚 Tenses / Past / Past Continuous")
	t1 := seedTask(t, db, l1.ID)
	t2 := seedTask(t, db, l2.ID)

	for i := 0; i < 5; i++ {
		submit(t, attempts, 1, t1.ID, false)
		submit(t, attempts, 1, t2.ID, false)
	}

	summary, err := s.Summary(1)
	require.NoError(t, err)
	require.Len(t, summary.WeakSubtopics, 1)
	assert.Equal(t, "tenses", summary.WeakSubtopics[0].Topic)
	assert.Equal(t, "past", summary.WeakSubtopics[0].Subtopic)
	assert.Equal(t, 10, summary.WeakSubtopics[0].Attempts)
}

func TestLessonsOverview(t *testing.T) {
	db := newTestDB(t)
	attempts := newAttemptService(db)
	s := newProgressService(db, config.TopicKeyFlat)

	l1 := seedLesson(t, db, "Present Simple", "📚 Tenses / Present / Present Simple")
	l2 := seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")
	seedLesson(t, db, "Food", "🧠 Vocabulary / Food")
	task := seedTask(t, db, l1.ID)

	submit(t, attempts, 1, task.ID, true)

	userID := uint(1)
	overview, err := s.LessonsOverview(&userID, "grammar", "", "")
	require.NoError(t, err)
	require.Len(t, overview, 2)
	assert.Equal(t, l1.ID, overview[0].LessonID)
	assert.Equal(t, 1, overview[0].Attempts)
	assert.Equal(t, l2.ID, overview[1].LessonID)
	assert.Zero(t, overview[1].Attempts)
}

func TestLessonsOverviewSectionFilter(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(db, config.TopicKeyFlat)

	seedLesson(t, db, "Present Simple", "📚 Tenses / Present / Present Simple")
	past := seedLesson(t, db, "Past Simple", "📚 Tenses / Past / Past Simple")

	// Section and subsection match either title or code, case-insensitively.
	overview, err := s.LessonsOverview(nil, "grammar", "tenses", "Past")
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, past.ID, overview[0].LessonID)
}

func TestLessonsOverviewUnknownGroup(t *testing.T) {
	db := newTestDB(t)
	s := newProgressService(db, config.TopicKeyFlat)

	_, err := s.LessonsOverview(nil, "phonetics", "", "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
