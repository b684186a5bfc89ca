package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopicThreeLevels(t *testing.T) {
	p := ParseTopic("📚 Tenses / Present / Present Simple")

	assert.Equal(t, "Tenses", p.Section)
	assert.Equal(t, "Present", p.Subsection)
	assert.Equal(t, "Present Simple", p.Unit)
	assert.Equal(t, "tenses", p.SectionCode)
	assert.Equal(t, "present", p.SubsectionCode)
	assert.Equal(t, "present-simple", p.UnitCode)
}

func TestParseTopicTwoLevels(t *testing.T) {
	p := ParseTopic("🧠 Vocabulary / Food")

	assert.Equal(t, "Vocabulary", p.Section)
	assert.Equal(t, "Food", p.Subsection)
	assert.Empty(t, p.Unit)
	assert.Empty(t, p.UnitCode)
}

func TestParseTopicSingleLevel(t *testing.T) {
	p := ParseTopic("📌 Articles")

	assert.Equal(t, "Articles", p.Section)
	assert.Empty(t, p.Subsection)
	assert.Empty(t, p.Unit)
}

func TestParseTopicEmpty(t *testing.T) {
	p := ParseTopic("")

	assert.Empty(t, p.Section)
	assert.Empty(t, p.SectionCode)
}

func TestParseTopicExtraSegmentsIgnored(t *testing.T) {
	p := ParseTopic("A / B / C / D / E")

	assert.Equal(t, "A", p.Section)
	assert.Equal(t, "B", p.Subsection)
	assert.Equal(t, "C", p.Unit)
}

func TestParseTopicBlankSegmentsSkipped(t *testing.T) {
	p := ParseTopic("Grammar /  / Present Simple")

	assert.Equal(t, "Grammar", p.Section)
	assert.Equal(t, "Present Simple", p.Subsection)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Present Simple", "present-simple"},
		{"📚 Tenses", "tenses"},
		{"Don't stop!", "don-t-stop"},
		{"   ", ""},
		{"a--b", "a-b"},
		{"Ünïcode Lettèrs", "ünïcode-lettèrs"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestHasAnyPrefix(t *testing.T) {
	prefixes := []string{"Grammar", "📚"}

	assert.True(t, HasAnyPrefix("Grammar / Tenses", prefixes))
	assert.True(t, HasAnyPrefix("grammar basics", prefixes))
	assert.True(t, HasAnyPrefix("📚 Tenses / Present", prefixes))
	assert.False(t, HasAnyPrefix("Vocabulary / Food", prefixes))
	assert.False(t, HasAnyPrefix("", prefixes))
	assert.False(t, HasAnyPrefix("Grammar", nil))
}
