package util

import (
	"strings"
	"unicode"
)

// TopicSeparator splits a flat topic label into its hierarchy levels, e.g.
// "📚 Tenses / Present / Present Simple".
const TopicSeparator = " / "

// TopicParts is the parsed form of a flat topic string: up to three hierarchy
// levels with slugified codes. Subsection/Unit are empty when the label has
// fewer levels.
type TopicParts struct {
	Section        string
	Subsection     string
	Unit           string
	SectionCode    string
	SubsectionCode string
	UnitCode       string
}

// ParseTopic splits a flat topic label on " / " into at most three levels.
// Segments beyond the third are ignored. The leading emoji/prefix token of the
// first segment is stripped from the display title but still contributes to
// nothing — codes are slugified from the cleaned titles. An empty topic yields
// an empty section, which marks the lesson as orphaned for tree building.
func ParseTopic(topic string) TopicParts {
	var p TopicParts

	segments := strings.Split(topic, TopicSeparator)
	clean := make([]string, 0, 3)
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		clean = append(clean, seg)
		if len(clean) == 3 {
			break
		}
	}

	if len(clean) > 0 {
		p.Section = stripLeadingSymbols(clean[0])
		p.SectionCode = Slugify(p.Section)
	}
	if len(clean) > 1 {
		p.Subsection = clean[1]
		p.SubsectionCode = Slugify(p.Subsection)
	}
	if len(clean) > 2 {
		p.Unit = clean[2]
		p.UnitCode = Slugify(p.Unit)
	}

	return p
}

// Slugify lowercases the input and collapses every run of non-letter,
// non-digit runes (emoji included) into a single hyphen. An empty result is a
// valid code.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen && b.Len() > 0 {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// HasAnyPrefix reports whether the topic starts with any of the given prefix
// patterns, case-insensitively.
func HasAnyPrefix(topic string, prefixes []string) bool {
	t := strings.ToLower(strings.TrimSpace(topic))
	if t == "" {
		return false
	}
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

// stripLeadingSymbols removes a leading emoji/marker run so that
// "📚 Tenses" titles as "Tenses". Letters and digits end the run.
func stripLeadingSymbols(s string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}
