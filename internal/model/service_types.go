package model

import "time"

// LessonProgressSummary is one row of the progress summary read path:
// lesson_progress joined with the lesson title.
type LessonProgressSummary struct {
	LessonID      uint       `json:"lessonId"`
	Title         string     `json:"title"`
	Topic         string     `json:"topic"`
	Attempts      int        `json:"attempts"`
	Correct       int        `json:"correct"`
	Accuracy      float64    `json:"accuracy"`
	Mastered      bool       `json:"mastered"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
}

// WeakTopic is one row of the weak-subtopics list. Subtopic is empty in flat
// topic-key mode.
type WeakTopic struct {
	Topic    string  `json:"topic"`
	Subtopic string  `json:"subtopic,omitempty"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// ProgressSnapshot is the aggregation state returned from attempt ingestion.
// For guests it is synthesized and never persisted.
type ProgressSnapshot struct {
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	Mastered bool    `json:"mastered"`
}

// OverviewLesson is one lesson in the lessons-overview read path, annotated
// with the requesting user's progress when known.
type OverviewLesson struct {
	LessonID uint    `json:"lessonId"`
	Title    string  `json:"title"`
	Topic    string  `json:"topic"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	Mastered bool    `json:"mastered"`
}
