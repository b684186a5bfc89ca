package model

import (
	"time"
)

// LessonProgress is the per-(user, lesson) aggregate. One row per pair,
// enforced by the unique index; all counter updates go through the
// conflict-on-unique-key upsert in the progress repository. Mastered is a
// one-way latch: the aggregator only ever sets it to true.
type LessonProgress struct {
	BaseModel
	UserID        uint       `gorm:"not null;uniqueIndex:uq_lesson_progress_user_lesson" json:"userId"`
	LessonID      uint       `gorm:"not null;uniqueIndex:uq_lesson_progress_user_lesson" json:"lessonId"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	Correct       int        `gorm:"not null;default:0" json:"correct"`
	Accuracy      float64    `gorm:"not null;default:0" json:"accuracy"`
	Mastered      bool       `gorm:"not null;default:false" json:"mastered"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// TopicStats is the per-(user, topic) aggregate. Topic holds the flat lesson
// topic string and is the unique key; TopicCode/SubtopicCode carry the parsed
// hierarchical codes a later schema revision introduced, so read paths can
// group by either shape depending on schema.topic_key_mode.
type TopicStats struct {
	BaseModel
	UserID       uint    `gorm:"not null;uniqueIndex:uq_topic_stats_user_topic" json:"userId"`
	Topic        string  `gorm:"size:128;not null;uniqueIndex:uq_topic_stats_user_topic" json:"topic"`
	TopicCode    string  `gorm:"size:64;index" json:"topicCode"`
	SubtopicCode string  `gorm:"size:64" json:"subtopicCode"`
	Attempts     int     `gorm:"not null;default:0" json:"attempts"`
	Correct      int     `gorm:"not null;default:0" json:"correct"`
	Accuracy     float64 `gorm:"not null;default:0" json:"accuracy"`
}

func (TopicStats) TableName() string {
	return "topic_stats"
}
