package model

import (
	"gorm.io/datatypes"
)

// Task is a practice exercise belonging to a lesson. Content and Answer are
// opaque payloads interpreted by the client. Topic optionally overrides the
// lesson topic for stats purposes when the lesson itself has none.
type Task struct {
	BaseModel
	LessonID uint           `gorm:"not null;index" json:"lessonId"`
	Content  datatypes.JSON `gorm:"not null" json:"content"`
	Answer   datatypes.JSON `json:"answer,omitempty"`
	Topic    *string        `gorm:"size:128" json:"topic,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
