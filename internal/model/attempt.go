package model

import (
	"time"

	"gorm.io/datatypes"
)

// TaskAttempt is an append-only record of one answer submission. LessonID is
// a denormalized copy introduced by a later schema revision; older rows (and
// older writers) leave it nil and the lesson is resolved through the task.
// Each insert is the sole trigger for progress aggregation.
type TaskAttempt struct {
	BaseModel
	UserID    uint           `gorm:"not null;index:ix_attempt_user_lesson_time,priority:1" json:"userId"`
	TaskID    uint           `gorm:"not null;index" json:"taskId"`
	LessonID  *uint          `gorm:"index:ix_attempt_user_lesson_time,priority:2" json:"lessonId,omitempty"`
	IsCorrect bool           `gorm:"not null;default:false" json:"isCorrect"`
	Score     *float64       `json:"score,omitempty"`
	Response  datatypes.JSON `json:"response,omitempty"`

	SubmittedAt time.Time `gorm:"not null" json:"submittedAt"`
	FinishedAt  time.Time `gorm:"not null;index:ix_attempt_user_lesson_time,priority:3" json:"finishedAt"`
}

func (TaskAttempt) TableName() string {
	return "task_attempts"
}
