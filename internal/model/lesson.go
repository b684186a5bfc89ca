package model

import (
	"gorm.io/datatypes"
)

// Lesson is a unit of study content. Topic is a flat label encoding up to
// three hierarchy levels as "<section> / <subsection> / <unit>"; Metadata may
// embed theory text, attached media and other opaque content attributes.
// Only admin content endpoints mutate lessons; the learning paths read them.
type Lesson struct {
	BaseModel
	Title    string            `gorm:"size:255;not null" json:"title"`
	Topic    string            `gorm:"size:128;index" json:"topic"`
	Metadata datatypes.JSONMap `json:"metadata,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
