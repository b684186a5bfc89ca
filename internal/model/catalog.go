package model

// Catalog tree types are derived on every read from lesson rows and never
// persisted. Ordering everywhere is first-encounter order over an
// ascending-lesson-id traversal, not alphabetical.

type CatalogUnit struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	LessonIDs   []uint `json:"lessonIds"`
	HasPractice bool   `json:"hasPractice"`
}

type CatalogSubsection struct {
	Code  string         `json:"code"`
	Title string         `json:"title"`
	Units []*CatalogUnit `json:"units"`
}

type CatalogSection struct {
	Code        string               `json:"code"`
	Title       string               `json:"title"`
	Subsections []*CatalogSubsection `json:"subsections"`
}

type CatalogTree struct {
	Group    string            `json:"group"`
	Sections []*CatalogSection `json:"sections"`
}

// DefaultSubsectionCode keys units whose topic has no subsection level.
const DefaultSubsectionCode = "_default"
