// Bulk lesson import from a spreadsheet.
//
// Expects an xlsx file whose first sheet has one task per row:
//
//	Lesson Title | Topic | Task JSON | Answer JSON (optional)
//
// Lessons are created on first sight of a title+topic pair; subsequent rows
// with the same pair add tasks to it.
//
// Usage: go run scripts/import_lessons.go lessons.xlsx
package main

import (
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"english_edu_backend/pkg/database"
	"english_edu_backend/pkg/logger"
	"log"
	"os"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/import_lessons.go <file.xlsx>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger.InitLogger(&cfg)

	cfg.ForceMigrate = true
	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to open spreadsheet: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		log.Fatalf("failed to read sheet: %v", err)
	}

	type lessonKey struct{ title, topic string }
	lessons := make(map[lessonKey]*model.Lesson)
	imported := 0

	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			// Header or incomplete row.
			continue
		}
		title, topic, content := row[0], row[1], row[2]
		if title == "" || content == "" {
			continue
		}

		key := lessonKey{title, topic}
		lesson, ok := lessons[key]
		if !ok {
			lesson = &model.Lesson{Title: title, Topic: topic}
			if err := db.Where("title = ? AND topic = ?", title, topic).
				FirstOrCreate(lesson).Error; err != nil {
				log.Fatalf("row %d: failed to create lesson: %v", i+1, err)
			}
			lessons[key] = lesson
		}

		task := &model.Task{
			LessonID: lesson.ID,
			Content:  datatypes.JSON(content),
		}
		if len(row) > 3 && row[3] != "" {
			task.Answer = datatypes.JSON(row[3])
		}
		if err := db.Create(task).Error; err != nil {
			log.Fatalf("row %d: failed to create task: %v", i+1, err)
		}
		imported++
	}

	log.Printf("Imported %d tasks into %d lessons", imported, len(lessons))
}
