package database

import (
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if cfg.ForceMigrate || cfg.MigrateOnly {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")

		if err := SeedLessons(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Lesson{},
		&model.Task{},
		&model.TaskAttempt{},
		&model.LessonProgress{},
		&model.TopicStats{},
		&model.PaymentEvent{},
	)
}

// SeedLessons inserts a small starter catalog on an empty database so a fresh
// deployment has something to serve.
func SeedLessons(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Lesson{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	lessons := []struct {
		title string
		topic string
		tasks []string
	}{
		{
			title: "Present Simple",
			topic: "📚 Grammar / Tenses / Present Simple",
			tasks: []string{
				`{"type":"gap_fill","prompt":"She ___ (go) to school every day.","answer":"goes"}`,
				`{"type":"gap_fill","prompt":"They ___ (not/like) coffee.","answer":"don't like"}`,
			},
		},
		{
			title: "Past Simple",
			topic: "📚 Grammar / Tenses / Past Simple",
			tasks: []string{
				`{"type":"gap_fill","prompt":"We ___ (see) that film last week.","answer":"saw"}`,
			},
		},
		{
			title: "Articles",
			topic: "📌 Grammar / Articles",
			tasks: []string{
				`{"type":"choice","prompt":"I saw ___ elephant.","options":["a","an","the"],"answer":"an"}`,
			},
		},
		{
			title: "Food and Drink",
			topic: "🧠 Vocabulary / Food",
			tasks: []string{
				`{"type":"match","prompt":"Match the words to the pictures.","answer":["apple","bread","milk"]}`,
			},
		},
	}

	for _, l := range lessons {
		lesson := &model.Lesson{Title: l.title, Topic: l.topic}
		if err := db.Create(lesson).Error; err != nil {
			return err
		}
		for _, content := range l.tasks {
			task := &model.Task{
				LessonID: lesson.ID,
				Content:  datatypes.JSON(content),
			}
			if err := db.Create(task).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded %d starter lessons", len(lessons))
	return nil
}
