// @title English Edu Backend API
// @version 1.0
// @description Backend server for the English learning platform: lesson
// @description catalog, practice tasks, attempt tracking and mastery.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"english_edu_backend/internal/app"
	"english_edu_backend/internal/config"
	"english_edu_backend/pkg/configwatcher"
	"english_edu_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	migrate := flag.Bool("migrate", false, "run database migration on startup")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
