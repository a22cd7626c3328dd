package main

import (
	"context"
	"log"

	"sheetdash/adapters/excel"
	"sheetdash/adapters/memory"
	"sheetdash/adapters/postgres"
	"sheetdash/app"
	"sheetdash/internal/config"
	"sheetdash/internal/migration"
	"sheetdash/ports"
	"sheetdash/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Headless entrypoint: serves the JSON API without the HTMX dashboard.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var snapshots ports.SnapshotRepository = memory.NewSnapshotRepository()
	if appConfig.Database.URL != "" {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := migration.NewRunner().Run(context.Background(), db); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		snapshots = postgres.NewSnapshotRepository(db)
	}

	service := app.NewDashboardService(excel.NewDataReader(), snapshots, appConfig.Data)

	ctx := context.Background()
	switch {
	case appConfig.Data.File != "":
		if err := service.LoadFile(ctx, appConfig.Data.File); err != nil {
			log.Fatalf("Failed to load workbook: %v", err)
		}
	case appConfig.Data.SampleOnStart:
		if err := service.LoadSample(ctx); err != nil {
			log.Fatalf("Failed to load sample workbook: %v", err)
		}
	}

	scheduler := app.NewRefreshScheduler(service, appConfig.Data)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := ui.NewServer(service, appConfig)
	log.Fatal(server.Start(appConfig.Server.Host + ":" + appConfig.Server.Port))
}
