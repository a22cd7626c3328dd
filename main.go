package main

import (
	"context"
	"log"

	"sheetdash/adapters/excel"
	"sheetdash/adapters/memory"
	"sheetdash/adapters/postgres"
	"sheetdash/app"
	"sheetdash/internal/config"
	"sheetdash/internal/errors"
	"sheetdash/internal/migration"
	"sheetdash/ports"
	"sheetdash/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to Postgres and applies migrations. An empty URL is
// not an error; the caller falls back to the in-memory history store.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the snapshot history store
	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var snapshots ports.SnapshotRepository
	if db != nil {
		defer db.Close()
		snapshots = postgres.NewSnapshotRepository(db)
		log.Println("Snapshot history backed by Postgres")
	} else {
		snapshots = memory.NewSnapshotRepository()
		log.Println("No DATABASE_URL configured, keeping snapshot history in memory")
	}

	service := app.NewDashboardService(excel.NewDataReader(), snapshots, appConfig.Data)

	// Configure data source
	ctx := context.Background()
	switch {
	case appConfig.Data.File != "":
		log.Printf("Using workbook data source: %s", appConfig.Data.File)
		if err := service.LoadFile(ctx, appConfig.Data.File); err != nil {
			log.Fatalf("Failed to load workbook: %v", err)
		}
	case appConfig.Data.SampleOnStart:
		log.Println("No workbook configured, loading the built-in sample data")
		if err := service.LoadSample(ctx); err != nil {
			log.Fatalf("Failed to load sample workbook: %v", err)
		}
	default:
		log.Println("Starting empty; upload a workbook to begin")
	}

	// Keep the dashboard in sync with the source file
	scheduler := app.NewRefreshScheduler(service, appConfig.Data)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Initialize the dashboard
	dashboard, err := ui.NewApp(service, appConfig)
	if err != nil {
		log.Fatalf("Failed to create dashboard: %v", err)
	}

	addr := appConfig.Server.Host + ":" + appConfig.Server.Port
	log.Fatal(dashboard.Start(addr))
}
