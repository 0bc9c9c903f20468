package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"pickup-route-service/internal/adapters/repositories"
	"pickup-route-service/internal/config"
	"pickup-route-service/internal/platform/db"
	"pickup-route-service/internal/ports"
	"pickup-route-service/internal/services"
)

// dbtool initializes the database schema and optionally seeds pickup points
// from a CSV file (SEED_CSV).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	usePostgres := strings.TrimSpace(os.Getenv("DATABASE_URL")) != ""

	conn, err := open(usePostgres)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := initSchema(conn, usePostgres); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedCSV := os.Getenv("SEED_CSV")
	if seedCSV == "" {
		return
	}

	if err := seed(conn, usePostgres, seedCSV); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}

func open(usePostgres bool) (*sql.DB, error) {
	if usePostgres {
		return db.OpenPostgres(os.Getenv("DATABASE_URL"))
	}
	return db.OpenSQLite(config.Get("SQLITE_PATH", "data/app.db"))
}

func initSchema(conn *sql.DB, usePostgres bool) error {
	if usePostgres {
		return repositories.InitPostgresSchema(conn)
	}
	return repositories.InitSQLiteSchema(conn)
}

func seed(conn *sql.DB, usePostgres bool, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	importer := &services.Importer{Points: pointRepo(conn, usePostgres)}

	log.Printf("Seeding pickup points from %s...", csvPath)
	summary, err := importer.ImportCSV(context.Background(), f)
	if err != nil {
		return err
	}

	log.Printf("Seeding complete: imported=%d skipped=%d warnings=%d",
		summary.Imported, summary.Skipped, len(summary.Warnings))
	for _, w := range summary.Warnings {
		log.Printf("warning: %s", w)
	}
	return nil
}

func pointRepo(conn *sql.DB, usePostgres bool) ports.PickupPointRepository {
	if usePostgres {
		return repositories.NewPostgresPickupPointRepository(conn)
	}
	return repositories.NewSqlitePickupPointRepository(conn)
}
