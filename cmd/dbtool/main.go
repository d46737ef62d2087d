package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"activity-finder-service/internal/adapters/repositories"
	"activity-finder-service/internal/config"
	"activity-finder-service/internal/platform/db"
)

// dbtool initializes the catalog schema and seeds demo activities.
// It targets Postgres when DATABASE_URL is set, the local SQLite file
// otherwise.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var (
		conn     *sql.DB
		err      error
		postgres bool
	)

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		conn, err = db.OpenPostgres(databaseURL)
		postgres = true
	} else {
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/activities.json")
	initAndSeed(conn, seedPath, postgres)
}

func initAndSeed(db *sql.DB, seedPath string, postgres bool) {
	initSchema := repositories.InitSchema
	seed := repositories.SeedFromJSON
	if postgres {
		initSchema = repositories.InitSchemaPostgres
		seed = repositories.SeedFromJSONPostgres
	}

	log.Println("Initializing database schema...")
	if err := initSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := seed(db, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
