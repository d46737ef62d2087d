package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"activity-finder-service/internal/adapters/cache"
	"activity-finder-service/internal/adapters/geoindex"
	"activity-finder-service/internal/adapters/geosource"
	"activity-finder-service/internal/adapters/repositories"
	"activity-finder-service/internal/api"
	"activity-finder-service/internal/config"
	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/platform/db"
	"activity-finder-service/internal/ports"
	"activity-finder-service/internal/position"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, geo gateway, optional Redis) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	databaseURL := config.Get("DATABASE_URL", "")
	seedPath := config.Get("SEED_PATH", "data/seeds/activities.json")
	port := config.Get("PORT", "8080")
	gatewayURL := config.Get("GEO_GATEWAY_URL", "")
	gatewayKey := config.Get("GEO_GATEWAY_KEY", "")
	redisAddr := config.Get("REDIS_ADDR", "")
	positionTimeout := config.GetSeconds("POSITION_TIMEOUT_SECONDS", 30)
	watchInterval := config.GetSeconds("WATCH_INTERVAL_SECONDS", 5)

	// The local SQLite file always backs the position cache; the catalog
	// moves to Postgres when DATABASE_URL is set.
	sqlDB, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if err := repositories.InitSchema(sqlDB); err != nil {
		log.Fatal(err)
	}

	var repo ports.ActivityRepository
	if databaseURL != "" {
		pgDB, err := db.OpenPostgres(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pgDB.Close()

		if err := repositories.InitSchemaPostgres(pgDB); err != nil {
			log.Fatal(err)
		}
		if err := repositories.SeedFromJSONPostgres(pgDB, seedPath); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewPostgresActivityRepository(pgDB)
		log.Println("catalog backend=postgres")
	} else {
		if err := repositories.SeedFromJSON(sqlDB, seedPath); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSqliteActivityRepository(sqlDB)
		log.Println("catalog backend=sqlite")
	}

	// Without a gateway the position endpoints report the capability as
	// unsupported instead of fabricating coordinates.
	var source ports.PositionSource
	if gatewayURL != "" {
		source, err = geosource.NewGatewaySource(gatewayURL, gatewayKey, watchInterval)
		if err != nil {
			log.Fatal(err)
		}
	}

	provider := position.NewProvider(source, positionTimeout)

	posCache := cache.NewSqlitePositionCache(sqlDB)
	if fix, ok, err := posCache.Load(cache.DefaultSubject); err != nil {
		log.Printf("position cache load failed: %v", err)
	} else if ok {
		provider.Seed(fix)
		log.Printf("restored cached position captured_at=%s", fix.CapturedAt.Format(time.RFC3339))
	}
	persist := func(fix domain.Coordinate) error {
		return posCache.Store(cache.DefaultSubject, fix)
	}

	var index ports.GeoIndex
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		geoIndex := geoindex.NewRedisGeoIndex(client)

		all, err := repo.ListActivities(context.Background(), ports.ActivityFilter{})
		if err != nil {
			log.Fatal(err)
		}
		if err := geoIndex.Rebuild(context.Background(), all); err != nil {
			log.Printf("geo index rebuild failed, running without prefilter: %v", err)
		} else {
			index = geoIndex
			log.Printf("geo index ready entries=%d", len(all))
		}
	}

	router := api.NewRouter(repo, provider, index, persist)

	// Write timeout leaves headroom for a full 30s position acquisition.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      positionTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
