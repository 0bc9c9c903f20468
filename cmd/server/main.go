package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"pickup-route-service/internal/adapters/cache"
	"pickup-route-service/internal/adapters/repositories"
	"pickup-route-service/internal/adapters/solver"
	"pickup-route-service/internal/api"
	"pickup-route-service/internal/config"
	"pickup-route-service/internal/domain"
	"pickup-route-service/internal/platform/db"
	"pickup-route-service/internal/ports"
	"pickup-route-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (postgres or sqlite, the Nextmv-style solver client, optional redis) behind
// ports and starts the HTTP server.
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	port := config.Get("PORT", "8080")

	apiKey := os.Getenv("NEXTMV_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Error("NEXTMV_API_KEY is required")
		os.Exit(1)
	}
	appID := config.Get("NEXTMV_APP_ID", "routing")

	conn, err := openStore(log)
	if err != nil {
		log.Error("open store", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	solverClient, err := solver.NewClient(apiKey, appID, log)
	if err != nil {
		log.Error("solver client", "err", err)
		os.Exit(1)
	}

	points, vehicles, routes, err := buildRepositories(conn)
	if err != nil {
		log.Error("init schema", "err", err)
		os.Exit(1)
	}

	// Redis is optional; without it a failed history refresh has no fallback.
	var runCache ports.RunCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Error("parse REDIS_URL", "err", err)
			os.Exit(1)
		}
		runCache = cache.NewRedisRunCache(redis.NewClient(opts))
		log.Info("run history cache enabled")
	}

	reconciler := &services.Reconciler{Routes: routes, Log: log}

	router := api.NewRouter(api.Deps{
		Points:   points,
		Vehicles: vehicles,
		Routes:   routes,
		Importer: &services.Importer{Points: points, Box: importBox(), Log: log},
		Optimize: &services.OptimizeService{
			Points:     points,
			Vehicles:   vehicles,
			Solver:     solverClient,
			Reconciler: reconciler,
			Cache:      runCache,
			Log:        log,
		},
		Runs: &services.RunHistoryService{
			Solver:     solverClient,
			Vehicles:   vehicles,
			Reconciler: reconciler,
			Cache:      runCache,
			Log:        log,
		},
		Log: log,
	})

	// The write timeout covers a full submit-and-poll cycle.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      11 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// openStore selects the backend once at startup: DATABASE_URL means
// postgres, otherwise a local sqlite file.
func openStore(log *slog.Logger) (*sql.DB, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		log.Info("using postgres store")
		return db.OpenPostgres(databaseURL)
	}

	path := config.Get("SQLITE_PATH", "data/app.db")
	log.Info("using sqlite store", "path", path)
	return db.OpenSQLite(path)
}

func buildRepositories(conn *sql.DB) (
	ports.PickupPointRepository,
	ports.VehicleRepository,
	ports.RouteRepository,
	error,
) {
	if strings.TrimSpace(os.Getenv("DATABASE_URL")) != "" {
		if err := repositories.InitPostgresSchema(conn); err != nil {
			return nil, nil, nil, err
		}
		return repositories.NewPostgresPickupPointRepository(conn),
			repositories.NewPostgresVehicleRepository(conn),
			repositories.NewPostgresRouteRepository(conn),
			nil
	}

	if err := repositories.InitSQLiteSchema(conn); err != nil {
		return nil, nil, nil, err
	}
	return repositories.NewSqlitePickupPointRepository(conn),
		repositories.NewSqliteVehicleRepository(conn),
		repositories.NewSqliteRouteRepository(conn),
		nil
}

// importBox reads the optional import bounding box. All four variables must
// parse or the box stays unset (accept everything).
func importBox() domain.BoundingBox {
	minLat, err1 := strconv.ParseFloat(os.Getenv("IMPORT_MIN_LAT"), 64)
	maxLat, err2 := strconv.ParseFloat(os.Getenv("IMPORT_MAX_LAT"), 64)
	minLon, err3 := strconv.ParseFloat(os.Getenv("IMPORT_MIN_LON"), 64)
	maxLon, err4 := strconv.ParseFloat(os.Getenv("IMPORT_MAX_LON"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return domain.BoundingBox{}
	}
	return domain.BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
}
