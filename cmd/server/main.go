package main

import (
	"database/sql"
	"log"
	"net/http"

	"parklystats/internal/api"
	"parklystats/internal/config"
	apperrors "parklystats/internal/errors"
	"parklystats/internal/repository"
	"parklystats/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		log.Fatal(apperrors.Connection(err))
	}
	defer db.Close()

	repo := repository.NewStatsRepository(db)
	svc := service.NewStatsService(repo, cfg)
	statsHandler := api.NewStatsHandler(svc)

	r := mux.NewRouter()

	stats := r.PathPrefix("/stats").Subrouter()
	stats.HandleFunc("/revenue-by-day", statsHandler.RevenueByDay).Methods("GET")
	stats.HandleFunc("/occupancy-rate", statsHandler.OccupancyRate).Methods("GET")
	stats.HandleFunc("/monthly-projection", statsHandler.MonthlyProjection).Methods("GET")
	stats.HandleFunc("/top-spots", statsHandler.TopSpots).Methods("GET")
	stats.HandleFunc("/summary", statsHandler.Summary).Methods("GET")

	// The dashboard front-end runs as a separate process on another origin.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "HEAD", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	if cfg.DigestEmailTo != "" || cfg.DigestSMSTo != "" {
		digest := service.NewDigestService(svc, cfg)
		c := cron.New()
		if _, err := c.AddFunc(cfg.DigestSchedule, digest.Run); err != nil {
			log.Fatalf("Invalid DIGEST_SCHEDULE: %v", err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("Stats digest scheduled: %s", cfg.DigestSchedule)
	}

	addr := cfg.ListenAddr()
	log.Printf("Stats server running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, cors(r)))
}
