package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/formsense/formsense/internal/api"
	"github.com/formsense/formsense/internal/db"
	"github.com/formsense/formsense/internal/engine"
	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/monitor"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbFile      = flag.String("db", "formsense.db", "Path to the exercise catalog database")
	catalogFile = flag.String("catalog", "", "Optional exercise catalog file (JSON or YAML) loaded on startup")
	tuningFile  = flag.String("tuning", "", "Optional engine tuning file (JSON)")
	debugCharts = flag.Bool("debug-charts", false, "Serve debug chart endpoints under /debug/")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	engineCfg := engine.DefaultConfig()
	if *tuningFile != "" {
		cfg, err := engine.LoadTuningConfig(*tuningFile)
		if err != nil {
			log.Fatalf("failed to load tuning file: %v", err)
		}
		engineCfg = cfg
		log.Printf("loaded engine tuning from %s", *tuningFile)
	}

	store, err := db.Open(*dbFile)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Seed the catalog: built-in defaults first, then any operator file
	// on top (its entries win by name).
	if err := store.SeedCatalog(ctx, exercise.DefaultCatalog()); err != nil {
		log.Fatalf("failed to seed default catalog: %v", err)
	}
	if *catalogFile != "" {
		catalog, err := exercise.LoadCatalog(*catalogFile)
		if err != nil {
			log.Fatalf("failed to load catalog file: %v", err)
		}
		for _, ex := range catalog.Exercises {
			if _, err := store.SaveExercise(ctx, ex); err != nil {
				log.Fatalf("failed to store exercise %q: %v", ex.Name, err)
			}
		}
		log.Printf("loaded %d exercises from %s", len(catalog.Exercises), *catalogFile)
	}

	apiServer := api.NewServer(store, engineCfg)
	mux := apiServer.ServeMux()
	if *debugCharts {
		monitor.NewChartServer(apiServer).Register(mux)
	}

	server := &http.Server{
		Addr:    *listen,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", *listen)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Print("server stopped")
}
