package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/haneulab/goal-report-service/config"
	"github.com/haneulab/goal-report-service/endpoints"
	"github.com/haneulab/goal-report-service/internal/clock"
	"github.com/haneulab/goal-report-service/internal/gcal"
	"github.com/haneulab/goal-report-service/internal/gtasks"
	"github.com/haneulab/goal-report-service/internal/history"
	"github.com/haneulab/goal-report-service/internal/lock"
	"github.com/haneulab/goal-report-service/internal/sheet"
	"github.com/haneulab/goal-report-service/internal/summary"
	"github.com/haneulab/goal-report-service/internal/weekly"
	"github.com/haneulab/goal-report-service/middleware"
	"github.com/haneulab/goal-report-service/services"
)

const ServiceName = "goal-report-service"

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = ""
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			if commit != "" {
				fmt.Printf("%s %s (%s)\n", ServiceName, version, commit)
			} else {
				fmt.Printf("%s %s\n", ServiceName, version)
			}
			os.Exit(0)
		case "help", "--help", "-h":
			fmt.Println("Goal Report Service")
			fmt.Println()
			fmt.Println("Usage:")
			fmt.Println("  goal-report-service            Start the service")
			fmt.Println("  goal-report-service version    Display version information")
			os.Exit(0)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  ServiceName,
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	resolver, err := clock.NewResolver(cfg.Timezone)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	store, err := sheet.Open(cfg.SheetDBPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer func() { _ = store.Close() }()

	// Without Redis the weekly critical section is still serialized, but
	// only within this process.
	var locker lock.Locker
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatalf("FATAL: Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		defer func() { _ = redisClient.Close() }()
		locker = lock.NewRedisLocker(redisClient, 2*cfg.LockWait)
		logger.Info("using redis lock", "addr", cfg.RedisAddr)
	} else {
		locker = lock.NewLocalLocker()
		logger.Info("redis disabled, using in-process lock")
	}

	taskSource := gtasks.NewClient(cfg.TasksBaseURL, cfg.GoogleAPIToken)
	calendarSource := gcal.NewClient(cfg.CalendarBaseURL, cfg.CalendarID, cfg.GoogleAPIToken, resolver)

	collector := summary.NewCollector(taskSource, cfg.TaskLists, logger.Named("collector"))
	reporter := summary.NewDailyReporter(collector, calendarSource, resolver, cfg.MemberName, logger.Named("daily"))
	weeklyStore := weekly.NewStore(store, locker, collector, resolver, cfg.MemberName, cfg.LockWait, logger.Named("weekly"))
	historyLog := history.NewLog(store, resolver, logger.Named("history"))
	metrics := services.NewMetrics()

	router := mux.NewRouter()
	router.HandleFunc("/", endpoints.PageHandler(cfg.MemberName)).Methods(http.MethodGet)
	router.HandleFunc("/service", endpoints.ServiceHandler(ServiceName, version, metrics)).Methods(http.MethodGet)
	router.HandleFunc("/api/today", endpoints.TodayReportHandler(reporter, metrics, logger.Named("api"))).Methods(http.MethodGet)
	router.HandleFunc("/api/weekly/{offset:-?[0-9]+}", endpoints.WeeklySummaryHandler(weeklyStore, metrics, logger.Named("api"))).Methods(http.MethodGet)
	router.HandleFunc("/api/history", endpoints.HistoryHandler(historyLog, metrics, logger.Named("api"))).Methods(http.MethodGet, http.MethodPost)
	router.Use(middleware.RequestLogger(logger.Named("http")))

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting service", "port", cfg.Port, "member", cfg.MemberName, "lists", cfg.TaskLists)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server crashed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}

	logger.Info("service exited cleanly")
}
