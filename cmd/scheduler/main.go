package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"grantdesk/internal/api"
	"grantdesk/internal/appclient"
	"grantdesk/internal/config"
	"grantdesk/internal/database"
	"grantdesk/internal/metrics"
	"grantdesk/internal/model"
	"grantdesk/internal/scheduling"
	"grantdesk/internal/selector"
	"grantdesk/internal/sheets"
	"grantdesk/internal/slots"
	"grantdesk/internal/workload"
	"grantdesk/shared/audit"
	"grantdesk/shared/reminders"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("GRANTDESK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	}

	apps := appclient.NewClient(cfg.Applications.BaseURL, cfg.Applications.APIKey)
	if rdb != nil && cfg.ApplicationCacheTTL() > 0 {
		apps.UseRedisCache(rdb, cfg.ApplicationCacheTTL())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Roster hot-reloads behind an atomic pointer; the scheduler reads
	// whatever is current at call time.
	var roster atomic.Pointer[[]model.Interviewer]
	empty := []model.Interviewer{}
	roster.Store(&empty)
	err = config.WatchRoster(ctx, cfg.RosterPath, 30*time.Second, func(rc *config.RosterConfig) {
		ivs := rc.Interviewers
		roster.Store(&ivs)
		logger.Info().Int("interviewers", len(ivs)).Msg("roster loaded")
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("load roster error")
	}

	grid := slots.DefaultGrid()
	if cfg.Scheduling.DayStart != "" {
		if start, err := model.ParseTimeOfDay(cfg.Scheduling.DayStart); err == nil {
			grid.Start = start
		}
	}
	if cfg.Scheduling.DayEnd != "" {
		if end, err := model.ParseTimeOfDay(cfg.Scheduling.DayEnd); err == nil {
			grid.End = end
		}
	}
	if cfg.Scheduling.SlotMinutes > 0 {
		grid.StepMinutes = cfg.Scheduling.SlotMinutes
	}

	scheduler := scheduling.NewService(db, apps,
		func() []model.Interviewer { return *roster.Load() },
		scheduling.Config{
			Grid:            grid,
			WindowDays:      cfg.Scheduling.WindowDays,
			OfficeLocation:  cfg.Scheduling.OfficeLocation,
			MeetingLinkBase: cfg.Scheduling.MeetingLinkBase,
			Policy:          selector.Policy{InPersonCategoryIDs: cfg.Scheduling.InPersonCategories},
			Location:        cfg.TimeLocation(),
		},
		&logger,
	)

	metrics.Register()

	zlog := &zlogAdapter{logger: &logger}

	if cfg.Reminders.Enabled && cfg.Reminders.WebhookURL != "" {
		reminderSvc := reminders.NewService(
			&reminders.Config{
				CheckInterval: cfg.ReminderCheckInterval(),
				LeadTime:      cfg.ReminderLeadTime(),
				RatePerSecond: cfg.Reminders.RatePerSecond,
				Burst:         cfg.Reminders.Burst,
			},
			db,
			reminders.NewWebhookSender(cfg.Reminders.WebhookURL),
			zlog,
			reminders.NewMetrics("grantdesk"),
		)
		reminderSvc.Start()
		defer reminderSvc.Stop()
	}

	if cfg.Audit.Enabled {
		auditSvc := audit.NewService(
			&audit.Config{
				RetentionDays: cfg.Audit.RetentionDays,
				ExportDir:     cfg.Audit.ExportDir,
			},
			db,
			func() audit.ExcelWriter { return audit.NewExcelizeWriter() },
			db,
			zlog,
		)
		auditSvc.Start()
		defer auditSvc.Stop()
	}

	if cfg.Sheets.Enabled {
		sheetsSvc, err := sheets.NewSheetsService(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
		if err != nil {
			logger.Fatal().Err(err).Msg("sheets setup error")
		}
		go runSheetsSync(ctx, sheetsSvc, db, &logger)
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if !cfg.API.Enabled {
		logger.Info().Msg("API disabled; running background services only")
		<-ctx.Done()
		return
	}

	addr := cfg.API.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	server := api.NewHTTPServer(addr, scheduler, cfg.API.APIKey, &logger)
	logger.Info().Str("addr", addr).Msg("interview scheduler started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

func runSheetsSync(ctx context.Context, svc *sheets.SheetsService, db *database.DB, logger *zerolog.Logger) {
	sync := func() {
		monday, sunday := workload.WeekOf(model.DateOf(time.Now()))
		schedules, err := db.ListActiveSchedules(ctx, monday, sunday, "", "")
		if err != nil {
			logger.Error().Err(err).Msg("sheets sync: list schedules")
			return
		}
		if err := svc.SyncWeek(ctx, schedules); err != nil {
			logger.Error().Err(err).Msg("sheets sync failed")
		}
	}

	sync()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sync()
		}
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

// zlogAdapter bridges zerolog to the keyvals Logger the background
// services expect.
type zlogAdapter struct {
	logger *zerolog.Logger
}

func (a *zlogAdapter) Info(msg string, fields ...interface{}) {
	a.event(a.logger.Info(), msg, fields)
}

func (a *zlogAdapter) Error(msg string, fields ...interface{}) {
	a.event(a.logger.Error(), msg, fields)
}

func (a *zlogAdapter) Debug(msg string, fields ...interface{}) {
	a.event(a.logger.Debug(), msg, fields)
}

func (a *zlogAdapter) event(e *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}
