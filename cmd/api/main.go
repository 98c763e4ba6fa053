package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-funnel/internal/config"
	"github.com/xavierca1/lead-funnel/internal/infra/database"
	"github.com/xavierca1/lead-funnel/internal/infra/http/handlers"
	appmw "github.com/xavierca1/lead-funnel/internal/infra/http/middleware"
	"github.com/xavierca1/lead-funnel/internal/infra/integration/sheets"
	"github.com/xavierca1/lead-funnel/internal/infra/kvstore"
	"github.com/xavierca1/lead-funnel/internal/infra/logging"
	"github.com/xavierca1/lead-funnel/internal/infra/mail"
	"github.com/xavierca1/lead-funnel/internal/infra/queue"
	"github.com/xavierca1/lead-funnel/internal/infra/worker"
	"github.com/xavierca1/lead-funnel/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("❌ Configuração inválida")
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if enabled, err := logging.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		log.WithError(err).Warn("⚠️ Sentry não inicializado")
	} else if enabled {
		defer logging.FlushSentry()
	}

	log.WithFields(cfg.Summary()).Info("🚀 Iniciando lead-funnel")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store + Repositório
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("❌ Falha ao abrir o KV store")
	}
	defer closeStore()

	repo := database.NewLeadRepository(store)

	// 2. Google Sheets (opcional)
	var relay usecase.SheetRelay
	var sheetsClient *sheets.Client
	if cfg.SheetsEnabled() {
		sheetsClient, err = newSheetsClient(cfg, log)
		if err != nil {
			log.WithError(err).Warn("⚠️ Google Sheets service not available")
		} else {
			relay = sheetsClient
			go worker.NewSheetsBootstrapWorker(sheetsClient, log).Start(ctx)
		}
	} else {
		log.Info("📥 Google Sheets não configurado, leads ficam só no store")
	}

	// 3. RabbitMQ + notificações (opcional)
	var publisher usecase.EventPublisher
	var brokerState handlers.ConnectionState
	if cfg.QueueEnabled() {
		rabbit, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Warn("⚠️ RabbitMQ indisponível, eventos desligados")
		} else {
			defer rabbit.Close()
			publisher = queue.NewProducer(rabbit.Ch)
			brokerState = rabbit.Conn

			if cfg.NotificationsEnabled() {
				sender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
				notifier := mail.NewNotifier(sender.Dialer(), cfg.NotifyFrom, cfg.NotifyTo)
				w := queue.NewWorker(rabbit.Ch, notifier, log)
				go func() {
					if err := w.Start(ctx, queue.QueueName); err != nil {
						log.WithError(err).Error("❌ Worker de notificações parou")
					}
				}()
			}
		}
	}

	// 4. UseCases
	recorder := appmw.RelayMetrics{}
	submitUC := usecase.NewSubmitLeadUseCase(repo, relay, publisher, recorder, log)
	leadService := usecase.NewLeadService(repo, log)
	syncUC := usecase.NewSyncToSheetsUseCase(repo, relay, recorder, log)

	// 5. Handlers
	var limiter *appmw.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = appmw.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)
	}

	router := NewRouter(RouterDeps{
		ServerID:       cfg.ServerID,
		AllowedOrigins: cfg.AllowedOrigins,
		AdminSecret:    cfg.AdminJWTSecret,
		RateLimiter:    limiter,
		Log:            log,
		Leads:          handlers.NewLeadHandler(submitUC, leadService, syncUC, log),
		Sheets:         handlers.NewSheetsHandler(relay, log),
		Health:         handlers.NewHealthHandler(store, brokerState, relay != nil),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("❌ Shutdown com erro")
		}
	}()

	log.Infof("🔥 Server lead-funnel rodando na porta %s (/%s)", cfg.Port, cfg.ServerID)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("❌ Servidor caiu")
	}
	log.Info("👋 Servidor encerrado")
}

func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.KVBackend {
	case config.BackendRedis:
		s := kvstore.NewRedisStore(kvstore.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case config.BackendPostgres:
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s := kvstore.NewPostgresStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil

	default:
		return kvstore.NewMemoryStore(), func() {}, nil
	}
}

func newSheetsClient(cfg *config.Config, log logrus.FieldLogger) (*sheets.Client, error) {
	creds, err := sheets.NewServiceAccountCredentials([]byte(cfg.GoogleServiceAccountKey))
	if err != nil {
		return nil, err
	}
	return sheets.NewClient(sheets.Config{
		SpreadsheetID: cfg.SpreadsheetID,
		SheetName:     cfg.SheetName,
		Timezone:      cfg.SheetsTimezone,
		MaxAttempts:   cfg.SheetsMaxAttempts,
		Backoff:       cfg.SheetsBackoff,
	}, creds, log)
}
