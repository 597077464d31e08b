// cmd/function-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eventdesk-functions/internal/analytics"
	"eventdesk-functions/internal/cache"
	"eventdesk-functions/internal/common/aws"
	"eventdesk-functions/internal/common/config"
	"eventdesk-functions/internal/common/database"
	"eventdesk-functions/internal/common/logger"
	"eventdesk-functions/internal/common/mail"
	"eventdesk-functions/internal/common/observability"
	"eventdesk-functions/internal/notify"
	"eventdesk-functions/internal/scheduler"
	"eventdesk-functions/internal/server"
	"eventdesk-functions/internal/store"

	da "eventdesk-functions/internal/functions/daily-agenda"
	sr "eventdesk-functions/internal/functions/session-reminder"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting function server",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Postgres ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "postgres ping")
	if err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	st := store.New(pg.GetDB(), log)

	// --- Redis response cache (optional) ---
	var responseCache *cache.Cache
	if cfg.Cache.Enabled && cfg.Database.Redis.Address != "" {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			zapLog.Warn("redis unreachable, caching disabled", zap.Error(err))
		} else {
			responseCache = cache.New(rc.Client, cfg.Cache.Name, time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
		}
	}

	// --- Outbound email transport ---
	var sender mail.Sender
	switch cfg.Mail.Provider {
	case "ses":
		sesClient, err := aws.NewSESClient(ctx, cfg.Mail.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses init failed", zap.Error(err))
		}
		sender = mail.NewSESSender(sesClient)
	default:
		sender = mail.NewHTTPProvider(cfg.Mail.APIURL, cfg.Mail.APIKey, time.Duration(cfg.Mail.Timeout)*time.Second, log)
	}

	// --- Notification functions ---
	reminderCfg := sr.LoadConfig(cfg)
	reminderSvc := sr.NewService(sr.ServiceDependencies{Store: st, Sender: sender, Logger: log}, reminderCfg)
	reminderHandler := sr.NewHandler(reminderCfg, reminderSvc, log)

	digestCfg := da.LoadConfig(cfg)
	digestSvc := da.NewService(da.ServiceDependencies{Store: st, Sender: sender, Logger: log}, digestCfg)
	digestHandler := da.NewHandler(digestCfg, digestSvc, log)

	// --- Analytics ---
	analyticsSvc := analytics.NewService(st, log)
	analyticsHandler := analytics.NewHandler(analyticsSvc, responseCache, log)

	srv := server.New(cfg.Server, server.Routes{
		SessionReminder: reminderHandler.Handle,
		DailyAgenda:     digestHandler.Handle,
		Analytics:       analyticsHandler.Handle,
		Cache:           responseCache,
	}, log)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// --- Scheduler for the production dispatch path ---
	if cfg.Notifications.SchedulerEnabled {
		interval := time.Duration(cfg.Notifications.RunIntervalMinutes) * time.Minute
		instrumented := func(kind string, run func(ctx context.Context) error) scheduler.Job {
			return func(ctx context.Context) error {
				started := time.Now()
				err := run(ctx)
				obs.RecordDispatchDuration(ctx, kind, time.Since(started))
				if err != nil {
					obs.RecordDispatch(ctx, kind, "error")
					return err
				}
				obs.RecordDispatch(ctx, kind, "ok")
				return nil
			}
		}
		sched := scheduler.New(interval, cfg.Notifications.DigestHour,
			instrumented(notify.KindReminder, func(ctx context.Context) error {
				_, err := reminderSvc.Execute(ctx, nil)
				return err
			}),
			instrumented(notify.KindDigest, func(ctx context.Context) error {
				_, err := digestSvc.Execute(ctx, nil)
				return err
			}),
			log,
		)
		go sched.Run(runCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown failed", zap.Error(err))
	}
}
