package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/suke199800/tree/internal/app"
	"github.com/suke199800/tree/internal/catalog"
	"github.com/suke199800/tree/internal/config"
	"github.com/suke199800/tree/internal/jobs"
	"github.com/suke199800/tree/internal/logging"
	"github.com/suke199800/tree/internal/metrics"
	"github.com/suke199800/tree/internal/observability"
	"github.com/suke199800/tree/internal/store"
	"github.com/suke199800/tree/internal/tg"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	sugar := lg.Sugar

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Каталог грузится один раз; при любой ошибке сервис стартует с пустым списком.
	loaded := catalog.Load(cfg.SchoolsFile, lg.Named("catalog"))
	metrics.LoadWarnings.Add(float64(len(loaded.Warnings)))
	st := store.New(loaded.Schools)

	var notifier app.StageNotifier
	if cfg.NotifyEnabled() {
		bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			sugar.Warnw("telegram bot init failed, stage-up notifications disabled", "err", err)
		} else {
			sugar.Infow("stage-up notifications enabled", "bot", bot.Self.UserName, "chat_id", cfg.NotifyChatID)
			notifier = tg.NewNotifier(bot, cfg.NotifyChatID, lg.Named("notify"))
		}
	}

	if logging.IsProd(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := app.NewRouter(app.RouterConfig{
		Schools:     app.NewSchoolHandler(st, notifier, lg.Named("api")),
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		Log:         lg.Named("http"),
	})

	runner := jobs.New(ctx, lg.Named("jobs"))
	runner.Every(cfg.StatsInterval, "catalog_stats", jobs.CatalogStats(st))

	srv, err := app.StartHTTP(ctx, cfg.HTTPAddr, router, sugar)
	if err != nil {
		sugar.Fatalw("cannot listen", "addr", cfg.HTTPAddr, "err", err)
	}

	select {
	case <-ctx.Done():
		sugar.Info("shutting down")
	case err := <-srv.Done():
		if err != nil {
			observability.CaptureErr(err)
		}
		stop()
	}
	<-srv.Done()
	runner.Wait()
}
