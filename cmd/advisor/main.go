package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/collector"
	"StockAdvisor/internal/config"
	"StockAdvisor/internal/dataset"
	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/notifier"
	"StockAdvisor/internal/predictor"
	"StockAdvisor/internal/recorder"
	"StockAdvisor/internal/scheduler"
	"StockAdvisor/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	setupLogging(cfg)
	log.Info().Str("symbol", cfg.DataSource.Symbol).Msg("stock advisor starting")

	// Data source
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Model pipeline
	col := collector.NewCollector(fetcher, rec, cfg.DataSource.Symbol, cfg.DataSource.HistoryBars)
	builder := dataset.NewBuilder(col)
	builder.TrainRatio = cfg.Model.TrainRatio
	builder.MinRows = cfg.Model.MinRows

	holder := predictor.NewHolder(cfg.Model.FallbackProbability)
	m := metrics.New(prometheus.DefaultRegisterer)
	trainer := predictor.NewTrainer(builder, holder)
	trainer.Recorder = rec
	trainer.Metrics = m

	sched := scheduler.NewScheduler(ctx, trainer, holder, cfg.DataSource.Symbol)
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched.Notifier = tn
		trainer.OnResult = sched.ReportResult
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram operator channel enabled")
	}

	scheduled, err := sched.RegisterRetrain(cfg.Model.RetrainCron)
	if err != nil {
		log.Fatal().Err(err).Msg("register retrain")
	}
	if !scheduled {
		log.Info().Msg("periodic retraining disabled")
	}
	sched.Start()
	defer sched.Stop()

	trainCtx, cancelTrain := context.WithTimeout(ctx, 2*time.Minute)
	if _, err := sched.RunNow(trainCtx); err != nil {
		log.Warn().Err(err).Float64("fallback_probability", cfg.Model.FallbackProbability).
			Msg("startup training failed, serving in fallback mode")
	}
	cancelTrain()

	srv, err := server.NewServer(server.ServerConfig{
		Addr:           cfg.Server.Addr,
		Predictor:      holder,
		Prices:         col,
		Metrics:        m,
		Currency:       cfg.Server.Currency,
		DefaultCapital: cfg.Server.DefaultCapital,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init http server")
	}
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("http server stopped")
	}
	log.Info().Msg("stock advisor stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
