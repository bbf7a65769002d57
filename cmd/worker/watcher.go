package worker

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalya-dev/tickethub/internal/config"
	"github.com/vitalya-dev/tickethub/internal/cursor"
	"github.com/vitalya-dev/tickethub/internal/db"
	"github.com/vitalya-dev/tickethub/internal/logger"
	"github.com/vitalya-dev/tickethub/internal/metrics"
	"github.com/vitalya-dev/tickethub/internal/notify"
	"github.com/vitalya-dev/tickethub/internal/repository"
	"github.com/vitalya-dev/tickethub/internal/stream"
	"github.com/vitalya-dev/tickethub/internal/watch"
)

var watcherCmd = &cobra.Command{
	Use:   "watcher",
	Short: "Run the change-data-capture watcher over the configured sources",
	RunE:  runWatcher,
}

func runWatcher(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logging.Level)
	defer logger.Sync()
	log := logger.Log

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	loc := cfg.Location()

	// 2) shared collaborators
	pub := notify.NewTelegramPublisher(cfg.Telegram)

	var mirror watch.Mirror
	if len(cfg.Kafka.Brokers) > 0 {
		producer := stream.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = producer.Close() }()
		mirror = producer
	}

	var audit watch.Auditor
	if cfg.ClickHouse.DSN != "" {
		chDB, err := db.NewClickHouseConnection(cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer func() { _ = chDB.Close() }()
		audit = repository.NewDeliveriesRepository(chDB)
	}

	store := cursor.NewStore(cfg.Cursor.Dir)

	// 3) graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4) one pipeline per source
	var wg sync.WaitGroup
	started := 0
	for _, src := range cfg.Sources {
		srcLog := log.With(zap.String("source", src.Name))

		// a missing file disables this source, not the process
		if _, err := os.Stat(src.Path); err != nil {
			srcLog.Warn("source file unavailable, change capture disabled",
				zap.String("path", src.Path), zap.Error(err))
			continue
		}

		sdb, err := db.NewSQLiteReadOnly(src.Path, cfg.SQLite.PingTimeout)
		if err != nil {
			srcLog.Error("open source database", zap.Error(err))
			continue
		}
		defer func() { _ = sdb.Close() }()

		scanner := &watch.Scanner{
			Source:   src.Name,
			Fetcher:  repository.NewTicketsRepository(sdb),
			Cursor:   store,
			Composer: notify.Composer{},
			Pub:      pub,
			Mirror:   mirror,
			Audit:    audit,
			Loc:      loc,
			Log:      srcLog,
		}
		if err := scanner.Bootstrap(ctx); err != nil {
			srcLog.Error("bootstrap cursor", zap.Error(err))
			continue
		}

		sched := watch.NewScheduler(cfg.Watcher.Debounce, scanner.Scan)
		fw, err := watch.NewWatcher(src.Path, sched, srcLog)
		if err != nil {
			srcLog.Error("start file watcher", zap.Error(err))
			continue
		}

		wg.Add(2)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = fw.Run(ctx)
		}()

		srcLog.Info("pipeline started",
			zap.String("path", src.Path),
			zap.Int64("cursor", scanner.Watermark()))
		started++
	}

	if started == 0 {
		return fmt.Errorf("no source pipeline could be started")
	}

	log.Info("watcher running", zap.Int("pipelines", started))
	<-ctx.Done()
	wg.Wait()

	return nil
}
