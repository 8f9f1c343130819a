package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/logger"
	"TrendSentinel/internal/metrics"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/scheduler"
	"TrendSentinel/internal/store"
)

func main() {
	var (
		cfgPath     = flag.String("config", "configs/config.yaml", "path to the YAML config (CONFIG_PATH overrides)")
		once        = flag.Bool("once", false, "scan once, print the report and exit")
		tickersFlag = flag.String("tickers", "", "comma-separated tickers, overrides the configured watchlist")
		interactive = flag.Bool("interactive", false, "prompt for tickers before scanning")
	)
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *tickersFlag != "" {
		cfg.Tickers = config.ParseTickers(*tickersFlag)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *interactive {
		tickers, err := promptTickers(cfg.Tickers)
		if err != nil {
			log.Fatal("ticker prompt", zap.Error(err))
		}
		cfg.Tickers = tickers
		*once = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics(prometheus.NewRegistry())

	fetcher, closeStore := newFetcher(cfg, m, log)
	defer closeStore()
	log.Info("data source ready", zap.String("fetcher", fetcher.Name()))

	col := collector.NewCollector(fetcher, cfg.Params(), cfg.DataSource.LookbackDays, m, log.Named("collector"))
	col.FetchTimeout = cfg.DataSource.FetchTimeout
	col.Concurrency = cfg.Scanner.Concurrency

	console := notifier.NewConsoleNotifier(os.Stdout, cfg.Report.Currency)

	if *once {
		results := col.Scan(ctx, cfg.Tickers)
		if err := console.Notify(ctx, results); err != nil {
			log.Error("print report", zap.Error(err))
		}
		return
	}

	if cfg.Metrics.Addr != "" {
		go m.Serve(ctx, cfg.Metrics.Addr, log.Named("metrics"))
	}

	var tn *notifier.TelegramNotifier
	notifiers := []notifier.Notifier{console}
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, cfg.Report.Currency, log.Named("telegram"))
		notifiers = []notifier.Notifier{tn}
	} else {
		log.Warn("telegram credentials missing, reports go to stdout only")
	}

	sched := scheduler.NewScheduler(ctx, col, cfg.Tickers, log.Named("scheduler"), notifiers...)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
		log.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Polling runs /scan commands inline; it must finish before the cache closes.
	var bg errgroup.Group
	if tn != nil {
		bg.Go(func() error {
			tn.StartPolling(ctx, sched.HandleCommand)
			return nil
		})
		log.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing scan now")
		sched.RunNowAsync()
	}

	log.Info("TrendSentinel is running",
		zap.Strings("tickers", cfg.Tickers),
		zap.String("scan_cron", cfg.Schedule.ScanCron))

	<-ctx.Done()
	log.Info("shutdown signal received, stopping")
	_ = bg.Wait()
}

// newFetcher builds the configured provider, wrapped by the bar cache when a
// SQLite path is set. The returned func releases the cache.
func newFetcher(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) (collector.Fetcher, func()) {
	var base collector.Fetcher
	switch cfg.DataSource.Provider {
	case "vstrader":
		base = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		base = &collector.MockFetcher{Price: 100}
	default:
		base = collector.NewYahooFetcher(cfg.Proxy)
	}

	if cfg.Cache.SQLitePath == "" {
		return base, func() {}
	}
	var st store.BarStore
	sq, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, log.Named("store"))
	if err != nil {
		log.Warn("init sqlite bar cache failed, using noop", zap.Error(err))
		st = store.NewNoopStore()
	} else {
		st = sq
	}
	return collector.NewCachingFetcher(base, st, cfg.Cache.TTL, m, log.Named("cache")), func() { st.Close() }
}

func promptTickers(current []string) ([]string, error) {
	input := strings.Join(current, ", ")
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Enter stock tickers").
			Description("Comma-separated, e.g. APOLLOMICRO.NS, AVANTEL.NS").
			Value(&input).
			Validate(func(s string) error {
				if len(config.ParseTickers(s)) == 0 {
					return errors.New("enter at least one ticker")
				}
				return nil
			}),
	)).Run()
	if err != nil {
		return nil, errors.Wrap(err, "run form")
	}
	return config.ParseTickers(input), nil
}
