package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
)

const helpText = "Available commands:\n" +
	"• /scan: scan the watchlist now\n" +
	"• /scan T1,T2: scan the given tickers\n" +
	"• /tickers: show the watchlist"

// Scheduler runs the periodic watchlist scan and serves chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifiers []notifier.Notifier
	Tickers   []string
	Log       *zap.Logger
	Ctx       context.Context

	// scans started outside cron; Stop waits for them
	adhoc sync.WaitGroup
}

// cronLogger routes robfig/cron's own logging through zap.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw(msg, append(kv, "error", err)...)
}

// NewScheduler creates a new Scheduler. Overlapping scans are skipped.
func NewScheduler(ctx context.Context, col *collector.Collector, tickers []string, log *zap.Logger, notifiers ...notifier.Notifier) *Scheduler {
	cl := cronLogger{s: log.Named("cron").Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		Notifiers: notifiers,
		Tickers:   tickers,
		Log:       log,
		Ctx:       ctx,
	}
}

// RegisterAll registers the scan task on scanCron (six fields, seconds first).
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return errors.Wrapf(err, "register scan task %q", scanCron)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running scans, cron or
// RunNowAsync, to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.adhoc.Wait()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

// RunNowAsync starts the scan task in the background. Stop waits for it.
func (s *Scheduler) RunNowAsync() {
	s.adhoc.Add(1)
	go func() {
		defer s.adhoc.Done()
		s.scanTask()
	}()
}

func (s *Scheduler) scanTask() {
	if err := s.Scan(s.Ctx, s.Tickers); err != nil {
		s.Log.Error("scan task", zap.Error(err))
	}
}

// Scan analyses tickers and hands the results to every notifier. A failing
// notifier does not stop the others.
func (s *Scheduler) Scan(ctx context.Context, tickers []string) error {
	s.Log.Info("running scan", zap.Strings("tickers", tickers))
	results := s.Collector.Scan(ctx, tickers)
	s.Log.Info("scan finished", summaryFields(results)...)

	var firstErr error
	for _, n := range s.Notifiers {
		if err := n.Notify(ctx, results); err != nil {
			s.Log.Error("notify", zap.String("notifier", fmt.Sprintf("%T", n)), zap.Error(err))
			if firstErr == nil {
				firstErr = errors.Wrap(err, "notify")
			}
		}
	}
	return firstErr
}

func summaryFields(results []model.TickerResult) []zap.Field {
	counts := map[model.ResultStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	return []zap.Field{
		zap.Int("ok", counts[model.StatusOK]),
		zap.Int("no_data", counts[model.StatusNoData]),
		zap.Int("failed", counts[model.StatusFailed]),
	}
}

// HandleCommand processes a user command and returns a reply.
// Scan reports are delivered through the notifiers, so /scan replies empty.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats append the bot name: /scan@TrendSentinelBot.
	name, _, _ := strings.Cut(fields[0], "@")

	switch strings.ToLower(name) {
	case "/scan":
		tickers := s.Tickers
		if len(fields) > 1 {
			tickers = config.ParseTickers(strings.Join(fields[1:], ","))
		}
		if len(tickers) == 0 {
			return "No tickers given. Usage: /scan T1,T2"
		}
		if err := s.Scan(ctx, tickers); err != nil {
			return "❌ Scan finished but the report could not be delivered: " + err.Error()
		}
		return ""
	case "/tickers":
		return "📋 Watchlist: " + strings.Join(s.Tickers, ", ")
	default:
		return helpText
	}
}
