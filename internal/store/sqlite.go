package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"TrendSentinel/internal/model"
)

// SQLiteStore persists daily bars to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	log.Info("sqlite bar cache opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol  TEXT    NOT NULL,
			date    TEXT    NOT NULL,
			open    REAL    NOT NULL,
			high    REAL    NOT NULL,
			low     REAL    NOT NULL,
			close   REAL    NOT NULL,
			volume  INTEGER NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,

		`CREATE TABLE IF NOT EXISTS fetch_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol      TEXT    NOT NULL,
			from_date   TEXT    NOT NULL,
			to_date     TEXT    NOT NULL,
			bars        INTEGER NOT NULL,
			fetched_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_range ON fetch_log(symbol, from_date, to_date, fetched_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "exec %q", stmt[:40])
		}
	}
	return nil
}

func (s *SQLiteStore) SaveFetch(ctx context.Context, symbol string, from, to time.Time, bars model.Series, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	// The new fetch is authoritative for its range: bars it no longer
	// returns must not survive from an older fetch.
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_bars
		WHERE symbol = ? AND date >= ? AND date <= ?`,
		symbol, from.Format(model.DateLayout), to.Format(model.DateLayout),
	); err != nil {
		return errors.Wrapf(err, "clear bars %s", symbol)
	}

	for _, b := range bars {
		if _, err := tx.ExecContext(ctx, `INSERT INTO daily_bars
			(symbol, date, open, high, low, close, volume)
			VALUES (?,?,?,?,?,?,?)
			ON CONFLICT(symbol, date) DO UPDATE SET
				open=excluded.open, high=excluded.high, low=excluded.low,
				close=excluded.close, volume=excluded.volume`,
			symbol, b.Date.Format(model.DateLayout), b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			return errors.Wrapf(err, "upsert bar %s %s", symbol, b.Date.Format(model.DateLayout))
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO fetch_log
		(symbol, from_date, to_date, bars, fetched_at)
		VALUES (?,?,?,?,?)`,
		symbol, from.Format(model.DateLayout), to.Format(model.DateLayout), len(bars), fetchedAt.Unix(),
	); err != nil {
		return errors.Wrap(err, "log fetch")
	}

	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLiteStore) LastFetch(ctx context.Context, symbol string, from, to time.Time) (*FetchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		bars      int
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT bars, fetched_at FROM fetch_log
		WHERE symbol = ? AND from_date = ? AND to_date = ?
		ORDER BY fetched_at DESC, id DESC LIMIT 1`,
		symbol, from.Format(model.DateLayout), to.Format(model.DateLayout),
	).Scan(&bars, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query fetch log")
	}
	return &FetchRecord{
		Symbol:    symbol,
		From:      model.DateOf(from),
		To:        model.DateOf(to),
		Bars:      bars,
		FetchedAt: time.Unix(fetchedAt, 0),
	}, nil
}

func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, from, to time.Time) (model.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date, open, high, low, close, volume FROM daily_bars
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		symbol, from.Format(model.DateLayout), to.Format(model.DateLayout),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query bars")
	}
	defer rows.Close()

	series := model.Series{}
	for rows.Next() {
		var (
			date string
			p    model.PricePoint
		)
		if err := rows.Scan(&date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, errors.Wrap(err, "scan bar")
		}
		p.Date, err = time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, errors.Wrapf(err, "parse bar date %q", date)
		}
		series = append(series, p)
	}
	return series, errors.Wrap(rows.Err(), "iterate bars")
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite bar cache")
	return s.db.Close()
}
