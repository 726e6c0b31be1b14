package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/gocraft/dbr/v2"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// queries slower than this are logged at warn level
const slowQuery = 500 * time.Millisecond

// Store keeps the bot's own tables: chat users, session storage and browse locations
type Store struct {
	conn   *dbr.Connection
	sess   *dbr.Session
	logger *zap.Logger
}

func New(dsn string, logger *zap.Logger) (*Store, error) {
	events := &eventLogger{logger: logger.Named("dbr")}

	conn, err := dbr.Open("postgres", dsn, events)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("successfully connected to PostgreSQL")

	return &Store{
		conn:   conn,
		sess:   conn.NewSession(events),
		logger: logger,
	}, nil
}

// Migrate creates the tables when they are missing. Every statement is
// idempotent so it runs on each start.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schemaSQL); err != nil {
		s.logger.Error("failed to apply schema", zap.Error(err))
		return fmt.Errorf("migrate: %w", err)
	}

	s.logger.Info("database schema is up to date")
	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// eventLogger reports dbr events through zap. Only failures and slow
// statements are worth a line; the rest is debug noise.
type eventLogger struct {
	logger *zap.Logger
}

var _ dbr.EventReceiver = (*eventLogger)(nil)

func (e *eventLogger) Event(eventName string) {}

func (e *eventLogger) EventKv(eventName string, kvs map[string]string) {}

func (e *eventLogger) EventErr(eventName string, err error) error {
	e.logger.Error(eventName, zap.Error(err))
	return err
}

func (e *eventLogger) EventErrKv(eventName string, err error, kvs map[string]string) error {
	e.logger.Error(eventName, zap.Error(err), zap.String("sql", kvs["sql"]))
	return err
}

func (e *eventLogger) Timing(eventName string, nanoseconds int64) {
	e.TimingKv(eventName, nanoseconds, nil)
}

func (e *eventLogger) TimingKv(eventName string, nanoseconds int64, kvs map[string]string) {
	took := time.Duration(nanoseconds)
	if took < slowQuery {
		return
	}
	e.logger.Warn("slow query",
		zap.String("event", eventName),
		zap.Duration("took", took),
		zap.String("sql", kvs["sql"]),
	)
}
