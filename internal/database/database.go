package database

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"raid-viewer/internal/config"
	"raid-viewer/internal/constants"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// Querier is the read-only query surface exposed to repositories.
// *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Manager owns the process-wide connection pool. The pool is created
// lazily on first use and discarded whenever a transient failure is
// observed, so the next attempt reconnects from scratch.
type Manager struct {
	cfg    *config.Config
	logger zerolog.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool

	// overridable in tests
	acquire func(ctx context.Context) (Querier, error)
}

func NewManager(cfg *config.Config, logger zerolog.Logger) *Manager {
	m := &Manager{cfg: cfg, logger: logger}
	m.acquire = m.acquirePool
	return m
}

func (m *Manager) acquirePool(ctx context.Context) (Querier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return m.pool, nil
	}

	pcfg, err := pgxpool.ParseConfig(m.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	pcfg.MinConns = constants.DBMinConns
	pcfg.MaxConns = constants.DBMaxConns
	pcfg.MaxConnIdleTime = constants.DBMaxConnIdleTime
	pcfg.ConnConfig.ConnectTimeout = constants.DBConnectTimeout

	// Probe idle connections at the TCP level so dead peers are noticed
	// before a query trips over them.
	dialer := &net.Dialer{
		Timeout: constants.DBConnectTimeout,
		KeepAliveConfig: net.KeepAliveConfig{
			Enable:   true,
			Idle:     constants.DBKeepaliveIdle,
			Interval: constants.DBKeepaliveInterval,
			Count:    constants.DBKeepaliveCount,
		},
	}
	pcfg.ConnConfig.DialFunc = dialer.DialContext

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	m.logger.Info().
		Int32("min_conns", pcfg.MinConns).
		Int32("max_conns", pcfg.MaxConns).
		Msg("database connection pool initialized")

	m.pool = pool
	return pool, nil
}

// reset discards the current pool. In-flight queries on the old pool
// fail and retry independently; reads are idempotent so this is safe.
func (m *Manager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool == nil {
		return
	}
	m.logger.Warn().Msg("discarding database connection pool")
	m.pool.Close()
	m.pool = nil
}

func (m *Manager) Close() {
	m.reset()
}

// ExecuteWithRetry runs a read operation against the pool, retrying
// transient connection failures with linearly increasing backoff
// (0.5s, 1.0s) for up to DBMaxAttempts attempts. The pool is discarded
// and rebuilt before each retry. Non-transient errors propagate
// immediately. Each attempt is bounded by the statement timeout.
func (m *Manager) ExecuteWithRetry(ctx context.Context, op func(ctx context.Context, q Querier) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(constants.DBMaxAttempts-1, retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * constants.DBRetryBaseDelay, false
	}))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		q, err := m.acquire(ctx)
		if err != nil {
			m.logger.Warn().Err(err).Msg("failed to acquire connection pool")
			return retry.RetryableError(err)
		}

		opCtx, cancel := context.WithTimeout(ctx, constants.DBStatementTimeout)
		defer cancel()

		if err := op(opCtx, q); err != nil {
			if IsTransient(err) {
				m.logger.Warn().Err(err).Msg("transient database failure, resetting pool")
				m.reset()
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}
