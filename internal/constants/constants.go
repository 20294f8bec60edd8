package constants

import "time"

const (
	DBMinConns          = 1
	DBMaxConns          = 5
	DBMaxConnIdleTime   = 10 * time.Minute
	DBConnectTimeout    = 5 * time.Second
	DBStatementTimeout  = 10 * time.Second
	DBKeepaliveIdle     = 30 * time.Second
	DBKeepaliveInterval = 10 * time.Second
	DBKeepaliveCount    = 3
)

const (
	DBMaxAttempts    = 3
	DBRetryBaseDelay = 500 * time.Millisecond
)

const (
	RequestTimeout  = 30 * time.Second
	ShutdownTimeout = 5 * time.Second
)

const (
	RankingLimit        = 50
	DefaultDefeatsLimit = 25
	MaxDefeatsLimit     = 100
)
