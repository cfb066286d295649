package db

import "time"

// PoolOptions sizes the connection pool. The ledger writes two short
// statements per run, so the defaults are small.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolOptions is what NewDatabaseClient uses.
var DefaultPoolOptions = PoolOptions{
	MaxOpenConns:    10,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
	ConnMaxIdleTime: 10 * time.Minute,
}

// defaultListLimit caps ListRuns when the caller passes no limit.
const defaultListLimit = 50
