package db

import (
	"context"
	"fmt"
	"time"

	"boostiq/config"
	"boostiq/pkg/entities"
)

// Store is the durable subscription ledger. It keeps at most one record per
// user; Put overwrites. Implementations must be safe for concurrent use and
// must not report success on a failed persist.
type Store interface {
	Put(ctx context.Context, sub entities.Subscription) error
	// Get returns nil when the user holds no record.
	Get(ctx context.Context, userID string) (*entities.Subscription, error)
	// SweepExpired removes and returns every record with expiresAt before
	// now. Each expired record is returned by exactly one sweep.
	SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error)
	Close() error
}

// NewStore opens the ledger store selected by configuration.
func NewStore(conf config.DB) (Store, error) {
	switch conf.Driver {
	case "", "file":
		return NewFileStore(conf.Path)
	case "postgres":
		return NewPostgresStore(conf.DSN)
	default:
		return nil, fmt.Errorf("unknown db driver %q", conf.Driver)
	}
}
