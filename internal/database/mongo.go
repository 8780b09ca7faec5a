// Package database owns the MongoDB connection lifecycle (connect with
// retry, ping, disconnect) and the index migrations. The client is created
// once at startup and shared through dependency injection.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dentalsupply/inventory/internal/config"
)

// Connect retry policy: exponential from connectRetryBase, capped per wait,
// for at most connectRetries attempts after the first.
const (
	connectRetries   = 5
	connectRetryBase = 500 * time.Millisecond
	connectRetryCap  = 5 * time.Second
)

// NewMongo connects to MongoDB and pings the primary until it answers or
// the retry budget runs out. Each ping is bounded by cfg.ConnectTimeout.
func NewMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("creating mongodb client: %w", err)
	}

	backoff := retry.WithMaxRetries(connectRetries,
		retry.WithCappedDuration(connectRetryCap, retry.NewExponential(connectRetryBase)))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			slog.Warn("mongodb not reachable yet",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return client, nil
}

// Pinger checks that the primary is reachable. Used by /healthz.
type Pinger struct {
	client *mongo.Client
}

// NewPinger returns a Pinger for client.
func NewPinger(client *mongo.Client) *Pinger {
	return &Pinger{client: client}
}

// Ping round-trips to the primary.
func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
