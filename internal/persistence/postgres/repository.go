// Package postgres provides pgx-backed persistence for users,
// activities, friendships and the event outbox.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides Postgres-backed persistence for the GetFit service.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// insertOutbox records an event row inside the caller's transaction so
// the write and its event commit or roll back together.
func insertOutbox(ctx context.Context, tx pgx.Tx, eventType, partitionKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	const stmt = `INSERT INTO outbox (event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4)`

	_, err = tx.Exec(ctx, stmt, eventType, meta.Topic, partitionKey, body)
	return err
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic string
}

var eventCatalog = map[string]EventMetadata{
	"activity.logged": {Topic: "activity_events"},
	"user.registered": {Topic: "user_events"},
}
