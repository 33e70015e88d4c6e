// Package audit records who changed which record. Writes are best-effort;
// callers typically discard the error so an audit outage never blocks the
// actual mutation.
package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ActorID    *string
	ActorName  *string
	Action     string // e.g. "transaction.update"
	EntityType string // "transaction" | "client" | "cost" | "user"
	EntityID   *string
	Metadata   []byte
}

// Write appends an audit entry. A nil pool is a no-op so handlers can run
// without audit wiring in tests.
func Write(ctx context.Context, db *pgxpool.Pool, e Entry) error {
	if db == nil {
		return nil
	}

	var metadata any
	if len(e.Metadata) > 0 {
		metadata = json.RawMessage(e.Metadata)
	}

	_, err := db.Exec(ctx, `
INSERT INTO audit_logs (actor_id, actor_name, action, entity_type, entity_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6)
`, e.ActorID, e.ActorName, e.Action, e.EntityType, e.EntityID, metadata)

	return err
}
