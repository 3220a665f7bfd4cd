package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	txcontext "hireline/pkg/platform/tx"
)

// PostgresStore appends audit events to the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts one audit event. Meta is serialized to JSONB; a nil meta
// becomes an empty object rather than NULL.
func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	meta := event.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal audit meta: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, actor, action, entity_type, entity_id, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		event.Actor,
		event.Action,
		event.EntityType,
		event.EntityID,
		metaBytes,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
