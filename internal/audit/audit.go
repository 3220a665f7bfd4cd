// Package audit records immutable, append-only events tied to an entity.
// Events are appended inside the submission transaction, so a report and its
// audit trail commit or roll back together.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actors recorded on events.
const (
	ActorSystem = "system"
	ActorAnon   = "anon"
)

// Actions recorded on events.
const (
	ActionReportSubmitted     = "REPORT_SUBMITTED"
	ActionContactTokenCreated = "CONTACT_CONFIRMATION_TOKEN_CREATED"
)

// EntityReport is the entity type of report-scoped events.
const EntityReport = "report"

// Event is one append-only audit log entry. Meta holds a small JSON payload
// of action-specific context; it must never contain raw PII or tokens.
type Event struct {
	ID         uuid.UUID
	Actor      string
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Meta       map[string]any
	CreatedAt  time.Time
}

// Store appends audit events. There is deliberately no update or delete.
type Store interface {
	Append(ctx context.Context, event Event) error
}
