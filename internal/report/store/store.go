// Package store persists submission records. Stores are interface-driven in
// the usual way: the Postgres implementations back the service, the
// in-memory ones back unit tests. Writes join any transaction carried in the
// context.
package store

import (
	"context"

	"hireline/internal/report/models"
)

type EmployerRefStore interface {
	Save(ctx context.Context, ref models.EmployerRef) error
}

type ReportStore interface {
	Save(ctx context.Context, report models.Report) error
}

type ContactStore interface {
	Save(ctx context.Context, contact models.Contact) error
}

// ExperienceStore backs the deprecated flat submission endpoint.
type ExperienceStore interface {
	Save(ctx context.Context, exp models.Experience) error
}
