package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"hireline/internal/report/models"
	txcontext "hireline/pkg/platform/tx"
)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer returns the context's transaction when one is in flight, so all
// writes of a submission land in the same transaction.
func execer(ctx context.Context, db *sql.DB) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

// nullIfEmpty maps "" to SQL NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PostgresEmployerRefStore persists employer references.
type PostgresEmployerRefStore struct {
	db *sql.DB
}

func NewPostgresEmployerRefStore(db *sql.DB) *PostgresEmployerRefStore {
	return &PostgresEmployerRefStore{db: db}
}

func (s *PostgresEmployerRefStore) Save(ctx context.Context, ref models.EmployerRef) error {
	query := `
		INSERT INTO employer_refs (
			id, country, input_name, input_city, input_website,
			identifier_type, identifier_value, resolution_status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		ref.ID,
		ref.Country,
		ref.InputName,
		nullIfEmpty(ref.InputCity),
		nullIfEmpty(ref.InputWebsite),
		nullIfEmpty(ref.IdentifierType),
		nullIfEmpty(ref.IdentifierValue),
		ref.ResolutionStatus,
		ref.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employer ref: %w", err)
	}
	return nil
}

// PostgresReportStore persists raw reports.
type PostgresReportStore struct {
	db *sql.DB
}

func NewPostgresReportStore(db *sql.DB) *PostgresReportStore {
	return &PostgresReportStore{db: db}
}

func (s *PostgresReportStore) Save(ctx context.Context, r models.Report) error {
	query := `
		INSERT INTO reports_raw (
			id, schema_version, employer_ref_id,
			consent_terms, consent_no_pii, consent_followup,
			job_title, job_family, seniority, contract, work_mode,
			job_location_country, job_location_city, source, job_post_url,
			applied_at, response_at, process_stage, outcome, ghosted_days,
			requirements_listed, requirements_met, self_match_rating,
			issue_types,
			rejection_stated, rejection_stated_text, rejection_message_excerpt,
			rejection_assumed, assumption_basis, assumption_basis_text,
			evidence_available, evidence_types, evidence_notes,
			narrative, pii_flag, client_fingerprint, created_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
			$27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37
		)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		r.ID,
		r.SchemaVersion,
		r.EmployerRefID,
		r.ConsentTerms,
		r.ConsentNoPII,
		r.ConsentFollowup,
		r.JobTitle,
		string(r.JobFamily),
		string(r.Seniority),
		string(r.Contract),
		string(r.WorkMode),
		nullIfEmpty(r.JobLocationCountry),
		nullIfEmpty(r.JobLocationCity),
		string(r.Source),
		nullIfEmpty(r.JobPostURL),
		r.AppliedAt,
		r.ResponseAt,
		string(r.ProcessStage),
		string(r.Outcome),
		r.GhostedDays,
		pq.Array(requirementStrings(r.RequirementsListed)),
		textArrayOrNull(r.RequirementsMet),
		r.SelfMatchRating,
		pq.Array(r.IssueTypes),
		nullIfEmpty(string(r.RejectionStated)),
		nullIfEmpty(r.RejectionStatedText),
		nullIfEmpty(r.RejectionMessageExcerpt),
		textArrayOrNull(r.RejectionAssumed),
		textArrayOrNull(r.AssumptionBasis),
		nullIfEmpty(r.AssumptionBasisText),
		r.EvidenceAvailable,
		textArrayOrNull(r.EvidenceTypes),
		nullIfEmpty(r.EvidenceNotes),
		r.Narrative,
		r.PIIFlag,
		nullIfEmpty(r.ClientFingerprint),
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func requirementStrings(reqs []models.Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = string(r)
	}
	return out
}

// textArrayOrNull keeps absent arrays as NULL rather than empty, matching
// the distinction the schema makes between "not provided" and "provided
// empty".
func textArrayOrNull(values []string) any {
	if values == nil {
		return nil
	}
	return pq.Array(values)
}

// PostgresContactStore persists report contact records.
type PostgresContactStore struct {
	db *sql.DB
}

func NewPostgresContactStore(db *sql.DB) *PostgresContactStore {
	return &PostgresContactStore{db: db}
}

func (s *PostgresContactStore) Save(ctx context.Context, c models.Contact) error {
	query := `
		INSERT INTO report_contacts (
			id, report_id, email, followup_opt_in, updates_opt_in,
			token_hash, token_expires_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		c.ID,
		c.ReportID,
		c.Email,
		c.FollowupOptIn,
		c.UpdatesOptIn,
		c.TokenHash,
		c.TokenExpiresAt,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report contact: %w", err)
	}
	return nil
}

// PostgresExperienceStore persists the deprecated flat experience records.
type PostgresExperienceStore struct {
	db *sql.DB
}

func NewPostgresExperienceStore(db *sql.DB) *PostgresExperienceStore {
	return &PostgresExperienceStore{db: db}
}

func (s *PostgresExperienceStore) Save(ctx context.Context, e models.Experience) error {
	query := `
		INSERT INTO experiences (
			id, company, agency, role, country, happened,
			evidence, contact_email, consent, source, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		e.ID,
		e.Company,
		nullIfEmpty(e.Agency),
		e.Role,
		e.Country,
		e.Happened,
		nullIfEmpty(e.Evidence),
		nullIfEmpty(e.ContactEmail),
		e.Consent,
		e.Source,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}
	return nil
}
