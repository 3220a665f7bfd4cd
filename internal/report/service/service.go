// Package service orchestrates the persistence of a validated submission:
// employer reference, raw report, optional contact record, and audit events,
// in that order, inside one transaction.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hireline/internal/audit"
	"hireline/internal/platform/metrics"
	"hireline/internal/platform/middleware"
	"hireline/internal/report/models"
	"hireline/internal/report/pii"
	"hireline/internal/report/store"
	"hireline/internal/report/token"
	"hireline/pkg/httperrors"
	"hireline/pkg/platform/tx"
)

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Service owns the lifecycle of all submission records for the duration of
// one request. After the transaction commits nothing mutates them again.
type Service struct {
	employers store.EmployerRefStore
	reports   store.ReportStore
	contacts  store.ContactStore
	audits    audit.Store
	runner    tx.Runner
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics attaches Prometheus metrics. Nil metrics are safe to skip.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(
	employers store.EmployerRefStore,
	reports store.ReportStore,
	contacts store.ContactStore,
	audits audit.Store,
	runner tx.Runner,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		employers: employers,
		reports:   reports,
		contacts:  contacts,
		audits:    audits,
		runner:    runner,
		logger:    logger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit persists one validated submission and returns its public receipt.
// A non-empty honeypot suppresses all persistence while still returning a
// receipt the HTTP layer renders as success.
func (s *Service) Submit(ctx context.Context, sub models.ValidatedSubmission) (models.Receipt, error) {
	if sub.Honeypot != "" {
		s.metrics.IncHoneypotTrips()
		s.logger.InfoContext(ctx, "honeypot triggered, discarding submission")
		return models.Receipt{Suppressed: true}, nil
	}

	start := s.clock()
	receipt, err := s.persist(ctx, sub)
	if err != nil {
		s.metrics.IncPersistenceErrors()
		s.logger.ErrorContext(ctx, "submission write sequence failed", "error", err)
		return models.Receipt{}, httperrors.Wrap(err, httperrors.CodeInternal, "failed to store submission")
	}

	s.metrics.IncReportsSubmitted()
	s.metrics.ObserveSubmit(s.clock().Sub(start))
	return receipt, nil
}

// persist runs the ordered write sequence inside one transaction so a
// failure in any step rolls back the earlier ones.
func (s *Service) persist(ctx context.Context, sub models.ValidatedSubmission) (models.Receipt, error) {
	now := s.clock().UTC()
	reportID := uuid.New()
	confirmationRequired := false

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		employerRef := models.EmployerRef{
			ID:               uuid.New(),
			Country:          sub.EmployerCountry,
			InputName:        sub.EmployerLegalName,
			InputCity:        sub.EmployerCity,
			InputWebsite:     sub.EmployerWebsite,
			IdentifierType:   string(sub.EmployerIdentifierType),
			IdentifierValue:  sub.EmployerIdentifierValue,
			ResolutionStatus: models.ResolutionUnresolved,
			CreatedAt:        now,
		}
		if err := s.employers.Save(ctx, employerRef); err != nil {
			return err
		}

		piiFlag := pii.Detect(sub.Narrative) ||
			(sub.RejectionMessageExcerpt != "" && pii.Detect(sub.RejectionMessageExcerpt))

		if err := s.reports.Save(ctx, buildReport(reportID, employerRef.ID, sub, piiFlag, now)); err != nil {
			return err
		}

		if sub.ContactEmail != "" {
			confirmation, err := token.Issue(now)
			if err != nil {
				return err
			}
			contact := models.Contact{
				ID:             uuid.New(),
				ReportID:       reportID,
				Email:          sub.ContactEmail,
				FollowupOptIn:  true,
				UpdatesOptIn:   sub.ContactOptInUpdates,
				TokenHash:      confirmation.Hash,
				TokenExpiresAt: confirmation.ExpiresAt,
				CreatedAt:      now,
			}
			if err := s.contacts.Save(ctx, contact); err != nil {
				return err
			}
			confirmationRequired = true

			tokenEvent := audit.Event{
				ID:         uuid.New(),
				Actor:      audit.ActorSystem,
				Action:     audit.ActionContactTokenCreated,
				EntityType: audit.EntityReport,
				EntityID:   reportID,
				Meta: map[string]any{
					"expires_at": confirmation.ExpiresAt.Format(time.RFC3339),
				},
				CreatedAt: now,
			}
			if err := s.audits.Append(ctx, tokenEvent); err != nil {
				return err
			}
		}

		meta := map[string]any{
			"schema_version":   sub.SchemaVersion,
			"employer_country": sub.EmployerCountry,
			"pii_flag":         piiFlag,
		}
		// Crawler traffic that makes it past the honeypot is still worth a
		// mark on the trail.
		if middleware.IsCrawler(ctx) {
			meta["crawler"] = true
			meta["user_agent"] = middleware.GetUserAgent(ctx)
		}

		submittedEvent := audit.Event{
			ID:         uuid.New(),
			Actor:      audit.ActorAnon,
			Action:     audit.ActionReportSubmitted,
			EntityType: audit.EntityReport,
			EntityID:   reportID,
			Meta:       meta,
			CreatedAt:  now,
		}
		return s.audits.Append(ctx, submittedEvent)
	})
	if err != nil {
		return models.Receipt{}, err
	}

	return models.Receipt{ReportID: reportID, ConfirmationRequired: confirmationRequired}, nil
}

// buildReport derives the stored report from the validated submission.
// Follow-up consent is implied by supplying a contact email; ghosted days
// only carry meaning for the GHOSTED outcome.
func buildReport(id, employerRefID uuid.UUID, sub models.ValidatedSubmission, piiFlag bool, now time.Time) models.Report {
	consentFollowup := sub.ConsentFollowup
	if sub.ContactEmail != "" {
		consentFollowup = true
	}

	var ghostedDays *int
	if sub.Outcome == models.OutcomeGhosted {
		ghostedDays = sub.GhostedDays
	}

	return models.Report{
		ID:            id,
		SchemaVersion: sub.SchemaVersion,
		EmployerRefID: employerRefID,

		ConsentTerms:    sub.ConsentTerms,
		ConsentNoPII:    sub.ConsentNoPII,
		ConsentFollowup: consentFollowup,

		JobTitle:           sub.JobTitle,
		JobFamily:          sub.JobFamily,
		Seniority:          sub.Seniority,
		Contract:           sub.Contract,
		WorkMode:           sub.WorkMode,
		JobLocationCountry: sub.JobLocationCountry,
		JobLocationCity:    sub.JobLocationCity,
		Source:             sub.Source,
		JobPostURL:         sub.JobPostURL,

		AppliedAt:  sub.AppliedAt,
		ResponseAt: sub.ResponseAt,

		ProcessStage: sub.ProcessStage,
		Outcome:      sub.Outcome,
		GhostedDays:  ghostedDays,

		RequirementsListed: sub.RequirementsListed,
		RequirementsMet:    sub.RequirementsMet,
		SelfMatchRating:    sub.SelfMatchRating,

		IssueTypes: sub.IssueTypes,

		RejectionStated:         sub.RejectionStated,
		RejectionStatedText:     sub.RejectionStatedText,
		RejectionMessageExcerpt: sub.RejectionMessageExcerpt,
		RejectionAssumed:        sub.RejectionAssumed,
		AssumptionBasis:         sub.AssumptionBasis,
		AssumptionBasisText:     sub.AssumptionBasisText,

		EvidenceAvailable: sub.EvidenceAvailable,
		EvidenceTypes:     sub.EvidenceTypes,
		EvidenceNotes:     sub.EvidenceNotes,

		Narrative: sub.Narrative,

		PIIFlag:           piiFlag,
		ClientFingerprint: sub.ClientFingerprint,

		CreatedAt: now,
	}
}
