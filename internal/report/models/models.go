// Package models defines the submission domain types: the validated
// submission produced by the schema, the persisted records, and the public
// receipt.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion tags stored reports with the intake schema that produced
// them.
const SchemaVersion = "report.v0"

// Enum types for the closed field vocabularies. Values are stored as-is, so
// they match the wire and database representations.
type (
	JobFamily       string
	Seniority       string
	Contract        string
	WorkMode        string
	Source          string
	ProcessStage    string
	Outcome         string
	RejectionStated string
	Requirement     string
	IdentifierType  string
)

const (
	OutcomeRejected    Outcome = "REJECTED"
	OutcomeGhosted     Outcome = "GHOSTED"
	OutcomeWithdrawn   Outcome = "WITHDRAWN_BY_CANDIDATE"
	OutcomeOther       Outcome = "OTHER"
	RejectionOtherText RejectionStated = "OTHER_STATED"
)

// Defaults applied when the caller omits an optional field.
const (
	DefaultJobFamily    JobFamily    = "OTHER"
	DefaultSeniority    Seniority    = "UNKNOWN"
	DefaultContract     Contract     = "UNKNOWN"
	DefaultWorkMode     WorkMode     = "UNKNOWN"
	DefaultSource       Source       = "OTHER"
	DefaultProcessStage ProcessStage = "APPLIED_ONLY"
	DefaultOutcome      Outcome      = OutcomeRejected
)

// ResolutionUnresolved is the initial status of every employer reference.
// Resolution to a canonical employer entity happens elsewhere; this service
// never advances it.
const ResolutionUnresolved = "UNRESOLVED"

// ValidatedSubmission is the normalized submission after schema validation
// and default application. Optional string fields hold "" when absent;
// optional numeric and date fields are pointers.
type ValidatedSubmission struct {
	SchemaVersion string

	ConsentTerms    bool
	ConsentNoPII    bool
	ConsentFollowup bool

	// Honeypot field; non-empty means bot traffic.
	Honeypot string

	EmployerCountry         string
	EmployerLegalName       string
	EmployerIdentifierType  IdentifierType
	EmployerIdentifierValue string
	EmployerCity            string
	EmployerWebsite         string

	JobTitle           string
	JobFamily          JobFamily
	Seniority          Seniority
	Contract           Contract
	WorkMode           WorkMode
	JobLocationCountry string
	JobLocationCity    string
	Source             Source
	JobPostURL         string

	AppliedAt  *time.Time
	ResponseAt *time.Time

	ProcessStage ProcessStage
	Outcome      Outcome
	GhostedDays  *int

	RequirementsListed         []Requirement
	RequirementsMet            []string
	SelfMatchRating            *int
	RequirementsMetExplanation string

	IssueTypes []string

	RejectionStated         RejectionStated
	RejectionStatedText     string
	RejectionMessageExcerpt string
	RejectionAssumed        []string
	AssumptionBasis         []string
	AssumptionBasisText     string

	EvidenceAvailable bool
	EvidenceTypes     []string
	EvidenceNotes     string

	Narrative string

	ContactEmail         string
	ContactOptInFollowup bool
	ContactOptInUpdates  bool

	ClientFingerprint string
}

// Receipt is the public acknowledgement of a submission. ReportID is empty
// when the honeypot suppressed persistence; the HTTP layer must not let the
// caller distinguish that case from success.
type Receipt struct {
	ReportID             uuid.UUID
	ConfirmationRequired bool
	Suppressed           bool
}

// EmployerRef is the unresolved, user-asserted description of a hiring
// organization.
type EmployerRef struct {
	ID               uuid.UUID
	Country          string
	InputName        string
	InputCity        string
	InputWebsite     string
	IdentifierType   string
	IdentifierValue  string
	ResolutionStatus string
	CreatedAt        time.Time
}

// Report is the durable record of one hiring-experience submission.
// Immutable after creation; no update or delete path exists.
type Report struct {
	ID            uuid.UUID
	SchemaVersion string
	EmployerRefID uuid.UUID

	ConsentTerms    bool
	ConsentNoPII    bool
	ConsentFollowup bool

	JobTitle           string
	JobFamily          JobFamily
	Seniority          Seniority
	Contract           Contract
	WorkMode           WorkMode
	JobLocationCountry string
	JobLocationCity    string
	Source             Source
	JobPostURL         string

	AppliedAt  *time.Time
	ResponseAt *time.Time

	ProcessStage ProcessStage
	Outcome      Outcome
	GhostedDays  *int

	RequirementsListed []Requirement
	RequirementsMet    []string
	SelfMatchRating    *int

	IssueTypes []string

	RejectionStated         RejectionStated
	RejectionStatedText     string
	RejectionMessageExcerpt string
	RejectionAssumed        []string
	AssumptionBasis         []string
	AssumptionBasisText     string

	EvidenceAvailable bool
	EvidenceTypes     []string
	EvidenceNotes     string

	Narrative string

	PIIFlag           bool
	ClientFingerprint string

	CreatedAt time.Time
}

// Contact holds the optional follow-up channel for a report. Only the hash
// of the confirmation token is stored.
type Contact struct {
	ID             uuid.UUID
	ReportID       uuid.UUID
	Email          string
	FollowupOptIn  bool
	UpdatesOptIn   bool
	TokenHash      string
	TokenExpiresAt time.Time
	CreatedAt      time.Time
}

// Experience is the flat record written by the deprecated v0 endpoint.
type Experience struct {
	ID           uuid.UUID
	Company      string
	Agency       string
	Role         string
	Country      string
	Happened     string
	Evidence     string
	ContactEmail string
	Consent      bool
	Source       string
	CreatedAt    time.Time
}
