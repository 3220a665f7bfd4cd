// Package schema validates the untrusted submission payload and normalizes
// it into a ValidatedSubmission. Validation is a pure function over a decoded
// JSON object: malformed, missing, or wrong-typed fields are reported as
// issues, never as panics or decode faults. Unknown fields are ignored.
package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"hireline/internal/report/models"
)

// Issue describes one failed rule, tagged with the internal field path.
type Issue struct {
	Path    string
	Message string
}

// Issues is the full set of validation failures for a payload.
type Issues []Issue

func (is Issues) Error() string {
	if len(is) == 0 {
		return "no validation issues"
	}
	parts := make([]string, len(is))
	for i, issue := range is {
		parts[i] = issue.Path + ": " + issue.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Closed vocabularies. These must stay in sync with the database check
// constraints.
var (
	IdentifierTypes = []string{"EIK", "VAT", "REG_NUMBER", "OTHER"}

	JobFamilies = []string{
		"IT", "ENGINEERING", "FINANCE", "SALES", "MARKETING", "HR",
		"OPERATIONS", "CUSTOMER_SUPPORT", "HEALTHCARE", "EDUCATION",
		"LEGAL", "OTHER",
	}

	Seniorities = []string{
		"INTERN", "JUNIOR", "MID", "SENIOR", "LEAD", "MANAGER",
		"DIRECTOR", "EXECUTIVE", "UNKNOWN",
	}

	Contracts = []string{"PERMANENT", "TEMPORARY", "FREELANCE", "INTERNSHIP", "UNKNOWN"}

	WorkModes = []string{"ONSITE", "HYBRID", "REMOTE", "UNKNOWN"}

	Sources = []string{"COMPANY_WEBSITE", "LINKEDIN", "RECRUITER", "JOB_BOARD", "REFERRAL", "OTHER"}

	ProcessStages = []string{
		"APPLIED_ONLY", "SCREENING", "ASSESSMENT", "INTERVIEW_HR",
		"INTERVIEW_TECH", "FINAL_ROUND", "OFFER_WITHDRAWN",
	}

	Outcomes = []string{"REJECTED", "GHOSTED", "WITHDRAWN_BY_CANDIDATE", "OTHER"}

	RejectionReasons = []string{
		"NOT_SELECTED_UNSPECIFIED", "POSITION_FILLED", "ROLE_CANCELLED",
		"MISSING_REQUIRED_SKILLS", "INSUFFICIENT_EXPERIENCE", "OVERQUALIFIED",
		"SALARY_MISMATCH", "LOCATION_MISMATCH", "WORK_AUTH_REQUIRED",
		"FAILED_ASSESSMENT", "CULTURE_FIT", "OTHER_STATED",
	}

	Requirements = []string{
		"YEARS_EXPERIENCE", "SPECIFIC_SKILLS", "DEGREE_CERT", "LANGUAGE",
		"LOCATION_RELOCATION", "WORK_AUTHORIZATION", "SALARY_EXPECTATIONS",
		"PORTFOLIO_GITHUB", "OTHER",
	}

	// PreferNotToSay is allowed in requirements_met alongside the
	// requirement tags.
	PreferNotToSay = "PREFER_NOT_TO_SAY"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

const dateLayout = "2006-01-02"

// Validate checks every rule over the raw payload and returns either the
// normalized submission or the full list of issues. It never returns both.
// Validation is deterministic: the same input always yields the same output
// and the same issue ordering.
func Validate(raw map[string]any) (models.ValidatedSubmission, Issues) {
	p := &parser{raw: raw}
	var v models.ValidatedSubmission

	v.SchemaVersion = models.SchemaVersion
	if sv, ok := p.peekString("schema_version"); ok && sv != models.SchemaVersion {
		p.add("schema_version", fmt.Sprintf("Unsupported schema version %q.", sv))
	}

	// Consents must literally be true.
	v.ConsentTerms = p.literalTrue("consent_terms", "You must confirm good-faith submission.")
	v.ConsentNoPII = p.literalTrue("consent_no_pii", "You must confirm you did not include personal data in the narrative.")
	v.ConsentFollowup = p.optionalBool("consent_followup", false)

	// The trap field takes any string uncapped: an oversized value must
	// still trip the trap, never surface as a validation error.
	if hp, ok := p.peekString("hp"); ok {
		v.Honeypot = hp
	}

	// Employer identity.
	v.EmployerCountry = p.iso2("employer_country", true)
	v.EmployerLegalName = p.requiredString("employer_legal_name", 2, 200, "Company name is required.")
	v.EmployerIdentifierType = models.IdentifierType(p.enumOptional("employer_identifier_type", IdentifierTypes))
	v.EmployerIdentifierValue = p.optionalString("employer_identifier_value", 2, 32, "")
	v.EmployerCity = p.optionalString("employer_city", 0, 120, "")
	v.EmployerWebsite = p.urlField("employer_website", 400)

	// Job.
	v.JobTitle = p.requiredString("job_title", 2, 120, "Role / Position is required.")
	v.JobFamily = models.JobFamily(p.enumDefault("job_family", JobFamilies, string(models.DefaultJobFamily)))
	v.Seniority = models.Seniority(p.enumDefault("seniority", Seniorities, string(models.DefaultSeniority)))
	v.Contract = models.Contract(p.enumDefault("contract", Contracts, string(models.DefaultContract)))
	v.WorkMode = models.WorkMode(p.enumDefault("work_mode", WorkModes, string(models.DefaultWorkMode)))
	v.JobLocationCountry = p.iso2("job_location_country", false)
	v.JobLocationCity = p.optionalString("job_location_city", 0, 120, "")
	v.Source = models.Source(p.enumDefault("source", Sources, string(models.DefaultSource)))
	v.JobPostURL = p.urlField("job_post_url", 600)

	// Timeline.
	v.AppliedAt = p.dateField("applied_at")
	v.ResponseAt = p.dateField("response_at")

	// Process and outcome.
	v.ProcessStage = models.ProcessStage(p.enumDefault("process_stage", ProcessStages, string(models.DefaultProcessStage)))
	v.Outcome = models.Outcome(p.enumDefault("outcome", Outcomes, string(models.DefaultOutcome)))
	v.GhostedDays = p.optionalInt("ghosted_days", 1, 365)

	// Requirements and self-assessment.
	v.RequirementsListed = toRequirements(p.enumArray("requirements_listed", Requirements))
	v.RequirementsMet = p.enumArray("requirements_met", append(append([]string{}, Requirements...), PreferNotToSay))
	v.SelfMatchRating = p.optionalInt("self_match_rating", 1, 5)
	v.RequirementsMetExplanation = p.optionalString("requirements_met_explanation", 0, 500, "")

	// Issue tags. Absent or empty resolves to the OTHER sentinel.
	v.IssueTypes = p.stringArray("issue_types", 2)
	if len(v.IssueTypes) == 0 {
		v.IssueTypes = []string{"OTHER"}
	}

	// Rejection details.
	v.RejectionStated = models.RejectionStated(p.enumOptional("rejection_stated", RejectionReasons))
	v.RejectionStatedText = p.optionalString("rejection_stated_text", 0, 200, "")
	v.RejectionMessageExcerpt = p.optionalString("rejection_message_excerpt", 0, 300, "")
	v.RejectionAssumed = p.stringArray("rejection_assumed", 2)
	v.AssumptionBasis = p.stringArray("assumption_basis", 2)
	v.AssumptionBasisText = p.optionalString("assumption_basis_text", 0, 300, "")

	// Evidence metadata. Files are never accepted, only descriptions.
	v.EvidenceAvailable = p.optionalBool("evidence_available", false)
	v.EvidenceTypes = p.stringArray("evidence_types", 2)
	v.EvidenceNotes = p.optionalString("evidence_notes", 0, 300, "")

	v.Narrative = p.requiredString("narrative", 50, 4000, "Description must be at least 50 characters.")

	// Contact.
	v.ContactEmail = p.emailField("contact_email", 254)
	v.ContactOptInFollowup = p.optionalBool("contact_opt_in_followup", false)
	v.ContactOptInUpdates = p.optionalBool("contact_opt_in_updates", false)

	v.ClientFingerprint = p.optionalString("client_fingerprint", 0, 120, "")

	crossFieldRules(p, &v)

	if len(p.issues) > 0 {
		return models.ValidatedSubmission{}, p.issues
	}

	// Evidence types only carry meaning when evidence is available.
	if !v.EvidenceAvailable {
		v.EvidenceTypes = nil
	}

	return v, nil
}

// crossFieldRules enforces the conditional requirements that reference more
// than one field.
func crossFieldRules(p *parser, v *models.ValidatedSubmission) {
	if v.EmployerIdentifierType != "" && v.EmployerIdentifierValue == "" {
		p.add("employer_identifier_value", "Company identifier value is required when identifier type is provided.")
	}

	if v.AppliedAt != nil && v.ResponseAt != nil && v.ResponseAt.Before(*v.AppliedAt) {
		p.add("response_at", "Response date must be after application date.")
	}

	if v.Outcome == models.OutcomeGhosted && v.GhostedDays == nil {
		p.add("ghosted_days", "Ghosted days is required when outcome is GHOSTED.")
	}

	if v.RejectionStated == models.RejectionOtherText && v.RejectionStatedText == "" {
		p.add("rejection_stated_text", "Please specify the stated rejection reason.")
	}

	if v.EvidenceAvailable && len(v.EvidenceTypes) == 0 {
		p.add("evidence_types", "Evidence type(s) required when evidence is available.")
	}

	if v.ContactEmail != "" && !v.ContactOptInFollowup {
		p.add("contact_opt_in_followup", "You must allow follow-up when providing email.")
	}
}

func toRequirements(values []string) []models.Requirement {
	if values == nil {
		return nil
	}
	out := make([]models.Requirement, len(values))
	for i, s := range values {
		out[i] = models.Requirement(s)
	}
	return out
}

// urlField validates an optional absolute http(s) URL.
func (p *parser) urlField(key string, max int) string {
	s := p.optionalString(key, 0, max, "")
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		p.add(key, "Must be a valid URL.")
		return ""
	}
	return s
}

// emailField validates an optional email address.
func (p *parser) emailField(key string, max int) string {
	s := p.optionalString(key, 0, max, "")
	if s == "" {
		return ""
	}
	if !emailPattern.MatchString(s) {
		p.add(key, "Email is not valid.")
		return ""
	}
	return s
}

// dateField validates an optional yyyy-mm-dd date.
func (p *parser) dateField(key string) *time.Time {
	s := p.optionalString(key, 0, 10, "")
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		p.add(key, "Must be a date in yyyy-mm-dd format.")
		return nil
	}
	return &t
}

// iso2 validates a 2-letter country code.
func (p *parser) iso2(key string, required bool) string {
	var s string
	if required {
		s = p.requiredString(key, 2, 2, "Country is required.")
	} else {
		s = p.optionalString(key, 0, 2, "")
	}
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) != 2 {
		p.add(key, "Must be a 2-letter country code.")
		return ""
	}
	return strings.ToUpper(s)
}
