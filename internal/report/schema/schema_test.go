package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireline/internal/report/models"
)

// validPayload returns the smallest payload that passes every rule.
func validPayload() map[string]any {
	return map[string]any{
		"consent_terms":       true,
		"consent_no_pii":      true,
		"employer_country":    "BG",
		"employer_legal_name": "Acme Ltd",
		"job_title":           "Backend Engineer",
		"narrative":           strings.Repeat("The recruiter stopped replying. ", 3),
	}
}

func payloadWith(overrides map[string]any) map[string]any {
	p := validPayload()
	for k, v := range overrides {
		if v == nil {
			delete(p, k)
		} else {
			p[k] = v
		}
	}
	return p
}

func issueFor(t *testing.T, issues Issues, path string) Issue {
	t.Helper()
	for _, issue := range issues {
		if issue.Path == path {
			return issue
		}
	}
	t.Fatalf("no issue recorded for %q, got %v", path, issues)
	return Issue{}
}

func TestValidateMinimalPayload(t *testing.T) {
	v, issues := Validate(validPayload())
	require.Empty(t, issues)

	assert.Equal(t, models.SchemaVersion, v.SchemaVersion)
	assert.True(t, v.ConsentTerms)
	assert.True(t, v.ConsentNoPII)
	assert.False(t, v.ConsentFollowup)
	assert.Equal(t, "BG", v.EmployerCountry)
	assert.Equal(t, "Acme Ltd", v.EmployerLegalName)
	assert.Equal(t, "Backend Engineer", v.JobTitle)
}

func TestValidateAppliesDefaults(t *testing.T) {
	v, issues := Validate(validPayload())
	require.Empty(t, issues)

	assert.Equal(t, models.DefaultJobFamily, v.JobFamily)
	assert.Equal(t, models.DefaultSeniority, v.Seniority)
	assert.Equal(t, models.DefaultContract, v.Contract)
	assert.Equal(t, models.DefaultWorkMode, v.WorkMode)
	assert.Equal(t, models.DefaultSource, v.Source)
	assert.Equal(t, models.DefaultProcessStage, v.ProcessStage)
	assert.Equal(t, models.DefaultOutcome, v.Outcome)
	assert.Equal(t, []string{"OTHER"}, v.IssueTypes)
}

func TestValidateDefaultsAreIdempotent(t *testing.T) {
	first, issues := Validate(validPayload())
	require.Empty(t, issues)

	// Feed the defaulted values back in; nothing may change.
	again, issues := Validate(payloadWith(map[string]any{
		"job_family":    string(first.JobFamily),
		"seniority":     string(first.Seniority),
		"contract":      string(first.Contract),
		"work_mode":     string(first.WorkMode),
		"source":        string(first.Source),
		"process_stage": string(first.ProcessStage),
		"outcome":       string(first.Outcome),
		"issue_types":   first.IssueTypes,
	}))
	require.Empty(t, issues)
	assert.Equal(t, first, again)
}

func TestValidateIsDeterministic(t *testing.T) {
	bad := payloadWith(map[string]any{
		"employer_legal_name": nil,
		"job_title":           nil,
		"narrative":           "too short",
	})

	first, firstIssues := Validate(bad)
	second, secondIssues := Validate(bad)

	assert.Equal(t, first, second)
	assert.Equal(t, firstIssues, secondIssues)
	require.NotEmpty(t, firstIssues)
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		path    string
		message string
	}{
		{
			name:    "missing company name",
			payload: payloadWith(map[string]any{"employer_legal_name": nil}),
			path:    "employer_legal_name",
			message: "Company name is required.",
		},
		{
			name:    "missing country",
			payload: payloadWith(map[string]any{"employer_country": nil}),
			path:    "employer_country",
			message: "Country is required.",
		},
		{
			name:    "missing job title",
			payload: payloadWith(map[string]any{"job_title": nil}),
			path:    "job_title",
			message: "Role / Position is required.",
		},
		{
			name:    "missing narrative",
			payload: payloadWith(map[string]any{"narrative": nil}),
			path:    "narrative",
			message: "Description must be at least 50 characters.",
		},
		{
			name:    "consent_terms absent",
			payload: payloadWith(map[string]any{"consent_terms": nil}),
			path:    "consent_terms",
			message: "You must confirm good-faith submission.",
		},
		{
			name:    "consent_terms false",
			payload: payloadWith(map[string]any{"consent_terms": false}),
			path:    "consent_terms",
			message: "You must confirm good-faith submission.",
		},
		{
			name:    "consent_no_pii non-boolean",
			payload: payloadWith(map[string]any{"consent_no_pii": "yes"}),
			path:    "consent_no_pii",
			message: "You must confirm you did not include personal data in the narrative.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := Validate(tt.payload)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.message, issueFor(t, issues, tt.path).Message)
		})
	}
}

func TestValidateNarrativeLengthBoundary(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"narrative": strings.Repeat("a", 49)}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Description must be at least 50 characters.", issueFor(t, issues, "narrative").Message)

	_, issues = Validate(payloadWith(map[string]any{"narrative": strings.Repeat("a", 50)}))
	assert.Empty(t, issues)

	_, issues = Validate(payloadWith(map[string]any{"narrative": strings.Repeat("a", 4001)}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Must be at most 4000 characters.", issueFor(t, issues, "narrative").Message)
}

// Lengths count characters, not bytes: a Cyrillic narrative is twice its
// character count in UTF-8 bytes and must hit the same boundaries.
func TestValidateNarrativeLengthCountsCharacters(t *testing.T) {
	// 25 characters, 50 bytes: still below the minimum.
	_, issues := Validate(payloadWith(map[string]any{"narrative": strings.Repeat("ж", 25)}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Description must be at least 50 characters.", issueFor(t, issues, "narrative").Message)

	// 50 characters, 100 bytes: exactly at the minimum.
	_, issues = Validate(payloadWith(map[string]any{"narrative": strings.Repeat("ж", 50)}))
	assert.Empty(t, issues)

	// 4000 characters, 8000 bytes: exactly at the maximum.
	_, issues = Validate(payloadWith(map[string]any{"narrative": strings.Repeat("ж", 4000)}))
	assert.Empty(t, issues)

	// 4001 characters: over.
	_, issues = Validate(payloadWith(map[string]any{"narrative": strings.Repeat("ж", 4001)}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Must be at most 4000 characters.", issueFor(t, issues, "narrative").Message)
}

func TestValidateCompanyNameCountsCharacters(t *testing.T) {
	// Two Cyrillic characters meet the 2-character minimum.
	v, issues := Validate(payloadWith(map[string]any{"employer_legal_name": "БГ"}))
	require.Empty(t, issues)
	assert.Equal(t, "БГ", v.EmployerLegalName)

	// One character fails it regardless of byte width.
	_, issues = Validate(payloadWith(map[string]any{"employer_legal_name": "Б"}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Company name is required.", issueFor(t, issues, "employer_legal_name").Message)
}

func TestValidateTrimsStrings(t *testing.T) {
	v, issues := Validate(payloadWith(map[string]any{
		"employer_legal_name": "  Acme Ltd  ",
		"job_title":           "\tBackend Engineer\n",
	}))
	require.Empty(t, issues)
	assert.Equal(t, "Acme Ltd", v.EmployerLegalName)
	assert.Equal(t, "Backend Engineer", v.JobTitle)
}

func TestValidateCountryUppercased(t *testing.T) {
	v, issues := Validate(payloadWith(map[string]any{"employer_country": "bg"}))
	require.Empty(t, issues)
	assert.Equal(t, "BG", v.EmployerCountry)
}

func TestValidateTypeMismatchesBecomeIssues(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		path    string
		message string
	}{
		{
			name:    "numeric job title",
			payload: payloadWith(map[string]any{"job_title": float64(42)}),
			path:    "job_title",
			message: "Must be a string.",
		},
		{
			name:    "string ghosted days",
			payload: payloadWith(map[string]any{"outcome": "GHOSTED", "ghosted_days": "twelve"}),
			path:    "ghosted_days",
			message: "Must be a whole number.",
		},
		{
			name:    "fractional ghosted days",
			payload: payloadWith(map[string]any{"outcome": "GHOSTED", "ghosted_days": 12.5}),
			path:    "ghosted_days",
			message: "Must be a whole number.",
		},
		{
			name:    "scalar issue types",
			payload: payloadWith(map[string]any{"issue_types": "GHOSTING"}),
			path:    "issue_types",
			message: "Must be an array of strings.",
		},
		{
			name:    "string consent followup",
			payload: payloadWith(map[string]any{"consent_followup": "true"}),
			path:    "consent_followup",
			message: "Must be a boolean.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := Validate(tt.payload)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.message, issueFor(t, issues, tt.path).Message)
		})
	}
}

func TestValidateIgnoresUnknownFields(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{
		"definitely_not_a_field": "whatever",
		"another_one":            []any{1, 2, 3},
	}))
	assert.Empty(t, issues)
}

func TestValidateEnumRejectsUnknownVariant(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"seniority": "WIZARD"}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Invalid value.", issueFor(t, issues, "seniority").Message)
}

func TestValidateGhostedDays(t *testing.T) {
	t.Run("required when outcome is GHOSTED", func(t *testing.T) {
		_, issues := Validate(payloadWith(map[string]any{"outcome": "GHOSTED"}))
		require.NotEmpty(t, issues)
		assert.Equal(t, "Ghosted days is required when outcome is GHOSTED.", issueFor(t, issues, "ghosted_days").Message)
	})

	t.Run("accepted in range", func(t *testing.T) {
		v, issues := Validate(payloadWith(map[string]any{"outcome": "GHOSTED", "ghosted_days": float64(14)}))
		require.Empty(t, issues)
		require.NotNil(t, v.GhostedDays)
		assert.Equal(t, 14, *v.GhostedDays)
	})

	t.Run("rejected out of range", func(t *testing.T) {
		_, issues := Validate(payloadWith(map[string]any{"outcome": "GHOSTED", "ghosted_days": float64(366)}))
		require.NotEmpty(t, issues)
		assert.Equal(t, "Must be between 1 and 365.", issueFor(t, issues, "ghosted_days").Message)
	})
}

func TestValidateIdentifierCoupling(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"employer_identifier_type": "EIK"}))
	require.NotEmpty(t, issues)
	assert.Equal(t,
		"Company identifier value is required when identifier type is provided.",
		issueFor(t, issues, "employer_identifier_value").Message,
	)

	v, issues := Validate(payloadWith(map[string]any{
		"employer_identifier_type":  "EIK",
		"employer_identifier_value": "123456789",
	}))
	require.Empty(t, issues)
	assert.Equal(t, models.IdentifierType("EIK"), v.EmployerIdentifierType)
	assert.Equal(t, "123456789", v.EmployerIdentifierValue)
}

func TestValidateResponseDateOrdering(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{
		"applied_at":  "2026-03-10",
		"response_at": "2026-03-01",
	}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Response date must be after application date.", issueFor(t, issues, "response_at").Message)

	v, issues := Validate(payloadWith(map[string]any{
		"applied_at":  "2026-03-01",
		"response_at": "2026-03-10",
	}))
	require.Empty(t, issues)
	require.NotNil(t, v.AppliedAt)
	require.NotNil(t, v.ResponseAt)
}

func TestValidateBadDateFormat(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"applied_at": "10.03.2026"}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Must be a date in yyyy-mm-dd format.", issueFor(t, issues, "applied_at").Message)
}

func TestValidateEvidenceTypes(t *testing.T) {
	t.Run("required when evidence available", func(t *testing.T) {
		_, issues := Validate(payloadWith(map[string]any{"evidence_available": true}))
		require.NotEmpty(t, issues)
		assert.Equal(t, "Evidence type(s) required when evidence is available.", issueFor(t, issues, "evidence_types").Message)
	})

	t.Run("kept when evidence available", func(t *testing.T) {
		v, issues := Validate(payloadWith(map[string]any{
			"evidence_available": true,
			"evidence_types":     []any{"EMAIL_THREAD"},
		}))
		require.Empty(t, issues)
		assert.Equal(t, []string{"EMAIL_THREAD"}, v.EvidenceTypes)
	})

	t.Run("dropped when evidence not available", func(t *testing.T) {
		v, issues := Validate(payloadWith(map[string]any{
			"evidence_types": []any{"EMAIL_THREAD"},
		}))
		require.Empty(t, issues)
		assert.Nil(t, v.EvidenceTypes)
	})
}

func TestValidateContactEmail(t *testing.T) {
	t.Run("requires followup opt-in", func(t *testing.T) {
		_, issues := Validate(payloadWith(map[string]any{"contact_email": "reporter@example.com"}))
		require.NotEmpty(t, issues)
		assert.Equal(t, "You must allow follow-up when providing email.", issueFor(t, issues, "contact_opt_in_followup").Message)
	})

	t.Run("accepted with opt-in", func(t *testing.T) {
		v, issues := Validate(payloadWith(map[string]any{
			"contact_email":           "reporter@example.com",
			"contact_opt_in_followup": true,
		}))
		require.Empty(t, issues)
		assert.Equal(t, "reporter@example.com", v.ContactEmail)
		assert.True(t, v.ContactOptInFollowup)
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		_, issues := Validate(payloadWith(map[string]any{
			"contact_email":           "not-an-email",
			"contact_opt_in_followup": true,
		}))
		require.NotEmpty(t, issues)
		assert.Equal(t, "Email is not valid.", issueFor(t, issues, "contact_email").Message)
	})
}

func TestValidateRejectionStatedText(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"rejection_stated": "OTHER_STATED"}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Please specify the stated rejection reason.", issueFor(t, issues, "rejection_stated_text").Message)

	_, issues = Validate(payloadWith(map[string]any{
		"rejection_stated":      "OTHER_STATED",
		"rejection_stated_text": "budget freeze mid-process",
	}))
	assert.Empty(t, issues)
}

func TestValidateURLs(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"job_post_url": "not a url"}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Must be a valid URL.", issueFor(t, issues, "job_post_url").Message)

	v, issues := Validate(payloadWith(map[string]any{"job_post_url": "https://jobs.example.com/123"}))
	require.Empty(t, issues)
	assert.Equal(t, "https://jobs.example.com/123", v.JobPostURL)
}

func TestValidateRequirements(t *testing.T) {
	v, issues := Validate(payloadWith(map[string]any{
		"requirements_listed": []any{"YEARS_EXPERIENCE", "SPECIFIC_SKILLS"},
		"requirements_met":    []any{"YEARS_EXPERIENCE", "PREFER_NOT_TO_SAY"},
		"self_match_rating":   float64(4),
	}))
	require.Empty(t, issues)
	assert.Equal(t, []models.Requirement{"YEARS_EXPERIENCE", "SPECIFIC_SKILLS"}, v.RequirementsListed)
	assert.Equal(t, []string{"YEARS_EXPERIENCE", "PREFER_NOT_TO_SAY"}, v.RequirementsMet)
	require.NotNil(t, v.SelfMatchRating)
	assert.Equal(t, 4, *v.SelfMatchRating)

	_, issues = Validate(payloadWith(map[string]any{
		"requirements_listed": []any{"PREFER_NOT_TO_SAY"},
	}))
	require.NotEmpty(t, issues)
	assert.Equal(t, "Invalid value: PREFER_NOT_TO_SAY", issueFor(t, issues, "requirements_listed").Message)
}

func TestValidateIssueTypesFallback(t *testing.T) {
	v, issues := Validate(payloadWith(map[string]any{"issue_types": []any{}}))
	require.Empty(t, issues)
	assert.Equal(t, []string{"OTHER"}, v.IssueTypes)

	v, issues = Validate(payloadWith(map[string]any{"issue_types": []any{"GHOSTING", "DISCRIMINATION"}}))
	require.Empty(t, issues)
	assert.Equal(t, []string{"GHOSTING", "DISCRIMINATION"}, v.IssueTypes)
}

func TestValidateHoneypotCarried(t *testing.T) {
	v, issues := Validate(payloadWith(map[string]any{"hp": "gotcha"}))
	require.Empty(t, issues)
	assert.Equal(t, "gotcha", v.Honeypot)
}

// An oversized trap value must still validate cleanly and trip the trap,
// never bounce back to the bot as a field error.
func TestValidateHoneypotUncapped(t *testing.T) {
	long := strings.Repeat("spam ", 2000)
	v, issues := Validate(payloadWith(map[string]any{"hp": long}))
	require.Empty(t, issues)
	assert.Equal(t, strings.TrimSpace(long), v.Honeypot)
}

func TestValidateSchemaVersion(t *testing.T) {
	_, issues := Validate(payloadWith(map[string]any{"schema_version": "report.v9"}))
	require.NotEmpty(t, issues)
	assert.Equal(t, `Unsupported schema version "report.v9".`, issueFor(t, issues, "schema_version").Message)

	_, issues = Validate(payloadWith(map[string]any{"schema_version": models.SchemaVersion}))
	assert.Empty(t, issues)
}
