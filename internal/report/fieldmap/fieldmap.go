// Package fieldmap translates internal validation field paths into the
// public form's field names. The intake schema and the form grew separate
// vocabularies; this table is the single place that reconciles them.
package fieldmap

import (
	"hireline/internal/report/schema"
	pstrings "hireline/pkg/platform/strings"
)

// FormBucket collects issues for internal paths the form has no field for.
const FormBucket = "_form"

// fieldMap maps internal schema paths to the form's field names. Anything
// unmapped falls under FormBucket.
var fieldMap = map[string]string{
	"employer_legal_name": "company",
	"employer_country":    "country",
	"job_title":           "role",
	"narrative":           "happened",
	"evidence_notes":      "evidence",
	"contact_email":       "email",
	"consent_terms":       "consentTruthful",
	"consent_no_pii":      "consentNoPII",
}

// ToFieldErrors groups issue messages by public field name, deduplicating
// messages per field while preserving their order.
func ToFieldErrors(issues schema.Issues) map[string][]string {
	out := make(map[string][]string)
	for _, issue := range issues {
		key, ok := fieldMap[issue.Path]
		if !ok {
			key = FormBucket
		}
		msg := issue.Message
		if msg == "" {
			msg = "Invalid value."
		}
		out[key] = append(out[key], msg)
	}
	for k := range out {
		out[k] = pstrings.DedupeAndTrim(out[k])
	}
	return out
}
