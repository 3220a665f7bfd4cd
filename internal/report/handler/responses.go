package handler

// submitResponse is the success envelope of the authoritative endpoint.
// ReportID is omitted for honeypot-suppressed submissions, matching a plain
// success as far as the caller can tell.
type submitResponse struct {
	OK       bool             `json:"ok"`
	ReportID string           `json:"report_id,omitempty"`
	Contact  *contactResponse `json:"contact,omitempty"`
}

// contactResponse signals that a confirmation email flow is pending. The raw
// token is never part of any response.
type contactResponse struct {
	ConfirmationRequired bool `json:"confirmation_required"`
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	OK          bool                `json:"ok"`
	Error       string              `json:"error"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// legacyResponse matches the v0 endpoint's wire format.
type legacyResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}
