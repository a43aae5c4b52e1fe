package models

import "encoding/json"

// SubmissionResponse is returned by every submission endpoint.
//
// The identifier is emitted under a category-specific key (registrationId,
// applicationId, messageId). EmailSent is omitted when nil so registrations can
// leave it out on full success.
type SubmissionResponse struct {
	Success    bool
	Message    string
	IDKey      string
	ID         string
	EmailSent  *bool
	EmailError string
	Error      string
}

// MarshalJSON flattens the response into the wire shape the front-end expects.
func (r SubmissionResponse) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"success": r.Success,
		"message": r.Message,
	}
	if r.IDKey != "" && r.ID != "" {
		out[r.IDKey] = r.ID
	}
	if r.EmailSent != nil {
		out["emailSent"] = *r.EmailSent
	}
	if r.EmailError != "" {
		out["emailError"] = r.EmailError
	}
	if r.Error != "" {
		out["error"] = r.Error
	}
	return json.Marshal(out)
}

// Bool returns a pointer to b, for optional response flags.
func Bool(b bool) *bool {
	return &b
}
