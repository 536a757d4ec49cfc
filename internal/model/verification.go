package model

// VerificationRequest is the body sent to the verification service
type VerificationRequest struct {
	UserID string `json:"userId"`
	Query  string `json:"query"`
}

// VerificationResponse is the aggregated result of one verification call
type VerificationResponse struct {
	RawResponse  *string `json:"raw_response,omitempty"`
	Success      bool    `json:"success"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// NewVerificationSuccess wraps a streamed response body
func NewVerificationSuccess(raw string) *VerificationResponse {
	return &VerificationResponse{RawResponse: &raw, Success: true}
}

// NewVerificationFailure records a failed call
func NewVerificationFailure(msg string) *VerificationResponse {
	return &VerificationResponse{Success: false, ErrorMessage: msg}
}

// IsValid reports whether the response can be shown to the user.
// An empty body from a successful call is still valid.
func (r *VerificationResponse) IsValid() bool {
	return r != nil && r.Success && r.RawResponse != nil
}

// Text returns the raw response or an empty string
func (r *VerificationResponse) Text() string {
	if r == nil || r.RawResponse == nil {
		return ""
	}
	return *r.RawResponse
}
