package domain

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required":        "This field is required",
	"email":           "Must be a valid email address",
	"max":             "Exceeds maximum length",
	"min":             "Below minimum length",
	"datetime":        "Must be a date in YYYY-MM-DD format",
	"notblank":        "Must not be blank",
	"stage":           "Must be one of: Lead, Qualified, Proposal Sent, In Negotiation, Won",
	"proposal_status": "Must be one of: none, In Negotiation, On Hold, Proposal Rejected",
	"priority":        "Must be one of: low, medium, high",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeBadRequest = "bad_request"
	ErrorTypeConflict   = "conflict"
	ErrorTypeInternal   = "internal_error"
)
