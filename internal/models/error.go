package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeGenerationFailed    = "GENERATION_FAILED"
	ErrCodeSandboxUnavailable  = "SANDBOX_UNAVAILABLE"
	ErrCodeIterationsExhausted = "ITERATIONS_EXHAUSTED"
)
