package types

// Messages answered by the proxy without consulting the backend.
const (
	MessageInternal     = "Internal server error"
	MessageIDRequired   = "Flashcard ID is required"
	MessageInvalidID    = "Invalid ID"
	MessageBodyTooLarge = "Request body too large"
)

// ErrorResponse is the body of every error the proxy answers.
//
//	{"error": "Failed to fetch flashcard sets"}
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges an operation whose backend body is dropped.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// NewErrorResponse creates an ErrorResponse.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// NewServerError creates the generic 500 body. Internal details never reach
// the browser.
func NewServerError() *ErrorResponse {
	return &ErrorResponse{Error: MessageInternal}
}
