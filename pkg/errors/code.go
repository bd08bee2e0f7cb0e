package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Execution errors
// 12000-12999: Snippet errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10004
	ServiceUnavailable  ErrorCode = 10005

	// Database errors (10100-10199)
	DatabaseError  ErrorCode = 10100
	RecordNotFound ErrorCode = 10101

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	RequiredFieldEmpty ErrorCode = 10301

	// ========== Execution Errors (11000-11999) ==========

	LanguageNotSupported ErrorCode = 11000
	SourceWriteFailed    ErrorCode = 11001
	ExecutionFailed      ErrorCode = 11002
	ExecutionTimeout     ErrorCode = 11003
	CodeTooLarge         ErrorCode = 11004

	// ========== Snippet Errors (12000-12999) ==========

	SnippetNotFound     ErrorCode = 12000
	SnippetCreateFailed ErrorCode = 12001
	SnippetDisabled     ErrorCode = 12002
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",

	// Database
	DatabaseError:  "Database operation failed",
	RecordNotFound: "Record not found in database",

	// Cache
	CacheError: "Cache operation failed",

	// Validation
	ValidationFailed:   "Validation failed",
	RequiredFieldEmpty: "Required field is empty",

	// Execution
	LanguageNotSupported: "Programming language not supported",
	SourceWriteFailed:    "Failed to write source file",
	ExecutionFailed:      "Program did not complete successfully",
	ExecutionTimeout:     "Program exceeded the time limit",
	CodeTooLarge:         "Code is too large",

	// Snippet
	SnippetNotFound:     "Snippet not found",
	SnippetCreateFailed: "Failed to save snippet",
	SnippetDisabled:     "Snippet storage is not configured",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == SnippetNotFound, c == RecordNotFound:
		return 404
	case c == TooManyRequests:
		return 429
	case c == ServiceUnavailable, c == SnippetDisabled:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == LanguageNotSupported, c == CodeTooLarge:
		return 400
	case c == ExecutionFailed, c == ExecutionTimeout:
		// A failing user program is a normal outcome, not a server fault;
		// the envelope code carries the distinction.
		return 200
	default:
		return 500
	}
}
