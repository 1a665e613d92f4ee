// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail() helper
// and give clients a stable, machine-readable error taxonomy alongside the
// human-readable message.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, unauthorized, not_found) mirror common HTTP
//     status semantics.
//   - Domain-specific codes (invalid_mode, unsupported_conversion) carry
//     information a status code alone cannot.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Credential-specific:
	ErrCodeTokenExpired = "token_expired"
	ErrCodeEmailTaken   = "email_taken"

	// Conversion-specific:
	ErrCodeInvalidMode           = "invalid_mode"
	ErrCodeUnsupportedConversion = "unsupported_conversion"
	ErrCodeConversionFailed      = "conversion_failed"

	// Upload-specific:
	ErrCodeUnsupportedFileType = "unsupported_file_type"
	ErrCodeFileTooLarge        = "file_too_large"
)
