package dto

import "net/http"

// Error codes returned by the API. Domain errors are normalized onto
// this set before status resolution.
const (
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeTooManyRequests     = "ERR_TOO_MANY_REQUESTS"
	ErrCodeResourceExhausted   = "ERR_RESOURCE_EXHAUSTED"
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeServiceUnavailable  = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// errorCodeHTTPStatus maps normalized error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeTooManyRequests:     http.StatusTooManyRequests,
	ErrCodeResourceExhausted:   http.StatusServiceUnavailable,
	ErrCodeServiceUnavailable:  http.StatusServiceUnavailable,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// domainErrorCodeMapping translates the codes raised by the domain and
// application layers into API error codes. Unknown codes fall through
// to ErrCodeInternal.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeConflict,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_INPUT":        ErrCodeBadRequest,
	"RESOURCE_EXHAUSTED":   ErrCodeResourceExhausted,

	"INVALID_CLAIM_NUMBER": ErrCodeBadRequest,
	"INVALID_CLAIM_TYPE":   ErrCodeBadRequest,
	"INVALID_STATUS":       ErrCodeBadRequest,
	"INVALID_AMOUNT":       ErrCodeBadRequest,
	"INVALID_QUANTITY":     ErrCodeBadRequest,
	"INVALID_PARTY":        ErrCodeBadRequest,
	"INVALID_DISPOSITION":  ErrCodeBadRequest,
	"INVALID_DOCUMENT":     ErrCodeBadRequest,
	"INVALID_ADJUSTMENT":   ErrCodeBadRequest,
	"INVALID_EVENT":        ErrCodeBadRequest,
}

// NormalizeErrorCode converts a domain error code to its API error code.
// Codes already in the ERR_ namespace pass through unchanged.
func NormalizeErrorCode(code string) string {
	if _, ok := errorCodeHTTPStatus[code]; ok {
		return code
	}
	if normalized, ok := domainErrorCodeMapping[code]; ok {
		return normalized
	}
	return ErrCodeInternal
}

// GetHTTPStatus returns the HTTP status for an API error code,
// defaulting to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
