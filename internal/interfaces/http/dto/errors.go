package dto

import "net/http"

// Error codes surfaced to API clients. Domain error codes pass through
// unchanged; this table decides the HTTP status only.

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	"NOT_FOUND":         http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,
	"VARIANT_NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS": http.StatusConflict,
	"LOCK_TIMEOUT":   http.StatusConflict,

	"UNAUTHORIZED": http.StatusUnauthorized,

	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_QUANTITY":     http.StatusBadRequest,
	"EMPTY_ORDER":          http.StatusBadRequest,
	"INVALID_REFERENCE":    http.StatusBadRequest,
	"INVALID_NAME":         http.StatusBadRequest,
	"INVALID_ADDRESS_DATA": http.StatusBadRequest,
	"INVALID_CONTACT":      http.StatusBadRequest,

	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"INVALID_STATUS":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"INVALID_ADDRESS":        http.StatusUnprocessableEntity,
	"INVALID_PAYMENT_METHOD": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
// for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
