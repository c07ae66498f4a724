package dto

import "net/http"

// API error codes, ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
	ErrCodeInvalidState     = "ERR_INVALID_STATE"

	ErrCodeSchemaNotFound     = "ERR_SCHEMA_NOT_FOUND"
	ErrCodeSchemaInvalid      = "ERR_SCHEMA_INVALID"
	ErrCodeInvalidContext     = "ERR_INVALID_CONTEXT"
	ErrCodeRenderFailed       = "ERR_RENDER_FAILED"
	ErrCodeStreamNotFound     = "ERR_STREAM_NOT_FOUND"
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
	ErrCodePrinterUnavailable = "ERR_PRINTER_UNAVAILABLE"
)

// Status returns the HTTP status of an API error code; unknown codes are 500
func Status(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
		ErrCodeSchemaInvalid, ErrCodeInvalidContext:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound, ErrCodeSchemaNotFound, ErrCodeStreamNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeDuplicateRequest:
		return http.StatusConflict
	case ErrCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeInvalidState:
		return http.StatusUnprocessableEntity
	case ErrCodePrinterUnavailable:
		return http.StatusBadGateway
	case ErrCodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// domainCodes maps the codes of domain and render errors onto API codes
var domainCodes = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"ALREADY_EXISTS":    ErrCodeConflict,
	"INVALID_INPUT":     ErrCodeInvalidInput,
	"INVALID_STATE":     ErrCodeInvalidState,
	"UNAUTHORIZED":      ErrCodeUnauthorized,
	"FORBIDDEN":         ErrCodeForbidden,
	"DUPLICATE_REQUEST": ErrCodeDuplicateRequest,
	"VALIDATION_ERROR":  ErrCodeValidation,

	"INVALID_SCHEMA":          ErrCodeSchemaInvalid,
	"INVALID_DOC_TYPE":        ErrCodeInvalidInput,
	"INVALID_COPIES":          ErrCodeInvalidInput,
	"INVALID_DOCUMENT":        ErrCodeInvalidInput,
	"INVALID_DOCUMENT_NUMBER": ErrCodeInvalidInput,
	"INVALID_STREAM_URL":      ErrCodeInternal,

	"RENDER_INVALID_CONTEXT": ErrCodeInvalidContext,
	"RENDER_FAILED":          ErrCodeRenderFailed,
	"SCHEMA_NOT_FOUND":       ErrCodeSchemaNotFound,
	"SCHEMA_INVALID":         ErrCodeSchemaInvalid,
	"STORAGE_FAILED":         ErrCodeStorageUnavailable,
	"STREAM_NOT_FOUND":       ErrCodeStreamNotFound,
	"TRANSPORT_FAILED":       ErrCodePrinterUnavailable,
}

// FromDomain translates a domain error code. Codes with no translation,
// API codes included, pass through.
func FromDomain(code string) string {
	if api, ok := domainCodes[code]; ok {
		return api
	}
	return code
}
