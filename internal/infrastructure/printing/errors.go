package printing

// RenderError represents an error while rendering, storing or delivering
// a receipt
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeInvalidContext = "RENDER_INVALID_CONTEXT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeSchemaNotFound = "SCHEMA_NOT_FOUND"
	ErrCodeSchemaInvalid  = "SCHEMA_INVALID"
	ErrCodeStorageFailed  = "STORAGE_FAILED"
	ErrCodeNotFound       = "STREAM_NOT_FOUND"
	ErrCodeTransport      = "TRANSPORT_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
