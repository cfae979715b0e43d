package response

// Response is the common JSON envelope for API replies.
type Response struct {
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

const (
	StatusOk    = "OK"
	StatusError = "Error"
)

// Ok wraps a successful payload.
func Ok(data interface{}) Response {
	return Response{
		Status: StatusOk,
		Data:   data,
	}
}

// Error wraps a terminal failure message.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// RetryableError wraps a store-side failure the client may retry.
func RetryableError(msg string) Response {
	return Response{
		Status:    StatusError,
		Error:     msg,
		Retryable: true,
	}
}

// FieldErrors wraps a validation failure as a field to message mapping.
func FieldErrors(fields map[string]string) Response {
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: fields,
	}
}
