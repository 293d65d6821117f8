// internal/api/types/response.go
package types

// Status values of the response envelope.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Envelope is the uniform body of every API response.
// Data is set only on success and Error only on failure.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
	Error  *string     `json:"error"`
}

// OK wraps a successful payload.
func OK(data interface{}) Envelope {
	return Envelope{Status: StatusOK, Data: data}
}

// Fail wraps an error message.
func Fail(message string) Envelope {
	return Envelope{Status: StatusError, Error: &message}
}

// PaginatedResponse defines a generic structure for paginated API responses.
// T represents the type of data contained in the 'Items' slice.
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Limit      int   `json:"limit"`
	Page       int   `json:"page"`
	Offset     int   `json:"offset"`
	TotalCount int64 `json:"total_count"`
}
