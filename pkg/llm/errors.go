package llm

import (
	"fmt"
)

// StatusError is returned when the model server answers with a non-2xx status.
// Body holds the raw response body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.StatusCode, e.Body)
}
