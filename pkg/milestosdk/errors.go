package milestosdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is the error the client returns when the server responds with a
// non-2xx status. It carries the decoded ErrorResponse when one was present.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("milesto api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("milesto api: unexpected status %d", e.StatusCode)
}

// errorFromResponse decodes the error body from a failed call. A body that
// isn't our error shape still yields a usable APIError with just the status.
func errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
	}
	return apiErr
}
