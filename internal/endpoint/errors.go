package endpoint

import (
	"errors"
	"fmt"
)

// HTTPError is returned when the endpoint answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string // truncated response body
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("endpoint returned %d: %s", e.StatusCode, e.Body)
}

// IsHTTPError returns true if err is (or wraps) an HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}
