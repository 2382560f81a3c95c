package backend

import "fmt"

// ErrorHTTPRequest is returned when a backend answers with a status code
// other than 200.
// Body holds the raw response, it is not part of the error message because
// backend responses can carry credentials.
type ErrorHTTPRequest struct {
	Body   []byte
	Status int
}

func (e *ErrorHTTPRequest) Error() string {
	return fmt.Sprintf("http request failed with StatusCode: %d, response length: %d bytes", e.Status, len(e.Body))
}
