package api

// HTTPError carries the status and client-facing message for a failed
// handler; ErrorLog holds the internal cause and is only printed, never
// returned to the client.
type HTTPError struct {
	StatusCode int
	Message    string
	ErrorLog   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

type ApiError struct {
	Error string `json:"message"`
}
