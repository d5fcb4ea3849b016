package predictions

import (
	"fmt"
	"net/http"
)

// Failure is a terminal pipeline error mapped onto an HTTP response.
// Message is safe for the caller; Err and Stage are for logs only.
type Failure struct {
	Stage   string
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("stage %s: %s: %v", f.Stage, f.Message, f.Err)
	}
	return fmt.Sprintf("stage %s: %s", f.Stage, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func badRequest(message string) *Failure {
	return &Failure{Status: http.StatusBadRequest, Message: message}
}

func internalFailure(message string, err error) *Failure {
	return &Failure{Status: http.StatusInternalServerError, Message: message, Err: err}
}
