// Package httputil writes JSON responses and errors for the beacon API handlers.
package httputil

import (
	"net/http"
)

// HasStatusCode defines an interface for HTTP errors carrying a status code.
type HasStatusCode interface {
	StatusCode() int
}

// DefaultErrorJson is a JSON representation of a simple error value, containing only a message and an error code.
type DefaultErrorJson struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// StatusCode returns the error's underlying error code.
func (e *DefaultErrorJson) StatusCode() int {
	return e.Code
}

// Error returns the underlying error message.
func (e *DefaultErrorJson) Error() string {
	return e.Message
}

// HandleError writes the message as a JSON error with the code as HTTP status.
func HandleError(w http.ResponseWriter, message string, code int) {
	errJson := &DefaultErrorJson{
		Message: message,
		Code:    code,
	}
	WriteError(w, errJson)
}
