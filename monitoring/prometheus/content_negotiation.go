package prometheus

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang/gddo/httputil"
	"github.com/pkg/errors"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	// Err lists the failing services, if any.
	Err string `json:"error"`

	// Data maps each registered service to its status.
	Data map[string]string `json:"data"`
}

// negotiateContentType parses "Accept:" header and returns preferred content type string.
func negotiateContentType(r *http.Request) string {
	contentTypes := []string{
		contentTypePlainText,
		contentTypeJSON,
	}
	return httputil.NegotiateContentType(r, contentTypes, contentTypePlainText)
}

// writeResponse is a content-type aware response writer. Services are written
// in the order of names.
func writeResponse(w http.ResponseWriter, r *http.Request, names []string, response healthResponse) error {
	switch negotiateContentType(r) {
	case contentTypePlainText:
		var b strings.Builder
		for _, name := range names {
			b.WriteString(name + ": " + response.Data[name] + "\n")
		}
		if _, err := w.Write([]byte(b.String())); err != nil {
			return errors.Wrap(err, "could not write response body")
		}
	case contentTypeJSON:
		if err := json.NewEncoder(w).Encode(response); err != nil {
			return errors.Wrap(err, "could not encode response body")
		}
	}
	return nil
}
