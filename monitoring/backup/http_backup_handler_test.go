package backup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type recordingExporter struct {
	outputDir string
	override  bool
	err       error
}

func (e *recordingExporter) Backup(_ context.Context, outputDir string, permissionOverride bool) error {
	e.outputDir = outputDir
	e.override = permissionOverride
	return e.err
}

func TestHandler(t *testing.T) {
	bk := &recordingExporter{}
	h := Handler(bk, "/backups")

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/db/backup", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "/backups", bk.outputDir)
	assert.False(t, bk.override)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/db/backup?permissionOverride", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bk.override)
}

func TestHandler_Failure(t *testing.T) {
	h := Handler(&recordingExporter{err: errors.New("disk full")}, "")
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/db/backup", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
