package prometheus

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/runtime"
	logTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	status error
}

func (*mockService) Start() {}

func (*mockService) Stop() error {
	return nil
}

func (m *mockService) Status() error {
	return m.status
}

type otherService struct {
	mockService
}

func TestLifecycle(t *testing.T) {
	hook := logTest.NewGlobal()
	prometheusService := NewService("127.0.0.1:0", nil)
	prometheusService.Start()
	require.NoError(t, prometheusService.Status())
	require.NotEmpty(t, prometheusService.Addr())
	assert.Equal(t, "Starting service", hook.LastEntry().Message)

	resp, err := http.Get("http://" + prometheusService.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	require.NoError(t, prometheusService.Stop())
	assert.Equal(t, "Stopping service", hook.LastEntry().Message)
}

func TestStart_AddressInUse(t *testing.T) {
	first := NewService("127.0.0.1:0", nil)
	first.Start()
	defer func() {
		require.NoError(t, first.Stop())
	}()
	second := NewService(first.Addr(), nil)
	second.Start()
	require.Error(t, second.Status())
}

func healthz(t *testing.T, s *Service, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	registry := runtime.NewServiceRegistry()
	healthy := &mockService{}
	require.NoError(t, registry.RegisterService(healthy))
	s := NewService(":0", registry)

	rec := healthz(t, s, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*prometheus.mockService: OK\n", rec.Body.String())

	unhealthy := &otherService{mockService{status: errors.New("something is wrong")}}
	require.NoError(t, registry.RegisterService(unhealthy))

	rec = healthz(t, s, "text/plain")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*prometheus.mockService: OK\n*prometheus.otherService: ERROR something is wrong\n", rec.Body.String())

	rec = healthz(t, s, "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))
	resp := &healthResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	assert.Equal(t, "OK", resp.Data["*prometheus.mockService"])
	assert.Equal(t, "ERROR something is wrong", resp.Data["*prometheus.otherService"])
	assert.Equal(t, "*prometheus.otherService: something is wrong", resp.Err)
}

func TestAdditionalHandlers(t *testing.T) {
	s := NewService(":0", nil, Handler{
		Path: "/version",
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			_, err := w.Write([]byte("v1"))
			require.NoError(t, err)
		},
	})
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, "v1", rec.Body.String())

	rec = httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/goroutinez", nil))
	assert.Contains(t, rec.Body.String(), "goroutine")
}
