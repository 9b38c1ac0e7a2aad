package runtime

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	status  error
	stopErr error
	stopped *[]string
}

type secondMockService struct {
	status  error
	stopped *[]string
}

func (*mockService) Start() {
}

func (m *mockService) Stop() error {
	if m.stopped != nil {
		*m.stopped = append(*m.stopped, "first")
	}
	return m.stopErr
}

func (m *mockService) Status() error {
	return m.status
}

func (*secondMockService) Start() {
}

func (s *secondMockService) Stop() error {
	if s.stopped != nil {
		*s.stopped = append(*s.stopped, "second")
	}
	return nil
}

func (s *secondMockService) Status() error {
	return s.status
}

func TestRegisterService_Twice(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")

	// Checks if first service was indeed registered.
	require.Equal(t, 1, len(registry.serviceTypes))
	assert.ErrorContains(t, registry.RegisterService(m), "service already exists")
}

func TestRegisterService_Different(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")
	require.NoError(t, registry.RegisterService(s), "Failed to register second service")

	require.Equal(t, 2, len(registry.serviceTypes))

	_, exists := registry.services[reflect.TypeOf(m)]
	assert.True(t, exists, "service of type %v not registered", reflect.TypeOf(m))

	_, exists = registry.services[reflect.TypeOf(s)]
	assert.True(t, exists, "service of type %v not registered", reflect.TypeOf(s))
}

func TestFetchService_OK(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")

	assert.ErrorContains(t, registry.FetchService(*m), "input must be of pointer type, received value type instead")

	var s *secondMockService
	assert.ErrorContains(t, registry.FetchService(&s), "unknown service")

	var m2 *mockService
	require.NoError(t, registry.FetchService(&m2), "Failed to fetch service")
	require.Equal(t, m, m2)
}

func TestServiceStatus_OK(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")

	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(s), "Failed to register first service")
	require.NoError(t, registry.Healthy())

	m.status = errors.New("something bad has happened")
	s.status = errors.New("woah, horsee")

	statuses := registry.Statuses()

	assert.ErrorContains(t, statuses[reflect.TypeOf(m)], "something bad has happened")
	assert.ErrorContains(t, statuses[reflect.TypeOf(s)], "woah, horsee")

	err := registry.Healthy()
	require.Error(t, err)
	assert.Equal(t, "*runtime.mockService: something bad has happened; *runtime.secondMockService: woah, horsee", err.Error())
}

func TestStopAll_ReverseOrder(t *testing.T) {
	registry := NewServiceRegistry()
	var stopped []string
	require.NoError(t, registry.RegisterService(&mockService{stopped: &stopped, stopErr: errors.New("stuck")}))
	require.NoError(t, registry.RegisterService(&secondMockService{stopped: &stopped}))

	assert.Equal(t, 1, registry.StopAll())
	assert.Equal(t, []string{"second", "first"}, stopped)
}
