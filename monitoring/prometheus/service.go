// Package prometheus defines a service which is used for metrics collection
// and health of a node in Ethereum.
package prometheus

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"runtime/pprof"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prysmaticlabs/prysm-broadcast/runtime"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "prometheus")

// Handler represents a path and handler func to serve on the same port as /metrics, /healthz, /goroutinez, etc.
type Handler struct {
	Path    string
	Handler func(http.ResponseWriter, *http.Request)
}

// Service provides Prometheus metrics via the /metrics route. This route will
// show all the metrics registered with the Prometheus DefaultRegisterer.
type Service struct {
	server      *http.Server
	svcRegistry *runtime.ServiceRegistry
	lock        sync.Mutex
	addr        net.Addr
	failStatus  error
}

// NewService sets up a new instance for a given address host:port.
// An empty host will match with any IP so an address like ":2121" is perfectly acceptable.
func NewService(addr string, svcRegistry *runtime.ServiceRegistry, additionalHandlers ...Handler) *Service {
	s := &Service{svcRegistry: svcRegistry}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthzHandler)
	mux.HandleFunc("/goroutinez", s.goroutinezHandler)

	// Register additional handlers.
	for _, h := range additionalHandlers {
		mux.HandleFunc(h.Path, h.Handler)
	}

	s.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: time.Second}

	return s
}

func (s *Service) healthzHandler(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{Data: make(map[string]string)}
	var names []string
	hasError := false
	if s.svcRegistry != nil {
		for k, v := range s.svcRegistry.Statuses() {
			status := "OK"
			if v != nil {
				hasError = true
				status = "ERROR " + v.Error()
			}
			response.Data[k.String()] = status
			names = append(names, k.String())
		}
		if err := s.svcRegistry.Healthy(); err != nil {
			response.Err = err.Error()
		}
	}
	sort.Strings(names)

	if negotiateContentType(r) == contentTypeJSON {
		w.Header().Set("Content-Type", contentTypeJSON)
	}
	// Write status header
	if hasError {
		w.WriteHeader(http.StatusInternalServerError)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	// Write http body
	if err := writeResponse(w, r, names, response); err != nil {
		log.WithError(err).Error("Could not write healthz body")
	}
}

func (s *Service) goroutinezHandler(w http.ResponseWriter, _ *http.Request) {
	stack := debug.Stack()
	if _, err := w.Write(stack); err != nil {
		log.WithError(err).Error("Failed to write goroutines stack")
	}
	if err := pprof.Lookup("goroutine").WriteTo(w, 2); err != nil {
		log.WithError(err).Error("Failed to write pprof goroutines")
	}
}

// Start the prometheus service.
func (s *Service) Start() {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		log.WithError(err).Errorf("Could not listen to host:port :%s", s.server.Addr)
		s.lock.Lock()
		s.failStatus = err
		s.lock.Unlock()
		return
	}
	s.lock.Lock()
	s.addr = lis.Addr()
	s.lock.Unlock()
	log.WithField("endpoint", lis.Addr().String()).Info("Starting service")
	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Monitoring server stopped")
			s.lock.Lock()
			s.failStatus = err
			s.lock.Unlock()
		}
	}()
}

// Addr returns the address the service listens on once started.
func (s *Service) Addr() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Stop the service gracefully.
func (s *Service) Stop() error {
	log.Info("Stopping service")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Status checks for any service failure conditions.
func (s *Service) Status() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.failStatus
}
