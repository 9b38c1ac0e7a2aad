// Package rpc defines a beacon API HTTP server which exposes the block
// publication and lookup endpoints of the beacon node.
package rpc

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/iface"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/rpc/eth/beacon"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
	"github.com/prysmaticlabs/prysm-broadcast/runtime"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "rpc")

var _ runtime.Service = (*Service)(nil)

// Config options for the beacon node HTTP server.
type Config struct {
	Host                       string
	Port                       string
	BeaconDB                   iface.ReadOnlyDatabase
	ChainInfoFetcher           blockchain.ChainInfoFetcher
	BlockReceiver              blockchain.BlockReceiver
	GossipValidator            validation.BlockGossipValidator
	Broadcaster                p2p.Broadcaster
	DefaultBroadcastValidation validation.BroadcastValidationLevel
	APITimeout                 time.Duration
	AllowedOrigins             []string
}

// Service defining the beacon API HTTP server of a beacon node.
type Service struct {
	cfg      *Config
	ctx      context.Context
	cancel   context.CancelFunc
	router   *mux.Router
	handler  http.Handler
	server   *http.Server
	lock     sync.Mutex
	addr     net.Addr
	startErr error
}

// NewService creates a new instance of the HTTP server with its routes registered.
func NewService(ctx context.Context, cfg *Config) *Service {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		router: mux.NewRouter(),
	}
	server := &beacon.Server{
		Ctx:                        ctx,
		BeaconDB:                   cfg.BeaconDB,
		ChainInfoFetcher:           cfg.ChainInfoFetcher,
		BlockReceiver:              cfg.BlockReceiver,
		GossipValidator:            cfg.GossipValidator,
		Broadcaster:                cfg.Broadcaster,
		DefaultBroadcastValidation: cfg.DefaultBroadcastValidation,
		Timeout:                    cfg.APITimeout,
	}
	s.router.HandleFunc("/eth/v1/beacon/blocks", server.PublishBlock).Methods(http.MethodPost)
	s.router.HandleFunc("/eth/v2/beacon/blocks", server.PublishBlockV2).Methods(http.MethodPost)
	s.router.HandleFunc("/eth/v2/beacon/blocks/{block_id}", server.GetBlockV2).Methods(http.MethodGet)
	s.handler = corsMiddleware(s.router, cfg.AllowedOrigins)
	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: time.Second,
	}
	return s
}

// Router exposes the registered routes behind the CORS middleware.
func (s *Service) Router() http.Handler {
	return s.handler
}

func corsMiddleware(h http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowCredentials: true,
		MaxAge:           600,
		AllowedHeaders:   []string{"*"},
	})
	return c.Handler(h)
}

// Start listening for HTTP requests.
func (s *Service) Start() {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.lock.Lock()
		s.startErr = errors.Wrapf(err, "could not listen to %s", s.server.Addr)
		s.lock.Unlock()
		log.WithError(err).Error("Could not start HTTP server")
		return
	}
	s.lock.Lock()
	s.addr = lis.Addr()
	s.lock.Unlock()
	log.WithField("address", lis.Addr().String()).Info("HTTP server listening")
	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server stopped")
		}
	}()
}

// Addr returns the address the server listens on, once started.
func (s *Service) Addr() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Stop the service.
func (s *Service) Stop() error {
	defer s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "could not shut down HTTP server")
	}
	return nil
}

// Status returns nil or the error that prevented the server from listening.
func (s *Service) Status() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	if s.addr == nil {
		return errors.New("HTTP server is not listening")
	}
	return nil
}
