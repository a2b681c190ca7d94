// Package api serves the administrative HTTP surface of the daemon.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang-ethernetd/internal/adapter/agent"
	"golang-ethernetd/internal/ethernet"
	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Service is the part of the ethernet service exposed over HTTP.
type Service interface {
	Interfaces(ctx context.Context) ([]ethernet.InterfaceInfo, error)
	UpdateInterfaceLinkState(name string, up bool, listener port.ManagementListener)
	UpdateInterface(name string, ipConfig types.IPConfiguration, caps types.NetworkCapabilities, listener port.ManagementListener)
}

// Registry is the part of the network registry exposed over HTTP.
type Registry interface {
	Networks() []agent.NetworkInfo
	Requests() []agent.RequestInfo
	AddRequest(req types.NetworkRequest) uint64
	RemoveRequest(id uint64) error
}

type Server struct {
	addr           string
	requestTimeout time.Duration
	svc            Service
	registry       Registry
	log            *logrus.Entry
}

func New(addr string, requestTimeout time.Duration, svc Service, registry Registry) *Server {
	return &Server{
		addr:           addr,
		requestTimeout: requestTimeout,
		svc:            svc,
		registry:       registry,
		log:            logging.WithComponent("api"),
	}
}

// Handler returns the routes of the admin API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /interfaces", s.listInterfaces)
	mux.HandleFunc("POST /interfaces/{name}/link", s.setLinkState)
	mux.HandleFunc("PUT /interfaces/{name}", s.updateInterface)
	mux.HandleFunc("GET /networks", s.listNetworks)
	mux.HandleFunc("GET /requests", s.listRequests)
	mux.HandleFunc("POST /requests", s.addRequest)
	mux.HandleFunc("DELETE /requests/{id}", s.removeRequest)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run serves until ctx is done and then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", lis.Addr().String()).Info("Admin API listening")
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down admin API: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
