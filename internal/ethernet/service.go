package ethernet

import (
	"context"
	"net"

	"golang-ethernetd/internal/pkg/looper"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"
)

// Service is the thread-safe facade of a NetworkFactory. Administrative calls
// are queued on the looper and return immediately; results reach the listener.
type Service struct {
	factory *NetworkFactory
	handler looper.Handler
}

// NewService creates a factory bound to handler and returns its facade.
func NewService(handler looper.Handler, deps port.Dependencies) *Service {
	return &Service{
		factory: NewNetworkFactory(handler, deps),
		handler: handler,
	}
}

func (s *Service) post(fn func(*NetworkFactory)) bool {
	if !s.handler.Post(func() { fn(s.factory) }) {
		s.factory.log.Warn("Dropping call, looper has quit")
		return false
	}
	return true
}

// AddInterface queues the start of tracking for an interface.
func (s *Service) AddInterface(name string, hwAddr net.HardwareAddr, ipConfig types.IPConfiguration, caps types.NetworkCapabilities) {
	s.post(func(f *NetworkFactory) { f.AddInterface(name, hwAddr, ipConfig, caps) })
}

// RemoveInterface queues the teardown and removal of an interface.
func (s *Service) RemoveInterface(name string) {
	s.post(func(f *NetworkFactory) { f.RemoveInterface(name) })
}

// UpdateInterfaceLinkState queues a link change. The factory's accepted flag
// is not returned; a rejected change completes listener with ErrNotConfigured
// or ErrNoChanges instead. listener completes with looper.ErrQuit when the
// looper has stopped.
func (s *Service) UpdateInterfaceLinkState(name string, up bool, listener port.ManagementListener) {
	if !s.post(func(f *NetworkFactory) { f.UpdateInterfaceLinkState(name, up, listener) }) {
		complete(listener, nil, looper.ErrQuit)
	}
}

// UpdateInterface queues a configuration change. listener completes with the
// next provisioned network, an error, or looper.ErrQuit when the looper has
// stopped.
func (s *Service) UpdateInterface(name string, ipConfig types.IPConfiguration, caps types.NetworkCapabilities, listener port.ManagementListener) {
	if !s.post(func(f *NetworkFactory) { f.UpdateInterface(name, ipConfig, caps, listener) }) {
		complete(listener, nil, looper.ErrQuit)
	}
}

// NeedNetworkFor files a request with the factory. Requests the factory
// cannot serve yet are kept until an interface can.
func (s *Service) NeedNetworkFor(req types.NetworkRequest) {
	s.post(func(f *NetworkFactory) { f.NeedNetworkFor(req) })
}

// ReleaseNetworkFor withdraws one instance of a filed request.
func (s *Service) ReleaseNetworkFor(req types.NetworkRequest) {
	s.post(func(f *NetworkFactory) { f.ReleaseNetworkFor(req) })
}

// Interfaces returns a snapshot taken on the looper.
func (s *Service) Interfaces(ctx context.Context) ([]InterfaceInfo, error) {
	var infos []InterfaceInfo
	if err := looper.RunAndWait(ctx, s.handler, func() { infos = s.factory.Interfaces() }); err != nil {
		return nil, err
	}
	return infos, nil
}

// HasInterface reports whether name is tracked.
func (s *Service) HasInterface(ctx context.Context, name string) (bool, error) {
	var ok bool
	if err := looper.RunAndWait(ctx, s.handler, func() { ok = s.factory.HasInterface(name) }); err != nil {
		return false, err
	}
	return ok, nil
}
