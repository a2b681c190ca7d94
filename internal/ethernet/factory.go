// Package ethernet implements the per-interface provisioning state machine and
// the arbitration of administrative requests against it.
//
// Every method of NetworkFactory must run on the looper the factory was built
// with; Service is the thread-safe entry point.
package ethernet

import (
	"net"
	"sort"

	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/pkg/looper"
	"golang-ethernetd/internal/pkg/metrics"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
)

// InterfaceInfo is a read-only snapshot of a tracked interface.
type InterfaceInfo struct {
	Name            string                    `json:"name"`
	HardwareAddr    string                    `json:"hardware_addr"`
	LinkUp          bool                      `json:"link_up"`
	State           State                     `json:"state"`
	Network         *types.Network            `json:"network,omitempty"`
	IPConfiguration types.IPConfiguration     `json:"ip_configuration"`
	Capabilities    types.NetworkCapabilities `json:"capabilities"`
	Addresses       []string                  `json:"addresses,omitempty"`
	RequestCount    int                       `json:"request_count"`
}

// NetworkFactory owns the records of every tracked interface.
type NetworkFactory struct {
	deps       port.Dependencies
	handler    looper.Handler
	interfaces map[string]*interfaceState
	requests   map[string]*trackedRequest
	log        *logrus.Entry
}

// trackedRequest counts the outstanding instances of one network request.
// Served instances remember the interface they were counted against.
type trackedRequest struct {
	req      types.NetworkRequest
	assigned []string
	unserved int
}

func (r *trackedRequest) empty() bool {
	return len(r.assigned) == 0 && r.unserved == 0
}

func requestKey(req types.NetworkRequest) string {
	return req.String()
}

// NewNetworkFactory creates a factory whose asynchronous callbacks are posted to handler.
func NewNetworkFactory(handler looper.Handler, deps port.Dependencies) *NetworkFactory {
	return &NetworkFactory{
		deps:       deps,
		handler:    handler,
		interfaces: make(map[string]*interfaceState),
		requests:   make(map[string]*trackedRequest),
		log:        logging.WithComponent("factory"),
	}
}

// AddInterface starts tracking an interface. The new record is down.
func (f *NetworkFactory) AddInterface(name string, hwAddr net.HardwareAddr, ipConfig types.IPConfiguration, caps types.NetworkCapabilities) {
	if _, ok := f.interfaces[name]; ok {
		f.log.WithField("interface", name).Warn("Interface already tracked, ignoring add")
		return
	}

	s := newInterfaceState(name, hwAddr, ipConfig, caps, f.deps, f.handler)
	f.interfaces[name] = s
	s.publishState()
	s.log.WithFields(logrus.Fields{
		"hwaddr":       hwAddr.String(),
		"capabilities": caps.String(),
	}).Info("Interface added")
	f.reevaluateRequests()
}

// RemoveInterface tears the interface down and forgets it.
func (f *NetworkFactory) RemoveInterface(name string) {
	s, ok := f.interfaces[name]
	if !ok {
		return
	}
	s.stop()
	delete(f.interfaces, name)
	metrics.ForgetInterface(name)
	s.log.Info("Interface removed")

	// Requests counted on the removed interface wait for another one
	for _, tr := range f.requests {
		kept := tr.assigned[:0]
		for _, assigned := range tr.assigned {
			if assigned == name {
				tr.unserved++
				continue
			}
			kept = append(kept, assigned)
		}
		tr.assigned = kept
	}
	f.reevaluateRequests()
}

// HasInterface reports whether name is tracked.
func (f *NetworkFactory) HasInterface(name string) bool {
	_, ok := f.interfaces[name]
	return ok
}

// UpdateInterfaceLinkState records a physical link change. It returns false
// when the interface is unknown or already in the requested state; the
// listener is told why.
func (f *NetworkFactory) UpdateInterfaceLinkState(name string, up bool, listener port.ManagementListener) bool {
	s, ok := f.interfaces[name]
	if !ok {
		f.log.WithField("interface", name).Warn("Link state update for an interface that is not configured")
		complete(listener, nil, notConfigured(name))
		return false
	}
	if s.linkUp == up {
		complete(listener, nil, noChanges(name))
		return false
	}

	s.linkUp = up
	s.log.WithField("up", up).Info("Link state changed")

	if !up {
		var previous *types.Network
		if s.agent != nil {
			n := s.agent.Network()
			previous = &n
		}
		s.stop()
		complete(listener, previous, nil)
		return true
	}

	// An update waiting for the link keeps the pending slot; the link
	// listener then completes once provisioning has started.
	waiting := listener != nil && s.pending != nil
	if listener != nil && !waiting {
		s.setPending(listener)
	}
	if s.client != nil {
		s.teardown()
	}
	s.start()
	if waiting {
		if s.client == nil {
			complete(listener, nil, aborted(name))
		} else {
			complete(listener, nil, nil)
		}
	}
	f.reevaluateRequests()
	return true
}

// UpdateInterface replaces the IP configuration and capabilities of an
// interface. The listener completes with the network of the next successful
// provisioning, or is aborted.
func (f *NetworkFactory) UpdateInterface(name string, ipConfig types.IPConfiguration, caps types.NetworkCapabilities, listener port.ManagementListener) {
	s, ok := f.interfaces[name]
	if !ok {
		f.log.WithField("interface", name).Warn("Update for an interface that is not configured")
		complete(listener, nil, notConfigured(name))
		return
	}

	s.ipConfig = ipConfig
	s.setCapabilities(caps)
	s.setPending(listener)
	s.log.WithFields(logrus.Fields{
		"assignment":   ipConfig.Assignment,
		"capabilities": caps.String(),
	}).Info("Interface configuration updated")

	if s.client != nil {
		s.teardown()
		s.start()
	}
	// Applied by the next start otherwise
	f.reevaluateRequests()
}

// NeedNetworkFor counts a request against the interface that serves it and
// starts provisioning on the first one. A request no interface can serve yet
// is kept and served once one appears.
func (f *NetworkFactory) NeedNetworkFor(req types.NetworkRequest) {
	key := requestKey(req)
	tr, ok := f.requests[key]
	if !ok {
		tr = &trackedRequest{req: req}
		f.requests[key] = tr
	}
	tr.unserved++
	if !f.serve(tr) {
		f.log.WithField("request", req.String()).Debug("No interface can serve the request yet")
	}
}

// ReleaseNetworkFor drops a request from the interface it was counted against
// and stops provisioning after the last one.
func (f *NetworkFactory) ReleaseNetworkFor(req types.NetworkRequest) {
	key := requestKey(req)
	tr, ok := f.requests[key]
	if !ok {
		f.log.WithField("request", req.String()).Warn("Request released more often than it was needed")
		return
	}

	var name string
	if tr.unserved > 0 {
		tr.unserved--
	} else {
		name = tr.assigned[len(tr.assigned)-1]
		tr.assigned = tr.assigned[:len(tr.assigned)-1]
	}
	if tr.empty() {
		delete(f.requests, key)
	}
	if name == "" {
		return
	}

	s, ok := f.interfaces[name]
	if !ok {
		return
	}
	if s.refCount == 0 {
		s.log.Warn("Request released more often than it was needed")
		return
	}
	s.refCount--
	if s.refCount == 0 {
		s.stop()
	}
}

// serve assigns the unserved instances of tr to an interface. It reports
// whether every instance is served.
func (f *NetworkFactory) serve(tr *trackedRequest) bool {
	for tr.unserved > 0 {
		if !f.AcceptRequest(tr.req) {
			return false
		}
		s := f.networkForRequest(tr.req)
		if s == nil {
			return false
		}
		tr.unserved--
		tr.assigned = append(tr.assigned, s.name)
		s.refCount++
		if s.refCount == 1 {
			s.start()
		}
	}
	return true
}

func (f *NetworkFactory) reevaluateRequests() {
	keys := make([]string, 0, len(f.requests))
	for key, tr := range f.requests {
		if tr.unserved > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		f.serve(f.requests[key])
	}
}

// AcceptRequest reports whether the combined capabilities of this factory
// can satisfy req.
func (f *NetworkFactory) AcceptRequest(req types.NetworkRequest) bool {
	return req.CanBeSatisfiedBy(f.filterCapabilities())
}

// filterCapabilities combines the ethernet transport with every tracked
// interface's capabilities.
func (f *NetworkFactory) filterCapabilities() types.NetworkCapabilities {
	filter := types.NetworkCapabilities{Transports: []types.Transport{types.TransportEthernet}}
	for _, name := range f.names() {
		filter = filter.Combine(f.interfaces[name].caps)
	}
	return filter
}

// networkForRequest picks the interface serving req. An interface named by
// the specifier is chosen even while its link is down.
func (f *NetworkFactory) networkForRequest(req types.NetworkRequest) *interfaceState {
	if req.Specifier != "" {
		s, ok := f.interfaces[req.Specifier]
		if ok && req.CanBeSatisfiedBy(s.caps) {
			return s
		}
		return nil
	}

	for _, name := range f.names() {
		s := f.interfaces[name]
		if s.linkUp && req.CanBeSatisfiedBy(s.caps) {
			return s
		}
	}
	return nil
}

// Interfaces returns a snapshot of every tracked interface, sorted by name.
func (f *NetworkFactory) Interfaces() []InterfaceInfo {
	infos := make([]InterfaceInfo, 0, len(f.interfaces))
	for _, name := range f.names() {
		s := f.interfaces[name]
		info := InterfaceInfo{
			Name:            s.name,
			HardwareAddr:    s.hwAddr.String(),
			LinkUp:          s.linkUp,
			State:           s.state(),
			IPConfiguration: s.ipConfig,
			Capabilities:    s.caps,
			Addresses:       s.lp.AddressStrings(),
			RequestCount:    s.refCount,
		}
		if s.agent != nil {
			n := s.agent.Network()
			info.Network = &n
		}
		infos = append(infos, info)
	}
	return infos
}

func (f *NetworkFactory) names() []string {
	names := make([]string, 0, len(f.interfaces))
	for name := range f.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
