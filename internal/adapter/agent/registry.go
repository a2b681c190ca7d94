// Package agent is the in-process network registry: it publishes provisioned
// networks and holds the network requests that decide whether they are wanted.
package agent

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/pkg/metrics"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
)

// FirstNetworkID is the handle given to the first registered network.
const FirstNetworkID uint32 = 100

// ErrUnknownRequest is returned when removing a request that was never filed.
var ErrUnknownRequest = errors.New("unknown network request")

// RequestHandler is told about every filed and withdrawn request.
type RequestHandler interface {
	NeedNetworkFor(req types.NetworkRequest)
	ReleaseNetworkFor(req types.NetworkRequest)
}

// NetworkInfo describes a registered network.
type NetworkInfo struct {
	Network      types.Network             `json:"network"`
	Interface    string                    `json:"interface"`
	Connected    bool                      `json:"connected"`
	Capabilities types.NetworkCapabilities `json:"capabilities"`
	Addresses    []string                  `json:"addresses,omitempty"`
	Gateway      string                    `json:"gateway,omitempty"`
	LegacyType   types.LegacyType          `json:"legacy_type"`
}

// RequestInfo describes a filed request.
type RequestInfo struct {
	ID      uint64               `json:"id"`
	Request types.NetworkRequest `json:"request"`
}

// Registry tracks registered agents and network requests. It is safe for
// concurrent use.
type Registry struct {
	mu            sync.Mutex
	handler       RequestHandler
	nextNetworkID uint32
	nextRequestID uint64
	agents        map[uint32]*Agent
	requests      map[uint64]types.NetworkRequest
	log           *logrus.Entry
}

func NewRegistry() *Registry {
	return &Registry{
		nextNetworkID: FirstNetworkID,
		nextRequestID: 1,
		agents:        make(map[uint32]*Agent),
		requests:      make(map[uint64]types.NetworkRequest),
		log:           logging.WithComponent("registry"),
	}
}

// SetRequestHandler installs the consumer of request changes. Requests filed
// earlier are replayed to it.
func (r *Registry) SetRequestHandler(h RequestHandler) {
	r.mu.Lock()
	r.handler = h
	pending := r.sortedRequestsLocked()
	r.mu.Unlock()

	for _, info := range pending {
		h.NeedNetworkFor(info.Request)
	}
}

// NewAgent creates an unregistered agent.
func (r *Registry) NewAgent(caps types.NetworkCapabilities, lp types.LinkProperties, cfg types.AgentConfig, cb port.AgentCallbacks) *Agent {
	return &Agent{
		registry: r,
		caps:     caps,
		lp:       lp,
		config:   cfg,
		cb:       cb,
	}
}

// AddRequest files req and returns its ID.
func (r *Registry) AddRequest(req types.NetworkRequest) uint64 {
	r.mu.Lock()
	id := r.nextRequestID
	r.nextRequestID++
	r.requests[id] = req
	handler := r.handler
	metrics.ActiveRequests.Set(float64(len(r.requests)))
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"id": id, "request": req.String()}).Info("Network request filed")
	if handler != nil {
		handler.NeedNetworkFor(req)
	}
	return id
}

// RemoveRequest withdraws a request. Connected networks that no remaining
// request can use are told they are unwanted.
func (r *Registry) RemoveRequest(id uint64) error {
	r.mu.Lock()
	req, ok := r.requests[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("request %d: %w", id, ErrUnknownRequest)
	}
	delete(r.requests, id)
	handler := r.handler
	metrics.ActiveRequests.Set(float64(len(r.requests)))

	var unwanted []*Agent
	for _, a := range r.agents {
		if a.connected && !r.wantedLocked(a) {
			unwanted = append(unwanted, a)
		}
	}
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"id": id, "request": req.String()}).Info("Network request withdrawn")
	if handler != nil {
		handler.ReleaseNetworkFor(req)
	}
	for _, a := range unwanted {
		r.log.WithField("network", a.network.ID).Info("Network is no longer wanted")
		a.cb.OnNetworkUnwanted()
	}
	return nil
}

func (r *Registry) wantedLocked(a *Agent) bool {
	for _, req := range r.requests {
		if req.Specifier != "" && req.Specifier != a.lp.InterfaceName {
			continue
		}
		if req.CanBeSatisfiedBy(a.caps) {
			return true
		}
	}
	return false
}

// Networks returns the registered networks ordered by handle.
func (r *Registry) Networks() []NetworkInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]NetworkInfo, 0, len(r.agents))
	for _, a := range r.agents {
		info := NetworkInfo{
			Network:      a.network,
			Interface:    a.lp.InterfaceName,
			Connected:    a.connected,
			Capabilities: a.caps,
			Addresses:    a.lp.AddressStrings(),
			LegacyType:   a.config.LegacyType,
		}
		if a.lp.Gateway != nil {
			info.Gateway = a.lp.Gateway.String()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Network.ID < infos[j].Network.ID })
	return infos
}

// Requests returns the filed requests ordered by ID.
func (r *Registry) Requests() []RequestInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedRequestsLocked()
}

func (r *Registry) sortedRequestsLocked() []RequestInfo {
	infos := make([]RequestInfo, 0, len(r.requests))
	for id, req := range r.requests {
		infos = append(infos, RequestInfo{ID: id, Request: req})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (r *Registry) register(a *Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.network = types.Network{ID: r.nextNetworkID}
	r.nextNetworkID++
	r.agents[a.network.ID] = a
	metrics.RegisteredNetworks.Set(float64(len(r.agents)))
}

func (r *Registry) unregister(a *Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, a.network.ID)
	a.connected = false
	metrics.RegisteredNetworks.Set(float64(len(r.agents)))
}
