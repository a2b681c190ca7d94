package ethernet

import (
	"net"

	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/pkg/looper"
	"golang-ethernetd/internal/pkg/metrics"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
)

const legacyTypeName = "Ethernet"

// State is the provisioning state of an interface, derived from its handles.
type State int

const (
	StateDown State = iota
	StateProvisioning
	StateProvisioned
)

func (s State) String() string {
	switch s {
	case StateProvisioning:
		return "provisioning"
	case StateProvisioned:
		return "provisioned"
	default:
		return "down"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// interfaceState is the record of one tracked interface. It is only touched
// from the looper.
type interfaceState struct {
	name       string
	hwAddr     net.HardwareAddr
	ipConfig   types.IPConfiguration
	caps       types.NetworkCapabilities
	legacyType types.LegacyType
	linkUp     bool
	lp         types.LinkProperties

	client  port.ProvisioningClient
	agent   port.NetworkAgent
	pending port.ManagementListener

	// generation identifies the current provisioning attempt. Callbacks
	// carrying another value belong to a torn down attempt.
	generation uint64
	refCount   int

	deps    port.Dependencies
	handler looper.Handler
	log     *logrus.Entry
}

func newInterfaceState(name string, hwAddr net.HardwareAddr, ipConfig types.IPConfiguration,
	caps types.NetworkCapabilities, deps port.Dependencies, handler looper.Handler) *interfaceState {
	s := &interfaceState{
		name:     name,
		hwAddr:   hwAddr,
		ipConfig: ipConfig,
		deps:     deps,
		handler:  handler,
		log:      logging.WithComponentAndInterface("factory", name),
	}
	s.setCapabilities(caps)
	return s
}

func (s *interfaceState) setCapabilities(caps types.NetworkCapabilities) {
	s.caps = caps
	s.legacyType = types.LegacyTypeFor(caps)
}

func (s *interfaceState) state() State {
	switch {
	case s.client == nil:
		return StateDown
	case s.agent == nil:
		return StateProvisioning
	default:
		return StateProvisioned
	}
}

func (s *interfaceState) publishState() {
	metrics.SetInterfaceState(s.name, int(s.state()))
}

func (s *interfaceState) agentConfig() types.AgentConfig {
	return types.AgentConfig{
		LegacyType:      s.legacyType,
		LegacyTypeName:  legacyTypeName,
		LegacyExtraInfo: s.hwAddr.String(),
	}
}

// start creates a provisioning client unless one is already running.
func (s *interfaceState) start() {
	if s.client != nil {
		s.log.Debug("Provisioning client already started")
		return
	}

	s.generation++
	cb := &provisioningCallbacks{s: s, generation: s.generation}
	client, err := s.deps.MakeProvisioningClient(s.name, cb)
	if err != nil {
		s.log.WithError(err).Error("Failed to create provisioning client")
		s.abortPending()
		return
	}
	s.client = client
	metrics.ProvisioningStarts.WithLabelValues(s.name).Inc()
	s.publishState()

	s.log.WithField("assignment", s.ipConfig.Assignment).Info("Starting provisioning")
	client.StartProvisioning(s.ipConfig)
}

// teardown shuts the provisioning client down and unregisters the agent.
// Callbacks already queued for the old attempt are dropped afterwards.
func (s *interfaceState) teardown() {
	s.generation++
	if s.client != nil {
		s.client.Shutdown()
		s.client = nil
	}
	if s.agent != nil {
		s.agent.Unregister()
		s.agent = nil
	}
	s.lp = types.LinkProperties{}
	s.publishState()
}

// stop tears down provisioning and aborts the pending request.
func (s *interfaceState) stop() {
	s.abortPending()
	s.teardown()
}

func (s *interfaceState) restart() {
	s.log.Info("Restarting provisioning")
	s.stop()
	s.start()
}

// setPending installs l as the pending request, aborting the previous one.
func (s *interfaceState) setPending(l port.ManagementListener) {
	s.abortPending()
	s.pending = l
}

func (s *interfaceState) resolvePending(network *types.Network, err error) {
	l := s.pending
	s.pending = nil
	complete(l, network, err)
}

func (s *interfaceState) abortPending() {
	if s.pending == nil {
		return
	}
	s.log.Debug("Aborting pending request")
	s.resolvePending(nil, aborted(s.name))
}

func (s *interfaceState) onProvisioningSuccess(lp types.LinkProperties) {
	metrics.RecordProvisioningResult(s.name, true)
	if s.agent != nil {
		s.log.Error("Provisioning succeeded while a network agent is already registered, stopping")
		s.stop()
		return
	}

	s.lp = lp
	s.agent = s.deps.MakeNetworkAgent(s.caps, lp, s.agentConfig(), &agentCallbacks{s: s, generation: s.generation})
	s.agent.Register()
	s.agent.MarkConnected()
	s.publishState()

	network := s.agent.Network()
	s.log.WithFields(logrus.Fields{
		"network":   network.ID,
		"addresses": lp.AddressStrings(),
	}).Info("Network connected")
	s.resolvePending(&network, nil)
}

func (s *interfaceState) onProvisioningFailure(types.LinkProperties) {
	metrics.RecordProvisioningResult(s.name, false)
	if _, ok := s.deps.GetInterfaceParamsByName(s.name); !ok {
		s.log.Warn("Provisioning failed and the interface is gone, waiting for removal")
		s.abortPending()
		return
	}
	s.log.Warn("Provisioning failed")
	s.restart()
}

func (s *interfaceState) onReachabilityLost(reason string) {
	metrics.ReachabilityLost.WithLabelValues(s.name).Inc()
	s.log.WithField("reason", reason).Warn("Reachability lost")
	s.restart()
}

func (s *interfaceState) onLinkPropertiesChange(lp types.LinkProperties) {
	s.lp = lp
	if s.agent != nil {
		s.agent.SendLinkProperties(lp)
	}
}

func (s *interfaceState) onNetworkUnwanted() {
	s.log.Info("Network no longer wanted, stopping")
	s.stop()
}

// provisioningCallbacks routes the events of one provisioning attempt onto
// the looper. Events of an attempt that is no longer current are dropped there.
type provisioningCallbacks struct {
	s          *interfaceState
	generation uint64
}

var _ port.ProvisioningCallbacks = (*provisioningCallbacks)(nil)

func (c *provisioningCallbacks) post(kind string, fn func()) {
	c.s.handler.Post(func() {
		if c.generation != c.s.generation {
			metrics.StaleCallbacks.WithLabelValues(kind).Inc()
			c.s.log.WithField("callback", kind).Debug("Ignoring stale provisioning callback")
			return
		}
		fn()
	})
}

func (c *provisioningCallbacks) OnCreated() {
	c.post("created", func() { c.s.log.Debug("Provisioning client created") })
}

func (c *provisioningCallbacks) OnProvisioningSuccess(lp types.LinkProperties) {
	c.post("success", func() { c.s.onProvisioningSuccess(lp) })
}

func (c *provisioningCallbacks) OnProvisioningFailure(lp types.LinkProperties) {
	c.post("failure", func() { c.s.onProvisioningFailure(lp) })
}

func (c *provisioningCallbacks) OnReachabilityLost(reason string) {
	c.post("reachability_lost", func() { c.s.onReachabilityLost(reason) })
}

func (c *provisioningCallbacks) OnLinkPropertiesChange(lp types.LinkProperties) {
	c.post("link_properties", func() { c.s.onLinkPropertiesChange(lp) })
}

func (c *provisioningCallbacks) OnQuit() {
	c.post("quit", func() { c.s.log.Debug("Provisioning client quit") })
}

type agentCallbacks struct {
	s          *interfaceState
	generation uint64
}

var _ port.AgentCallbacks = (*agentCallbacks)(nil)

func (c *agentCallbacks) OnNetworkUnwanted() {
	c.s.handler.Post(func() {
		if c.generation != c.s.generation || c.s.agent == nil {
			metrics.StaleCallbacks.WithLabelValues("unwanted").Inc()
			c.s.log.Debug("Ignoring unwanted callback from a stale agent")
			return
		}
		c.s.onNetworkUnwanted()
	})
}
