package agent

import (
	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"
)

// Agent publishes one provisioned network in a Registry.
type Agent struct {
	registry *Registry
	caps     types.NetworkCapabilities
	config   types.AgentConfig
	cb       port.AgentCallbacks

	// guarded by registry.mu once registered
	lp         types.LinkProperties
	network    types.Network
	registered bool
	connected  bool
}

var _ port.NetworkAgent = (*Agent)(nil)

// Register assigns the network handle. Registering twice is a no-op.
func (a *Agent) Register() {
	if a.registered {
		return
	}
	a.registry.register(a)
	a.registered = true
	logging.WithComponentAndInterface("agent", a.lp.InterfaceName).
		WithField("network", a.network.ID).Info("Network registered")
}

func (a *Agent) Unregister() {
	if !a.registered {
		return
	}
	a.registry.unregister(a)
	a.registered = false
	logging.WithComponentAndInterface("agent", a.lp.InterfaceName).
		WithField("network", a.network.ID).Info("Network unregistered")
}

func (a *Agent) MarkConnected() {
	a.registry.mu.Lock()
	a.connected = a.registered
	a.registry.mu.Unlock()
}

func (a *Agent) SendLinkProperties(lp types.LinkProperties) {
	a.registry.mu.Lock()
	a.lp = lp
	a.registry.mu.Unlock()
}

// Network returns the handle assigned by Register.
func (a *Agent) Network() types.Network {
	return a.network
}
