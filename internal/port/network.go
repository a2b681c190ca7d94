// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"golang-ethernetd/internal/types"
)

//go:generate mockgen -destination=../mock/mock_network.go -package=mock golang-ethernetd/internal/port ProvisioningClient,ProvisioningCallbacks,NetworkAgent,AgentCallbacks,Dependencies

// ProvisioningClient is a per-interface IP provisioning client.
// Once created it reports through the ProvisioningCallbacks it was built with.
type ProvisioningClient interface {
	// StartProvisioning begins DHCP or static provisioning with the given configuration.
	StartProvisioning(cfg types.IPConfiguration)

	// Shutdown stops the client. No callback is delivered after Shutdown returns.
	Shutdown()
}

// ProvisioningCallbacks receives the events of a ProvisioningClient.
// Implementations must not block; they may be called from any goroutine.
type ProvisioningCallbacks interface {
	OnCreated()
	OnProvisioningSuccess(lp types.LinkProperties)
	OnProvisioningFailure(lp types.LinkProperties)
	OnReachabilityLost(reason string)
	OnLinkPropertiesChange(lp types.LinkProperties)
	OnQuit()
}

// NetworkAgent represents a provisioned network published to network consumers.
type NetworkAgent interface {
	Register()
	Unregister()
	MarkConnected()
	SendLinkProperties(lp types.LinkProperties)

	// Network returns the handle assigned at registration.
	Network() types.Network
}

// AgentCallbacks receives events from the network registry about an agent.
type AgentCallbacks interface {
	OnNetworkUnwanted()
}

// Dependencies constructs the collaborators of the network factory.
type Dependencies interface {
	// MakeProvisioningClient creates the provisioning client of an interface.
	MakeProvisioningClient(ifaceName string, cb ProvisioningCallbacks) (ProvisioningClient, error)

	// MakeNetworkAgent creates an unregistered agent.
	MakeNetworkAgent(caps types.NetworkCapabilities, lp types.LinkProperties, cfg types.AgentConfig, cb AgentCallbacks) NetworkAgent

	// GetInterfaceParamsByName reports whether the interface still exists on the host.
	GetInterfaceParamsByName(ifaceName string) (*types.InterfaceParams, bool)
}

// ManagementListener receives the single completion of an administrative request.
// network is nil when the request failed or produced no network.
type ManagementListener interface {
	OnComplete(network *types.Network, err error)
}

// ListenerFunc adapts a function to the ManagementListener port.
type ListenerFunc func(network *types.Network, err error)

// OnComplete calls f.
func (f ListenerFunc) OnComplete(network *types.Network, err error) {
	f(network, err)
}
