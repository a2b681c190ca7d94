// Package dependencies builds the production collaborators of the ethernet
// network factory.
package dependencies

import (
	"fmt"
	"sync"

	"golang-ethernetd/internal/adapter/agent"
	"golang-ethernetd/internal/adapter/dhcp"
	"golang-ethernetd/internal/adapter/ipclient"
	"golang-ethernetd/internal/adapter/static"
	"golang-ethernetd/internal/pkg/config"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"
)

// Dependencies implements port.Dependencies on top of netlink, the DHCP
// client and the in-process network registry.
type Dependencies struct {
	dhcpClient port.DHCPClient
	networkMgr port.NetworkManager
	fileMgr    port.FileManager
	registry   *agent.Registry

	mu  sync.Mutex
	cfg config.ProvisioningConfig
}

var _ port.Dependencies = (*Dependencies)(nil)

func New(dhcpClient port.DHCPClient, networkMgr port.NetworkManager, fileMgr port.FileManager,
	registry *agent.Registry, cfg config.ProvisioningConfig) *Dependencies {
	return &Dependencies{
		dhcpClient: dhcpClient,
		networkMgr: networkMgr,
		fileMgr:    fileMgr,
		registry:   registry,
		cfg:        cfg,
	}
}

// SetProvisioningConfig applies to clients created afterwards.
func (d *Dependencies) SetProvisioningConfig(cfg config.ProvisioningConfig) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
}

func (d *Dependencies) provisioningConfig() config.ProvisioningConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// MakeProvisioningClient fails when the interface is gone from the host.
func (d *Dependencies) MakeProvisioningClient(ifaceName string, cb port.ProvisioningCallbacks) (port.ProvisioningClient, error) {
	if _, err := d.networkMgr.GetLinkByName(ifaceName); err != nil {
		return nil, fmt.Errorf("cannot create provisioning client: %w", err)
	}
	cfg := d.provisioningConfig()
	newProvisioner := func(ipConfig types.IPConfiguration) port.Provisioner {
		return d.provisionerFor(ifaceName, ipConfig, cfg)
	}
	return ipclient.New(ifaceName, cb, d.networkMgr, newProvisioner, cfg.CheckInterval), nil
}

func (d *Dependencies) provisionerFor(ifaceName string, ipConfig types.IPConfiguration, cfg config.ProvisioningConfig) port.Provisioner {
	if ipConfig.IsStatic() {
		return static.NewProvisioner(ifaceName, d.networkMgr, d.fileMgr, cfg.CheckInterval)
	}
	return dhcp.NewProvisioner(ifaceName, d.dhcpClient, d.networkMgr, d.fileMgr, dhcp.Options{
		Timeout:    cfg.DHCPTimeout,
		Retries:    cfg.DHCPRetries,
		RetryDelay: cfg.RetryDelay,
		ManageDNS:  cfg.ManageDNS,
		ResolvConf: cfg.ResolvConf,
	})
}

func (d *Dependencies) MakeNetworkAgent(caps types.NetworkCapabilities, lp types.LinkProperties, cfg types.AgentConfig, cb port.AgentCallbacks) port.NetworkAgent {
	return d.registry.NewAgent(caps, lp, cfg, cb)
}

// GetInterfaceParamsByName reports false when netlink no longer knows the link.
func (d *Dependencies) GetInterfaceParamsByName(ifaceName string) (*types.InterfaceParams, bool) {
	link, err := d.networkMgr.GetLinkByName(ifaceName)
	if err != nil {
		return nil, false
	}
	attrs := link.Attrs()
	return &types.InterfaceParams{
		Name:         attrs.Name,
		Index:        attrs.Index,
		HardwareAddr: attrs.HardwareAddr,
		MTU:          attrs.MTU,
	}, true
}
