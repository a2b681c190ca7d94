// Package static provisions an interface from a static IP configuration.
package static

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang-ethernetd/internal/adapter/netconf"
	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

var errNoStaticConfig = errors.New("IP configuration does not carry static settings")

// Provisioner implements the Provisioner port for static configuration.
// Provision is idempotent and repairs a configuration that drifted.
type Provisioner struct {
	ifaceName     string
	networkMgr    port.NetworkManager
	conf          *netconf.Configurator
	checkInterval time.Duration
	log           *logrus.Entry

	addr *net.IPNet
}

var _ port.Provisioner = (*Provisioner)(nil)

func NewProvisioner(ifaceName string, networkMgr port.NetworkManager, fileMgr port.FileManager, checkInterval time.Duration) *Provisioner {
	log := logging.WithComponentAndInterface("static", ifaceName)
	return &Provisioner{
		ifaceName:     ifaceName,
		networkMgr:    networkMgr,
		conf:          netconf.NewConfigurator(networkMgr, fileMgr, log),
		checkInterval: checkInterval,
		log:           log,
	}
}

// Provision applies cfg.Static to the link. The returned duration is the
// interval after which the configuration should be checked again.
func (p *Provisioner) Provision(_ context.Context, cfg types.IPConfiguration) (types.LinkProperties, time.Duration, error) {
	if !cfg.IsStatic() {
		return types.LinkProperties{}, 0, errNoStaticConfig
	}
	static := *cfg.Static

	ipNet, err := static.IPNet()
	if err != nil {
		return types.LinkProperties{}, 0, fmt.Errorf("invalid static configuration: %w", err)
	}

	link, err := p.networkMgr.GetLinkByName(p.ifaceName)
	if err != nil {
		return types.LinkProperties{}, 0, fmt.Errorf("failed to get netlink interface: %w", err)
	}

	if link.Attrs().Flags&net.FlagUp == 0 {
		p.log.Warn("Interface is administratively down, bringing it up")
		if err := p.networkMgr.SetLinkUp(link); err != nil {
			return types.LinkProperties{}, 0, fmt.Errorf("failed to bring interface up: %w", err)
		}
	}

	changed, err := p.conf.ApplyAddress(link, ipNet)
	if err != nil {
		return types.LinkProperties{}, 0, err
	}
	p.addr = ipNet

	lp := types.LinkProperties{
		InterfaceName: p.ifaceName,
		Addresses:     []*net.IPNet{ipNet},
		MTU:           link.Attrs().MTU,
	}
	for _, dns := range static.DNS {
		lp.DNSServers = append(lp.DNSServers, net.ParseIP(dns))
	}

	if static.Gateway != "" {
		lp.Gateway = net.ParseIP(static.Gateway)
		if err := p.conf.EnsureDefaultRoute(link, lp.Gateway); err != nil {
			return types.LinkProperties{}, 0, fmt.Errorf("failed to set default gateway: %w", err)
		}
	}

	if changed {
		p.log.WithFields(logrus.Fields{
			"ip":      ipNet.String(),
			"gateway": static.Gateway,
		}).Info("Static IP configuration applied")
	}
	return lp, p.checkInterval, nil
}

// Clear removes the static address.
func (p *Provisioner) Clear(_ context.Context) error {
	if p.addr == nil {
		return nil
	}
	addr := p.addr
	p.addr = nil

	link, err := p.networkMgr.GetLinkByName(p.ifaceName)
	if err != nil {
		return fmt.Errorf("failed to get netlink interface: %w", err)
	}
	if err := p.networkMgr.DeleteAddress(link, &netlink.Addr{IPNet: addr}); err != nil {
		return fmt.Errorf("failed to remove static address: %w", err)
	}
	return nil
}
