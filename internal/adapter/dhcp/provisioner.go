// Package dhcp provisions an interface from a DHCPv4 lease.
package dhcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang-ethernetd/internal/adapter/netconf"
	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

const (
	defaultRenewal = 30 * time.Second
	defaultMask    = 24
)

// Options tune lease acquisition.
type Options struct {
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	ManageDNS  bool
	ResolvConf string
}

// Provisioner implements the Provisioner port for dynamic configuration.
type Provisioner struct {
	ifaceName  string
	dhcpClient port.DHCPClient
	networkMgr port.NetworkManager
	conf       *netconf.Configurator
	opts       Options
	log        *logrus.Entry

	lease *nclient4.Lease
	addr  *net.IPNet
}

var _ port.Provisioner = (*Provisioner)(nil)

func NewProvisioner(ifaceName string, dhcpClient port.DHCPClient, networkMgr port.NetworkManager, fileMgr port.FileManager, opts Options) *Provisioner {
	log := logging.WithComponentAndInterface("dhcp", ifaceName)
	return &Provisioner{
		ifaceName:  ifaceName,
		dhcpClient: dhcpClient,
		networkMgr: networkMgr,
		conf:       netconf.NewConfigurator(networkMgr, fileMgr, log),
		opts:       opts,
		log:        log,
	}
}

// Provision acquires a lease and applies it. The returned duration is the
// lease renewal time (T1).
func (p *Provisioner) Provision(ctx context.Context, _ types.IPConfiguration) (types.LinkProperties, time.Duration, error) {
	lease, err := p.getDHCPLease(ctx)
	if err != nil {
		return types.LinkProperties{}, 0, err
	}

	link, err := p.networkMgr.GetLinkByName(p.ifaceName)
	if err != nil {
		return types.LinkProperties{}, 0, fmt.Errorf("failed to get netlink interface: %w", err)
	}

	lp, err := p.applyDHCPLease(link, lease.ACK)
	if err != nil {
		return types.LinkProperties{}, 0, err
	}
	p.lease = lease
	p.addr = lp.Addresses[0]

	renewal := lease.ACK.IPAddressRenewalTime(defaultRenewal)
	p.log.WithField("renewal_time", renewal.String()).Debug("Lease applied")
	return lp, renewal, nil
}

// getDHCPLease requests a lease, retrying up to the configured number of attempts.
func (p *Provisioner) getDHCPLease(ctx context.Context) (*nclient4.Lease, error) {
	retries := max(p.opts.Retries, 1)

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		p.log.WithField("attempt", fmt.Sprintf("%d/%d", attempt, retries)).Debug("Attempting DHCP lease")

		lease, err := p.dhcpClient.RequestLease(ctx, p.ifaceName, p.opts.Timeout)
		if err == nil {
			p.log.WithField("ip", lease.ACK.YourIPAddr.String()).Info("Obtained DHCP lease")
			return lease, nil
		}
		lastErr = err
		p.log.WithError(err).WithField("attempt", attempt).Warn("DHCP lease request failed")

		if attempt < retries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.opts.RetryDelay):
			}
		}
	}
	return nil, fmt.Errorf("DHCP lease request failed after %d attempts: %w", retries, lastErr)
}

// applyDHCPLease configures the link from ack and describes the result.
func (p *Provisioner) applyDHCPLease(link netlink.Link, ack *dhcpv4.DHCPv4) (types.LinkProperties, error) {
	mask := ack.SubnetMask()
	if mask == nil {
		mask = net.CIDRMask(defaultMask, 32)
	}
	ipNet := &net.IPNet{IP: ack.YourIPAddr.To4(), Mask: mask}

	if _, err := p.conf.ApplyAddress(link, ipNet); err != nil {
		return types.LinkProperties{}, err
	}

	lp := types.LinkProperties{
		InterfaceName: p.ifaceName,
		Addresses:     []*net.IPNet{ipNet},
		DNSServers:    ack.DNS(),
		MTU:           link.Attrs().MTU,
	}

	if routers := ack.Router(); len(routers) > 0 {
		lp.Gateway = routers[0]
		if err := p.conf.EnsureDefaultRoute(link, lp.Gateway); err != nil {
			return types.LinkProperties{}, fmt.Errorf("failed to set default gateway: %w", err)
		}
	}

	if p.opts.ManageDNS && len(lp.DNSServers) > 0 {
		if err := p.conf.WriteResolvConf(p.opts.ResolvConf, lp.DNSServers); err != nil {
			p.log.WithError(err).Warn("Failed to configure DNS")
		}
	}
	return lp, nil
}

// Clear releases the lease and removes the leased address.
func (p *Provisioner) Clear(_ context.Context) error {
	if p.lease == nil {
		return nil
	}
	lease, addr := p.lease, p.addr
	p.lease, p.addr = nil, nil

	if err := p.dhcpClient.ReleaseLease(p.ifaceName, lease); err != nil {
		p.log.WithError(err).Warn("Failed to release DHCP lease")
	}

	link, err := p.networkMgr.GetLinkByName(p.ifaceName)
	if err != nil {
		return fmt.Errorf("failed to get netlink interface: %w", err)
	}
	if err := p.networkMgr.DeleteAddress(link, &netlink.Addr{IPNet: addr}); err != nil {
		return fmt.Errorf("failed to remove leased address: %w", err)
	}
	p.log.WithField("ip", addr.String()).Info("Released DHCP lease")
	return nil
}
