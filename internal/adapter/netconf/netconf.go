// Package netconf applies layer 3 settings to a link through the
// NetworkManager and FileManager ports. It is shared by the DHCP and static
// provisioners.
package netconf

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"golang-ethernetd/internal/port"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

const resolvConfHeader = "# Generated by golang-ethernetd\n"

// Configurator edits the addresses, default route and resolver of one interface.
type Configurator struct {
	networkMgr port.NetworkManager
	fileMgr    port.FileManager
	log        *logrus.Entry
}

func NewConfigurator(networkMgr port.NetworkManager, fileMgr port.FileManager, log *logrus.Entry) *Configurator {
	return &Configurator{
		networkMgr: networkMgr,
		fileMgr:    fileMgr,
		log:        log,
	}
}

func isDefaultRoute(route netlink.Route) bool {
	return route.Dst == nil || route.Dst.String() == "0.0.0.0/0"
}

func sameAddress(addr netlink.Addr, ipNet *net.IPNet) bool {
	return addr.IPNet != nil && addr.IPNet.IP.Equal(ipNet.IP) && addr.IPNet.Mask.String() == ipNet.Mask.String()
}

// ApplyAddress makes ipNet the only IPv4 address of link. It reports whether
// the link had to be changed.
func (c *Configurator) ApplyAddress(link netlink.Link, ipNet *net.IPNet) (bool, error) {
	existing, err := c.networkMgr.ListAddresses(link)
	if err != nil {
		return false, fmt.Errorf("failed to list existing addresses: %w", err)
	}

	for _, addr := range existing {
		if sameAddress(addr, ipNet) {
			c.log.WithField("ip", ipNet.String()).Debug("IP address already configured")
			return false, nil
		}
	}

	for _, addr := range existing {
		if err := c.networkMgr.DeleteAddress(link, &addr); err != nil {
			c.log.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to remove existing address")
		} else {
			c.log.WithField("address", addr.IPNet.String()).Debug("Removed existing address")
		}
	}

	if err := c.networkMgr.AddAddress(link, &netlink.Addr{IPNet: ipNet}); err != nil {
		return false, fmt.Errorf("failed to add IP address %s: %w", ipNet.String(), err)
	}
	c.log.WithField("ip", ipNet.String()).Info("Added IP address")
	return true, nil
}

// RemoveAddresses deletes every IPv4 address of link.
func (c *Configurator) RemoveAddresses(link netlink.Link) error {
	existing, err := c.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}

	var failed []string
	for _, addr := range existing {
		if err := c.networkMgr.DeleteAddress(link, &addr); err != nil {
			failed = append(failed, addr.IPNet.String())
			continue
		}
		c.log.WithField("address", addr.IPNet.String()).Debug("Removed address")
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to remove addresses %s", strings.Join(failed, ", "))
	}
	return nil
}

// EnsureDefaultRoute points the default route at gateway through link,
// replacing any other default route.
func (c *Configurator) EnsureDefaultRoute(link netlink.Link, gateway net.IP) error {
	logger := c.log.WithField("gateway", gateway.String())
	index := link.Attrs().Index

	routes, err := c.networkMgr.ListRoutes()
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	for _, route := range routes {
		if isDefaultRoute(route) && route.Gw != nil && route.Gw.Equal(gateway) && route.LinkIndex == index {
			logger.Debug("Default route already configured")
			return nil
		}
	}

	for _, route := range routes {
		if !isDefaultRoute(route) {
			continue
		}
		if err := c.networkMgr.DeleteRoute(&route); err != nil {
			logger.WithError(err).WithField("old_gateway", route.Gw).Warn("Failed to remove existing default route")
		} else {
			logger.WithField("old_gateway", route.Gw).Debug("Removed existing default route")
		}
	}

	err = c.networkMgr.AddRoute(&netlink.Route{LinkIndex: index, Gw: gateway})
	switch {
	case err == nil:
		logger.Info("Default route configured")
	case isExist(err):
		logger.Debug("Default route already exists, ignoring error")
	default:
		return fmt.Errorf("failed to add default route: %w", err)
	}
	return nil
}

func isExist(err error) bool {
	return errors.Is(err, syscall.EEXIST) || strings.Contains(err.Error(), "file exists")
}

// ResolvConf renders a resolver configuration listing servers.
func ResolvConf(servers []net.IP) string {
	var b strings.Builder
	b.WriteString(resolvConfHeader)
	for _, dns := range servers {
		fmt.Fprintf(&b, "nameserver %s\n", dns.String())
	}
	return b.String()
}

// WriteResolvConf writes servers to path unless it already has that content.
func (c *Configurator) WriteResolvConf(path string, servers []net.IP) error {
	content := ResolvConf(servers)
	if current, err := c.fileMgr.ReadFile(path); err == nil && string(current) == content {
		c.log.Debug("DNS configuration already up to date")
		return nil
	}

	if err := c.fileMgr.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	c.log.WithField("path", path).Info("Updated resolver configuration")
	return nil
}
