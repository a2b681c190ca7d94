// Package types defines common types used across the application.
package types

import (
	"fmt"
	"net"
	"slices"
)

// IPAssignment selects how an interface obtains its address.
type IPAssignment string

const (
	IPAssignmentDHCP   IPAssignment = "dhcp"
	IPAssignmentStatic IPAssignment = "static"
)

// StaticIPConfig represents static IP configuration parameters.
type StaticIPConfig struct {
	IPAddress string   `yaml:"ip" json:"ip"`                       // IP address in dotted decimal notation (e.g., "192.168.1.100")
	Netmask   string   `yaml:"netmask" json:"netmask"`             // Subnet mask in dotted decimal notation (e.g., "255.255.255.0")
	Gateway   string   `yaml:"gateway" json:"gateway,omitempty"`   // Default gateway IP address (optional)
	DNS       []string `yaml:"dns,omitempty" json:"dns,omitempty"` // Name servers to publish with the link properties
}

// Validate checks that the static configuration describes a usable IPv4 address.
func (s StaticIPConfig) Validate() error {
	ip := net.ParseIP(s.IPAddress)
	if ip == nil {
		return fmt.Errorf("invalid IP address: %s", s.IPAddress)
	}
	if ip.To4() == nil {
		return fmt.Errorf("only IPv4 addresses are supported: %s", s.IPAddress)
	}

	mask := net.ParseIP(s.Netmask)
	if mask == nil || mask.To4() == nil {
		return fmt.Errorf("invalid netmask: %s", s.Netmask)
	}

	if s.Gateway != "" {
		gw := net.ParseIP(s.Gateway)
		if gw == nil || gw.To4() == nil {
			return fmt.Errorf("invalid gateway address: %s", s.Gateway)
		}
	}

	for _, dns := range s.DNS {
		if net.ParseIP(dns) == nil {
			return fmt.Errorf("invalid DNS server address: %s", dns)
		}
	}
	return nil
}

// IPNet returns the configured address and mask as a single network.
func (s StaticIPConfig) IPNet() (*net.IPNet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &net.IPNet{
		IP:   net.ParseIP(s.IPAddress).To4(),
		Mask: net.IPMask(net.ParseIP(s.Netmask).To4()),
	}, nil
}

// IPConfiguration is the requested IP assignment of an interface.
type IPConfiguration struct {
	Assignment IPAssignment    `json:"assignment"`
	Static     *StaticIPConfig `json:"static,omitempty"`
}

// DefaultIPConfiguration returns a dynamic (DHCP) configuration.
func DefaultIPConfiguration() IPConfiguration {
	return IPConfiguration{Assignment: IPAssignmentDHCP}
}

// IsStatic reports whether the configuration carries a static address.
func (c IPConfiguration) IsStatic() bool {
	return c.Assignment == IPAssignmentStatic && c.Static != nil
}

// Validate checks the assignment mode against the static settings.
func (c IPConfiguration) Validate() error {
	switch c.Assignment {
	case IPAssignmentDHCP, "":
		if c.Static != nil {
			return fmt.Errorf("dhcp assignment cannot carry static settings")
		}
		return nil
	case IPAssignmentStatic:
		if c.Static == nil {
			return fmt.Errorf("static assignment requires static settings")
		}
		return c.Static.Validate()
	default:
		return fmt.Errorf("unknown ip assignment %q", c.Assignment)
	}
}

// Equal reports whether two configurations request the same assignment.
func (c IPConfiguration) Equal(o IPConfiguration) bool {
	if c.Assignment != o.Assignment {
		return false
	}
	if c.Static == nil || o.Static == nil {
		return c.Static == o.Static
	}
	return c.Static.IPAddress == o.Static.IPAddress &&
		c.Static.Netmask == o.Static.Netmask &&
		c.Static.Gateway == o.Static.Gateway &&
		slices.Equal(c.Static.DNS, o.Static.DNS)
}

// LinkProperties describes the layer 3 state of a provisioned interface.
type LinkProperties struct {
	InterfaceName string       `json:"interface"`
	Addresses     []*net.IPNet `json:"-"`
	Gateway       net.IP       `json:"gateway,omitempty"`
	DNSServers    []net.IP     `json:"dns,omitempty"`
	MTU           int          `json:"mtu,omitempty"`
}

// AddressStrings returns the addresses in CIDR notation.
func (lp LinkProperties) AddressStrings() []string {
	out := make([]string, 0, len(lp.Addresses))
	for _, a := range lp.Addresses {
		out = append(out, a.String())
	}
	return out
}

// Equal compares two link properties by value.
func (lp LinkProperties) Equal(o LinkProperties) bool {
	if lp.InterfaceName != o.InterfaceName || lp.MTU != o.MTU || !lp.Gateway.Equal(o.Gateway) {
		return false
	}
	if !slices.Equal(lp.AddressStrings(), o.AddressStrings()) {
		return false
	}
	return slices.EqualFunc(lp.DNSServers, o.DNSServers, func(a, b net.IP) bool { return a.Equal(b) })
}

// InterfaceParams is what the host reports about an existing interface.
type InterfaceParams struct {
	Name         string
	Index        int
	HardwareAddr net.HardwareAddr
	MTU          int
}
