package types

import (
	"fmt"
	"slices"
	"strings"
)

// Transport is a network transport type.
type Transport int

const (
	TransportCellular Transport = iota
	TransportWiFi
	TransportBluetooth
	TransportEthernet
	TransportVPN
	TransportWiFiAware
	TransportLowpan
	TransportTest
)

var transportNames = map[Transport]string{
	TransportCellular:  "cellular",
	TransportWiFi:      "wifi",
	TransportBluetooth: "bluetooth",
	TransportEthernet:  "ethernet",
	TransportVPN:       "vpn",
	TransportWiFiAware: "wifi_aware",
	TransportLowpan:    "lowpan",
	TransportTest:      "test",
}

func (t Transport) String() string {
	if name, ok := transportNames[t]; ok {
		return name
	}
	return fmt.Sprintf("transport(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Transport) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Transport) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range transportNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown transport %q", name)
}

// Capability is a network capability flag.
type Capability int

const (
	CapabilityInternet Capability = iota
	CapabilityNotMetered
	CapabilityNotRestricted
	CapabilityTrusted
	CapabilityNotVPN
	CapabilityNotRoaming
	CapabilityNotCongested
	CapabilityNotSuspended
	CapabilityNotVCNManaged
)

var capabilityNames = map[Capability]string{
	CapabilityInternet:      "internet",
	CapabilityNotMetered:    "not_metered",
	CapabilityNotRestricted: "not_restricted",
	CapabilityTrusted:       "trusted",
	CapabilityNotVPN:        "not_vpn",
	CapabilityNotRoaming:    "not_roaming",
	CapabilityNotCongested:  "not_congested",
	CapabilityNotSuspended:  "not_suspended",
	CapabilityNotVCNManaged: "not_vcn_managed",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Capability) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range capabilityNames {
		if v == name {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown capability %q", name)
}

// NetworkCapabilities is the declared transport and capability set of a network.
type NetworkCapabilities struct {
	Transports   []Transport  `yaml:"transports" json:"transports"`
	Capabilities []Capability `yaml:"capabilities" json:"capabilities"`
}

// DefaultEthernetCapabilities returns the capabilities given to an interface
// that has no explicit configuration.
func DefaultEthernetCapabilities() NetworkCapabilities {
	return NetworkCapabilities{
		Transports: []Transport{TransportEthernet},
		Capabilities: []Capability{
			CapabilityInternet,
			CapabilityNotRestricted,
			CapabilityTrusted,
			CapabilityNotVPN,
			CapabilityNotRoaming,
			CapabilityNotCongested,
			CapabilityNotSuspended,
			CapabilityNotVCNManaged,
			CapabilityNotMetered,
		},
	}
}

// HasTransport reports whether t is one of the declared transports.
func (nc NetworkCapabilities) HasTransport(t Transport) bool {
	return slices.Contains(nc.Transports, t)
}

// HasCapability reports whether c is set.
func (nc NetworkCapabilities) HasCapability(c Capability) bool {
	return slices.Contains(nc.Capabilities, c)
}

// Combine returns the union of both sets.
func (nc NetworkCapabilities) Combine(o NetworkCapabilities) NetworkCapabilities {
	out := NetworkCapabilities{
		Transports:   slices.Clone(nc.Transports),
		Capabilities: slices.Clone(nc.Capabilities),
	}
	for _, t := range o.Transports {
		if !out.HasTransport(t) {
			out.Transports = append(out.Transports, t)
		}
	}
	for _, c := range o.Capabilities {
		if !out.HasCapability(c) {
			out.Capabilities = append(out.Capabilities, c)
		}
	}
	return out
}

// Equal compares both sets ignoring order.
func (nc NetworkCapabilities) Equal(o NetworkCapabilities) bool {
	a, b := slices.Clone(nc.Transports), slices.Clone(o.Transports)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(slices.Compact(a), slices.Compact(b)) {
		return false
	}
	c, d := slices.Clone(nc.Capabilities), slices.Clone(o.Capabilities)
	slices.Sort(c)
	slices.Sort(d)
	return slices.Equal(slices.Compact(c), slices.Compact(d))
}

func (nc NetworkCapabilities) String() string {
	var parts []string
	for _, t := range nc.Transports {
		parts = append(parts, t.String())
	}
	for _, c := range nc.Capabilities {
		parts = append(parts, c.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// NetworkRequest is a consumer's description of the network it needs.
type NetworkRequest struct {
	Transports   []Transport  `json:"transports,omitempty"`
	Capabilities []Capability `json:"capabilities,omitempty"`
	// Specifier pins the request to a single interface name when set.
	Specifier string `json:"specifier,omitempty"`
}

// CanBeSatisfiedBy reports whether a network with capabilities nc matches the
// request. Any one of the requested transports is enough; every requested
// capability must be present.
func (r NetworkRequest) CanBeSatisfiedBy(nc NetworkCapabilities) bool {
	if len(r.Transports) > 0 {
		found := false
		for _, t := range r.Transports {
			if nc.HasTransport(t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, c := range r.Capabilities {
		if !nc.HasCapability(c) {
			return false
		}
	}
	return true
}

func (r NetworkRequest) String() string {
	s := NetworkCapabilities{Transports: r.Transports, Capabilities: r.Capabilities}.String()
	if r.Specifier != "" {
		s += " specifier=" + r.Specifier
	}
	return s
}
