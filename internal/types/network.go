package types

import "fmt"

// Network is the handle of a registered network.
type Network struct {
	ID uint32 `json:"id"`
}

func (n Network) String() string {
	return fmt.Sprintf("network(%d)", n.ID)
}

// LegacyType is the coarse network type reported alongside an agent.
type LegacyType int

const (
	LegacyTypeNone      LegacyType = -1
	LegacyTypeMobile    LegacyType = 0
	LegacyTypeWiFi      LegacyType = 1
	LegacyTypeBluetooth LegacyType = 7
	LegacyTypeEthernet  LegacyType = 9
)

// LegacyTypeFor maps the first transport of nc to its legacy type.
func LegacyTypeFor(nc NetworkCapabilities) LegacyType {
	if len(nc.Transports) == 0 {
		return LegacyTypeNone
	}
	switch nc.Transports[0] {
	case TransportEthernet:
		return LegacyTypeEthernet
	case TransportBluetooth:
		return LegacyTypeBluetooth
	case TransportWiFi:
		return LegacyTypeWiFi
	case TransportCellular:
		return LegacyTypeMobile
	default:
		return LegacyTypeNone
	}
}

// AgentConfig is passed to the agent factory with every new agent.
type AgentConfig struct {
	LegacyType      LegacyType
	LegacyTypeName  string
	LegacyExtraInfo string
}
