//go:build unit

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNetworkRequest_CanBeSatisfiedBy(t *testing.T) {
	ethernet := NetworkCapabilities{
		Transports:   []Transport{TransportEthernet},
		Capabilities: []Capability{CapabilityInternet, CapabilityNotVCNManaged},
	}

	t.Run("MatchingTransportAndCapability", func(t *testing.T) {
		req := NetworkRequest{Transports: []Transport{TransportEthernet}, Capabilities: []Capability{CapabilityInternet}}
		assert.True(t, req.CanBeSatisfiedBy(ethernet))
	})

	t.Run("AnyOfTransports", func(t *testing.T) {
		req := NetworkRequest{Transports: []Transport{TransportWiFi, TransportEthernet}}
		assert.True(t, req.CanBeSatisfiedBy(ethernet))
	})

	t.Run("WrongTransport", func(t *testing.T) {
		req := NetworkRequest{Transports: []Transport{TransportWiFi}, Capabilities: []Capability{CapabilityInternet}}
		assert.False(t, req.CanBeSatisfiedBy(ethernet))
	})

	t.Run("MissingCapability", func(t *testing.T) {
		req := NetworkRequest{Capabilities: []Capability{CapabilityNotMetered}}
		assert.False(t, req.CanBeSatisfiedBy(ethernet))
	})

	t.Run("EmptyRequest", func(t *testing.T) {
		assert.True(t, NetworkRequest{}.CanBeSatisfiedBy(NetworkCapabilities{}))
	})
}

func TestNetworkCapabilities_CombineAndEqual(t *testing.T) {
	a := NetworkCapabilities{Transports: []Transport{TransportEthernet}}
	b := NetworkCapabilities{
		Transports:   []Transport{TransportEthernet, TransportTest},
		Capabilities: []Capability{CapabilityInternet},
	}

	combined := a.Combine(b)
	assert.Len(t, combined.Transports, 2)
	assert.True(t, combined.HasTransport(TransportTest))
	assert.True(t, combined.HasCapability(CapabilityInternet))
	assert.Len(t, a.Transports, 1, "combine must not mutate the receiver")

	reordered := NetworkCapabilities{
		Transports:   []Transport{TransportTest, TransportEthernet},
		Capabilities: []Capability{CapabilityInternet},
	}
	assert.True(t, combined.Equal(reordered))
	assert.False(t, combined.Equal(a))
}

func TestNetworkCapabilities_YAML(t *testing.T) {
	var nc NetworkCapabilities
	err := yaml.Unmarshal([]byte("transports: [ethernet, wifi]\ncapabilities: [internet, not_metered]\n"), &nc)
	require.NoError(t, err)
	assert.Equal(t, []Transport{TransportEthernet, TransportWiFi}, nc.Transports)
	assert.Equal(t, []Capability{CapabilityInternet, CapabilityNotMetered}, nc.Capabilities)

	err = yaml.Unmarshal([]byte("transports: [carrier_pigeon]\n"), &nc)
	assert.Error(t, err)
}

func TestLegacyTypeFor(t *testing.T) {
	cases := map[Transport]LegacyType{
		TransportEthernet:  LegacyTypeEthernet,
		TransportBluetooth: LegacyTypeBluetooth,
		TransportWiFi:      LegacyTypeWiFi,
		TransportCellular:  LegacyTypeMobile,
		TransportLowpan:    LegacyTypeNone,
		TransportWiFiAware: LegacyTypeNone,
		TransportTest:      LegacyTypeNone,
	}
	for transport, expected := range cases {
		t.Run(transport.String(), func(t *testing.T) {
			nc := NetworkCapabilities{Transports: []Transport{transport}}
			assert.Equal(t, expected, LegacyTypeFor(nc))
		})
	}
	assert.Equal(t, LegacyTypeNone, LegacyTypeFor(NetworkCapabilities{}))
}

func TestIPConfiguration_Validate(t *testing.T) {
	assert.NoError(t, DefaultIPConfiguration().Validate())

	static := IPConfiguration{
		Assignment: IPAssignmentStatic,
		Static:     &StaticIPConfig{IPAddress: "192.0.2.2", Netmask: "255.255.255.128", Gateway: "192.0.2.1"},
	}
	assert.NoError(t, static.Validate())
	assert.True(t, static.IsStatic())

	ipNet, err := static.Static.IPNet()
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.2/25", ipNet.String())

	assert.Error(t, IPConfiguration{Assignment: IPAssignmentStatic}.Validate())
	assert.Error(t, IPConfiguration{Assignment: "bootp"}.Validate())
	bad := IPConfiguration{Assignment: IPAssignmentStatic, Static: &StaticIPConfig{IPAddress: "2001:db8::1", Netmask: "255.255.255.0"}}
	assert.Error(t, bad.Validate())

	assert.True(t, static.Equal(static))
	assert.False(t, static.Equal(DefaultIPConfiguration()))
}
