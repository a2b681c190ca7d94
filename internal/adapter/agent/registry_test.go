//go:build unit

package agent

import (
	"net"
	"testing"

	"golang-ethernetd/internal/mock"
	"golang-ethernetd/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingHandler struct {
	needed   []types.NetworkRequest
	released []types.NetworkRequest
}

func (h *recordingHandler) NeedNetworkFor(req types.NetworkRequest) {
	h.needed = append(h.needed, req)
}

func (h *recordingHandler) ReleaseNetworkFor(req types.NetworkRequest) {
	h.released = append(h.released, req)
}

var internetRequest = types.NetworkRequest{
	Transports:   []types.Transport{types.TransportEthernet},
	Capabilities: []types.Capability{types.CapabilityInternet},
}

func linkProps(name string) types.LinkProperties {
	_, ipNet, _ := net.ParseCIDR("192.168.1.10/24")
	ipNet.IP = net.ParseIP("192.168.1.10").To4()
	return types.LinkProperties{
		InterfaceName: name,
		Addresses:     []*net.IPNet{ipNet},
		Gateway:       net.ParseIP("192.168.1.1"),
	}
}

func TestRegistry_Requests(t *testing.T) {
	r := NewRegistry()
	h := &recordingHandler{}

	// Requests filed before the handler exists are replayed
	first := r.AddRequest(internetRequest)
	r.SetRequestHandler(h)
	require.Len(t, h.needed, 1)

	pinned := types.NetworkRequest{Specifier: "eth1"}
	second := r.AddRequest(pinned)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, []types.NetworkRequest{internetRequest, pinned}, h.needed)

	assert.Equal(t, []RequestInfo{{ID: 1, Request: internetRequest}, {ID: 2, Request: pinned}}, r.Requests())

	require.NoError(t, r.RemoveRequest(first))
	assert.Equal(t, []types.NetworkRequest{internetRequest}, h.released)
	assert.Len(t, r.Requests(), 1)

	err := r.RemoveRequest(first)
	assert.ErrorIs(t, err, ErrUnknownRequest)
	assert.Len(t, h.released, 1)
}

func TestAgent_Lifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewRegistry()

	caps := types.DefaultEthernetCapabilities()
	cfg := types.AgentConfig{LegacyType: types.LegacyTypeEthernet, LegacyTypeName: "Ethernet"}
	a := r.NewAgent(caps, linkProps("eth0"), cfg, mock.NewMockAgentCallbacks(ctrl))
	b := r.NewAgent(caps, linkProps("eth1"), cfg, mock.NewMockAgentCallbacks(ctrl))

	assert.Empty(t, r.Networks())

	a.Register()
	a.Register()
	b.Register()
	assert.Equal(t, FirstNetworkID, a.Network().ID)
	assert.Equal(t, FirstNetworkID+1, b.Network().ID)

	a.MarkConnected()
	networks := r.Networks()
	require.Len(t, networks, 2)
	assert.Equal(t, "eth0", networks[0].Interface)
	assert.True(t, networks[0].Connected)
	assert.Equal(t, []string{"192.168.1.10/24"}, networks[0].Addresses)
	assert.Equal(t, "192.168.1.1", networks[0].Gateway)
	assert.Equal(t, types.LegacyTypeEthernet, networks[0].LegacyType)
	assert.False(t, networks[1].Connected)

	updated := linkProps("eth0")
	updated.Gateway = net.ParseIP("192.168.1.254")
	a.SendLinkProperties(updated)
	assert.Equal(t, "192.168.1.254", r.Networks()[0].Gateway)

	a.Unregister()
	a.Unregister()
	networks = r.Networks()
	require.Len(t, networks, 1)
	assert.Equal(t, FirstNetworkID+1, networks[0].Network.ID)

	// Handles are never reused
	a.Register()
	assert.Equal(t, FirstNetworkID+2, a.Network().ID)
}

func TestRegistry_RemoveRequestUnwantsNetworks(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewRegistry()
	r.SetRequestHandler(&recordingHandler{})

	cbEth0 := mock.NewMockAgentCallbacks(ctrl)
	cbEth1 := mock.NewMockAgentCallbacks(ctrl)
	cbIdle := mock.NewMockAgentCallbacks(ctrl)

	caps := types.DefaultEthernetCapabilities()
	eth0 := r.NewAgent(caps, linkProps("eth0"), types.AgentConfig{}, cbEth0)
	eth1 := r.NewAgent(caps, linkProps("eth1"), types.AgentConfig{}, cbEth1)
	idle := r.NewAgent(caps, linkProps("eth2"), types.AgentConfig{}, cbIdle)
	for _, a := range []*Agent{eth0, eth1, idle} {
		a.Register()
	}
	eth0.MarkConnected()
	eth1.MarkConnected()

	general := r.AddRequest(internetRequest)
	pinned := r.AddRequest(types.NetworkRequest{Specifier: "eth1"})

	// Only the pinned request is left; eth1 stays wanted
	cbEth0.EXPECT().OnNetworkUnwanted().Times(1)
	require.NoError(t, r.RemoveRequest(general))
	eth0.Unregister()

	// Unconnected networks are never released
	cbEth1.EXPECT().OnNetworkUnwanted().Times(1)
	require.NoError(t, r.RemoveRequest(pinned))
	assert.Empty(t, r.Requests())
}
