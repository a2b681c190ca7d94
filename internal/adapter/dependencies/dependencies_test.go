//go:build unit

package dependencies

import (
	"errors"
	"net"
	"testing"
	"time"

	"golang-ethernetd/internal/adapter/agent"
	"golang-ethernetd/internal/adapter/dhcp"
	"golang-ethernetd/internal/adapter/ipclient"
	"golang-ethernetd/internal/adapter/static"
	"golang-ethernetd/internal/mock"
	"golang-ethernetd/internal/pkg/config"
	"golang-ethernetd/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"
)

type depsFixture struct {
	deps       *Dependencies
	networkMgr *mock.MockNetworkManager
	registry   *agent.Registry
	ctrl       *gomock.Controller
}

func newDepsFixture(t *testing.T) *depsFixture {
	ctrl := gomock.NewController(t)
	fx := &depsFixture{
		networkMgr: mock.NewMockNetworkManager(ctrl),
		registry:   agent.NewRegistry(),
		ctrl:       ctrl,
	}
	fx.deps = New(mock.NewMockDHCPClient(ctrl), fx.networkMgr, mock.NewMockFileManager(ctrl), fx.registry,
		config.ProvisioningConfig{DHCPTimeout: time.Second, DHCPRetries: 1, CheckInterval: time.Minute})
	return fx
}

func TestMakeProvisioningClient(t *testing.T) {
	t.Run("ExistingInterface", func(t *testing.T) {
		fx := newDepsFixture(t)
		fx.networkMgr.EXPECT().GetLinkByName("eth0").Return(&netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "eth0"}}, nil)
		cb := mock.NewMockProvisioningCallbacks(fx.ctrl)
		cb.EXPECT().OnCreated()

		client, err := fx.deps.MakeProvisioningClient("eth0", cb)
		require.NoError(t, err)
		assert.IsType(t, &ipclient.Client{}, client)
	})

	t.Run("MissingInterface", func(t *testing.T) {
		fx := newDepsFixture(t)
		fx.networkMgr.EXPECT().GetLinkByName("eth9").Return(nil, errors.New("link not found"))

		client, err := fx.deps.MakeProvisioningClient("eth9", mock.NewMockProvisioningCallbacks(fx.ctrl))
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestProvisionerFor(t *testing.T) {
	fx := newDepsFixture(t)
	cfg := fx.deps.provisioningConfig()

	assert.IsType(t, &dhcp.Provisioner{}, fx.deps.provisionerFor("eth0", types.DefaultIPConfiguration(), cfg))

	staticConfig := types.IPConfiguration{
		Assignment: types.IPAssignmentStatic,
		Static:     &types.StaticIPConfig{IPAddress: "10.0.0.2", Netmask: "255.255.255.0"},
	}
	assert.IsType(t, &static.Provisioner{}, fx.deps.provisionerFor("eth0", staticConfig, cfg))

	fx.deps.SetProvisioningConfig(config.ProvisioningConfig{CheckInterval: 5 * time.Second})
	assert.Equal(t, 5*time.Second, fx.deps.provisioningConfig().CheckInterval)
}

func TestMakeNetworkAgent(t *testing.T) {
	fx := newDepsFixture(t)

	a := fx.deps.MakeNetworkAgent(types.DefaultEthernetCapabilities(), types.LinkProperties{InterfaceName: "eth0"},
		types.AgentConfig{LegacyType: types.LegacyTypeEthernet}, mock.NewMockAgentCallbacks(fx.ctrl))
	a.Register()

	assert.Equal(t, agent.FirstNetworkID, a.Network().ID)
	networks := fx.registry.Networks()
	require.Len(t, networks, 1)
	assert.Equal(t, "eth0", networks[0].Interface)
}

func TestGetInterfaceParamsByName(t *testing.T) {
	fx := newDepsFixture(t)
	hwAddr := net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	fx.networkMgr.EXPECT().GetLinkByName("eth0").Return(&netlink.Device{LinkAttrs: netlink.LinkAttrs{
		Name: "eth0", Index: 3, HardwareAddr: hwAddr, MTU: 1500,
	}}, nil)
	fx.networkMgr.EXPECT().GetLinkByName("eth1").Return(nil, errors.New("link not found"))

	params, ok := fx.deps.GetInterfaceParamsByName("eth0")
	require.True(t, ok)
	assert.Equal(t, &types.InterfaceParams{Name: "eth0", Index: 3, HardwareAddr: hwAddr, MTU: 1500}, params)

	params, ok = fx.deps.GetInterfaceParamsByName("eth1")
	assert.False(t, ok)
	assert.Nil(t, params)
}
