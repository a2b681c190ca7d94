//go:build unit

package ipclient

import (
	"context"
	"net"
	"testing"
	"time"

	"golang-ethernetd/internal/mock"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"
)

type clientFixture struct {
	callbacks   *mock.MockProvisioningCallbacks
	provisioner *mock.MockProvisioner
	networkMgr  *mock.MockNetworkManager
	created     int
}

func newClientFixture(t *testing.T) *clientFixture {
	ctrl := gomock.NewController(t)
	return &clientFixture{
		callbacks:   mock.NewMockProvisioningCallbacks(ctrl),
		provisioner: mock.NewMockProvisioner(ctrl),
		networkMgr:  mock.NewMockNetworkManager(ctrl),
	}
}

func (f *clientFixture) newClient(checkInterval time.Duration) *Client {
	f.callbacks.EXPECT().OnCreated()
	return New("eth0", f.callbacks, f.networkMgr, func(types.IPConfiguration) port.Provisioner {
		f.created++
		return f.provisioner
	}, checkInterval)
}

func testLinkProperties(addr string) types.LinkProperties {
	ip, ipnet, _ := net.ParseCIDR(addr)
	ipnet.IP = ip
	return types.LinkProperties{
		InterfaceName: "eth0",
		Addresses:     []*net.IPNet{ipnet},
		Gateway:       net.ParseIP("192.0.2.1"),
	}
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestClient_ProvisioningSuccess(t *testing.T) {
	f := newClientFixture(t)
	lp := testLinkProperties("192.0.2.10/24")
	cfg := types.DefaultIPConfiguration()

	succeeded := make(chan struct{})
	f.provisioner.EXPECT().Provision(gomock.Any(), cfg).Return(lp, time.Hour, nil)
	f.callbacks.EXPECT().OnProvisioningSuccess(lp).Do(func(types.LinkProperties) { close(succeeded) })

	c := f.newClient(time.Hour)
	c.StartProvisioning(cfg)
	waitFor(t, succeeded, "provisioning success")

	gomock.InOrder(
		f.provisioner.EXPECT().Clear(gomock.Any()).Return(nil),
		f.callbacks.EXPECT().OnQuit(),
	)
	c.Shutdown()

	// A second shutdown and a late start are ignored
	c.Shutdown()
	c.StartProvisioning(cfg)
	assert.Equal(t, 1, f.created)
}

func TestClient_ProvisioningFailure(t *testing.T) {
	f := newClientFixture(t)

	failed := make(chan struct{})
	f.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(types.LinkProperties{}, time.Duration(0), assert.AnError)
	f.callbacks.EXPECT().OnProvisioningFailure(types.LinkProperties{InterfaceName: "eth0"}).Do(func(types.LinkProperties) { close(failed) })

	c := f.newClient(time.Hour)
	c.StartProvisioning(types.DefaultIPConfiguration())
	waitFor(t, failed, "provisioning failure")

	f.provisioner.EXPECT().Clear(gomock.Any()).Return(assert.AnError)
	f.callbacks.EXPECT().OnQuit()
	c.Shutdown()
}

func TestClient_LinkPropertiesChange(t *testing.T) {
	f := newClientFixture(t)
	first := testLinkProperties("192.0.2.10/24")
	second := testLinkProperties("192.0.2.11/24")

	changed := make(chan struct{})
	gomock.InOrder(
		f.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(first, 10*time.Millisecond, nil),
		f.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(second, time.Hour, nil),
	)
	f.callbacks.EXPECT().OnProvisioningSuccess(first)
	f.callbacks.EXPECT().OnLinkPropertiesChange(second).Do(func(types.LinkProperties) { close(changed) })

	c := f.newClient(time.Hour)
	c.StartProvisioning(types.DefaultIPConfiguration())
	waitFor(t, changed, "link properties change")

	f.provisioner.EXPECT().Clear(gomock.Any()).Return(nil)
	f.callbacks.EXPECT().OnQuit()
	c.Shutdown()
}

func TestClient_ReachabilityLost(t *testing.T) {
	f := newClientFixture(t)
	lp := testLinkProperties("192.0.2.10/24")
	link := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 2, Name: "eth0"}}

	lost := make(chan struct{})
	f.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(lp, time.Hour, nil)
	f.callbacks.EXPECT().OnProvisioningSuccess(lp)
	f.networkMgr.EXPECT().GetLinkByName("eth0").Return(link, nil).AnyTimes()

	gomock.InOrder(
		f.networkMgr.EXPECT().ListNeighbors(link).Return([]netlink.Neigh{
			{IP: net.ParseIP("192.0.2.1"), State: netlink.NUD_REACHABLE},
		}, nil),
		f.networkMgr.EXPECT().ListNeighbors(link).Return([]netlink.Neigh{
			{IP: net.ParseIP("192.0.2.7"), State: netlink.NUD_FAILED},
			{IP: net.ParseIP("192.0.2.1"), State: netlink.NUD_FAILED},
		}, nil),
	)
	f.callbacks.EXPECT().OnReachabilityLost("gateway 192.0.2.1 is unreachable").Do(func(string) { close(lost) })

	c := f.newClient(10 * time.Millisecond)
	c.StartProvisioning(types.DefaultIPConfiguration())
	waitFor(t, lost, "reachability loss")

	f.provisioner.EXPECT().Clear(gomock.Any()).Return(nil)
	f.callbacks.EXPECT().OnQuit()
	c.Shutdown()
}

func TestClient_ShutdownDuringProvisioning(t *testing.T) {
	f := newClientFixture(t)

	started := make(chan struct{})
	f.provisioner.EXPECT().Provision(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ types.IPConfiguration) (types.LinkProperties, time.Duration, error) {
			close(started)
			<-ctx.Done()
			return types.LinkProperties{}, 0, ctx.Err()
		})

	c := f.newClient(time.Hour)
	c.StartProvisioning(types.DefaultIPConfiguration())
	waitFor(t, started, "provisioning start")

	// No failure is reported for a cancelled attempt
	f.provisioner.EXPECT().Clear(gomock.Any()).Return(nil)
	f.callbacks.EXPECT().OnQuit()
	c.Shutdown()
}

func TestClient_Interval(t *testing.T) {
	c := &Client{checkInterval: time.Minute}
	assert.Equal(t, time.Second, c.interval(time.Second))
	assert.Equal(t, time.Minute, c.interval(0))

	c.checkInterval = 0
	assert.Equal(t, 30*time.Second, c.interval(-1))
}

func TestClient_CheckReachabilityWithoutGateway(t *testing.T) {
	f := newClientFixture(t)
	c := f.newClient(time.Hour)

	reason, lost := c.checkReachability(types.LinkProperties{InterfaceName: "eth0"})
	require.False(t, lost)
	assert.Empty(t, reason)
}
