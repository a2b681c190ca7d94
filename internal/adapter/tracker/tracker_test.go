//go:build unit

package tracker

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"golang-ethernetd/internal/mock"
	"golang-ethernetd/internal/pkg/config"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"
	"golang.org/x/sys/unix"
)

type fakeService struct {
	events chan string
}

func newFakeService() *fakeService {
	return &fakeService{events: make(chan string, 32)}
}

func (s *fakeService) AddInterface(name string, _ net.HardwareAddr, ipConfig types.IPConfiguration, _ types.NetworkCapabilities) {
	s.events <- fmt.Sprintf("add %s %s", name, ipConfig.Assignment)
}

func (s *fakeService) RemoveInterface(name string) {
	s.events <- "remove " + name
}

func (s *fakeService) UpdateInterfaceLinkState(name string, up bool, listener port.ManagementListener) {
	s.events <- fmt.Sprintf("link %s %t", name, up)
	listener.OnComplete(nil, nil)
}

func (s *fakeService) expect(t *testing.T, events ...string) {
	t.Helper()
	for _, want := range events {
		select {
		case got := <-s.events:
			require.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func device(name string, adminUp, operUp bool) *netlink.Device {
	attrs := netlink.LinkAttrs{
		Name:         name,
		HardwareAddr: net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		OperState:    netlink.OperDown,
	}
	if adminUp {
		attrs.Flags |= net.FlagUp
	}
	if operUp {
		attrs.OperState = netlink.OperUp
	}
	return &netlink.Device{LinkAttrs: attrs}
}

func newUpdate(link netlink.Link, msgType uint16) netlink.LinkUpdate {
	return netlink.LinkUpdate{Header: unix.NlMsghdr{Type: msgType}, Link: link}
}

func testConfig() *config.Config {
	return &config.Config{
		InterfaceRegex: `^eth\d+$`,
		Interfaces: map[string]config.InterfaceConfig{
			"lan0": {Static: &types.StaticIPConfig{IPAddress: "192.168.1.100", Netmask: "255.255.255.0"}},
		},
	}
}

type trackerFixture struct {
	tracker    *Tracker
	svc        *fakeService
	networkMgr *mock.MockNetworkManager
	updates    chan chan<- netlink.LinkUpdate
	errs       chan error
	cancel     context.CancelFunc
}

func newTrackerFixture(t *testing.T, links func() []netlink.Link) *trackerFixture {
	ctrl := gomock.NewController(t)
	fx := &trackerFixture{
		svc:        newFakeService(),
		networkMgr: mock.NewMockNetworkManager(ctrl),
		updates:    make(chan chan<- netlink.LinkUpdate, 1),
		errs:       make(chan error, 1),
	}

	fx.networkMgr.EXPECT().SubscribeLinks(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ch chan<- netlink.LinkUpdate, _ <-chan struct{}) error {
			fx.updates <- ch
			return nil
		})
	fx.networkMgr.EXPECT().ListLinks().DoAndReturn(func() ([]netlink.Link, error) {
		return links(), nil
	}).AnyTimes()

	var err error
	fx.tracker, err = New(fx.networkMgr, fx.svc, testConfig())
	require.NoError(t, err)
	return fx
}

func (fx *trackerFixture) run(t *testing.T) chan<- netlink.LinkUpdate {
	ctx, cancel := context.WithCancel(context.Background())
	fx.cancel = cancel
	t.Cleanup(cancel)
	go func() { fx.errs <- fx.tracker.Run(ctx) }()

	select {
	case ch := <-fx.updates:
		return ch
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not subscribe")
		return nil
	}
}

func TestTracker_InitialScanAndUpdates(t *testing.T) {
	lo := device("lo", true, true)
	lo.Flags |= net.FlagLoopback
	eth0 := device("eth0", true, true)
	eth1 := device("eth1", false, false)
	links := []netlink.Link{lo, eth0, eth1, device("wlan0", true, true), device("lan0", true, true)}

	fx := newTrackerFixture(t, func() []netlink.Link { return links })
	fx.networkMgr.EXPECT().SetLinkUp(eth1).Return(nil)

	ch := fx.run(t)
	fx.svc.expect(t,
		"add eth0 dhcp",
		"link eth0 true",
		"add eth1 dhcp",
		"add lan0 static",
		"link lan0 true",
	)

	ch <- newUpdate(device("eth1", true, true), unix.RTM_NEWLINK)
	fx.svc.expect(t, "link eth1 true")

	// Repeated state is not forwarded
	ch <- newUpdate(device("eth1", true, true), unix.RTM_NEWLINK)
	ch <- newUpdate(device("eth0", true, true), unix.RTM_DELLINK)
	fx.svc.expect(t, "remove eth0")

	ch <- newUpdate(device("eth0", true, true), unix.RTM_DELLINK)
	up := device("eth1", true, false)
	up.RawFlags = unix.IFF_LOWER_UP
	ch <- newUpdate(up, unix.RTM_NEWLINK)
	ch <- newUpdate(device("eth1", true, false), unix.RTM_NEWLINK)
	fx.svc.expect(t, "link eth1 false")

	fx.cancel()
	select {
	case err := <-fx.errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop")
	}
	assert.Empty(t, fx.svc.events)
}

func TestTracker_SetConfigRescans(t *testing.T) {
	links := []netlink.Link{device("eth0", true, false), device("wlan0", true, false), device("lan0", true, false)}
	fx := newTrackerFixture(t, func() []netlink.Link { return links })

	fx.run(t)
	fx.svc.expect(t, "add eth0 dhcp", "add lan0 static")

	cfg := testConfig()
	cfg.InterfaceRegex = `^(eth|wlan)\d+$`
	cfg.Interfaces = nil
	require.NoError(t, fx.tracker.SetConfig(cfg))
	fx.svc.expect(t, "add wlan0 dhcp", "remove lan0")

	bad := testConfig()
	bad.InterfaceRegex = "eth("
	assert.Error(t, fx.tracker.SetConfig(bad))
}

func TestTracker_SubscriptionClosed(t *testing.T) {
	fx := newTrackerFixture(t, func() []netlink.Link { return nil })

	ch := fx.run(t)
	close(ch)

	select {
	case err := <-fx.errs:
		assert.ErrorIs(t, err, ErrSubscriptionClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop")
	}
}

func TestNew_InvalidRegex(t *testing.T) {
	cfg := testConfig()
	cfg.InterfaceRegex = "eth("
	_, err := New(mock.NewMockNetworkManager(gomock.NewController(t)), newFakeService(), cfg)
	assert.Error(t, err)
}
