// Package tracker follows host links over netlink and feeds the ethernet
// service with interface arrivals, removals and link state changes.
package tracker

import (
	"context"
	"errors"
	"net"
	"regexp"
	"sync"

	"golang-ethernetd/internal/pkg/config"
	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// ErrSubscriptionClosed is returned by Run when netlink ends the link subscription.
var ErrSubscriptionClosed = errors.New("link subscription closed")

// Service receives the interface events produced by the tracker.
type Service interface {
	AddInterface(name string, hwAddr net.HardwareAddr, ipConfig types.IPConfiguration, caps types.NetworkCapabilities)
	RemoveInterface(name string)
	UpdateInterfaceLinkState(name string, up bool, listener port.ManagementListener)
}

// Tracker owns the set of tracked interfaces. Everything but SetConfig runs
// on the Run goroutine.
type Tracker struct {
	networkMgr port.NetworkManager
	svc        Service

	mu      sync.Mutex
	cfg     *config.Config
	matcher *regexp.Regexp

	rescan  chan struct{}
	tracked map[string]bool
	log     *logrus.Entry
}

// New creates a tracker. cfg must have passed Validate.
func New(networkMgr port.NetworkManager, svc Service, cfg *config.Config) (*Tracker, error) {
	t := &Tracker{
		networkMgr: networkMgr,
		svc:        svc,
		rescan:     make(chan struct{}, 1),
		tracked:    make(map[string]bool),
		log:        logging.WithComponent("tracker"),
	}
	if err := t.setConfig(cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// SetConfig swaps the configuration and rescans host links with it.
func (t *Tracker) SetConfig(cfg *config.Config) error {
	if err := t.setConfig(cfg); err != nil {
		return err
	}
	select {
	case t.rescan <- struct{}{}:
	default:
	}
	return nil
}

func (t *Tracker) setConfig(cfg *config.Config) error {
	matcher, err := cfg.InterfaceMatcher()
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.cfg = cfg
	t.matcher = matcher
	t.mu.Unlock()
	return nil
}

// Run subscribes to link updates, reports the links already present and then
// follows changes until ctx is done.
func (t *Tracker) Run(ctx context.Context) error {
	updates := make(chan netlink.LinkUpdate, 64)
	done := make(chan struct{})
	defer close(done)

	if err := t.networkMgr.SubscribeLinks(updates, done); err != nil {
		return err
	}
	if err := t.scan(); err != nil {
		return err
	}
	t.log.WithField("tracked", len(t.tracked)).Info("Tracking interfaces")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.rescan:
			if err := t.scan(); err != nil {
				t.log.WithError(err).Error("Failed to rescan links")
			}
		case update, ok := <-updates:
			if !ok {
				return ErrSubscriptionClosed
			}
			if update.Link == nil {
				continue
			}
			if update.Header.Type == unix.RTM_DELLINK {
				t.removeLink(update.Link.Attrs().Name)
				continue
			}
			t.handleLink(update.Link)
		}
	}
}

func (t *Tracker) scan() error {
	links, err := t.networkMgr.ListLinks()
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, len(links))
	for _, link := range links {
		present[link.Attrs().Name] = struct{}{}
		t.handleLink(link)
	}
	for name := range t.tracked {
		if _, ok := present[name]; !ok || !t.wants(name) {
			t.removeLink(name)
		}
	}
	return nil
}

func (t *Tracker) wants(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.cfg.GetInterfaceConfig(name); ok {
		return true
	}
	return t.matcher.MatchString(name)
}

func (t *Tracker) interfaceConfig(name string) config.InterfaceConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	ifaceCfg, _ := t.cfg.GetInterfaceConfig(name)
	return ifaceCfg
}

func (t *Tracker) handleLink(link netlink.Link) {
	attrs := link.Attrs()
	if attrs.Flags&net.FlagLoopback != 0 || !t.wants(attrs.Name) {
		return
	}
	log := t.log.WithField("interface", attrs.Name)

	current, known := t.tracked[attrs.Name]
	if !known {
		ifaceCfg := t.interfaceConfig(attrs.Name)
		t.svc.AddInterface(attrs.Name, attrs.HardwareAddr, ifaceCfg.IPConfiguration(), ifaceCfg.NetworkCapabilities())
		t.tracked[attrs.Name] = false

		if attrs.Flags&net.FlagUp == 0 {
			if err := t.networkMgr.SetLinkUp(link); err != nil {
				log.WithError(err).Warn("Failed to bring interface up")
			}
		}
	}

	up := linkUp(attrs)
	if known && up == current {
		return
	}
	if !known && !up {
		return
	}
	t.tracked[attrs.Name] = up
	t.svc.UpdateInterfaceLinkState(attrs.Name, up, linkStateListener(log, up))
}

func (t *Tracker) removeLink(name string) {
	if _, ok := t.tracked[name]; !ok {
		return
	}
	delete(t.tracked, name)
	t.svc.RemoveInterface(name)
}

func linkUp(attrs *netlink.LinkAttrs) bool {
	return attrs.OperState == netlink.OperUp || attrs.RawFlags&unix.IFF_LOWER_UP != 0
}

func linkStateListener(log *logrus.Entry, up bool) port.ManagementListener {
	return port.ListenerFunc(func(network *types.Network, err error) {
		entry := log.WithField("up", up)
		switch {
		case err != nil:
			entry.WithError(err).Warn("Link state change did not complete")
		case network != nil:
			entry.WithField("network", network.ID).Info("Link state change completed")
		default:
			entry.Debug("Link state change completed")
		}
	})
}
