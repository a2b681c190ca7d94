// Package ipclient implements the per-interface provisioning client.
package ipclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

const clearTimeout = 5 * time.Second

// ProvisionerFactory returns the provisioner serving cfg.
type ProvisionerFactory func(cfg types.IPConfiguration) port.Provisioner

// Client runs one provisioning attempt at a time on its own goroutine and
// reports through the callbacks it was created with.
type Client struct {
	ifaceName      string
	cb             port.ProvisioningCallbacks
	networkMgr     port.NetworkManager
	newProvisioner ProvisionerFactory
	checkInterval  time.Duration
	log            *logrus.Entry

	mu          sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	provisioner port.Provisioner
	quit        bool
}

var _ port.ProvisioningClient = (*Client)(nil)

// New creates a client and reports OnCreated.
func New(ifaceName string, cb port.ProvisioningCallbacks, networkMgr port.NetworkManager,
	newProvisioner ProvisionerFactory, checkInterval time.Duration) *Client {
	c := &Client{
		ifaceName:      ifaceName,
		cb:             cb,
		networkMgr:     networkMgr,
		newProvisioner: newProvisioner,
		checkInterval:  checkInterval,
		log:            logging.WithComponentAndInterface("ipclient", ifaceName),
	}
	cb.OnCreated()
	return c
}

// StartProvisioning replaces the running attempt, if any, with one for cfg.
func (c *Client) StartProvisioning(cfg types.IPConfiguration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quit {
		c.log.Warn("Start requested after shutdown, ignoring")
		return
	}
	c.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.provisioner = c.newProvisioner(cfg)
	go c.run(ctx, c.provisioner, cfg, c.done)
}

// Shutdown stops the attempt, removes what it configured and reports OnQuit.
// No other callback is delivered once it returns.
func (c *Client) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quit {
		return
	}
	c.quit = true
	c.stopLocked()
	c.cb.OnQuit()
}

func (c *Client) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel, c.done = nil, nil

	ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
	defer cancel()
	if err := c.provisioner.Clear(ctx); err != nil {
		c.log.WithError(err).Warn("Failed to clear IP configuration")
	}
	c.provisioner = nil
}

func (c *Client) run(ctx context.Context, p port.Provisioner, cfg types.IPConfiguration, done chan struct{}) {
	defer close(done)
	logger := c.log.WithField("assignment", cfg.Assignment)

	lp, refresh, err := p.Provision(ctx, cfg)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.WithError(err).Error("Provisioning failed")
		c.cb.OnProvisioningFailure(types.LinkProperties{InterfaceName: c.ifaceName})
		return
	}
	logger.WithField("addresses", lp.AddressStrings()).Info("Provisioning succeeded")
	c.cb.OnProvisioningSuccess(lp)

	refreshTimer := time.NewTimer(c.interval(refresh))
	defer refreshTimer.Stop()
	checkTicker := time.NewTicker(c.interval(0))
	defer checkTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refreshTimer.C:
			next, refresh, err := p.Provision(ctx, cfg)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.WithError(err).Error("Refreshing IP configuration failed")
				c.cb.OnProvisioningFailure(lp)
				return
			}
			if !next.Equal(lp) {
				lp = next
				logger.WithField("addresses", lp.AddressStrings()).Info("Link properties changed")
				c.cb.OnLinkPropertiesChange(lp)
			}
			refreshTimer.Reset(c.interval(refresh))
		case <-checkTicker.C:
			if reason, lost := c.checkReachability(lp); lost {
				logger.WithField("reason", reason).Warn("Lost reachability")
				c.cb.OnReachabilityLost(reason)
				return
			}
		}
	}
}

func (c *Client) interval(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	if c.checkInterval > 0 {
		return c.checkInterval
	}
	return 30 * time.Second
}

// checkReachability reports whether the kernel has marked the gateway's
// neighbor entry as failed.
func (c *Client) checkReachability(lp types.LinkProperties) (string, bool) {
	if lp.Gateway == nil {
		return "", false
	}
	link, err := c.networkMgr.GetLinkByName(c.ifaceName)
	if err != nil {
		c.log.WithError(err).Debug("Reachability check skipped")
		return "", false
	}
	neighs, err := c.networkMgr.ListNeighbors(link)
	if err != nil {
		c.log.WithError(err).Debug("Reachability check skipped")
		return "", false
	}
	for _, n := range neighs {
		if n.IP.Equal(lp.Gateway) && n.State&netlink.NUD_FAILED != 0 {
			return fmt.Sprintf("gateway %s is unreachable", lp.Gateway), true
		}
	}
	return "", false
}
