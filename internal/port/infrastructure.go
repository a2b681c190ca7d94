package port

import (
	"context"
	"time"

	"golang-ethernetd/internal/types"

	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
	"github.com/vishvananda/netlink"
)

//go:generate mockgen -destination=../mock/mock_infrastructure.go -package=mock golang-ethernetd/internal/port DHCPClient,NetworkManager,FileManager,Provisioner

// DHCPClient is a port for DHCP client operations.
// This interface abstracts DHCP lease acquisition and management.
type DHCPClient interface {
	// RequestLease performs DHCP DISCOVER/OFFER/REQUEST/ACK sequence
	RequestLease(ctx context.Context, interfaceName string, timeout time.Duration) (*nclient4.Lease, error)

	// ReleaseLease sends a DHCPRELEASE for a lease obtained earlier
	ReleaseLease(interfaceName string, lease *nclient4.Lease) error
}

// NetworkManager is a port for network interface operations.
// This interface abstracts netlink operations for network configuration.
type NetworkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)

	// ListLinks returns every link on the host
	ListLinks() ([]netlink.Link, error)

	// SubscribeLinks streams link updates into ch until done is closed
	SubscribeLinks(ch chan<- netlink.LinkUpdate, done <-chan struct{}) error

	// ListAddresses returns IPv4 addresses configured on the link
	ListAddresses(link netlink.Link) ([]netlink.Addr, error)

	// AddAddress adds an IP address to the interface
	AddAddress(link netlink.Link, addr *netlink.Addr) error

	// DeleteAddress removes an IP address from the interface
	DeleteAddress(link netlink.Link, addr *netlink.Addr) error

	// ListRoutes returns IPv4 routes
	ListRoutes() ([]netlink.Route, error)

	// AddRoute adds a route
	AddRoute(route *netlink.Route) error

	// DeleteRoute removes a route
	DeleteRoute(route *netlink.Route) error

	// ListNeighbors returns the IPv4 neighbor table of the link
	ListNeighbors(link netlink.Link) ([]netlink.Neigh, error)

	// SetLinkUp brings the interface up
	SetLinkUp(link netlink.Link) error
}

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile writes data to a file with specified permissions
	WriteFile(filename string, data []byte, perm int) error

	// FileExists checks if a file exists
	FileExists(filename string) bool
}

// Provisioner applies one kind of IP assignment to an interface.
type Provisioner interface {
	// Provision obtains and applies the configuration. It returns the resulting
	// link properties and how long they stay valid before Provision should run again.
	Provision(ctx context.Context, cfg types.IPConfiguration) (types.LinkProperties, time.Duration, error)

	// Clear removes whatever Provision applied.
	Clear(ctx context.Context) error
}
