// Package dhcp provides the DHCPv4 client adapter.
package dhcp

import (
	"context"
	"fmt"
	"time"

	"golang-ethernetd/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
)

// VendorClass is sent as option 60 with every request.
const VendorClass = "golang-ethernetd"

// ClientAdapter implements the DHCPClient port using insomniacslk/dhcp.
type ClientAdapter struct{}

var _ port.DHCPClient = (*ClientAdapter)(nil)

func NewClientAdapter() *ClientAdapter {
	return &ClientAdapter{}
}

// RequestModifiers returns the options added to DISCOVER and REQUEST messages.
func RequestModifiers() []dhcpv4.Modifier {
	return []dhcpv4.Modifier{
		dhcpv4.WithOption(dhcpv4.OptClassIdentifier(VendorClass)),
		dhcpv4.WithRequestedOptions(
			dhcpv4.OptionSubnetMask,
			dhcpv4.OptionRouter,
			dhcpv4.OptionDomainNameServer,
			dhcpv4.OptionInterfaceMTU,
			dhcpv4.OptionIPAddressLeaseTime,
			dhcpv4.OptionRenewTimeValue,
		),
	}
}

// RequestLease performs the DISCOVER/OFFER/REQUEST/ACK sequence on interfaceName.
func (c *ClientAdapter) RequestLease(ctx context.Context, interfaceName string, timeout time.Duration) (*nclient4.Lease, error) {
	client, err := nclient4.New(interfaceName, nclient4.WithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create DHCP client on %s: %w", interfaceName, err)
	}
	defer client.Close()

	lease, err := client.Request(ctx, RequestModifiers()...)
	if err != nil {
		return nil, fmt.Errorf("DHCP lease request failed: %w", err)
	}
	return lease, nil
}

// ReleaseLease gives the leased address back to the server.
func (c *ClientAdapter) ReleaseLease(interfaceName string, lease *nclient4.Lease) error {
	if lease == nil || lease.ACK == nil {
		return nil
	}

	client, err := nclient4.New(interfaceName)
	if err != nil {
		return fmt.Errorf("failed to create DHCP client on %s: %w", interfaceName, err)
	}
	defer client.Close()

	if err := client.Release(lease); err != nil {
		return fmt.Errorf("DHCP release of %s failed: %w", lease.ACK.YourIPAddr, err)
	}
	return nil
}
