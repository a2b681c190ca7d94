//go:build unit

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `logging:
  level: info
  format: simple

interface_regex: "^(eth|enp)\\d+"
api:
  listen: 127.0.0.1:9000
  request_timeout: 5s
provisioning:
  dhcp_timeout: 10s
  manage_dns: true

interfaces:
  eth0:
    dhcp: true
    capabilities:
      transports: [ethernet]
      capabilities: [internet, not_metered]
  eth1:
    dhcp: false
    static:
      ip: 192.168.1.100
      netmask: 255.255.255.0
      gateway: 192.168.1.1
      dns: [192.168.1.53]
`

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("ValidConfig", func(t *testing.T) {
		configFile := filepath.Join(tempDir, "valid.yml")
		err := os.WriteFile(configFile, []byte(validConfig), 0644)
		require.NoError(t, err)

		config, err := Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "simple", config.Logging.Format)
		assert.Equal(t, "127.0.0.1:9000", config.API.Listen)
		assert.Equal(t, 5*time.Second, config.API.RequestTimeout)
		assert.Equal(t, 10*time.Second, config.Provisioning.DHCPTimeout)
		assert.True(t, config.Provisioning.ManageDNS)
		assert.Len(t, config.Interfaces, 2)

		// Defaults fill in what the file leaves out
		assert.Equal(t, 3, config.Provisioning.DHCPRetries)
		assert.Equal(t, 30*time.Second, config.Provisioning.CheckInterval)
		assert.Equal(t, DefaultLockFile, config.LockFile)
		assert.Equal(t, DefaultResolvConf, config.Provisioning.ResolvConf)

		// Test DHCP interface
		eth0, exists := config.Interfaces["eth0"]
		assert.True(t, exists)
		assert.True(t, eth0.DHCP)
		assert.Nil(t, eth0.Static)
		assert.Equal(t, types.DefaultIPConfiguration(), eth0.IPConfiguration())
		assert.Equal(t, []types.Capability{types.CapabilityInternet, types.CapabilityNotMetered}, eth0.NetworkCapabilities().Capabilities)

		// Test static interface
		eth1, exists := config.Interfaces["eth1"]
		assert.True(t, exists)
		assert.False(t, eth1.DHCP)
		require.NotNil(t, eth1.Static)
		assert.Equal(t, "192.168.1.100", eth1.Static.IPAddress)
		assert.Equal(t, "255.255.255.0", eth1.Static.Netmask)
		assert.Equal(t, "192.168.1.1", eth1.Static.Gateway)
		assert.Equal(t, []string{"192.168.1.53"}, eth1.Static.DNS)
		assert.True(t, eth1.IPConfiguration().IsStatic())
		assert.True(t, eth1.NetworkCapabilities().Equal(types.DefaultEthernetCapabilities()))

		require.NoError(t, config.Validate())
		re, err := config.InterfaceMatcher()
		require.NoError(t, err)
		assert.True(t, re.MatchString("enp3"))
		assert.False(t, re.MatchString("wlan0"))
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		configContent := `invalid: yaml: content: [
`
		configFile := filepath.Join(tempDir, "invalid.yml")
		err := os.WriteFile(configFile, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(configFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("UnknownCapability", func(t *testing.T) {
		configContent := "interfaces:\n  eth0:\n    dhcp: true\n    capabilities:\n      transports: [ethernet]\n      capabilities: [teleport]\n"
		configFile := filepath.Join(tempDir, "caps.yml")
		require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

		_, err := Load(configFile)
		assert.Error(t, err)
	})
}

func TestConfig_GetInterfaceConfig(t *testing.T) {
	config := &Config{
		Logging: logging.LogConfig{
			Level:  "info",
			Format: "simple",
		},
		Interfaces: map[string]InterfaceConfig{
			"eth0": {
				DHCP: true,
			},
		},
	}

	t.Run("ExistingInterface", func(t *testing.T) {
		ifaceConfig, exists := config.GetInterfaceConfig("eth0")
		assert.True(t, exists)
		assert.True(t, ifaceConfig.DHCP)
	})

	t.Run("NonExistentInterface", func(t *testing.T) {
		_, exists := config.GetInterfaceConfig("eth99")
		assert.False(t, exists)
	})
}

func TestConfig_Validate(t *testing.T) {
	newConfig := func(ifaces map[string]InterfaceConfig) *Config {
		c := &Config{Interfaces: ifaces}
		c.applyDefaults()
		return c
	}

	t.Run("ValidConfig", func(t *testing.T) {
		config := newConfig(map[string]InterfaceConfig{
			"eth0": {DHCP: true},
			"eth1": {Static: &types.StaticIPConfig{IPAddress: "192.168.1.100", Netmask: "255.255.255.0", Gateway: "192.168.1.1"}},
		})
		assert.NoError(t, config.Validate())
	})

	t.Run("NoInterfacesUsesDiscovery", func(t *testing.T) {
		assert.NoError(t, newConfig(nil).Validate())
	})

	t.Run("InvalidRegex", func(t *testing.T) {
		config := newConfig(nil)
		config.InterfaceRegex = "eth("
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid interface_regex")
	})

	t.Run("InterfaceWithoutDHCPOrStatic", func(t *testing.T) {
		err := newConfig(map[string]InterfaceConfig{"eth0": {}}).Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must specify either dhcp or static configuration")
	})

	t.Run("InterfaceWithBothDHCPAndStatic", func(t *testing.T) {
		err := newConfig(map[string]InterfaceConfig{
			"eth0": {DHCP: true, Static: &types.StaticIPConfig{IPAddress: "192.168.1.100", Netmask: "255.255.255.0"}},
		}).Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot specify both dhcp and static configuration")
	})

	t.Run("StaticConfigMissingIP", func(t *testing.T) {
		err := newConfig(map[string]InterfaceConfig{
			"eth0": {Static: &types.StaticIPConfig{Netmask: "255.255.255.0"}},
		}).Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "static IP address is required")
	})

	t.Run("StaticConfigMissingNetmask", func(t *testing.T) {
		err := newConfig(map[string]InterfaceConfig{
			"eth0": {Static: &types.StaticIPConfig{IPAddress: "192.168.1.100"}},
		}).Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "static netmask is required")
	})

	t.Run("StaticConfigBadGateway", func(t *testing.T) {
		err := newConfig(map[string]InterfaceConfig{
			"eth0": {Static: &types.StaticIPConfig{IPAddress: "192.168.1.100", Netmask: "255.255.255.0", Gateway: "router"}},
		}).Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid gateway address")
	})

	t.Run("CapabilitiesWithoutTransport", func(t *testing.T) {
		err := newConfig(map[string]InterfaceConfig{
			"eth0": {DHCP: true, Capabilities: &types.NetworkCapabilities{}},
		}).Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one transport")
	})
}

func TestChangedInterfaces(t *testing.T) {
	static := &types.StaticIPConfig{IPAddress: "192.168.1.100", Netmask: "255.255.255.0"}
	before := &Config{Interfaces: map[string]InterfaceConfig{
		"eth0": {DHCP: true},
		"eth1": {DHCP: true},
		"eth2": {Static: static},
	}}
	after := &Config{Interfaces: map[string]InterfaceConfig{
		"eth0": {DHCP: true},
		"eth1": {Static: static},
		"eth2": {Static: static, Capabilities: &types.NetworkCapabilities{Transports: []types.Transport{types.TransportTest}}},
		"eth3": {DHCP: true},
	}}

	// eth3 is new but equal to the defaults
	assert.Equal(t, []string{"eth1", "eth2"}, ChangedInterfaces(before, after))
	assert.Empty(t, ChangedInterfaces(after, after))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "ethernetd.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("interfaces:\n  eth0:\n    dhcp: true\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, configFile, func(c *Config) { reloaded <- c })
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(configFile, []byte(validConfig), 0644))

	// A write may be observed mid-way; wait for the complete file
	deadline := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case c := <-reloaded:
			found = len(c.Interfaces) == 2
		case <-deadline:
			t.Fatal("configuration was not reloaded")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
