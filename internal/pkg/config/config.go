package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"golang-ethernetd/internal/pkg/logging"
	"golang-ethernetd/internal/types"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterfaceRegex = `^eth\d+$`
	DefaultLockFile       = "/run/golang-ethernetd.lock"
	DefaultAPIListen      = "127.0.0.1:9477"
	DefaultResolvConf     = "/etc/resolv.conf"
)

// InterfaceConfig represents the configuration for a network interface
type InterfaceConfig struct {
	DHCP         bool                       `yaml:"dhcp,omitempty"`
	Static       *types.StaticIPConfig      `yaml:"static,omitempty"`
	Capabilities *types.NetworkCapabilities `yaml:"capabilities,omitempty"`
}

// IPConfiguration converts the interface settings to the requested IP assignment.
func (ic InterfaceConfig) IPConfiguration() types.IPConfiguration {
	if ic.Static != nil {
		static := *ic.Static
		return types.IPConfiguration{Assignment: types.IPAssignmentStatic, Static: &static}
	}
	return types.DefaultIPConfiguration()
}

// NetworkCapabilities returns the configured capabilities or the ethernet defaults.
func (ic InterfaceConfig) NetworkCapabilities() types.NetworkCapabilities {
	if ic.Capabilities != nil {
		return *ic.Capabilities
	}
	return types.DefaultEthernetCapabilities()
}

// APIConfig configures the admin HTTP listener.
type APIConfig struct {
	Listen         string        `yaml:"listen"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ProvisioningConfig tunes the IP clients.
type ProvisioningConfig struct {
	DHCPTimeout   time.Duration `yaml:"dhcp_timeout"`
	DHCPRetries   int           `yaml:"dhcp_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	CheckInterval time.Duration `yaml:"check_interval"`
	ManageDNS     bool          `yaml:"manage_dns"`
	ResolvConf    string        `yaml:"resolv_conf"`
}

// Config represents the main configuration structure
type Config struct {
	Logging        logging.LogConfig          `yaml:"logging"`
	LockFile       string                     `yaml:"lock_file"`
	InterfaceRegex string                     `yaml:"interface_regex"`
	API            APIConfig                  `yaml:"api"`
	Provisioning   ProvisioningConfig         `yaml:"provisioning"`
	Interfaces     map[string]InterfaceConfig `yaml:"interfaces"`
}

// Load loads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LockFile == "" {
		c.LockFile = DefaultLockFile
	}
	if c.InterfaceRegex == "" {
		c.InterfaceRegex = DefaultInterfaceRegex
	}
	if c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}
	if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = 30 * time.Second
	}
	if c.Provisioning.DHCPTimeout == 0 {
		c.Provisioning.DHCPTimeout = 15 * time.Second
	}
	if c.Provisioning.DHCPRetries == 0 {
		c.Provisioning.DHCPRetries = 3
	}
	if c.Provisioning.RetryDelay == 0 {
		c.Provisioning.RetryDelay = 2 * time.Second
	}
	if c.Provisioning.CheckInterval == 0 {
		c.Provisioning.CheckInterval = 30 * time.Second
	}
	if c.Provisioning.ResolvConf == "" {
		c.Provisioning.ResolvConf = DefaultResolvConf
	}
}

// GetInterfaceConfig returns the configuration for a specific interface
func (c *Config) GetInterfaceConfig(interfaceName string) (InterfaceConfig, bool) {
	config, exists := c.Interfaces[interfaceName]
	return config, exists
}

// InterfaceMatcher returns the compiled interface name pattern.
func (c *Config) InterfaceMatcher() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.InterfaceRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid interface_regex %q: %w", c.InterfaceRegex, err)
	}
	return re, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.InterfaceMatcher(); err != nil {
		return err
	}
	if c.Provisioning.DHCPRetries < 0 {
		return fmt.Errorf("provisioning: dhcp_retries must not be negative")
	}

	for name, iface := range c.Interfaces {
		if !iface.DHCP && iface.Static == nil {
			return fmt.Errorf("interface %s: must specify either dhcp or static configuration", name)
		}
		if iface.DHCP && iface.Static != nil {
			return fmt.Errorf("interface %s: cannot specify both dhcp and static configuration", name)
		}
		if iface.Static != nil {
			if err := validateStaticConfig(name, iface.Static); err != nil {
				return err
			}
		}
		if iface.Capabilities != nil && len(iface.Capabilities.Transports) == 0 {
			return fmt.Errorf("interface %s: capabilities must declare at least one transport", name)
		}
	}

	return nil
}

func validateStaticConfig(interfaceName string, static *types.StaticIPConfig) error {
	if static.IPAddress == "" {
		return fmt.Errorf("interface %s: static IP address is required", interfaceName)
	}
	if static.Netmask == "" {
		return fmt.Errorf("interface %s: static netmask is required", interfaceName)
	}
	if err := static.Validate(); err != nil {
		return fmt.Errorf("interface %s: %w", interfaceName, err)
	}
	return nil
}

// ChangedInterfaces returns the sorted names of interfaces whose effective IP
// configuration or capabilities differ between two configurations. An
// interface missing from a configuration is compared using the defaults.
func ChangedInterfaces(before, after *Config) []string {
	names := make(map[string]struct{})
	for name := range before.Interfaces {
		names[name] = struct{}{}
	}
	for name := range after.Interfaces {
		names[name] = struct{}{}
	}

	var changed []string
	for name := range names {
		prev := before.Interfaces[name]
		next := after.Interfaces[name]
		if !prev.IPConfiguration().Equal(next.IPConfiguration()) ||
			!prev.NetworkCapabilities().Equal(next.NetworkCapabilities()) {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}
