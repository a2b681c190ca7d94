// Package metrics exposes Prometheus instrumentation for the provisioning state machine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProvisioningStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethernetd_provisioning_starts_total",
			Help: "Total number of provisioning clients started",
		},
		[]string{"interface"},
	)

	ProvisioningResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethernetd_provisioning_results_total",
			Help: "Provisioning callbacks handled, by result",
		},
		[]string{"interface", "result"}, // success, failure
	)

	ReachabilityLost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethernetd_reachability_lost_total",
			Help: "Total number of reachability losses reported by provisioning clients",
		},
		[]string{"interface"},
	)

	StaleCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethernetd_stale_callbacks_total",
			Help: "Callbacks dropped because their provisioning attempt had been torn down",
		},
		[]string{"callback"},
	)

	RequestCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethernetd_request_completions_total",
			Help: "Administrative request completions, by outcome",
		},
		[]string{"outcome"}, // success, aborted, not_configured, no_changes, error
	)

	InterfaceState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ethernetd_interface_state",
			Help: "Current state of each tracked interface (0 = down, 1 = provisioning, 2 = provisioned)",
		},
		[]string{"interface"},
	)

	RegisteredNetworks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ethernetd_registered_networks",
			Help: "Number of networks currently registered",
		},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ethernetd_network_requests",
			Help: "Number of network requests currently filed",
		},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ethernetd_build_info",
			Help: "Build information",
		},
		[]string{"tag", "commit"},
	)
)

// RecordProvisioningResult counts a provisioning success or failure callback.
func RecordProvisioningResult(iface string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	ProvisioningResults.WithLabelValues(iface, result).Inc()
}

// SetInterfaceState publishes the state of an interface; state follows the gauge help text.
func SetInterfaceState(iface string, state int) {
	InterfaceState.WithLabelValues(iface).Set(float64(state))
}

// ForgetInterface drops the series of a removed interface.
func ForgetInterface(iface string) {
	InterfaceState.DeleteLabelValues(iface)
}

// SetBuildInfo records the running version.
func SetBuildInfo(tag, commit string) {
	BuildInfo.WithLabelValues(tag, commit).Set(1)
}
