package ethernet

import (
	"errors"
	"fmt"

	"golang-ethernetd/internal/pkg/metrics"
	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"
)

var (
	// ErrNotConfigured is reported for calls naming an interface that is not tracked.
	ErrNotConfigured = errors.New("interface is not configured")

	// ErrNoChanges is reported when the requested link state is already the current one.
	ErrNoChanges = errors.New("no changes with requested link state")

	// ErrAborted is reported to a pending request superseded by a later call,
	// a link down or the removal of its interface.
	ErrAborted = errors.New("the IP provisioning request has been aborted")
)

func notConfigured(name string) error {
	return fmt.Errorf("%s can't be updated: %w", name, ErrNotConfigured)
}

func noChanges(name string) error {
	return fmt.Errorf("%s: %w", name, ErrNoChanges)
}

func aborted(name string) error {
	return fmt.Errorf("%s: %w", name, ErrAborted)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrAborted):
		return "aborted"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrNoChanges):
		return "no_changes"
	default:
		return "error"
	}
}

// complete delivers a result to a listener, which may be nil.
func complete(l port.ManagementListener, network *types.Network, err error) {
	if l == nil {
		return
	}
	metrics.RequestCompletions.WithLabelValues(outcome(err)).Inc()
	l.OnComplete(network, err)
}
