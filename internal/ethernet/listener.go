package ethernet

import (
	"context"
	"fmt"
	"sync"

	"golang-ethernetd/internal/port"
	"golang-ethernetd/internal/types"
)

// FutureListener is a ManagementListener a caller can block on.
type FutureListener struct {
	once    sync.Once
	done    chan struct{}
	network *types.Network
	err     error
}

var _ port.ManagementListener = (*FutureListener)(nil)

// NewFutureListener returns a listener that has not completed yet.
func NewFutureListener() *FutureListener {
	return &FutureListener{done: make(chan struct{})}
}

// OnComplete records the first result; later calls are ignored.
func (l *FutureListener) OnComplete(network *types.Network, err error) {
	l.once.Do(func() {
		l.network = network
		l.err = err
		close(l.done)
	})
}

// Done is closed once the result is available.
func (l *FutureListener) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the request completes or ctx is done.
func (l *FutureListener) Wait(ctx context.Context) (*types.Network, error) {
	select {
	case <-l.done:
		return l.network, l.err
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for request completion: %w", ctx.Err())
	}
}
