package usb

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"
)

// eventBufferSize smooths over bursts of changes within one poll; a consumer
// that stops draining entirely only stalls the worker, never deadlocks it.
const eventBufferSize = 16

// An Observer is an immutable polling configuration and a factory for
// subscriptions. The zero value is not useful; start from NewObserver and
// derive adjusted copies with the With methods.
type Observer struct {
	pollInterval time.Duration
	filter       SearchFilter
	logger       golog.Logger
	clock        clock.Clock
}

// NewObserver returns an observer that polls every second with no device
// filters.
func NewObserver() Observer {
	return Observer{
		pollInterval: time.Second,
		logger:       golog.Global(),
		clock:        clock.New(),
	}
}

// WithPollInterval returns a copy of the observer that waits the given number
// of whole seconds between polls.
func (o Observer) WithPollInterval(seconds uint32) Observer {
	o.pollInterval = time.Duration(seconds) * time.Second
	return o
}

// WithVendorID returns a copy of the observer restricted to devices with the
// given vendor ID.
func (o Observer) WithVendorID(id uint16) Observer {
	o.filter.VendorID = &id
	return o
}

// WithProductID returns a copy of the observer restricted to devices with the
// given product ID.
func (o Observer) WithProductID(id uint16) Observer {
	o.filter.ProductID = &id
	return o
}

// WithLogger returns a copy of the observer that logs through the given
// logger.
func (o Observer) WithLogger(logger golog.Logger) Observer {
	o.logger = logger
	return o
}

// Subscribe starts one background worker polling for device changes and
// returns its subscription. It never blocks on enumeration; the initial
// population arrives asynchronously as the subscription's first event.
func (o Observer) Subscribe() *Subscription {
	if o.logger == nil {
		o.logger = golog.Global()
	}
	if o.clock == nil {
		o.clock = clock.New()
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		events: make(chan Event, eventBufferSize),
		cancel: cancel,
	}
	sub.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		o.watch(cancelCtx, sub.events)
	}, sub.activeBackgroundWorkers.Done)
	return sub
}

// A Subscription is a live view of device changes. Its lifetime governs the
// background worker's lifetime: closing it stops the worker promptly, no
// matter how long the poll interval is.
type Subscription struct {
	events                  chan Event
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
	closeOnce               sync.Once
}

// Events returns the stream of device change events. The channel is closed
// once the worker stops, so ranging over it terminates after Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close stops the background worker and waits for it to finish. Events
// already queued remain readable until the channel is drained.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.activeBackgroundWorkers.Wait()
	})
	return nil
}

// watch runs the poll-diff-emit loop until ctx is cancelled. It owns the
// device population exclusively and closes events on the way out.
func (o Observer) watch(ctx context.Context, events chan<- Event) {
	defer close(events)

	devices, err := enumerate(o.filter)
	if err != nil {
		o.logger.Errorw("usb enumeration failed; starting from an empty population", "error", err)
		devices = nil
	}
	if !sendEvent(ctx, events, Event{Kind: EventInitial, Devices: devices}) {
		return
	}
	population := newDeviceSet(devices)

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.clock.After(o.pollInterval):
		}

		current, err := enumerate(o.filter)
		if err != nil {
			// a transient registry failure should not kill a long-lived
			// subscription; treat it as no change this tick
			o.logger.Errorw("usb enumeration failed; skipping tick", "error", err)
			continue
		}
		next := newDeviceSet(current)

		removed, added := diffDevices(population, next)
		for _, device := range removed {
			if !sendEvent(ctx, events, Event{Kind: EventDisconnect, Device: device}) {
				return
			}
		}
		for _, device := range added {
			if !sendEvent(ctx, events, Event{Kind: EventConnect, Device: device}) {
				return
			}
		}
		population = next
	}
}

func sendEvent(ctx context.Context, events chan<- Event, event Event) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
