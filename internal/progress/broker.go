// Package progress implements a broker for live bulk-operation progress.
// Sweeps over large collections run for minutes; subscribers (the CLI, tests)
// see per-node events as they happen instead of waiting for the final log.
package progress

import "sync/atomic"

// Event describes one step of a bulk operation.
type Event struct {
	Op     string
	URI    string
	Detail string
}

// Operation names used in events.
const (
	OpMerge     = "merge_top_containers"
	OpExpiry    = "unpublish_expired_restrictions"
	OpTextMatch = "unpublish_restrictions_by_text"
	OpCleanup   = "remove_resource_associations"
	OpEADImport = "ead_import"
)

// Broker fans events out to subscribers.
//
// Concurrency model: a single internal loop owns the client set. Public
// methods communicate with the loop through channels, so no mutexes are
// required.
type Broker struct {
	subscribeCh   chan chan Event
	unsubscribeCh chan chan Event
	publishCh     chan Event

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker and starts its event loop.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan chan Event),
		unsubscribeCh: make(chan chan Event),
		publishCh:     make(chan Event, 256),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan Event]struct{})

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			for ch := range clients {
				select {
				case ch <- ev:
				default:
					// Subscriber buffer full; skip to avoid blocking the loop.
				}
			}
		}
	}
}

// Close stops the loop and closes all subscriber channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a subscriber and returns its channel.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(ch chan Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// Publish sends an event to all subscribers. A nil broker drops the event,
// so callers can hold an optional broker without guarding every publish.
func (b *Broker) Publish(ev Event) {
	if b == nil || b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}
