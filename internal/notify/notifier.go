// Package notify propagates committed claim changes to every party
// currently viewing a bill. Events cross the boundary as immutable
// payloads over channels; no shared mutable state is exposed.
package notify

import (
	"log/slog"
	"sync"

	"cheq/internal/metrics"
	"cheq/internal/models"
)

// subscriberBuffer is how many undelivered events a subscriber may accumulate
// before it is considered stalled and disconnected.
const subscriberBuffer = 64

// Notifier fans committed ClaimEvents out to per-bill subscribers.
//
// Delivery has no ordering guarantee across different items, matching the
// independence of per-item claims. A subscriber that stops draining its
// channel is disconnected (channel closed) rather than blocking the
// committer or losing a single event silently; on reconnect the client
// reloads the bill, which restores convergence because applying claim
// state is idempotent.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan models.ClaimEvent // billID -> subscriber id -> channel
}

// New returns an empty notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan models.ClaimEvent)}
}

// Subscribe registers a listener for one bill's claim events. The returned
// cancel func releases the channel and must be called when the party
// navigates away; after cancel the channel is closed.
func (n *Notifier) Subscribe(billID string) (<-chan models.ClaimEvent, func()) {
	ch := make(chan models.ClaimEvent, subscriberBuffer)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	if n.subs[billID] == nil {
		n.subs[billID] = make(map[int]chan models.ClaimEvent)
	}
	n.subs[billID][id] = ch
	n.mu.Unlock()

	metrics.NotifierSubscribers.Inc()

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.drop(billID, id)
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its bill. Safe to call
// from the claim-commit path; it never blocks.
func (n *Notifier) Publish(ev models.ClaimEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subs[ev.BillID] {
		select {
		case ch <- ev:
		default:
			slog.Warn("Dropping stalled change-feed subscriber",
				"bill_id", ev.BillID, "subscriber", id)
			n.drop(ev.BillID, id)
		}
	}
}

// drop removes and closes one subscription. Callers hold n.mu; sends also
// happen under n.mu, so closing here cannot race a send.
func (n *Notifier) drop(billID string, id int) {
	bill := n.subs[billID]
	ch, ok := bill[id]
	if !ok {
		return
	}
	delete(bill, id)
	if len(bill) == 0 {
		delete(n.subs, billID)
	}
	close(ch)
	metrics.NotifierSubscribers.Dec()
}
