package notify

import (
	"testing"
	"time"

	"cheq/internal/models"
)

func recvOne(t *testing.T, ch <-chan models.ClaimEvent) models.ClaimEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return models.ClaimEvent{}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	n := New()
	a, cancelA := n.Subscribe("bill-1")
	defer cancelA()
	b, cancelB := n.Subscribe("bill-1")
	defer cancelB()

	ev := models.ClaimEvent{BillID: "bill-1", ItemID: "item-1", ClaimedBy: "Mike"}
	n.Publish(ev)

	if got := recvOne(t, a); got != ev {
		t.Errorf("subscriber a got %+v, want %+v", got, ev)
	}
	if got := recvOne(t, b); got != ev {
		t.Errorf("subscriber b got %+v, want %+v", got, ev)
	}
}

func TestPublishFiltersByBill(t *testing.T) {
	n := New()
	other, cancel := n.Subscribe("bill-2")
	defer cancel()

	n.Publish(models.ClaimEvent{BillID: "bill-1", ItemID: "item-1", ClaimedBy: "Mike"})

	select {
	case ev := <-other:
		t.Errorf("bill-2 subscriber received foreign event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	n := New()
	ch, cancel := n.Subscribe("bill-1")

	cancel()
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after cancel")
	}

	// Cancel twice must be safe, and publishing afterwards must not panic.
	cancel()
	n.Publish(models.ClaimEvent{BillID: "bill-1", ItemID: "item-1", ClaimedBy: "Mike"})
}

func TestStalledSubscriberIsDropped(t *testing.T) {
	n := New()
	ch, cancel := n.Subscribe("bill-1")
	defer cancel()

	// Never drain: overflowing the buffer must close the channel instead of
	// blocking the publisher.
	for i := 0; i <= subscriberBuffer; i++ {
		n.Publish(models.ClaimEvent{BillID: "bill-1", ItemID: "item", ClaimedBy: "Mike"})
	}

	drained := 0
	for range ch {
		drained++
		if drained > subscriberBuffer {
			t.Fatal("channel was never closed")
		}
	}
	if drained != subscriberBuffer {
		t.Errorf("drained %d buffered events, want %d", drained, subscriberBuffer)
	}
}
