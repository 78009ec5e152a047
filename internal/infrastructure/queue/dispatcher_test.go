package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type recordingLedger struct {
	mu     sync.Mutex
	events []ports.PaymentEvent
	fail   bool
}

func (r *recordingLedger) Record(_ context.Context, e ports.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("insert failed")
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recordingLedger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestDispatcher_RecordsPublishedEvents(t *testing.T) {
	ledger := &recordingLedger{}
	d := NewDispatcher(3, ledger, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, id := range []string{"b1", "b2", "b3", "b1"} {
		if !d.Publish(ports.PaymentEvent{BillID: id, Amount: 10}) {
			t.Fatalf("publish %s was dropped", id)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for ledger.count() < 4 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	if got := ledger.count(); got != 4 {
		t.Fatalf("expected 4 recorded events, got %d", got)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	ledger := &recordingLedger{}
	d := NewDispatcher(1, ledger, zerolog.Nop())

	for i := 0; i < 5; i++ {
		d.Publish(ports.PaymentEvent{BillID: "b1"})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := ledger.count(); got != 5 {
		t.Fatalf("expected buffered events to be drained, got %d", got)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingLedger{}, zerolog.Nop())
	for i := 0; i < channelBuffer; i++ {
		if !d.Publish(ports.PaymentEvent{BillID: "b"}) {
			t.Fatalf("publish %d dropped before buffer was full", i)
		}
	}
	if d.Publish(ports.PaymentEvent{BillID: "b"}) {
		t.Fatalf("expected publish to report a drop once the buffer is full")
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingLedger{}, zerolog.Nop())
	first := d.shardIndex("65f1c0ffee")
	for i := 0; i < 10; i++ {
		if d.shardIndex("65f1c0ffee") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
