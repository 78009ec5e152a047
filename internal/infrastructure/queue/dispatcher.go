package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/api/metrics"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists one payment ledger entry.
type Recorder interface {
	Record(ctx context.Context, event ports.PaymentEvent) error
}

// Dispatcher routes payment events to a fixed set of workers using consistent
// hashing on the bill id, so entries for one bill are written in order.
type Dispatcher struct {
	workers  []chan ports.PaymentEvent
	recorder Recorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.PaymentEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PaymentEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an event to the worker responsible for its bill. It never
// blocks: when that worker's buffer is full the event is dropped and false
// is returned.
func (d *Dispatcher) Publish(event ports.PaymentEvent) bool {
	idx := d.shardIndex(event.BillID)
	select {
	case d.workers[idx] <- event:
		metrics.LedgerQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.LedgerEventsTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

// shardIndex maps a bill id deterministically to a worker index.
func (d *Dispatcher) shardIndex(billID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(billID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.PaymentEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.LedgerQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.record(ctx, id, event)
		}
	}
}

// drain records whatever is still buffered after shutdown was requested.
func (d *Dispatcher) drain(id int, ch <-chan ports.PaymentEvent) {
	for {
		select {
		case event := <-ch:
			d.record(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event ports.PaymentEvent) {
	if err := d.recorder.Record(ctx, event); err != nil {
		metrics.LedgerEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("bill_id", event.BillID).
			Int("worker_id", id).
			Msg("payment ledger write failed")
		return
	}
	metrics.LedgerEventsTotal.WithLabelValues("recorded").Inc()
}
