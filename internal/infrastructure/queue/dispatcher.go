package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Sink receives delivered toasts.
type Sink interface {
	Deliver(scope string, toast domain.Toast)
}

type envelope struct {
	scope string
	toast domain.Toast
}

// Dispatcher routes toasts to a fixed set of workers using consistent
// hashing on the browser-context scope, so a context sees its toasts in
// the order they were raised.
type Dispatcher struct {
	workers []chan envelope
	sinks   []Sink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger, sinks ...Sink) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan envelope, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan envelope, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a toast without blocking. When the worker's buffer is
// full the toast is dropped.
func (d *Dispatcher) Notify(scope string, toast domain.Toast) {
	idx := d.shardIndex(scope)
	select {
	case d.workers[idx] <- envelope{scope: scope, toast: toast}:
		metrics.ToastQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ToastsTotal.WithLabelValues(toast.Variant, "dropped").Inc()
		d.log.Warn().
			Str("scope", scope).
			Str("title", toast.Title).
			Int("worker_id", idx).
			Msg("toast queue full, dropping toast")
	}
}

// shardIndex maps a scope deterministically to a worker index.
func (d *Dispatcher) shardIndex(scope string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(scope))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan envelope) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-ch:
			if !ok {
				return
			}
			for _, s := range d.sinks {
				s.Deliver(env.scope, env.toast)
			}
			metrics.ToastsTotal.WithLabelValues(env.toast.Variant, "delivered").Inc()
			metrics.ToastQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}
