package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes post activities to a fixed set of workers using consistent
// hashing on the post id, so activities for one post are persisted in order.
type Dispatcher struct {
	workers []chan domain.PostActivity
	service ports.ActivityService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.PostActivity, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.PostActivity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands an activity to the worker responsible for its post. It never
// blocks: a full channel drops the activity.
func (d *Dispatcher) Record(a domain.PostActivity) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	idx := d.shardIndex(a.PostID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().Str("post_id", a.PostID).Int("worker_id", idx).Msg("activity queue full, dropping entry")
	}
}

// Close stops accepting activities and waits for workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a post id deterministically to a worker index.
func (d *Dispatcher) shardIndex(postID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.PostActivity) {
	defer d.wg.Done()
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := d.service.Process(ctx, a); err != nil {
				metrics.ActivityErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("post_id", a.PostID).
					Int("worker_id", id).
					Msg("activity processing failed")
			}
		}
	}
}
