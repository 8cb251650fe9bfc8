package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/api/metrics"
	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes download reports to a fixed set of workers using
// consistent hashing on the user's email, so one user's reports are applied
// in the order they arrived.
type Dispatcher struct {
	workers []chan ports.DownloadReport
	service ports.DownloadService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.DownloadService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.DownloadReport, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.DownloadReport, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.runWorker(ctx, i, ch)
		}()
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a report to the worker responsible for its user. It never
// blocks: a full worker channel yields domain.ErrQueueFull.
func (d *Dispatcher) Enqueue(report ports.DownloadReport) error {
	idx := d.shardIndex(report.UserEmail)
	select {
	case d.workers[idx] <- report:
		metrics.DownloadQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// shardIndex maps a user deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.DownloadReport) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case report, ok := <-ch:
			if !ok {
				return
			}
			metrics.DownloadQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			// Processing outlives the request that queued the report.
			err := d.service.Process(context.WithoutCancel(ctx), report)
			metrics.DownloadProcessingDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.DownloadReportsTotal.WithLabelValues(report.Status, "error").Inc()
				d.log.Error().Err(err).
					Str("model_id", report.ModelID).
					Int("worker_id", id).
					Msg("download report processing failed")
				continue
			}
			metrics.DownloadReportsTotal.WithLabelValues(report.Status, "processed").Inc()
		}
	}
}
