package clients

import (
	"context"
	"log"
	"sync"
	"time"
)

// dispatchJob is one queued publish
type dispatchJob struct {
	queue   string
	payload interface{}
}

// Dispatcher publishes queue messages asynchronously so request handlers
// never block on the broker. Jobs are dropped with a log line when the
// buffer is full or the publish fails; delivery here is best effort.
type Dispatcher struct {
	publisher MessagePublisher
	jobs      chan dispatchJob
	wg        sync.WaitGroup
	timeout   time.Duration

	closeOnce sync.Once
}

// NewDispatcher starts the given number of workers draining the job buffer
func NewDispatcher(publisher MessagePublisher, workers, buffer int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 64
	}

	d := &Dispatcher{
		publisher: publisher,
		jobs:      make(chan dispatchJob, buffer),
		timeout:   10 * time.Second,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.publisher.Publish(ctx, job.queue, job.payload); err != nil {
			log.Printf("dispatcher: failed to publish to %s: %v", job.queue, err)
		}
		cancel()
	}
}

// Dispatch enqueues a publish without blocking the caller
func (d *Dispatcher) Dispatch(queue string, payload interface{}) {
	select {
	case d.jobs <- dispatchJob{queue: queue, payload: payload}:
	default:
		log.Printf("dispatcher: buffer full, dropping message for %s", queue)
	}
}

// Close stops accepting jobs and waits for in-flight publishes to finish
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}
