package worker

import (
	"log"
	"sync"
	"time"

	"github.com/kacperjurak/golcrmeter/pkg/models"
)

// ProcessorFunc solves one measurement request.
type ProcessorFunc func(req models.MeasurementRequest) (models.SolvedPayload, error)

// Pool runs measurement solves on a fixed set of workers. Queues are
// buffered so submitting stays cheap while workers are busy; webhooks
// get a deeper queue because delivery is the slow path.
type Pool struct {
	jobs         chan models.WorkItem
	results      chan models.WorkResult
	webhookQueue chan models.WebhookItem
	workers      int
	shutdown     chan struct{}
	wg           sync.WaitGroup
	processor    ProcessorFunc
	sender       WebhookSender
}

// WebhookSender delivers one queued webhook item.
type WebhookSender interface {
	Send(item models.WebhookItem) error
}

// Options holds configuration for creating a new worker pool.
type Options struct {
	Workers   int
	Processor ProcessorFunc
	Sender    WebhookSender
}

// New creates and starts a worker pool.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 5
	}

	pool := &Pool{
		jobs:         make(chan models.WorkItem, opts.Workers*2),
		results:      make(chan models.WorkResult, opts.Workers*2),
		webhookQueue: make(chan models.WebhookItem, opts.Workers*4),
		workers:      opts.Workers,
		shutdown:     make(chan struct{}),
		processor:    opts.Processor,
		sender:       opts.Sender,
	}

	pool.start()
	return pool
}

func (p *Pool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.wg.Add(1)
	go p.webhookProcessor()

	log.Printf("🔧 Worker pool started with %d workers", p.workers)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobs:
			p.results <- p.processJob(job)

		case <-p.shutdown:
			return
		}
	}
}

func (p *Pool) processJob(job models.WorkItem) models.WorkResult {
	start := time.Now()
	payload, err := p.processor(job.Measurement)

	result := models.WorkResult{
		ID:             job.ID,
		RequestID:      job.RequestID,
		BatchID:        job.BatchID,
		Iteration:      job.Iteration,
		Payload:        payload,
		Success:        err == nil,
		ProcessingTime: time.Since(start),
	}
	if err != nil {
		result.Err = err.Error()
	}
	return result
}

// webhookProcessor drains the webhook queue without blocking workers.
func (p *Pool) webhookProcessor() {
	defer p.wg.Done()

	for {
		select {
		case item := <-p.webhookQueue:
			if p.sender == nil {
				continue
			}
			go func(it models.WebhookItem) {
				if err := p.sender.Send(it); err != nil {
					log.Printf("⚠️  Webhook delivery failed for %s: %v", it.RequestID, err)
				}
			}(item)

		case <-p.shutdown:
			return
		}
	}
}

// SubmitJob submits a job, blocking only if the queue is full.
func (p *Pool) SubmitJob(job models.WorkItem) {
	select {
	case p.jobs <- job:
	default:
		log.Printf("⚠️  Worker pool jobs channel full, job may be delayed")
		p.jobs <- job
	}
}

// GetResult retrieves a result without blocking.
func (p *Pool) GetResult() (models.WorkResult, bool) {
	select {
	case result := <-p.results:
		return result, true
	default:
		return models.WorkResult{}, false
	}
}

// QueueWebhook queues a webhook for async delivery, dropping it if the
// queue is full.
func (p *Pool) QueueWebhook(item models.WebhookItem) {
	select {
	case p.webhookQueue <- item:
	default:
		log.Printf("⚠️  Webhook queue full, dropping webhook for %s", item.RequestID)
	}
}

// Shutdown stops all workers and waits for them to exit.
func (p *Pool) Shutdown() {
	log.Printf("🛑 Shutting down worker pool...")
	close(p.shutdown)
	p.wg.Wait()
	log.Printf("✅ Worker pool shutdown complete")
}
