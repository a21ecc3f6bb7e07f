package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueSincronizacion = "jobs:sincronizacion"
	QueueAlerta         = "jobs:alerta"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// AlertaJobPayload notifica que una combinación quedó bajo su mínimo.
type AlertaJobPayload struct {
	Seccion     string `json:"seccion"`
	TipoMontura string `json:"tipo_montura"`
	TipoCompra  string `json:"tipo_compra"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
}

// SincronizacionJobPayload pide una corrida del reconciler de compras.
type SincronizacionJobPayload struct {
	Solicitante string `json:"solicitante,omitempty"`
}

// Handler processes one job payload. A returned error requeues the job
// until maxAttempts, then it lands in the DLQ.
type Handler func(ctx context.Context, raw json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAlerta pushes a low-stock alert job to Redis.
func (d *Dispatcher) EnqueueAlerta(ctx context.Context, payload AlertaJobPayload) error {
	return d.enqueue(ctx, QueueAlerta, "alerta", payload)
}

// EnqueueSincronizacion pushes a reconciliation run request to Redis.
func (d *Dispatcher) EnqueueSincronizacion(ctx context.Context, payload SincronizacionJobPayload) error {
	return d.enqueue(ctx, QueueSincronizacion, "sincronizacion", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines, each
// blocking on BRPOP — zero CPU when idle.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler)}
}

// Register binds a queue to its handler. Must be called before Start.
func (p *Pool) Register(queue string, h Handler) {
	p.handlers[queue] = h
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines consuming all registered queues.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	handler, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler registered")
		return
	}

	if err := handler(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= maxAttempts {
			sendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		log.Warn().Str("queue", queue).Str("type", job.Type).Int("attempts", job.Attempts).
			Err(err).Msg("job failed, requeueing")
		if encoded, merr := json.Marshal(job); merr == nil {
			_ = p.rdb.LPush(ctx, queue, encoded).Err()
		}
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}
