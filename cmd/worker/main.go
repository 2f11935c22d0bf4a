package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"legalsim-backend/internal/bootstrap"
	"legalsim-backend/internal/queue"
	"legalsim-backend/internal/shared/config"
	"legalsim-backend/internal/shared/metrics"
	"legalsim-backend/internal/shared/telemetry"
	"legalsim-backend/internal/workerproc"
)

const (
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
	consumerName              = "legalsim-cache-warmer"
)

func main() {
	cfg := config.Load()
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		telemetry.Error("worker.config_invalid", map[string]any{"error": "RABBITMQ_URL is required"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close()

	rabbit, ok := app.Queue.(*queue.RabbitClient)
	if !ok {
		telemetry.Error("worker.queue_unavailable", map[string]any{"queue": cfg.RabbitMQAnalysisQueue})
		os.Exit(1)
	}
	deliveries, err := rabbit.Consume(ctx, consumerName, concurrency)
	if err != nil {
		telemetry.Error("worker.consume_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// In-flight messages finish on a context that outlives the shutdown signal.
	jobCtx := context.WithoutCancel(ctx)
	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":       cfg.RabbitMQAnalysisQueue,
		"concurrency": concurrency,
	})

consumeLoop:
	for {
		select {
		case <-ctx.Done():
			break consumeLoop
		case d, ok := <-deliveries:
			if !ok {
				break consumeLoop
			}
			select {
			case <-ctx.Done():
				_ = d.Nack(false, true)
				break consumeLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handleDelivery(jobCtx, app.AnalysesService, delivery{
					Body:        d.Body,
					MessageID:   d.MessageId,
					Redelivered: d.Redelivered,
					Ack:         d,
				})
			}(d)
		}
	}

	telemetry.Info("worker.draining", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

type delivery struct {
	Body        []byte
	MessageID   string
	Redelivered bool
	Ack         queue.Acknowledger
}

// handleDelivery acks warmed messages, drops poison ones and requeues a transient failure once.
func handleDelivery(ctx context.Context, r workerproc.Retriever, d delivery) {
	msg, meta, err := workerproc.ParseMessage(d.Body)
	if err != nil {
		fields := baseFields(d, "", "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.message.decode_failed", fields)
		settle(d, false, "dropped")
		return
	}

	telemetry.Info("worker.message.received", baseFields(d, msg.DocumentID, msg.RequestID))

	if err := workerproc.HandleMessage(ctx, r, msg); err != nil {
		fields := baseFields(d, msg.DocumentID, msg.RequestID)
		fields["error"] = err.Error()
		if workerproc.Unrecoverable(err) || d.Redelivered {
			telemetry.Error("worker.message.dropped", fields)
			settle(d, false, "dropped")
			return
		}
		telemetry.Warn("worker.message.requeued", fields)
		settle(d, true, "requeued")
		return
	}

	if err := d.Ack.Ack(false); err != nil {
		fields := baseFields(d, msg.DocumentID, msg.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.message.ack_failed", fields)
		return
	}
	metrics.IncWorkerMessage("warmed")
	telemetry.Info("worker.message.warmed", baseFields(d, msg.DocumentID, msg.RequestID))
}

func settle(d delivery, requeue bool, result string) {
	if err := d.Ack.Nack(false, requeue); err != nil {
		fields := baseFields(d, "", "")
		fields["error"] = err.Error()
		telemetry.Error("worker.message.nack_failed", fields)
		return
	}
	metrics.IncWorkerMessage(result)
}

func baseFields(d delivery, documentID, requestID string) map[string]any {
	fields := map[string]any{
		"message_id":  d.MessageID,
		"redelivered": d.Redelivered,
	}
	if documentID != "" {
		fields["document_id"] = documentID
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}
