package main

import (
	"context"
	"testing"

	"legalsim-backend/internal/analyses"
	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/queue"
)

type fakeAck struct {
	acked    int
	nacked   int
	requeued bool
}

func (f *fakeAck) Ack(multiple bool) error {
	f.acked++
	return nil
}

func (f *fakeAck) Nack(multiple, requeue bool) error {
	f.nacked++
	f.requeued = requeue
	return nil
}

type fakeRetriever struct {
	status   string
	analysis *analyses.Analysis
	err      error
}

func (f fakeRetriever) Retrieve(ctx context.Context, documentID string) (documents.Document, *analyses.Analysis, error) {
	return documents.Document{ID: documentID, AnalysisStatus: f.status}, f.analysis, f.err
}

func body(t *testing.T) []byte {
	t.Helper()
	b, err := queue.EncodeMessage(queue.Message{DocumentID: "doc-1", AnalysisID: "an-1", RequestID: "req-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

func TestWorkerAcksWarmedMessage(t *testing.T) {
	ack := &fakeAck{}
	r := fakeRetriever{status: documents.StatusCompleted, analysis: &analyses.Analysis{ID: "an-1"}}

	handleDelivery(context.Background(), r, delivery{Body: body(t), MessageID: "m1", Ack: ack})

	if ack.acked != 1 || ack.nacked != 0 {
		t.Fatalf("expected ack, got ack=%d nack=%d", ack.acked, ack.nacked)
	}
}

func TestWorkerDropsUndecodableMessage(t *testing.T) {
	ack := &fakeAck{}

	handleDelivery(context.Background(), fakeRetriever{}, delivery{Body: []byte("not-json"), MessageID: "m2", Ack: ack})

	if ack.nacked != 1 || ack.requeued {
		t.Fatalf("expected drop without requeue, got nack=%d requeue=%v", ack.nacked, ack.requeued)
	}
}

func TestWorkerRequeuesPendingOnce(t *testing.T) {
	r := fakeRetriever{status: documents.StatusProcessing}

	first := &fakeAck{}
	handleDelivery(context.Background(), r, delivery{Body: body(t), MessageID: "m3", Ack: first})
	if first.nacked != 1 || !first.requeued {
		t.Fatalf("expected requeue on first delivery")
	}

	second := &fakeAck{}
	handleDelivery(context.Background(), r, delivery{Body: body(t), MessageID: "m3", Redelivered: true, Ack: second})
	if second.nacked != 1 || second.requeued {
		t.Fatalf("expected drop on redelivery")
	}
}

func TestWorkerDropsUnknownDocument(t *testing.T) {
	ack := &fakeAck{}

	handleDelivery(context.Background(), fakeRetriever{err: documents.ErrNotFound}, delivery{Body: body(t), MessageID: "m4", Ack: ack})

	if ack.nacked != 1 || ack.requeued {
		t.Fatalf("expected drop, got nack=%d requeue=%v", ack.nacked, ack.requeued)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "8")
	if got := envInt("WORKER_CONCURRENCY", 4); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
	t.Setenv("WORKER_CONCURRENCY", "zero")
	if got := envInt("WORKER_CONCURRENCY", 4); got != 4 {
		t.Fatalf("expected default, got %d", got)
	}
}
