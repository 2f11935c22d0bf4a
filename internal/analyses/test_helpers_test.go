package analyses

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"legalsim-backend/internal/documents"
	"legalsim-backend/internal/llm"
	"legalsim-backend/internal/queue"
)

const validAnalysisJSON = `{
	"simplified_content": "You must pay $1000 rent every month.",
	"summary": "A short lease with a monthly rent obligation.",
	"key_points": ["Rent is $1000", "Paid monthly"],
	"critical_clauses": [],
	"beneficial_clauses": ["No deposit mentioned"],
	"complexity_score": 12,
	"risk_score": 25
}`

type staticLLM struct {
	resp  string
	err   error
	mu    sync.Mutex
	calls int
	last  llm.AnalyzeInput
}

func (s *staticLLM) AnalyzeDocument(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = input
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.resp), nil
}

type recordingQueue struct {
	mu       sync.Mutex
	messages []queue.Message
	err      error
}

func (q *recordingQueue) Send(ctx context.Context, msg queue.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.messages = append(q.messages, msg)
	return nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]Snapshot
	gets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]Snapshot)}
}

func (m *memoryCache) Get(ctx context.Context, documentID string) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	snap, ok := m.items[documentID]
	return snap, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[snap.Document.ID] = snap
	return nil
}

type testEnv struct {
	svc      *Service
	docRepo  *documents.MemoryRepo
	repo     *MemoryRepo
	llm      *staticLLM
	events   *recordingQueue
	cache    *memoryCache
	fixedNow time.Time
}

func newTestEnv(t *testing.T, client *staticLLM) *testEnv {
	t.Helper()
	docRepo := documents.NewMemoryRepo()
	repo := NewMemoryRepo(docRepo)
	now := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)
	env := &testEnv{
		docRepo:  docRepo,
		repo:     repo,
		llm:      client,
		events:   &recordingQueue{},
		cache:    newMemoryCache(),
		fixedNow: now,
	}
	env.svc = &Service{
		Documents: &documents.Service{Repo: docRepo, Now: func() time.Time { return now }},
		Repo:      repo,
		LLM:       client,
		Cache:     env.cache,
		Events:    env.events,
		Now:       func() time.Time { return now },
	}
	return env
}
