package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	model "taskdesk.com/taskdesk/internal/models"
	repository "taskdesk.com/taskdesk/internal/repositories"
)

// mockOutboxTransport is a simple in-memory outbox transport for testing.
// With failAfter >= 0, publishes beyond that count fail.
type mockOutboxTransport struct {
	mu         sync.Mutex
	checkpoint uint64
	published  []string
	failAfter  int
}

func newMockOutboxTransport() *mockOutboxTransport {
	return &mockOutboxTransport{failAfter: -1}
}

func (m *mockOutboxTransport) LoadCheckpoint(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.checkpoint, nil
}

func (m *mockOutboxTransport) SaveCheckpoint(ctx context.Context, eventID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkpoint = eventID
	return nil
}

func (m *mockOutboxTransport) Publish(ctx context.Context, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && len(m.published) >= m.failAfter {
		return errors.New("publish failed")
	}
	m.published = append(m.published, payload)
	return nil
}

func (m *mockOutboxTransport) setFailAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failAfter = n
}

func (m *mockOutboxTransport) snapshot() (uint64, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	published := make([]string, len(m.published))
	copy(published, m.published)
	return m.checkpoint, published
}

func publishedEventIDs(t *testing.T, published []string) []uint64 {
	t.Helper()

	ids := make([]uint64, 0, len(published))
	for _, payload := range published {
		var event model.TaskEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			t.Fatalf("failed to decode published event: %v", err)
		}
		ids = append(ids, event.EventID)
	}
	return ids
}

func seedEvents(t *testing.T, repo *repository.TaskRepository, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		task, err := model.NewTask("t1", "w1", "Outbox task", "")
		if err != nil {
			t.Fatalf("failed to build task: %v", err)
		}
		if err := repo.Create(context.Background(), task, model.NewTaskCreatedEvent(task)); err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}
}

func TestDispatcherService_PushesInOrderAndAdvancesCheckpoint(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTaskRepository(db)
	transport := newMockOutboxTransport()

	dispatcher := NewDispatcherService(repo, transport, 100, 3600)
	defer dispatcher.Shutdown(context.Background())

	seedEvents(t, repo, 3)

	dispatcher.dispatchOnce()

	checkpoint, published := transport.snapshot()
	ids := publishedEventIDs(t, published)
	if len(ids) != 3 {
		t.Fatalf("expected 3 pushed events, got %d", len(ids))
	}
	for i, id := range ids {
		if id != uint64(i+1) {
			t.Errorf("expected append order, got ids %v", ids)
			break
		}
	}
	if checkpoint != ids[len(ids)-1] {
		t.Errorf("checkpoint should equal the last pushed event id, got %d", checkpoint)
	}

	// A second pass past the checkpoint pushes nothing.
	dispatcher.dispatchOnce()
	checkpoint, published = transport.snapshot()
	if len(published) != 3 || checkpoint != 3 {
		t.Errorf("expected no re-push past the checkpoint, got %d events, checkpoint %d", len(published), checkpoint)
	}
}

func TestDispatcherService_FailedPushRedelivers(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTaskRepository(db)
	transport := newMockOutboxTransport()

	dispatcher := NewDispatcherService(repo, transport, 100, 3600)
	defer dispatcher.Shutdown(context.Background())

	seedEvents(t, repo, 3)

	// The second push of the batch fails: the checkpoint must stop at the
	// last pushed event so the rest of the batch is re-delivered.
	transport.setFailAfter(1)
	dispatcher.dispatchOnce()

	checkpoint, published := transport.snapshot()
	if len(published) != 1 {
		t.Fatalf("expected 1 pushed event before the failure, got %d", len(published))
	}
	if checkpoint != 1 {
		t.Errorf("checkpoint must not advance past the failed push, got %d", checkpoint)
	}

	transport.setFailAfter(-1)
	dispatcher.dispatchOnce()

	checkpoint, published = transport.snapshot()
	ids := publishedEventIDs(t, published)
	if len(ids) != 3 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("expected the failed batch tail to be re-delivered in order, got ids %v", ids)
	}
	if checkpoint != 3 {
		t.Errorf("expected checkpoint 3 after recovery, got %d", checkpoint)
	}
}
