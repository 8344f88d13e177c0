package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"taskdesk.com/taskdesk/internal/outbox"
	repository "taskdesk.com/taskdesk/internal/repositories"
)

// DispatcherService tails the event log and hands new events to the outbox
// transport. The checkpoint advances only after a successful push, so a
// failure or crash in between re-delivers: consumers get at-least-once
// semantics and must tolerate duplicates.
type DispatcherService struct {
	repo      *repository.TaskRepository
	transport outbox.Transport
	batchSize int
	interval  time.Duration
	stop      chan struct{}
	wg        sync.WaitGroup
}

func NewDispatcherService(
	repo *repository.TaskRepository,
	transport outbox.Transport,
	batchSize int,
	pollIntervalSeconds int,
) *DispatcherService {
	d := &DispatcherService{
		repo:      repo,
		transport: transport,
		batchSize: batchSize,
		interval:  time.Duration(pollIntervalSeconds) * time.Second,
		stop:      make(chan struct{}),
	}

	d.wg.Add(1)
	go d.pollLoop()

	return d
}

func (d *DispatcherService) pollLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.dispatchOnce()
		case <-d.stop:
			return
		}
	}
}

func (d *DispatcherService) dispatchOnce() {
	ctx := context.Background()

	after, err := d.transport.LoadCheckpoint(ctx)
	if err != nil {
		log.Printf("dispatcher: failed to load checkpoint: %v", err)
		return
	}

	events, err := d.repo.FindEventsAfter(ctx, after, d.batchSize)
	if err != nil {
		log.Printf("dispatcher: failed to read event log: %v", err)
		return
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("dispatcher: failed to encode event %d: %v", event.EventID, err)
			return
		}

		if err := d.transport.Publish(ctx, string(payload)); err != nil {
			log.Printf("dispatcher: failed to push event %d: %v", event.EventID, err)
			return
		}

		if err := d.transport.SaveCheckpoint(ctx, event.EventID); err != nil {
			log.Printf("dispatcher: failed to advance checkpoint past event %d: %v", event.EventID, err)
			return
		}
	}
}

func (d *DispatcherService) Shutdown(ctx context.Context) {
	close(d.stop)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("outbox dispatcher stopped")
	case <-ctx.Done():
		log.Println("outbox dispatcher shutdown timed out")
	}
}
