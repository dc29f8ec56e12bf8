package queue

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used when no broker
// is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %v\n", job.RetryCount, job.MaxRetries, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts\n", job.MaxRetries)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// TopicAuditEvents carries best-effort audit trail appends.
const TopicAuditEvents = "audit_events"

// StartAuditSubscriber drains audit events into the audit repository.
// Append failures are retried by the queue and then dropped; audit is
// best-effort and must never block the operation that emitted it.
func StartAuditSubscriber(q Queue, auditRepo repository.AuditRepositoryInterface) {
	err := q.Subscribe(TopicAuditEvents, func(payload any) error {
		event, ok := payload.(model.AuditEvent)
		if !ok {
			log.Println("⚠️ Invalid audit payload type")
			return nil // no retry
		}

		if err := auditRepo.Append(&event); err != nil {
			log.Println("⚠️ Failed to append audit event:", err)
			return err // triggers retry in queue
		}
		return nil
	})
	if err != nil {
		log.Println("⚠️ Failed to start subscriber for audit_events:", err)
	}
}
