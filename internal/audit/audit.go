package audit

import (
    "encoding/json"
    "log"
    "time"

    "github.com/streadway/amqp"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/queue"
)

// Recorder appends an audit record. Implementations are fire-and-forget:
// Record never returns an error because audit failure must not fail the
// operation that emitted it.
type Recorder interface {
    Record(actorID int, action, description, sourceIP string)
}

// QueueRecorder routes audit events through the in-process queue.
type QueueRecorder struct {
    Queue queue.Queue
}

func (r *QueueRecorder) Record(actorID int, action, description, sourceIP string) {
    event := model.AuditEvent{
        ActorID:     actorID,
        Action:      action,
        Description: description,
        SourceIP:    sourceIP,
        OccurredAt:  time.Now(),
    }
    if err := r.Queue.Publish(queue.TopicAuditEvents, event); err != nil {
        log.Println("⚠️ failed to enqueue audit event:", err)
    }
}

// AMQPRecorder publishes audit events to a durable RabbitMQ queue for
// cmd/worker to persist.
type AMQPRecorder struct {
    URL string
}

const amqpQueueName = "audit_trails"

func (r *AMQPRecorder) Record(actorID int, action, description, sourceIP string) {
    event := model.AuditEvent{
        ActorID:     actorID,
        Action:      action,
        Description: description,
        SourceIP:    sourceIP,
        OccurredAt:  time.Now(),
    }

    conn, err := amqp.Dial(r.URL)
    if err != nil {
        log.Println("⚠️ audit: failed to connect to queue:", err)
        return
    }
    defer conn.Close()

    ch, err := conn.Channel()
    if err != nil {
        log.Println("⚠️ audit: failed to open queue channel:", err)
        return
    }
    defer ch.Close()

    q, err := ch.QueueDeclare(
        amqpQueueName,
        true,  // durable
        false, // delete when unused
        false, // exclusive
        false, // no-wait
        nil,   // arguments
    )
    if err != nil {
        log.Println("⚠️ audit: failed to declare queue:", err)
        return
    }

    body, _ := json.Marshal(event)
    err = ch.Publish(
        "",
        q.Name,
        false,
        false,
        amqp.Publishing{
            ContentType: "application/json",
            Body:        body,
        },
    )
    if err != nil {
        log.Println("⚠️ audit: failed to publish event:", err)
    }
}
