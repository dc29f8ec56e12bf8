// internal/model/audit_event.go
package model

import "time"

type AuditEvent struct {
    ActorID     int       `db:"actor_id" json:"actor_id"`
    Action      string    `db:"action" json:"action"`
    Description string    `db:"description" json:"description"`
    SourceIP    string    `db:"source_ip" json:"source_ip"`
    OccurredAt  time.Time `db:"occurred_at" json:"occurred_at"`
}
