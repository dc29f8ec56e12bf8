package repository

import (
    "database/sql"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/model"
)

// AuditRepositoryInterface is the append-only audit trail sink.
type AuditRepositoryInterface interface {
    Append(e *model.AuditEvent) error
}

// AuditRepository writes audit_trails rows in core2.
type AuditRepository struct {
    DB *sql.DB
}

func (r *AuditRepository) Append(e *model.AuditEvent) error {
    _, err := r.DB.Exec(`
        INSERT INTO audit_trails (actor_id, action, description, source_ip, occurred_at)
        VALUES ($1, $2, $3, $4, $5)
    `, e.ActorID, e.Action, e.Description, e.SourceIP, e.OccurredAt)
    return err
}
