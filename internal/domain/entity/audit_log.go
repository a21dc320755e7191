package entity

import "time"

// Estados de una entrada de auditoría.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditLog registro de una acción administrativa.
type AuditLog struct {
	ID         string
	Action     string
	UserID     string
	TargetType string
	TargetID   string
	Details    map[string]any
	Status     string
	IPAddress  string
	CreatedAt  time.Time
}
