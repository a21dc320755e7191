package entity

import "time"

// Roles del panel: admin opera el inventario; staff solo inicia sesión.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User usuario del panel de administración.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si la cuenta puede iniciar sesión.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }
