package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolAdmin    = "admin"
	RolEmployee = "employee"
)

// Usuario stores shop staff with role-based access.
// Rol: "admin" | "employee"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Nombre       string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null;default:'employee'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) EsAdmin() bool { return u != nil && u.Rol == RolAdmin }
