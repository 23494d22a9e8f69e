package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role-based access.
// Papel: "funcionaria" | "gerente" | "administrador" | "super_admin"
type Usuario struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome          string     `gorm:"not null"`
	Email         string     `gorm:"uniqueIndex;not null"`
	PasswordHash  string     `gorm:"not null"`
	Papel         string     `gorm:"type:varchar(20);not null;default:'funcionaria'"`
	OrganizacaoID *uuid.UUID `gorm:"type:uuid;index"`
	// LojaID pins an employee to a store; nil = no fixed store
	LojaID    *uuid.UUID `gorm:"type:uuid"`
	Ativo     bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Loja *Loja `gorm:"foreignKey:LojaID"`
}

func (Usuario) TableName() string { return "usuarios" }
