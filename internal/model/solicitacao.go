package model

import (
	"time"

	"github.com/google/uuid"
)

// SolicitacaoConta is an account request submitted from the public sign-up form.
// Status: "pending" | "approved" | "rejected"
type SolicitacaoConta struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome          string     `gorm:"not null"`
	Email         string     `gorm:"not null;index"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	RevisadoPorID *uuid.UUID `gorm:"type:uuid"`
	RevisadoEm    *time.Time
	CreatedAt     time.Time
}

func (SolicitacaoConta) TableName() string { return "solicitacoes_conta" }
