package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a stock line kept per store.
type Produto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome          string          `gorm:"index;not null"`
	Tipo          string          `gorm:"not null"`
	LojaID        *uuid.UUID      `gorm:"type:uuid;index"`
	OrganizacaoID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantidade    int             `gorm:"not null;default:0"`
	ValorUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Loja *Loja `gorm:"foreignKey:LojaID"`
}

func (Produto) TableName() string { return "produtos" }
