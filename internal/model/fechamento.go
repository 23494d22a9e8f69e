package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fechamento is one daily cash closing of a store.
// Diferenca is always ValorContado - ValorEsperado and is written only by the
// service layer. Status: "ok" | "atencao" | "pendente" | "aprovado"
type Fechamento struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LojaID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_fechamentos_loja_data"`
	OrganizacaoID *uuid.UUID      `gorm:"type:uuid;index"`
	Data          time.Time       `gorm:"type:date;not null;index:idx_fechamentos_loja_data"`
	ValorInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorEsperado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValorContado  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Diferenca     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pendente'"`
	Observacoes   *string
	CriadoPorID   uuid.UUID `gorm:"type:uuid;not null"`
	CriadoPorNome string    `gorm:"not null"`
	// Validation metadata is stamped only by the approve action
	ValidadoPorID   *uuid.UUID `gorm:"type:uuid"`
	ValidadoPorNome *string
	ValidadoEm      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Loja *Loja `gorm:"foreignKey:LojaID"`
}

func (Fechamento) TableName() string { return "fechamentos" }
