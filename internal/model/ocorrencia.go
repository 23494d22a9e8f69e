package model

import (
	"time"

	"github.com/google/uuid"
)

// OcorrenciaFechamento is a problem reported by staff about a closing.
// Status: "pending" | "resolved"
type OcorrenciaFechamento struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	LojaID        *uuid.UUID `gorm:"type:uuid"`
	OrganizacaoID *uuid.UUID `gorm:"type:uuid;index"`
	Descricao     string     `gorm:"type:text;not null"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
	Loja    *Loja    `gorm:"foreignKey:LojaID"`
}

func (OcorrenciaFechamento) TableName() string { return "ocorrencias_fechamento" }
