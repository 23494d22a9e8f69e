package model

import (
	"time"

	"github.com/google/uuid"
)

// Loja is a store. Codigo is unique within the organization and is what the
// spreadsheets reference.
type Loja struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizacaoID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_lojas_org_codigo"`
	Nome          string     `gorm:"not null"`
	Codigo        string     `gorm:"type:varchar(30);not null;uniqueIndex:idx_lojas_org_codigo"`
	Unidade       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Loja) TableName() string { return "lojas" }
