package model

import (
	"time"

	"github.com/google/uuid"
)

// Organizacao is a tenant. Every other record belongs to at most one.
type Organizacao struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"not null"`
	Codigo    string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Organizacao) TableName() string { return "organizacoes" }
