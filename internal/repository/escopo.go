package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Escopo restricts queries to one tenant. Global skips the filter (super_admin).
// A non-global scope with a nil OrganizacaoID matches only rows without a tenant.
type Escopo struct {
	Global        bool
	OrganizacaoID *uuid.UUID
}

// EscopoGlobal is the unrestricted scope.
var EscopoGlobal = Escopo{Global: true}

// EscopoDe builds the scope for a single organization.
func EscopoDe(org *uuid.UUID) Escopo { return Escopo{OrganizacaoID: org} }

// Permite reports whether a row owned by org is visible in this scope.
func (e Escopo) Permite(org *uuid.UUID) bool {
	if e.Global {
		return true
	}
	if e.OrganizacaoID == nil || org == nil {
		return e.OrganizacaoID == nil && org == nil
	}
	return *e.OrganizacaoID == *org
}

func (e Escopo) aplicar(q *gorm.DB, coluna string) *gorm.DB {
	if e.Global {
		return q
	}
	if e.OrganizacaoID == nil {
		return q.Where(coluna + " IS NULL")
	}
	return q.Where(coluna+" = ?", *e.OrganizacaoID)
}
