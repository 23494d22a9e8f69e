package service

import (
	"errors"
	"fmt"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinels returned by every service. Handlers map them to status codes with
// errors.Is, so always wrap with %w.
var (
	ErrNaoEncontrado   = errors.New("registro não encontrado")
	ErrSemPermissao    = errors.New("sem permissão para esta operação")
	ErrConflito        = errors.New("conflito com registro existente")
	ErrEntradaInvalida = errors.New("dados inválidos")
	ErrCredenciais     = errors.New("credenciais inválidas")
)

// traduzir converts repository errors into service sentinels.
func traduzir(err error, entidade string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNaoEncontrado, entidade)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s já existe", ErrConflito, entidade)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s possui registros vinculados", ErrConflito, entidade)
	}
	return err
}

func papel(a cache.Perfil) permissao.Papel { return permissao.Papel(a.Papel) }

// escopoDe is the tenant filter applied to everything the actor reads.
func escopoDe(a cache.Perfil) repository.Escopo {
	if permissao.PodeVerTodasOrganizacoes(papel(a)) {
		return repository.EscopoGlobal
	}
	return repository.EscopoDe(a.OrganizacaoID)
}

func exigir(ok bool, acao string) error {
	if !ok {
		return fmt.Errorf("%w: %s", ErrSemPermissao, acao)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func idPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	return strPtr(id.String())
}

func parseIDPtr(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEntradaInvalida, campo)
	}
	return &id, nil
}
