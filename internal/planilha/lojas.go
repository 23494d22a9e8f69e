package planilha

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrLojaNaoEncontrada = errors.New("loja não encontrada")
	// ErrLojaAmbigua means the reference matches more than one store, e.g. the
	// same code in two organizations seen by a super_admin.
	ErrLojaAmbigua = errors.New("loja ambígua")
)

// ResolverLoja maps a store reference typed in a spreadsheet to its id.
// A non-nil error rejects the row.
type ResolverLoja func(ref string) (uuid.UUID, error)

// IndiceLojas resolves store references by code, optionally falling back to
// the store name. Keys are compared with Normalizar.
type IndiceLojas struct {
	codigos map[string][]uuid.UUID
	nomes   map[string][]uuid.UUID
}

func NovoIndiceLojas() *IndiceLojas {
	return &IndiceLojas{codigos: map[string][]uuid.UUID{}, nomes: map[string][]uuid.UUID{}}
}

func (i *IndiceLojas) Adicionar(id uuid.UUID, codigo, nome string) {
	adicionar(i.codigos, Normalizar(codigo), id)
	if nome != "" {
		adicionar(i.nomes, Normalizar(nome), id)
	}
}

func adicionar(m map[string][]uuid.UUID, chave string, id uuid.UUID) {
	if chave == "" {
		return
	}
	for _, x := range m[chave] {
		if x == id {
			return
		}
	}
	m[chave] = append(m[chave], id)
}

// PorCodigo resolves by store code only.
func (i *IndiceLojas) PorCodigo(ref string) (uuid.UUID, error) {
	return unico(i.codigos[Normalizar(ref)])
}

// PorCodigoOuNome tries the code first; the name is only consulted when no
// store has that code.
func (i *IndiceLojas) PorCodigoOuNome(ref string) (uuid.UUID, error) {
	if ids := i.codigos[Normalizar(ref)]; len(ids) > 0 {
		return unico(ids)
	}
	return unico(i.nomes[Normalizar(ref)])
}

func unico(ids []uuid.UUID) (uuid.UUID, error) {
	switch len(ids) {
	case 0:
		return uuid.Nil, ErrLojaNaoEncontrada
	case 1:
		return ids[0], nil
	}
	return uuid.Nil, ErrLojaAmbigua
}
