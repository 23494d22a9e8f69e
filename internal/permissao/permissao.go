// Package permissao holds the role hierarchy and the authorization rules that
// services enforce before touching data.
package permissao

// Papel is a user role. Roles are strictly ordered:
// funcionaria < gerente < administrador < super_admin.
type Papel string

const (
	Funcionaria   Papel = "funcionaria"
	Gerente       Papel = "gerente"
	Administrador Papel = "administrador"
	SuperAdmin    Papel = "super_admin"
)

var niveis = map[Papel]int{
	Funcionaria:   1,
	Gerente:       2,
	Administrador: 3,
	SuperAdmin:    4,
}

// Nivel returns the rank of p, 0 for unknown roles.
func (p Papel) Nivel() int { return niveis[p] }

// Valido reports whether p is a known role.
func (p Papel) Valido() bool { return p.Nivel() > 0 }

// AoMenos reports whether p ranks at or above min.
func (p Papel) AoMenos(min Papel) bool {
	return p.Valido() && p.Nivel() >= min.Nivel()
}

// Todos lists the roles from lowest to highest.
func Todos() []Papel {
	return []Papel{Funcionaria, Gerente, Administrador, SuperAdmin}
}

// PodeEditar reports whether ator may edit a record owned by, or assign the
// role alvo. Managers and above may act on roles up to their own.
func PodeEditar(ator, alvo Papel) bool {
	return ator.AoMenos(Gerente) && alvo.Valido() && alvo.Nivel() <= ator.Nivel()
}

// PodeExcluir reports whether ator may hard-delete records.
func PodeExcluir(ator Papel) bool { return ator.AoMenos(Administrador) }

// PodeAprovar reports whether ator may approve closings.
func PodeAprovar(ator Papel) bool { return ator.AoMenos(Gerente) }

func PodeGerenciarLojas(ator Papel) bool { return ator.AoMenos(Administrador) }

func PodeGerenciarProdutos(ator Papel) bool { return ator.AoMenos(Administrador) }

func PodeGerenciarUsuarios(ator Papel) bool { return ator.AoMenos(Administrador) }

func PodeGerenciarOrganizacoes(ator Papel) bool { return ator == SuperAdmin }

// PodeVerTodasOrganizacoes reports whether ator escapes tenant scoping.
func PodeVerTodasOrganizacoes(ator Papel) bool { return ator == SuperAdmin }
