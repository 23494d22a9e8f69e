// cmd/seeduser creates the first organization and a super_admin, or resets
// the super_admin's password if it already exists.
// Usage: SEED_EMAIL=... SEED_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Yodaime/cash-flow-keeper/internal/config"
	"github.com/Yodaime/cash-flow-keeper/internal/infra"
	"github.com/Yodaime/cash-flow-keeper/internal/model"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	ctx := context.Background()

	email := strings.ToLower(env("SEED_EMAIL", "admin@cashflowkeeper.local"))
	senha := env("SEED_PASSWORD", "trocar123")
	orgCodigo := strings.ToUpper(env("SEED_ORG_CODIGO", "MATRIZ"))

	var org model.Organizacao
	err = db.WithContext(ctx).Where("codigo = ?", orgCodigo).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		org = model.Organizacao{Nome: env("SEED_ORG_NOME", "Matriz"), Codigo: orgCodigo}
		err = repository.NewOrganizacaoRepository(db).Create(ctx, &org)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("organizacao")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	usuarios := repository.NewUsuarioRepository(db)
	existente, err := usuarios.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := usuarios.UpdateSenha(ctx, existente.ID, string(hash)); err != nil {
			log.Fatal().Err(err).Msg("update senha")
		}
		log.Info().Str("email", email).Msg("senha do usuário redefinida")
	case errors.Is(err, gorm.ErrRecordNotFound):
		u := &model.Usuario{
			Nome:          "Administrador",
			Email:         email,
			PasswordHash:  string(hash),
			Papel:         string(permissao.SuperAdmin),
			OrganizacaoID: &org.ID,
			Ativo:         true,
		}
		if err := usuarios.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Msg("create usuario")
		}
		log.Info().Str("email", email).Str("organizacao", org.Codigo).Msg("super_admin criado")
	default:
		log.Fatal().Err(err).Msg("find usuario")
	}
}
