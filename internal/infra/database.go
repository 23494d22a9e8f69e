package infra

import (
	"fmt"

	"github.com/Yodaime/cash-flow-keeper/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, sizes the pool and brings the schema
// up to date. TranslateError turns unique and foreign key violations into
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated for the service layer.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates all tables, then applies the DDL that
// AutoMigrate cannot express. Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("extension pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Organizacao{},
		&model.Loja{},
		&model.Usuario{},
		&model.Fechamento{},
		&model.Produto{},
		&model.OcorrenciaFechamento{},
		&model.SolicitacaoConta{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL. Each statement is guarded so
// re-running on an already patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"status check on fechamentos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_fechamentos_status') THEN
    ALTER TABLE fechamentos
      ADD CONSTRAINT chk_fechamentos_status CHECK (status IN ('ok', 'atencao', 'pendente', 'aprovado'));
  END IF;
END $$`},
		// diferenca is derived; the check catches any writer that bypasses the service
		{"diferenca check on fechamentos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_fechamentos_diferenca') THEN
    ALTER TABLE fechamentos
      ADD CONSTRAINT chk_fechamentos_diferenca CHECK (diferenca = valor_contado - valor_esperado);
  END IF;
END $$`},
		{"papel check on usuarios", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_usuarios_papel') THEN
    ALTER TABLE usuarios
      ADD CONSTRAINT chk_usuarios_papel CHECK (papel IN ('funcionaria', 'gerente', 'administrador', 'super_admin'));
  END IF;
END $$`},
		{"case-insensitive email index", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email_lower ON usuarios (LOWER(email))`},
		{"pending account requests index", `
CREATE INDEX IF NOT EXISTS idx_solicitacoes_pendentes ON solicitacoes_conta (created_at DESC)
  WHERE status = 'pending'`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
