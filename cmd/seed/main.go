// cmd/seed crea/actualiza el administrador inicial y las categorías por defecto.
// Uso: SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/config"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categoriasDefault = []struct{ nombre, descripcion string }{
	{"Cuadernos", "Cuadernos y libretas"},
	{"Escritura", "Lápices, bolígrafos y marcadores"},
	{"Papel", "Resmas, cartulinas y papeles especiales"},
	{"Accesorios", "Tijeras, reglas, pegantes y otros"},
	{"Electrónicos", "Calculadoras y accesorios electrónicos"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	ctx := context.Background()

	if err := seedAdmin(ctx, db, cfg); err != nil {
		log.Fatal().Err(err).Msg("seed admin failed")
	}
	n, err := seedCategorias(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("seed categorias failed")
	}
	fmt.Printf("Usuario '%s' creado/actualizado; %d categoría(s) nueva(s)\n", cfg.SeedAdminEmail, n)
}

func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), 12)
	if err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	return db.WithContext(ctx).Exec(`
		INSERT INTO usuarios (email, password_hash, nombre, rol)
		VALUES (?, ?, ?, ?)
		ON CONFLICT ((LOWER(email))) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre,
		    rol = EXCLUDED.rol,
		    updated_at = NOW()
	`, email, string(hash), cfg.SeedAdminName, model.RolAdmin).Error
}

// seedCategorias inserts the default categories that do not exist yet.
func seedCategorias(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	for _, c := range categoriasDefault {
		res := db.WithContext(ctx).Exec(`
			INSERT INTO categorias (nombre, descripcion)
			SELECT ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM categorias WHERE LOWER(nombre) = LOWER(?))
		`, c.nombre, c.descripcion, c.nombre)
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}
