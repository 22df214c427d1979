// migrate aplica el esquema PostgreSQL del ledger y, opcionalmente, sincroniza precios
// del catálogo desde un CSV (id,sku,nombre,precio) para valorizar el resumen.
//
// Uso: go run ./cmd/migrate [productos.csv]
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	log.Info().Msg("esquema aplicado")

	if len(os.Args) < 2 {
		return
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Str("file", os.Args[1]).Msg("abrir catálogo")
	}
	defer f.Close()

	products, err := readCatalog(f, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}
	repo := postgres.NewProductRepository(pool)
	for _, p := range products {
		if err := repo.Upsert(ctx, p); err != nil {
			log.Fatal().Err(err).Str("product_id", p.ID).Msg("sincronizar producto")
		}
	}
	log.Info().Int("products", len(products)).Msg("catálogo sincronizado")
}
