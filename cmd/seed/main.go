// seed carga datos de demostración en PostgreSQL (bodegas, productos, stock y una caja)
// e imprime un token JWT por rol para probar la API.
//
// Uso: go run ./cmd/seed [company_id]
// Por defecto usa la empresa "demo". Aplica las migraciones pendientes antes de insertar.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/seed"
	"github.com/jhoicas/Inventario-pos/migrations"
	"github.com/jhoicas/Inventario-pos/pkg/config"
	"github.com/jhoicas/Inventario-pos/pkg/jwt"
)

func main() {
	companyID := "demo"
	if len(os.Args) > 1 {
		companyID = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool, migrations.FS); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	var sum *seed.Summary
	err = postgres.NewTxRunner(pool).Run(ctx, func(tx repository.Repos) error {
		var err error
		sum, err = seed.Load(ctx, tx, companyID, time.Now())
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Carga: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Empresa: %s\n", sum.CompanyID)
	printSorted("Bodegas", sum.WarehouseIDs)
	printSorted("Productos", sum.ProductIDs)
	fmt.Printf("Caja: %s\n", sum.RegisterID)

	if cfg.JWT.Secret == "" {
		fmt.Println("JWT_SECRET vacío: no se generan tokens")
		return
	}
	centro := sum.WarehouseIDs["Sucursal Centro"]
	fmt.Println("Tokens:")
	for _, role := range []string{jwt.RoleAdmin, jwt.RoleCajero, jwt.RoleBodeguero} {
		token, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{
			UserID:      role + "-centro",
			CompanyID:   sum.CompanyID,
			Role:        role,
			WarehouseID: centro,
		}, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Token %s: %v\n", role, err)
			os.Exit(1)
		}
		fmt.Printf("  %-10s %s\n", role, token)
	}
}

func printSorted(title string, ids map[string]string) {
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-16s %s\n", k, ids[k])
	}
}
