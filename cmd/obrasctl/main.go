// obrasctl herramientas de aprovisionamiento: migraciones de la tabla users y
// generación de SQL de usuarios desde planillas CSV.
//
// Uso:
//
//	go run ./cmd/obrasctl migrate up|down|status
//	go run ./cmd/obrasctl seed-users --input voluntarios.csv --charset iso-8859-1 --output seed.sql
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jhoicas/Obras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Obras-api/internal/seed"
	"github.com/jhoicas/Obras-api/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "obrasctl",
		Short:         "Herramientas de aprovisionamiento de Obras API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedUsersCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Aplica las migraciones de PostgreSQL",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return postgres.Migrate(ctx, cfg.DB.ConnectionString(), args[0])
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "tiempo máximo de la migración")
	return cmd
}

func newSeedUsersCmd() *cobra.Command {
	var input, output, charset string
	var cost int
	cmd := &cobra.Command{
		Use:   "seed-users",
		Short: "Genera SQL de usuarios (bcrypt) desde un CSV email,name,role,password,approved",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer in.Close()

			users, err := seed.ReadUsers(in, charset)
			if err != nil {
				return err
			}
			sql, err := seed.BuildSQL(users, cost)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("crear salida: %w", err)
				}
				defer f.Close()
				out = f
			}
			if _, err := io.WriteString(out, sql); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d usuarios procesados\n", len(users))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "usuarios.csv", "ruta del CSV")
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo SQL de salida (stdout si vacío)")
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "codificación del CSV: utf-8 | iso-8859-1")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "costo bcrypt")
	return cmd
}
