package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/auth"
	"github.com/sabyy027/portfolio/internal/seed"
	"github.com/sabyy027/portfolio/internal/service"
	"github.com/sabyy027/portfolio/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Connect(cmd.Context(), cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := store.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				logger.Info("database is up to date", zap.String("path", cfg.DB.Path))
				return nil
			}
			logger.Info("migrations applied", zap.Int64s("versions", applied), zap.String("path", cfg.DB.Path))
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load profile and list content from a YAML snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := seed.Read(f)
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), func(svcs *service.Services) error {
				res, err := seed.Apply(cmd.Context(), svcs, snap)
				if err != nil {
					return err
				}
				logger.Info("content seeded", zap.Stringer("result", res), zap.String("file", file))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML snapshot to load")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all content as a YAML snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(svcs *service.Services) error {
				snap, err := seed.Export(cmd.Context(), svcs)
				if err != nil {
					return err
				}
				if file == "" || file == "-" {
					return seed.Write(cmd.OutOrStdout(), snap)
				}
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				if err := seed.Write(f, snap); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "output file (default stdout)")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hashpw [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := passwordArg(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func passwordArg(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password given")
	}
	return line, nil
}

// withServices opens the configured database without Redis and runs fn.
func withServices(ctx context.Context, fn func(*service.Services) error) error {
	db, err := store.Open(ctx, cfg.DB.Path)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}(db)
	return fn(service.New(db, nil, 0, DefaultProfile, logger))
}
