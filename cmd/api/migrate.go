package main

import (
	"errors"

	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы PostgreSQL",
	}

	run := func(apply func(string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url не задан")
			}
			if err := logger.Init(cfg.Logging.Development); err != nil {
				return err
			}
			defer logger.Sync()
			return apply(cfg.Database.URL)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		RunE:  run(migrations.Up),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Откатить все миграции",
		RunE:  run(migrations.Down),
	})
	return cmd
}
