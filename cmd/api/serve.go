package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/priyanshtech/TaskManager/internal/app"
	"github.com/priyanshtech/TaskManager/internal/config"
	"github.com/spf13/cobra"
)

type configLoader func() (*config.Config, error)

func serveCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		Long: `Запускает HTTP API задач.

Примеры:
  taskmanager serve --config config.yml
  TASKMANAGER_REPOSITORY_TYPE=postgres TASKMANAGER_DATABASE_URL=postgres://... taskmanager serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), load)
		},
	}
}

func runServe(parent context.Context, load configLoader) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		return err
	}
	return a.Run(ctx)
}
