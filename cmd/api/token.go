package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/priyanshtech/TaskManager/internal/auth"
	"github.com/spf13/cobra"
)

// tokenCmd выпускает токен для локальной отладки тем же секретом, что проверяет сервер.
func tokenCmd(load configLoader) *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить JWT для пользователя",
		Long: `Выпускает HS256-токен с sub=<user>.

Пример:
  curl -H "Authorization: Bearer $(taskmanager token --user alice)" localhost:8080/api/tasks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return errors.New("auth.secret не задан")
			}

			token, err := auth.NewIssuer(auth.Config{
				Secret: cfg.Auth.Secret,
				Issuer: cfg.Auth.Issuer,
			}).Issue(user, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "id пользователя (sub)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "время жизни токена")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
