package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/neonnumbers/ms-go-auth/app/repository"
	"github.com/neonnumbers/ms-go-auth/app/service"
	"github.com/neonnumbers/ms-go-auth/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Delete expired refresh tokens",
	Long:  `One-shot purge of refresh-token records past their expiry timestamp.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		userRepo := repository.NewUserRepository(db)
		refreshTokenRepo := repository.NewRefreshTokenRepository(db)
		authService := service.NewAuthService(userRepo, refreshTokenRepo, service.NewTokenCodec(cfg), cfg)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := authService.ReapExpired(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("removed %d expired refresh tokens\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reapCmd)
}
