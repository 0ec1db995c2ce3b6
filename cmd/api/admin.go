package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/bootstrap"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/filestorage"
	"github.com/yigit/internhub/internal/pkg/logger"
)

var adminFlags struct {
	email     string
	password  string
	firstName string
	lastName  string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		database, err := bootstrap.OpenDatabase(cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		if err := bootstrap.RunMigrations(ctx, cfg, database, lgr); err != nil {
			return err
		}

		// only the user repository is touched, so storage and tokens are stand-ins
		storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.BaseURL, 0)
		if err != nil {
			return err
		}
		svc := services.NewServices(services.Deps{
			Repos:  database.Repos,
			JWT:    auth.NewJWTService(auth.JWTConfig{SecretKey: cfg.JWT.Secret, TokenIssuer: cfg.JWT.Issuer}),
			Files:  storage,
			Logger: logger.WithComponent("cli"),
		})

		created, err := svc.Auth.CreateAdmin(ctx, adminFlags.email, adminFlags.password, adminFlags.firstName, adminFlags.lastName)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "account %s already exists\n", adminFlags.email)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "administrator %s created\n", adminFlags.email)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "administrator email")
	f.StringVar(&adminFlags.password, "password", "", "administrator password (8+ characters)")
	f.StringVar(&adminFlags.firstName, "first-name", "System", "first name")
	f.StringVar(&adminFlags.lastName, "last-name", "Admin", "last name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
