package main

import (
	"github.com/spf13/cobra"
	"github.com/yigit/internhub/internal/pkg/logger"
	"github.com/yigit/internhub/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Runs migrations, seeds the administrator and serves the REST API and notification socket",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(configPath)
		if err != nil {
			return err
		}
		if err := srv.Run(); err != nil {
			return err
		}
		logger.Info().Msg("Application finished gracefully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
