package main

import (
	"os"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"

	"hearthfield/internal/bootstrap"
	"hearthfield/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Log, os.Stderr)

		a, err := bootstrap.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		go a.RunTicker(cmd.Context())

		s := server.Default(server.WithHostPorts(cfg.HTTP.Addr))
		a.Handler().RegisterRoutes(s)
		logger.Info("hearthfield server listening", "addr", cfg.HTTP.Addr, "session_id", a.Game.SessionID)
		s.Spin()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
}
