package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crosscheck/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reconciliation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		srv, err := server.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		defer srv.Close()

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		fmt.Printf("crosscheck listening on %s\n", addr)
		return srv.Run(addr)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config.toml)")
}
