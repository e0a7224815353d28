package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/hhfacts/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := lsp.NewServer(version, lsp.Options{
				Env:       a.env(cmd, ""),
				CacheSize: a.cfg.Index.CacheSize,
			})
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}
	addCompatFlags(cmd)
	return cmd
}
