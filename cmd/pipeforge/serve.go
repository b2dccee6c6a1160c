package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Promptonauts/pipeforge/pkg/server"
	"github.com/Promptonauts/pipeforge/pkg/service"
)

// serveHTTP blocks serving svc on addr. Tests swap it out.
var serveHTTP = func(svc *service.Service, log *logrus.Logger, addr string) error {
	return server.New(svc, log).Run(addr)
}

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		history bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("history") {
				a.cfg.History.Enabled = history
			}
			if err := a.cfg.ValidateServer(); err != nil {
				return err
			}
			svc, cleanup, err := a.newService(a.cfg.History.Enabled)
			if err != nil {
				return err
			}
			defer cleanup()
			return serveHTTP(svc, a.log, a.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	cmd.Flags().BoolVar(&history, "history", false, "record conversions in history.path (default from config: history.enabled)")
	return cmd
}
