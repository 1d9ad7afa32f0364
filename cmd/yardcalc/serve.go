package main

import (
	"fmt"

	"github.com/codefionn/yardcalc/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr           string
		maxConnections int
		pidFile        string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP and WebSocket",
		Long: `Start an HTTP server exposing:

  POST /api/compute   {"expression": "..."}
  GET  /api/compute?expr=...
  POST /api/explain   {"expression": "..."}
  GET  /health
  GET  /ws            WebSocket, {"type": "compute", "expression": "..."} per message`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg := a.cfg.Server
			if cmd.Flags().Changed("addr") {
				serverCfg.Addr = addr
			}
			if cmd.Flags().Changed("max-connections") {
				serverCfg.MaxConnections = maxConnections
			}
			if cmd.Flags().Changed("pid-file") {
				serverCfg.PidFile = pidFile
			}

			srv := web.NewServer(serverCfg, a.engine)
			if err := srv.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr())

			<-cmd.Context().Done()
			return srv.Stop()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().IntVar(&maxConnections, "max-connections", 0, "Maximum simultaneous connections")
	cmd.Flags().StringVar(&pidFile, "pid-file", "", "Write the server PID to this file")
	return cmd
}
