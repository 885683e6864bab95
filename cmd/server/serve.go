// file: cmd/server/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dkoosis/cowgnition-mcp/internal/config"
	"github.com/dkoosis/cowgnition-mcp/internal/logging"
	"github.com/dkoosis/cowgnition-mcp/internal/router"
	"github.com/dkoosis/cowgnition-mcp/internal/session"
	"github.com/dkoosis/cowgnition-mcp/internal/tasks"
	"github.com/dkoosis/cowgnition-mcp/internal/transport"
)

func newServeCmd() *cobra.Command {
	var (
		configPath     string
		maxMessageSize int
		timeoutSecs    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if configPath != "" {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if maxMessageSize > 0 {
				cfg.Limits.MaxMessageSize = maxMessageSize
			}
			if timeoutSecs > 0 {
				cfg.Limits.DefaultTimeoutSecs = timeoutSecs
			}

			logging.InitLogging(logging.ParseLevel(cfg.Logging.Level), os.Stderr)
			logger := logging.GetLogger("server")

			rt := router.New(router.PolicyError, logger)
			registerExampleHandlers(rt)

			tm := tasks.New(logger, true)
			registerExampleTasks(tm)

			tr := transport.NewStdioDefault(os.Stdin, os.Stdout, cfg.Limits.MaxMessageSize, logger)

			sess, err := session.New(session.Config{
				ServerName:         cfg.GetServerName(),
				ServerVersion:      version,
				DefaultTimeoutSecs: cfg.Limits.DefaultTimeoutSecs,
			}, tr, rt, tm, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-signals
				logger.Info("received shutdown signal")
				cancel()
			}()

			logger.Info("starting server", "name", cfg.GetServerName(), "version", version)
			return sess.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&maxMessageSize, "max-message-size", 0, "override the configured maximum message size in bytes")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "override the configured default request timeout in seconds")

	return cmd
}

