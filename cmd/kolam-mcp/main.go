package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/kolam-tools-mcp/internal/config"
	"github.com/ironsheep/kolam-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "kolam-tools-mcp %s\n", Version)
	fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
}

// newLogger builds a JSON logger on stderr; stdout is reserved for the
// MCP protocol.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func newRootCmd() *cobra.Command {
	loader := config.NewLoader()
	var configFile string

	root := &cobra.Command{
		Use:   "kolam-mcp",
		Short: "MCP server for kolam pattern generation and analysis",
		Long: `kolam-mcp serves kolam tools over the Model Context Protocol.

It communicates via JSON-RPC on stdin/stdout; configure it in your MCP client.
Every flag can also be set with a KOLAM_MCP_* environment variable, for
example KOLAM_MCP_LOG_LEVEL=debug, or in a config file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(configFile)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			logger.Debug("kolam MCP server starting",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("git_commit", GitCommit),
				zap.Any("config", cfg))

			server.Version = Version
			srv := server.New(cfg, logger)

			if cfg.MetricsAddr != "" {
				httpSrv := &http.Server{
					Addr:              cfg.MetricsAddr,
					Handler:           srv.HTTPHandler(),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics endpoint stopped", zap.Error(err))
					}
				}()
				defer httpSrv.Close()
				logger.Info("metrics endpoint listening", zap.String("addr", cfg.MetricsAddr))
			}

			if err := srv.Run(); err != nil {
				logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	if err := loader.RegisterFlags(root.Flags()); err != nil {
		panic(err)
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	})

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
