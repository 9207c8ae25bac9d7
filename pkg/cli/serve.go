package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/tfxmock/pkg/cli/internal/output"
	"github.com/getmockd/tfxmock/pkg/config"
	"github.com/getmockd/tfxmock/pkg/engine"
	"github.com/getmockd/tfxmock/pkg/logging"
)

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown.
	shutdownTimeout = 30 * time.Second
	// readyTimeout bounds the startup health probe.
	readyTimeout = 5 * time.Second
)

// serveFlags holds all parsed command-line flags for the serve command.
type serveFlags struct {
	host          string
	port          int
	collection    string
	configFile    string
	fixturesFile  string
	authRequired  bool
	noAuth        bool
	readTimeout   int
	writeTimeout  int
	maxBodySize   int64
	maxLogEntries int
	logLevel      string
	logFormat     string
	logFile       string
	printConfig   bool
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated service (foreground)",
	Long: `Start the simulated service and block until interrupted.

The collection is served at http://<host>:<port>/<collection>. Point the
client's service URL there. State lives in memory and is lost on exit;
POST /__mock/reset restores the seed data at any time.`,
	Example: `  # Start with defaults on port 8084
  tfxmock serve

  # Custom port, seed data and no auth check
  tfxmock serve --port 9000 --fixtures fixtures.yaml --no-auth

  # Load settings from a file, override the log level
  tfxmock serve --config tfxmock.yaml --log-level debug

  # Show the effective configuration without starting
  tfxmock serve --config tfxmock.yaml --print-config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildServerConfiguration(cmd, &serveFlagVals)
		if err != nil {
			return err
		}
		if serveFlagVals.printConfig {
			if jsonOutput {
				return output.JSON(cmd.OutOrStdout(), cfg)
			}
			return output.YAML(cmd.OutOrStdout(), cfg)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg, cmd.OutOrStdout())
	},
}

// bindServeFlags registers the serve flags on cmd, storing values in f.
func bindServeFlags(cmd *cobra.Command, f *serveFlags) {
	defaults := config.DefaultLauncherConfiguration()

	cmd.Flags().StringVar(&f.host, "host", defaults.Host, "Interface to bind")
	cmd.Flags().IntVarP(&f.port, "port", "p", defaults.Port, "HTTP server port (0 = ephemeral)")
	cmd.Flags().StringVar(&f.collection, "collection", defaults.Collection, "Collection name served")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to a YAML or JSON configuration file")
	cmd.Flags().StringVarP(&f.fixturesFile, "fixtures", "f", "", "Path to a YAML or JSON seed data file")
	cmd.Flags().BoolVar(&f.authRequired, "auth-required", defaults.AuthRequired, "Reject /_apis requests without an Authorization header")
	cmd.Flags().BoolVar(&f.noAuth, "no-auth", false, "Shorthand for --auth-required=false")
	cmd.Flags().IntVar(&f.readTimeout, "read-timeout", defaults.ReadTimeout, "Read timeout in seconds (0 = none)")
	cmd.Flags().IntVar(&f.writeTimeout, "write-timeout", defaults.WriteTimeout, "Write timeout in seconds (0 = none)")
	cmd.Flags().Int64Var(&f.maxBodySize, "max-body-size", defaults.MaxBodySize, "Maximum request body size in bytes")
	cmd.Flags().IntVar(&f.maxLogEntries, "max-log-entries", defaults.MaxLogEntries, "Request history capacity")

	cmd.Flags().StringVar(&f.logLevel, "log-level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", defaults.Log.Format, "Log format (text, json)")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "Append a JSON copy of the log to this file")

	cmd.Flags().BoolVar(&f.printConfig, "print-config", false, "Print the effective configuration and exit")
}

func init() {
	bindServeFlags(serveCmd, &serveFlagVals)
	rootCmd.AddCommand(serveCmd)
}

// buildServerConfiguration layers the configuration file (or the launcher
// defaults), then the environment, then explicitly set flags.
func buildServerConfiguration(cmd *cobra.Command, f *serveFlags) (*config.ServerConfiguration, error) {
	cfg := config.DefaultLauncherConfiguration()
	if f.configFile != "" {
		loaded, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Host = f.host
	}
	if changed("port") {
		cfg.Port = f.port
	}
	if changed("collection") {
		cfg.Collection = f.collection
	}
	if changed("fixtures") {
		cfg.FixturesFile = f.fixturesFile
	}
	if changed("auth-required") {
		cfg.AuthRequired = f.authRequired
	}
	if f.noAuth {
		cfg.AuthRequired = false
	}
	if changed("read-timeout") {
		cfg.ReadTimeout = f.readTimeout
	}
	if changed("write-timeout") {
		cfg.WriteTimeout = f.writeTimeout
	}
	if changed("max-body-size") {
		cfg.MaxBodySize = f.maxBodySize
	}
	if changed("max-log-entries") {
		cfg.MaxLogEntries = f.maxLogEntries
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServe starts a server for cfg and blocks until ctx is done, then shuts
// it down gracefully.
func runServe(ctx context.Context, cfg *config.ServerConfiguration, out io.Writer) error {
	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	srv, err := engine.NewServer(cfg, engine.WithLogger(log.With("component", "engine")))
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		var bindErr *engine.BindError
		if errors.As(err, &bindErr) {
			return fmt.Errorf("%w (is another server already using port %d?)", err, cfg.Port)
		}
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := waitReady(gctx, srv.BaseURL()); err != nil {
			return err
		}
		if gctx.Err() != nil {
			return nil
		}
		printStartupMessage(out, srv, cfg)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			output.Warn(out, "server shutdown error: %v", err)
		}
		return nil
	})

	err = g.Wait()
	fmt.Fprintln(out, "Server stopped")
	return err
}

// newLogger builds the operational logger. The returned func closes the
// log file, if any.
func newLogger(lc config.LogConfig) (*slog.Logger, func(), error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(lc.Level)
	logCfg.Format = logging.ParseFormat(lc.Format)

	if lc.File == "" {
		return logging.New(logCfg), func() {}, nil
	}

	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logCfg.Tee = f
	return logging.New(logCfg), func() { _ = f.Close() }, nil
}

// waitReady polls the health route until it answers 200.
func waitReady(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	client := &http.Client{Timeout: time.Second}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/__mock/health", nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("server did not become ready within %s", readyTimeout)
			}
			return nil
		case <-ticker.C:
		}
	}
}

func printStartupMessage(w io.Writer, srv *engine.Server, cfg *config.ServerConfiguration) {
	fmt.Fprintln(w, "tfxmock server started")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Collection URL: %s\n", srv.CollectionURL())
	fmt.Fprintf(w, "  Control API:    %s/__mock\n", srv.BaseURL())
	fmt.Fprintf(w, "  Auth required:  %t\n", cfg.AuthRequired)
	if cfg.FixturesFile != "" {
		fmt.Fprintf(w, "  Fixtures:       %s\n", cfg.FixturesFile)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press Ctrl+C to stop")
}
