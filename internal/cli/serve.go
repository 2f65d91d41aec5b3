package cli

import (
	"fmt"

	"careerfit/internal/career"
	"careerfit/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the scoring operations.

Endpoints:
- POST /weights, /match, /courses, /learning-path, /plan: oracle-backed operations
- POST /quiz/grade: grade a quiz
- POST /cache/bust: drop memoized weights
- GET|PUT /profiles/{id}, GET|POST /profiles/{id}/selections: profile store
- GET /health, GET /stats

Requests carrying the same X-Session-ID supersede each other: an older
request whose result arrives late is answered with 409 Conflict.

TLS:
- --tls-mode selects disabled, server or mutual
- --cert-file and --key-file name the server pair
- --ca-file verifies client certificates in mutual mode`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	serveCmd.Flags().String("store", "", "Profile store path (overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded config
func applyServeFlags(cmd *cobra.Command, targets map[string]*string) {
	for name, target := range targets {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	applyServeFlags(cmd, map[string]*string{
		"port":      &cfg.Server.Port,
		"host":      &cfg.Server.Host,
		"tls-mode":  &cfg.Server.TLS.Mode,
		"cert-file": &cfg.Server.TLS.CertFile,
		"key-file":  &cfg.Server.TLS.KeyFile,
		"ca-file":   &cfg.Server.TLS.CAFile,
		"store":     &cfg.Store.Path,
	})

	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	svc, err := newServices(ctx, cfg, logger, serviceOptions{observability: true, openStore: true})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	if cfg.AI.WatchPrompts {
		w, err := cfg.WatchPrompts(ctx, logger)
		if err != nil {
			return fmt.Errorf("failed to watch prompt files: %w", err)
		}
		if w != nil {
			defer w.Stop()
		}
	}

	deps := server.Deps{
		Scorer:  svc.scorer,
		Oracle:  svc.oracle,
		Grader:  svc.grader,
		Tracker: career.NewTracker(0),
		Status:  svc.oracle,
		Obs:     svc.om,
	}
	if svc.store != nil {
		deps.Store = svc.store
	}

	return server.NewServer(cfg, Version, deps, logger).Start(ctx)
}
