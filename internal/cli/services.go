package cli

import (
	"context"

	"careerfit/internal/ai"
	"careerfit/internal/career"
	"careerfit/internal/common"
	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/formatters"
	"careerfit/internal/observability"
	"careerfit/internal/store"

	"github.com/spf13/cobra"
)

// services holds everything a command needs to run an operation
type services struct {
	oracle *ai.Service
	scorer *career.Scorer
	grader *career.Grader
	store  *store.Store
	om     *observability.ObservabilityManager
	logger *errors.Logger
}

type serviceOptions struct {
	observability bool
	openStore     bool
}

// newServices resolves Vault secrets and builds the oracle-backed services.
// Observability is only started for long-running commands.
func newServices(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts serviceOptions) (*services, error) {
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return nil, err
	}

	svc := &services{logger: logger}

	if opts.observability {
		om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to initialize observability", err)
		}
		svc.om = om
	}

	oracle, err := ai.NewService(cfg, logger, svc.om)
	if err != nil {
		svc.close(ctx)
		return nil, err
	}
	svc.oracle = oracle
	svc.scorer = career.NewScorer(oracle, career.OptionsFromConfig(cfg.Matching), logger, svc.om)
	svc.grader = career.NewGrader(cfg.Quiz, svc.om)

	if opts.openStore && cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			svc.close(ctx)
			return nil, err
		}
		svc.store = st
		logger.Info("Profile store opened", "path", cfg.Store.Path)
	}
	return svc, nil
}

func (s *services) close(ctx context.Context) {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("Failed to close profile store", "error", err.Error())
		}
	}
	if s.oracle != nil {
		if err := s.oracle.Close(); err != nil {
			s.logger.Warn("Failed to close oracle service", "error", err.Error())
		}
	}
	if s.om != nil {
		if err := s.om.Shutdown(ctx); err != nil {
			s.logger.Warn("Failed to shut down observability", "error", err.Error())
		}
	}
}

// openStore opens the configured profile store for the profile commands
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"no profile store configured, set store.path or CAREERFIT_STORE_PATH", nil)
	}
	return store.Open(cfg.Store.Path)
}

// addOutputFlags registers -o and --format on cmd, bound to cc
func addOutputFlags(cmd *cobra.Command, cc *common.CommandConfig) {
	cmd.Flags().StringVarP(&cc.OutputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&cc.OutputFormat, "format", "", "Output format: json, text, markdown (default from config)")
}

// outputPreRun applies the configured default format and checks it against
// app.supportedFormats
func outputPreRun(cc *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if cc.OutputFormat == "" {
			cc.OutputFormat = cfg.App.DefaultFormat
		}
		cc.MaxFileSize = cfg.App.MaxFileSize
		cc.Stdout = cmd.OutOrStdout()
		supported := cfg.App.SupportedFormats
		if len(supported) == 0 {
			supported = formatters.GlobalRegistry.GetSupportedFormats()
		}
		return common.ValidateOutputFormat(cc.OutputFormat, supported)
	}
}
