package cli

import (
	"context"

	"careerfit/internal/config"
	"careerfit/internal/errors"

	"github.com/spf13/cobra"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "careerfit",
	Short: "Score how well a skill set fits candidate careers",
	Long: `careerfit weights the skills each role requires, ranks roles by how
much of that weight a user's skills cover, and suggests courses and a
learning path for the skills that are missing. It also grades course and
application quizzes and keeps user skill profiles.

Inputs are JSON files. Output is json, text or markdown.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg and logger attached to ctx
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

func init() {
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
