package cli

import (
	"context"

	"careerfit/internal/common"
	"careerfit/internal/errors"
	"careerfit/internal/types"

	"github.com/spf13/cobra"
)

var (
	pathConfig common.CommandConfig
	planConfig common.CommandConfig
)

var pathCmd = &cobra.Command{
	Use:   "path [gap-file]",
	Short: "Generate a phased learning path toward a role",
	Long: `Ask the oracle for a learning path that takes the user from their
current skills to the missing skills of a role.

The input file is a JSON object:
  {"role": "...", "userSkills": ["..."], "missingSkills": ["..."]}

The command fails when the oracle is unavailable or its answer cannot be
parsed.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputPreRun(&pathConfig),
	RunE:    runPath,
}

var planCmd = &cobra.Command{
	Use:   "plan [gap-file]",
	Short: "Recommend courses and a learning path for a role in one run",
	Long: `Run course recommendation and learning path generation concurrently
for the same gap file as "path" and report both.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputPreRun(&planConfig),
	RunE:    runPlan,
}

func init() {
	addOutputFlags(pathCmd, &pathConfig)
	addOutputFlags(planCmd, &planConfig)
}

func runPath(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	svc, err := newServices(ctx, cfg, logger, serviceOptions{})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	return common.RunJSONCommand(ctx, logger, pathConfig, args[0],
		func(ctx context.Context, in types.LearningPathInput) (types.LearningPath, error) {
			return svc.oracle.GenerateLearningPath(ctx, in)
		},
		logGapInput(logger, "Generating learning path"))
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	svc, err := newServices(ctx, cfg, logger, serviceOptions{})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	return common.RunJSONCommand(ctx, logger, planConfig, args[0],
		func(ctx context.Context, in types.LearningPathInput) (types.RemediationPlan, error) {
			return svc.scorer.Plan(ctx, in.Role, in.UserSkills, in.MissingSkills)
		},
		logGapInput(logger, "Building remediation plan"))
}

func logGapInput(logger *errors.Logger, msg string) common.LogDetailsFunc[types.LearningPathInput] {
	return func(in types.LearningPathInput, cc common.CommandConfig) {
		logger.Info(msg,
			"role", in.Role,
			"user_skills", len(in.UserSkills),
			"missing_skills", len(in.MissingSkills),
			"format", cc.OutputFormat)
	}
}
