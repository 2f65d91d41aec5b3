package cli

import (
	"context"

	"careerfit/internal/common"
	"careerfit/internal/types"

	"github.com/spf13/cobra"
)

var weightsConfig common.CommandConfig

var weightsCmd = &cobra.Command{
	Use:   "weights [role-file]",
	Short: "Assign importance weights to the skills of a role",
	Long: `Ask the oracle to spread 100 points over the skills a role requires.

The input file is a JSON object: {"role": "...", "skills": ["...", ...]}.
When the oracle is unavailable or its answer cannot be used, every skill
receives an equal share.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputPreRun(&weightsConfig),
	RunE:    runWeights,
}

func init() {
	addOutputFlags(weightsCmd, &weightsConfig)
}

func runWeights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	svc, err := newServices(ctx, cfg, logger, serviceOptions{})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	return common.RunJSONCommand(ctx, logger, weightsConfig, args[0],
		func(ctx context.Context, in types.RoleSkillRequirement) (types.RoleWeights, error) {
			return svc.scorer.AssignWeights(ctx, in.Role, in.Skills)
		},
		func(in types.RoleSkillRequirement, cc common.CommandConfig) {
			logger.Info("Assigning skill weights",
				"role", in.Role,
				"skills", len(in.Skills),
				"format", cc.OutputFormat)
		})
}
