package cli

import (
	"context"

	"careerfit/internal/common"
	"careerfit/internal/types"

	"github.com/spf13/cobra"
)

var coursesConfig common.CommandConfig

var coursesCmd = &cobra.Command{
	Use:   "courses [gap-file]",
	Short: "Recommend courses for the skills missing for a role",
	Long: `Ask the oracle for courses, certifications and resources covering the
missing skills of a role.

The input file is a JSON object: {"role": "...", "missingSkills": ["..."]}.
An unusable oracle answer yields empty recommendation lists.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputPreRun(&coursesConfig),
	RunE:    runCourses,
}

func init() {
	addOutputFlags(coursesCmd, &coursesConfig)
}

func runCourses(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	svc, err := newServices(ctx, cfg, logger, serviceOptions{})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	return common.RunJSONCommand(ctx, logger, coursesConfig, args[0],
		func(ctx context.Context, in types.CourseInput) (types.CourseRecommendationSet, error) {
			return svc.oracle.RecommendCourses(ctx, in)
		},
		func(in types.CourseInput, cc common.CommandConfig) {
			logger.Info("Recommending courses",
				"role", in.Role,
				"missing_skills", len(in.MissingSkills),
				"format", cc.OutputFormat)
		})
}
