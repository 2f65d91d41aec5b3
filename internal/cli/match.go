package cli

import (
	"context"

	"careerfit/internal/common"
	"careerfit/internal/errors"
	"careerfit/internal/store"
	"careerfit/internal/types"

	"github.com/spf13/cobra"
)

var (
	matchConfig common.CommandConfig
	matchUser   string
	matchSave   bool
)

var matchCmd = &cobra.Command{
	Use:   "match [match-file]",
	Short: "Rank career paths by how well a skill set covers them",
	Long: `Weight the skills of every candidate role and rank the roles by the
share of weight the user's skills cover.

The input file is a JSON object:
  {"userSkills": ["..."], "roles": [{"role": "...", "skills": ["..."]}]}

With --user, an empty userSkills list is filled from the stored profile and
--save records the top match as a selection of that user.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputPreRun(&matchConfig),
	RunE:    runMatch,
}

func init() {
	addOutputFlags(matchCmd, &matchConfig)
	matchCmd.Flags().StringVar(&matchUser, "user", "", "User whose stored skills are used when the input has none")
	matchCmd.Flags().BoolVar(&matchSave, "save", false, "Save the top match as a selection of --user")
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if matchSave && matchUser == "" {
		return errors.NewInvalidInputError("--save needs --user", nil)
	}

	svc, err := newServices(ctx, cfg, logger, serviceOptions{openStore: matchUser != ""})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	if matchUser != "" && svc.store == nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "--user needs a profile store, set store.path", nil)
	}

	return common.RunJSONCommand(ctx, logger, matchConfig, args[0],
		func(ctx context.Context, in types.MatchInput) (types.CareerPathReport, error) {
			return runMatchInput(ctx, svc, matchUser, matchSave, in)
		},
		func(in types.MatchInput, cc common.CommandConfig) {
			logger.Info("Matching career paths",
				"roles", len(in.Roles),
				"user_skills", len(in.UserSkills),
				"user", matchUser,
				"format", cc.OutputFormat)
		})
}

func runMatchInput(ctx context.Context, svc *services, user string, save bool, in types.MatchInput) (types.CareerPathReport, error) {
	userSkills := in.UserSkills
	if len(userSkills) == 0 && svc.store != nil {
		profile, err := svc.store.LoadSkills(ctx, user)
		if err != nil {
			return types.CareerPathReport{}, err
		}
		userSkills = profile.Skills
	}

	report, err := svc.scorer.AnalyzeRequirements(ctx, userSkills, in.Roles)
	if err != nil {
		return types.CareerPathReport{}, err
	}

	if save && svc.store != nil && report.TopMatch != nil {
		if _, err := svc.store.SaveSelection(ctx, user, report.TopMatch.Role, store.KindCareerPath, report.TopMatch); err != nil {
			return types.CareerPathReport{}, err
		}
		svc.logger.Info("Saved top match", "user", user, "role", report.TopMatch.Role)
	}
	return report, nil
}
