package cli

import (
	"context"

	"careerfit/internal/career"
	"careerfit/internal/common"
	"careerfit/internal/types"

	"github.com/spf13/cobra"
)

var (
	gradeConfig common.CommandConfig
	gradeKind   string
)

var gradeCmd = &cobra.Command{
	Use:   "grade [quiz-file]",
	Short: "Grade a course or application quiz",
	Long: `Grade quiz answers against the correct options.

The input file is a JSON object:
  {"questions": [{"question": "...", "options": ["..."], "correctAnswerIndex": 0}],
   "answers": {"0": 2}, "kind": "course"}

Course quizzes pass at quiz.courseThreshold percent, application quizzes at
quiz.applicationThreshold. No oracle is involved.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputPreRun(&gradeConfig),
	RunE:    runGrade,
}

func init() {
	addOutputFlags(gradeCmd, &gradeConfig)
	gradeCmd.Flags().StringVar(&gradeKind, "kind", "", "Quiz kind overriding the input: course or application")
}

func runGrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	grader := career.NewGrader(cfg.Quiz, nil)

	return common.RunJSONCommand(ctx, logger, gradeConfig, args[0],
		func(ctx context.Context, in types.QuizInput) (types.QuizResult, error) {
			if gradeKind != "" {
				in.Kind = gradeKind
			}
			return grader.Grade(ctx, in)
		},
		func(in types.QuizInput, cc common.CommandConfig) {
			logger.Info("Grading quiz",
				"questions", len(in.Questions),
				"answers", len(in.Answers),
				"kind", in.Kind,
				"format", cc.OutputFormat)
		})
}
