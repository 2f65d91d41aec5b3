package cli

import (
	"careerfit/internal/common"
	"careerfit/internal/store"

	"github.com/spf13/cobra"
)

var (
	profileConfig common.CommandConfig
	selectionKind string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored user skill profiles",
	Long: `Read and write the skill profiles and saved selections kept in the
profile store (store.path).`,
	PersistentPreRunE: outputPreRun(&profileConfig),
}

var profileSetCmd = &cobra.Command{
	Use:   "set [user-id] [skill...]",
	Short: "Replace the stored skills of a user",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProfileSet,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show the stored skills of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileHistoryCmd = &cobra.Command{
	Use:   "history [user-id]",
	Short: "List the selections saved for a user, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileHistory,
}

func init() {
	profileCmd.PersistentFlags().StringVarP(&profileConfig.OutputFile, "output", "o", "", "Output file (default: stdout)")
	profileCmd.PersistentFlags().StringVar(&profileConfig.OutputFormat, "format", "", "Output format: json, text, markdown (default from config)")
	profileHistoryCmd.Flags().StringVar(&selectionKind, "kind", "",
		"Only list selections of this kind: career_path, courses, learning_path, quiz")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileHistoryCmd)
}

// withStore opens the configured store for the duration of fn
func withStore(cmd *cobra.Command, fn func(*store.Store) (any, error)) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Failed to close profile store", "error", err.Error())
		}
	}()

	result, err := fn(st)
	if err != nil {
		return err
	}
	return common.NewOutputHandler(logger).HandleOutput(result, profileConfig)
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	userID, skills := args[0], args[1:]
	return withStore(cmd, func(st *store.Store) (any, error) {
		if err := st.SaveSkills(cmd.Context(), userID, skills); err != nil {
			return nil, err
		}
		return st.LoadSkills(cmd.Context(), userID)
	})
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(st *store.Store) (any, error) {
		return st.LoadSkills(cmd.Context(), args[0])
	})
}

func runProfileHistory(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(st *store.Store) (any, error) {
		return st.ListSelections(cmd.Context(), args[0], selectionKind)
	})
}
