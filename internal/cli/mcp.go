package cli

import (
	"careerfit/internal/server"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the scoring operations as MCP tools over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout with the tools
assign_weights, match_career_paths, recommend_courses,
generate_learning_path and grade_quiz.

Logs go to stderr.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	svc, err := newServices(ctx, cfg, logger, serviceOptions{})
	if err != nil {
		return err
	}
	defer svc.close(ctx)

	s := server.NewMCPServer(Version, server.Deps{
		Scorer: svc.scorer,
		Oracle: svc.oracle,
		Grader: svc.grader,
	})

	logger.Info("MCP server listening on stdio", "version", Version)
	return mcpserver.ServeStdio(s)
}
