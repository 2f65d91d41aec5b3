package server

import (
	"context"
	"encoding/json"
	"fmt"

	"careerfit/internal/common"
	"careerfit/internal/types"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPServer exposes the scoring operations as MCP tools over the same
// dependencies as the HTTP API.
func NewMCPServer(version string, deps Deps) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"careerfit",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithInstructions("careerfit: weight role skills, rank career paths for a skill set, suggest courses and learning paths, grade quizzes."),
		mcpserver.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("assign_weights",
			mcp.WithDescription("Spread 100 importance points over the skills a role requires. Falls back to equal weights when the oracle fails."),
			mcp.WithString("role", mcp.Description("Role title"), mcp.Required()),
			mcp.WithArray("skills", mcp.Description("Skills the role requires"), mcp.Required()),
		),
		mcpAssignWeights(deps),
	)

	s.AddTool(
		mcp.NewTool("match_career_paths",
			mcp.WithDescription("Rank roles by the share of weighted skills the user already has."),
			mcp.WithArray("user_skills", mcp.Description("Skills the user has")),
			mcp.WithString("roles", mcp.Description(`JSON array of {"role", "skills"} objects`), mcp.Required()),
		),
		mcpMatchCareerPaths(deps),
	)

	s.AddTool(
		mcp.NewTool("recommend_courses",
			mcp.WithDescription("Suggest beginner, intermediate and advanced courses for missing skills. Returns empty lists when the oracle fails."),
			mcp.WithString("role", mcp.Description("Target role"), mcp.Required()),
			mcp.WithArray("missing_skills", mcp.Description("Skills to acquire"), mcp.Required()),
		),
		mcpRecommendCourses(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_learning_path",
			mcp.WithDescription("Generate a phased learning path from the user's skills to a role."),
			mcp.WithString("role", mcp.Description("Target role"), mcp.Required()),
			mcp.WithArray("user_skills", mcp.Description("Skills the user has")),
			mcp.WithArray("missing_skills", mcp.Description("Skills to acquire"), mcp.Required()),
		),
		mcpGenerateLearningPath(deps),
	)

	s.AddTool(
		mcp.NewTool("grade_quiz",
			mcp.WithDescription("Grade quiz answers. Course quizzes and application quizzes have their own pass thresholds."),
			mcp.WithString("quiz", mcp.Description(`JSON object {"questions": [...], "answers": {"0": 1}, "kind": "course"}`), mcp.Required()),
		),
		mcpGradeQuiz(deps),
	)

	return s
}

func mcpAssignWeights(deps Deps) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in := types.RoleSkillRequirement{
			Role:   req.GetString("role", ""),
			Skills: req.GetStringSlice("skills", nil),
		}
		if err := common.ValidateStruct(in); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpResult(deps.Scorer.AssignWeights(ctx, in.Role, in.Skills))
	}
}

func mcpMatchCareerPaths(deps Deps) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rolesJSON, err := req.RequireString("roles")
		if err != nil {
			return mcpError("roles is required"), nil
		}
		roles, err := common.DecodeJSON[[]types.RoleSkillRequirement]([]byte(rolesJSON))
		if err != nil {
			return mcpError(fmt.Sprintf("invalid roles: %v", err)), nil
		}
		in := types.MatchInput{
			UserSkills: req.GetStringSlice("user_skills", []string{}),
			Roles:      roles,
		}
		if err := common.ValidateStruct(in); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpResult(deps.Scorer.AnalyzeRequirements(ctx, in.UserSkills, in.Roles))
	}
}

func mcpRecommendCourses(deps Deps) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in := types.CourseInput{
			Role:          req.GetString("role", ""),
			MissingSkills: req.GetStringSlice("missing_skills", nil),
		}
		if err := common.ValidateStruct(in); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpResult(deps.Oracle.RecommendCourses(ctx, in))
	}
}

func mcpGenerateLearningPath(deps Deps) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in := types.LearningPathInput{
			Role:          req.GetString("role", ""),
			UserSkills:    req.GetStringSlice("user_skills", []string{}),
			MissingSkills: req.GetStringSlice("missing_skills", nil),
		}
		if err := common.ValidateStruct(in); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpResult(deps.Oracle.GenerateLearningPath(ctx, in))
	}
}

func mcpGradeQuiz(deps Deps) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		quizJSON, err := req.RequireString("quiz")
		if err != nil {
			return mcpError("quiz is required"), nil
		}
		in, err := common.DecodeJSON[types.QuizInput]([]byte(quizJSON))
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpResult(deps.Grader.Grade(ctx, in))
	}
}

// mcpResult renders an operation outcome. Operation failures become tool
// errors so the client sees the message.
func mcpResult[T any](v T, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcpError(err.Error()), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
