package formatters

import (
	"fmt"
	"strings"

	"careerfit/internal/types"
)

func weightsMarkdown(w types.RoleWeights) string {
	var out strings.Builder
	fmt.Fprintf(&out, "# Skill Weights: %s\n\n", w.Role)
	out.WriteString("| Skill | Weight |\n|---|---:|\n")
	for _, s := range w.Skills {
		fmt.Fprintf(&out, "| %s | %.2f |\n", s.Skill, s.Weight)
	}
	return out.String()
}

func reportMarkdown(r types.CareerPathReport) string {
	var out strings.Builder
	out.WriteString("# Career Paths\n\n")
	if r.TopMatch == nil {
		out.WriteString("_No roles to match._\n")
		return out.String()
	}
	fmt.Fprintf(&out, "**Top match:** %s (%d%%)\n\n", r.TopMatch.Role, r.TopMatch.MatchPercentage)
	out.WriteString("| Rank | Role | Match | Gap |\n|---:|---|---:|---:|\n")
	for i, p := range r.CareerPaths {
		fmt.Fprintf(&out, "| %d | %s | %d%% | %d |\n", i+1, p.Role, p.MatchPercentage, p.SkillGap)
	}
	for _, p := range r.CareerPaths {
		if len(p.MissingSkills) == 0 {
			continue
		}
		fmt.Fprintf(&out, "\n## %s: missing skills\n\n", p.Role)
		for _, s := range p.MissingSkills {
			fmt.Fprintf(&out, "- %s\n", s)
		}
	}
	return out.String()
}

func coursesMarkdown(c types.CourseRecommendationSet) string {
	var out strings.Builder
	out.WriteString("# Recommended Courses\n")
	if c.Empty() {
		out.WriteString("\n_No course recommendations available._\n")
		return out.String()
	}
	writeCourseLevelMarkdown(&out, "Beginner", c.Beginner)
	writeCourseLevelMarkdown(&out, "Intermediate", c.Intermediate)
	writeCourseLevelMarkdown(&out, "Advanced", c.Advanced)
	return out.String()
}

func writeCourseLevelMarkdown(out *strings.Builder, level string, courses []types.Course) {
	if len(courses) == 0 {
		return
	}
	fmt.Fprintf(out, "\n## %s\n\n", level)
	for _, c := range courses {
		fmt.Fprintf(out, "- **%s** (%s, %s) `%s`", c.Title, c.Platform, c.Duration, c.Skill)
		if c.Description != "" {
			fmt.Fprintf(out, ": %s", c.Description)
		}
		out.WriteString("\n")
	}
}

func learningPathMarkdown(p types.LearningPath) string {
	var out strings.Builder
	out.WriteString("# Learning Path\n")
	for i, ph := range p.Timeline {
		fmt.Fprintf(&out, "\n## Phase %d: %s\n\n**Duration:** %s\n\n", i+1, ph.Phase, ph.Duration)
		if len(ph.Skills) > 0 {
			fmt.Fprintf(&out, "**Skills:** %s\n\n", strings.Join(ph.Skills, ", "))
		}
		if len(ph.Projects) > 0 {
			out.WriteString("### Projects\n")
			for _, pr := range ph.Projects {
				fmt.Fprintf(&out, "- **%s**: %s\n", pr.Name, pr.Description)
			}
			out.WriteString("\n")
		}
		if len(ph.Resources) > 0 {
			out.WriteString("### Resources\n")
			for _, r := range ph.Resources {
				fmt.Fprintf(&out, "- [%s](%s) (%s)\n", r.Title, r.URL, r.Type)
			}
			out.WriteString("\n")
		}
		if len(ph.Milestones) > 0 {
			out.WriteString("### Milestones\n")
			for _, m := range ph.Milestones {
				fmt.Fprintf(&out, "- [ ] %s\n", m)
			}
		}
	}

	out.WriteString("\n## Certifications\n\n")
	fmt.Fprintf(&out, "**Recommended:** %s\n\n", joinOrNone(p.Certification.Recommended))
	fmt.Fprintf(&out, "**Optional:** %s\n", joinOrNone(p.Certification.Optional))

	if len(p.CommunityEngagement) > 0 {
		out.WriteString("\n## Community\n\n")
		for _, c := range p.CommunityEngagement {
			fmt.Fprintf(&out, "- **%s**: %s (%s)\n", c.Platform, c.Activity, c.Benefit)
		}
	}
	return out.String()
}

func planMarkdown(p types.RemediationPlan) string {
	return fmt.Sprintf("# Plan for %s\n\n%s\n%s", p.Role,
		strings.Replace(coursesMarkdown(p.Courses), "# ", "## ", 1),
		strings.Replace(learningPathMarkdown(p.LearningPath), "# ", "## ", 1))
}

func quizMarkdown(q types.QuizResult) string {
	status := "Failed"
	if q.Passed {
		status = "Passed"
	}
	return fmt.Sprintf("# Quiz Result\n\n**Score:** %d/%d (%d%%)\n\n**Threshold:** %d%%\n\n**Result:** %s\n",
		q.Correct, q.Total, q.Percentage, q.Threshold, status)
}

func profileMarkdown(p types.Profile) string {
	var out strings.Builder
	fmt.Fprintf(&out, "# Profile %s\n\n", p.UserID)
	for _, s := range p.Skills {
		fmt.Fprintf(&out, "- %s\n", s)
	}
	return out.String()
}

func selectionsMarkdown(sels []types.Selection) string {
	var out strings.Builder
	out.WriteString("# Saved Selections\n\n")
	out.WriteString("| ID | Saved | Kind | Role |\n|---:|---|---|---|\n")
	for _, s := range sels {
		fmt.Fprintf(&out, "| %d | %s | %s | %s |\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Kind, s.Role)
	}
	return out.String()
}
