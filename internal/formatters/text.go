package formatters

import (
	"fmt"
	"strings"

	"careerfit/internal/types"
)

func weightsText(w types.RoleWeights) string {
	var out strings.Builder
	fmt.Fprintf(&out, "=== SKILL WEIGHTS: %s ===\n\n", w.Role)
	for _, s := range w.Skills {
		fmt.Fprintf(&out, "%-30s %6.2f\n", s.Skill, s.Weight)
	}
	return out.String()
}

func reportText(r types.CareerPathReport) string {
	var out strings.Builder
	out.WriteString("=== CAREER PATHS ===\n\n")
	if r.TopMatch == nil {
		out.WriteString("No roles to match.\n")
		return out.String()
	}
	fmt.Fprintf(&out, "Top match: %s (%d%%)\n\n", r.TopMatch.Role, r.TopMatch.MatchPercentage)
	for i, p := range r.CareerPaths {
		fmt.Fprintf(&out, "%d. %s: %d%%\n", i+1, p.Role, p.MatchPercentage)
		fmt.Fprintf(&out, "   Matched: %s\n", joinOrNone(p.MatchedSkills))
		fmt.Fprintf(&out, "   Missing (%d): %s\n", p.SkillGap, joinOrNone(p.MissingSkills))
	}
	return out.String()
}

func coursesText(c types.CourseRecommendationSet) string {
	var out strings.Builder
	out.WriteString("=== RECOMMENDED COURSES ===\n")
	if c.Empty() {
		out.WriteString("\nNo course recommendations available.\n")
		return out.String()
	}
	writeCourseLevelText(&out, "Beginner", c.Beginner)
	writeCourseLevelText(&out, "Intermediate", c.Intermediate)
	writeCourseLevelText(&out, "Advanced", c.Advanced)
	return out.String()
}

func writeCourseLevelText(out *strings.Builder, level string, courses []types.Course) {
	if len(courses) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", level)
	for _, c := range courses {
		fmt.Fprintf(out, "- %s (%s, %s) [%s]\n", c.Title, c.Platform, c.Duration, c.Skill)
		if c.Description != "" {
			fmt.Fprintf(out, "  %s\n", c.Description)
		}
	}
}

func learningPathText(p types.LearningPath) string {
	var out strings.Builder
	out.WriteString("=== LEARNING PATH ===\n")
	for i, ph := range p.Timeline {
		fmt.Fprintf(&out, "\nPhase %d: %s (%s)\n", i+1, ph.Phase, ph.Duration)
		fmt.Fprintf(&out, "  Skills: %s\n", joinOrNone(ph.Skills))
		for _, pr := range ph.Projects {
			fmt.Fprintf(&out, "  Project: %s - %s\n", pr.Name, pr.Description)
		}
		for _, r := range ph.Resources {
			fmt.Fprintf(&out, "  Resource: %s (%s) %s\n", r.Title, r.Type, r.URL)
		}
		for _, m := range ph.Milestones {
			fmt.Fprintf(&out, "  Milestone: %s\n", m)
		}
	}

	out.WriteString("\nCertifications:\n")
	fmt.Fprintf(&out, "  Recommended: %s\n", joinOrNone(p.Certification.Recommended))
	fmt.Fprintf(&out, "  Optional: %s\n", joinOrNone(p.Certification.Optional))

	if len(p.CommunityEngagement) > 0 {
		out.WriteString("\nCommunity:\n")
		for _, c := range p.CommunityEngagement {
			fmt.Fprintf(&out, "- %s: %s (%s)\n", c.Platform, c.Activity, c.Benefit)
		}
	}
	return out.String()
}

func planText(p types.RemediationPlan) string {
	return fmt.Sprintf("=== PLAN FOR %s ===\n\n%s\n%s", p.Role, coursesText(p.Courses), learningPathText(p.LearningPath))
}

func quizText(q types.QuizResult) string {
	status := "FAILED"
	if q.Passed {
		status = "PASSED"
	}
	return fmt.Sprintf("=== QUIZ RESULT ===\n\nScore: %d/%d (%d%%)\nThreshold: %d%%\nResult: %s\n",
		q.Correct, q.Total, q.Percentage, q.Threshold, status)
}

func profileText(p types.Profile) string {
	return fmt.Sprintf("=== PROFILE %s ===\n\nSkills: %s\n", p.UserID, joinOrNone(p.Skills))
}

func selectionsText(sels []types.Selection) string {
	var out strings.Builder
	out.WriteString("=== SAVED SELECTIONS ===\n\n")
	if len(sels) == 0 {
		out.WriteString("None.\n")
	}
	for _, s := range sels {
		fmt.Fprintf(&out, "#%d %s %s %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Kind, s.Role)
	}
	return out.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
