package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"careerfit/internal/types"
)

func sampleReport() types.CareerPathReport {
	paths := []types.CareerPathResult{
		{Role: "Backend", MatchPercentage: 75, MatchedSkills: []string{"Go"}, MissingSkills: []string{"SQL"}, SkillGap: 1},
		{Role: "Data", MatchPercentage: 20, MatchedSkills: []string{}, MissingSkills: []string{"Python", "Stats"}, SkillGap: 2},
	}
	top := paths[0]
	return types.CareerPathReport{CareerPaths: paths, TopMatch: &top}
}

func TestRegistryFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		format string
		want   []string
	}{
		{"report text", sampleReport(), "text", []string{"Top match: Backend (75%)", "2. Data: 20%", "Missing (1): SQL"}},
		{"report markdown", sampleReport(), "markdown", []string{"**Top match:** Backend (75%)", "| 1 | Backend | 75% | 1 |", "## Data: missing skills"}},
		{"empty report", types.CareerPathReport{CareerPaths: []types.CareerPathResult{}}, "text", []string{"No roles to match."}},
		{"weights", types.RoleWeights{Role: "Backend", Skills: []types.WeightedSkill{{Skill: "Go", Weight: 33.33}}}, "markdown", []string{"| Go | 33.33 |"}},
		{"empty courses", types.EmptyCourseRecommendations(), "text", []string{"No course recommendations available."}},
		{"quiz", types.QuizResult{Correct: 7, Total: 10, Percentage: 70, Threshold: 70, Passed: true}, "text", []string{"Score: 7/10 (70%)", "Result: PASSED"}},
		{"profile", types.Profile{UserID: "u1", Skills: []string{"Go"}}, "markdown", []string{"# Profile u1", "- Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := GlobalRegistry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestJSONFallback(t *testing.T) {
	out, err := GlobalRegistry.Format(types.EmptyCourseRecommendations(), "json")
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string][]types.Course
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, level := range []string{"beginner", "intermediate", "advanced"} {
		if v, ok := decoded[level]; !ok || v == nil {
			t.Errorf("level %s should be an empty array, got %v", level, v)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleReport(), "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if _, err := GlobalRegistry.Format(struct{}{}, "text"); err == nil {
		t.Fatal("expected error for text of an unregistered type")
	}
}

func TestSupportedFormats(t *testing.T) {
	got := strings.Join(GlobalRegistry.GetSupportedFormats(), ",")
	if got != "json,markdown,text" {
		t.Errorf("unexpected formats %s", got)
	}
}
