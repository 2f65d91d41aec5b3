package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerfit/internal/errors"
	"careerfit/internal/types"
)

func TestNormalizeSkill(t *testing.T) {
	assert.Equal(t, "html/css", NormalizeSkill("  HTML/CSS "))
	assert.Equal(t, "", NormalizeSkill("   "))
}

func TestSkillSet(t *testing.T) {
	set := NewSkillSet("Go", "", "SQL")
	assert.Len(t, set, 2)
	assert.True(t, set.Contains("Go"))
	assert.False(t, set.Contains("go"))
	assert.True(t, set.Normalized().Contains("go"))
}

func TestNewSkillIndex(t *testing.T) {
	idx, err := NewSkillIndex([]types.RoleSkillRequirement{
		{Role: "Frontend Developer", Skills: []string{"JavaScript", "React"}},
		{Role: "Full Stack Developer", Skills: []string{"javascript", "Go"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"Frontend Developer", "Full Stack Developer"}, idx.Roles())

	skills, ok := idx.Skills("Frontend Developer")
	require.True(t, ok)
	assert.Equal(t, []string{"JavaScript", "React"}, skills)

	_, ok = idx.Skills("Designer")
	assert.False(t, ok)

	assert.Equal(t, []string{"Frontend Developer", "Full Stack Developer"}, idx.RolesFor("JAVASCRIPT"))
	assert.Empty(t, idx.RolesFor("COBOL"))
}

func TestNewSkillIndex_CopiesInput(t *testing.T) {
	skills := []string{"Go"}
	idx, err := NewSkillIndex([]types.RoleSkillRequirement{{Role: "Backend", Skills: skills}})
	require.NoError(t, err)

	skills[0] = "Rust"
	got, _ := idx.Skills("Backend")
	assert.Equal(t, []string{"Go"}, got)
}

func TestNewSkillIndex_Invalid(t *testing.T) {
	tests := []struct {
		name string
		reqs []types.RoleSkillRequirement
	}{
		{"no roles", nil},
		{"empty role", []types.RoleSkillRequirement{{Role: " ", Skills: []string{"Go"}}}},
		{"empty skills", []types.RoleSkillRequirement{{Role: "Backend"}}},
		{"blank skill", []types.RoleSkillRequirement{{Role: "Backend", Skills: []string{"Go", ""}}}},
		{"duplicate skill", []types.RoleSkillRequirement{{Role: "Backend", Skills: []string{"Go", "Go"}}}},
		{"duplicate role", []types.RoleSkillRequirement{
			{Role: "Backend", Skills: []string{"Go"}},
			{Role: "Backend", Skills: []string{"SQL"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSkillIndex(tt.reqs)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInput(err))
		})
	}
}
