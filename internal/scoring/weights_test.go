package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerfit/internal/types"
)

func TestEqualWeights_ThreeSkills(t *testing.T) {
	got := EqualWeights([]string{"JavaScript", "React", "HTML/CSS"})

	require.Len(t, got, 3)
	assert.Equal(t, types.WeightedSkill{Skill: "JavaScript", Weight: 33.33}, got[0])
	assert.Equal(t, types.WeightedSkill{Skill: "React", Weight: 33.33}, got[1])
	assert.Equal(t, types.WeightedSkill{Skill: "HTML/CSS", Weight: 33.34}, got[2])
	assert.True(t, WeightSumValid(got))
}

func TestEqualWeights_SumInvariant(t *testing.T) {
	for n := 1; n <= 50; n++ {
		skills := make([]string, n)
		for i := range skills {
			skills[i] = string(rune('a'+i%26)) + string(rune('A'+i/26))
		}
		got := EqualWeights(skills)
		require.Len(t, got, n)
		assert.InDelta(t, 100.0, SumWeights(got), WeightTolerance, "n=%d", n)
		for i, ws := range got {
			assert.Equal(t, skills[i], ws.Skill)
		}
	}
}

func TestReconcileWeights_SkillsThatFoldTogether(t *testing.T) {
	skills := []string{"Go", "go", "SQL"}

	got, err := ReconcileWeights(skills, []types.WeightedSkill{
		{Skill: "SQL", Weight: 20}, {Skill: "go", Weight: 30}, {Skill: "Go", Weight: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, []types.WeightedSkill{{Skill: "Go", Weight: 50}, {Skill: "go", Weight: 30}, {Skill: "SQL", Weight: 20}}, got)

	_, err = ReconcileWeights(skills, []types.WeightedSkill{
		{Skill: "GO", Weight: 50}, {Skill: "go", Weight: 30}, {Skill: "SQL", Weight: 20},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one requested skill")
}

func TestEqualWeights_Empty(t *testing.T) {
	assert.Nil(t, EqualWeights(nil))
}

func TestReconcileWeights(t *testing.T) {
	skills := []string{"Go", "SQL"}

	tests := []struct {
		name     string
		proposed []types.WeightedSkill
		want     []types.WeightedSkill
		wantErr  string
	}{
		{
			name:     "exact match reordered to input order",
			proposed: []types.WeightedSkill{{Skill: "SQL", Weight: 40}, {Skill: "Go", Weight: 60}},
			want:     []types.WeightedSkill{{Skill: "Go", Weight: 60}, {Skill: "SQL", Weight: 40}},
		},
		{
			name:     "case differences repaired to input spelling",
			proposed: []types.WeightedSkill{{Skill: "go", Weight: 50.005}, {Skill: " sql ", Weight: 49.995}},
			want:     []types.WeightedSkill{{Skill: "Go", Weight: 50.005}, {Skill: "SQL", Weight: 49.995}},
		},
		{
			name:     "missing skill",
			proposed: []types.WeightedSkill{{Skill: "Go", Weight: 100}},
			wantErr:  "expected 2 weighted skills",
		},
		{
			name:     "invented skill",
			proposed: []types.WeightedSkill{{Skill: "Go", Weight: 50}, {Skill: "Rust", Weight: 50}},
			wantErr:  "unexpected skill",
		},
		{
			name:     "duplicated skill",
			proposed: []types.WeightedSkill{{Skill: "Go", Weight: 50}, {Skill: "GO", Weight: 50}},
			wantErr:  "more than once",
		},
		{
			name:     "negative weight",
			proposed: []types.WeightedSkill{{Skill: "Go", Weight: 120}, {Skill: "SQL", Weight: -20}},
			wantErr:  "invalid weight",
		},
		{
			name:     "sum off",
			proposed: []types.WeightedSkill{{Skill: "Go", Weight: 60}, {Skill: "SQL", Weight: 30}},
			wantErr:  "sum to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReconcileWeights(skills, tt.proposed)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
