package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerfit/internal/errors"
	"careerfit/internal/types"
)

func tenQuestions() []types.QuizQuestion {
	qs := make([]types.QuizQuestion, 10)
	for i := range qs {
		qs[i] = types.QuizQuestion{CorrectAnswerIndex: i % 4}
	}
	return qs
}

func TestGradeQuiz(t *testing.T) {
	allCorrect := map[int]int{}
	sevenCorrect := map[int]int{}
	for i := 0; i < 10; i++ {
		allCorrect[i] = i % 4
		if i < 7 {
			sevenCorrect[i] = i % 4
		} else {
			sevenCorrect[i] = (i + 1) % 4
		}
	}

	tests := []struct {
		name      string
		answers   map[int]int
		threshold int
		wantPct   int
		wantPass  bool
	}{
		{"seven of ten at 70", sevenCorrect, 70, 70, true},
		{"seven of ten at 71", sevenCorrect, 71, 70, false},
		{"seven of ten at application threshold", sevenCorrect, 60, 70, true},
		{"all correct", allCorrect, 70, 100, true},
		{"no answers", nil, 70, 0, false},
		{"no answers zero threshold", map[int]int{}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GradeQuiz(tenQuestions(), tt.answers, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, got.Percentage)
			assert.Equal(t, tt.wantPass, got.Passed)
			assert.Equal(t, 10, got.Total)
			assert.Equal(t, tt.threshold, got.Threshold)
		})
	}
}

func TestGradeQuiz_Rounding(t *testing.T) {
	qs := make([]types.QuizQuestion, 3)
	got, err := GradeQuiz(qs, map[int]int{0: 0, 1: 0}, 67)
	require.NoError(t, err)
	assert.Equal(t, 67, got.Percentage)
	assert.True(t, got.Passed)

	qs = make([]types.QuizQuestion, 8)
	got, err = GradeQuiz(qs, map[int]int{0: 0}, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Percentage, "12.5 rounds half up")
}

func TestGradeQuiz_IgnoresOutOfRangeAnswers(t *testing.T) {
	got, err := GradeQuiz(make([]types.QuizQuestion, 2), map[int]int{0: 0, 5: 0, -1: 0}, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Correct)
	assert.Equal(t, 50, got.Percentage)
}

func TestGradeQuiz_EmptyIsInvalidInput(t *testing.T) {
	_, err := GradeQuiz(nil, map[int]int{0: 1}, 70)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}
