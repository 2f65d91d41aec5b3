package scoring

import (
	"careerfit/internal/errors"
	"careerfit/internal/types"
)

// GradeQuiz counts answers equal to each question's correct index and gates
// the percentage against threshold. Missing answers count as wrong.
func GradeQuiz(questions []types.QuizQuestion, answers map[int]int, threshold int) (types.QuizResult, error) {
	if len(questions) == 0 {
		return types.QuizResult{}, errors.NewInvalidInputError("quiz has no questions", nil)
	}

	correct := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.CorrectAnswerIndex {
			correct++
		}
	}

	percentage := RoundHalfUp(float64(correct) / float64(len(questions)) * 100)
	return types.QuizResult{
		Correct:    correct,
		Total:      len(questions),
		Percentage: percentage,
		Threshold:  threshold,
		Passed:     percentage >= threshold,
	}, nil
}
