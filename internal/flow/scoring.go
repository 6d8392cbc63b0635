package flow

import "disasterprep/internal/models"

// Score counts the questions whose recorded answer matches the correct index.
// Missing answers count as incorrect.
func Score(questions []models.Question, answers map[int]int) int {
	score := 0
	for i, q := range questions {
		if choice, ok := answers[i]; ok && choice == q.Correct {
			score++
		}
	}
	return score
}

// Complete reports whether every question has an answer
func Complete(questions []models.Question, answers map[int]int) bool {
	for i := range questions {
		if _, ok := answers[i]; !ok {
			return false
		}
	}
	return true
}

// BuildAttempt scores answers against quiz and produces the record to submit
func BuildAttempt(quiz models.Quiz, answers map[int]int) models.QuizAttempt {
	records := make([]models.AnswerRecord, len(quiz.Questions))
	for i, q := range quiz.Questions {
		record := models.AnswerRecord{Question: q.Question, CorrectAnswer: q.Correct}
		if choice, ok := answers[i]; ok {
			c := choice
			record.UserAnswer = &c
			record.IsCorrect = choice == q.Correct
		}
		records[i] = record
	}

	return models.QuizAttempt{
		QuizID:         quiz.ID,
		ModuleID:       quiz.ModuleID,
		Score:          Score(quiz.Questions, answers),
		TotalQuestions: len(quiz.Questions),
		Answers:        records,
	}
}
