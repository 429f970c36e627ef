package utils

import (
	"credlyse/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuiz() *models.Quiz {
	quiz := &models.Quiz{}
	for i := 0; i < 5; i++ {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Question:     "What is covered in this section?",
			Choices:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % 4,
		})
	}
	return quiz
}

func TestValidateQuizShape(t *testing.T) {
	assert.NoError(t, ValidateQuizShape(validQuiz()))

	short := validQuiz()
	short.Questions = short.Questions[:4]
	assert.Error(t, ValidateQuizShape(short))

	long := validQuiz()
	long.Questions = append(long.Questions, long.Questions[0])
	assert.Error(t, ValidateQuizShape(long))

	badChoices := validQuiz()
	badChoices.Questions[2].Choices = []string{"A", "B", "C"}
	assert.Error(t, ValidateQuizShape(badChoices))

	badIndex := validQuiz()
	badIndex.Questions[0].CorrectIndex = 4
	assert.Error(t, ValidateQuizShape(badIndex))

	negativeIndex := validQuiz()
	negativeIndex.Questions[0].CorrectIndex = -1
	assert.Error(t, ValidateQuizShape(negativeIndex))

	emptyQuestion := validQuiz()
	emptyQuestion.Questions[1].Question = ""
	assert.Error(t, ValidateQuizShape(emptyQuestion))
}
