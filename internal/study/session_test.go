package study

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtereshkin/studykit/internal/model"
)

func makeSet(cards int) model.FlashcardSet {
	set := model.FlashcardSet{ID: uuid.New(), Title: "Capitals"}
	for i := 0; i < cards; i++ {
		set.Cards = append(set.Cards, model.Card{ID: uuid.New(), Front: "front", Back: "back"})
	}
	return set
}

func choiceQuestion(correct int) model.Question {
	return model.Question{
		ID:            uuid.New(),
		Text:          "Capital of France?",
		Type:          model.QuestionTypeMultipleChoice,
		Options:       []string{"Paris", "Lyon", "Nice", "Lille"},
		CorrectOption: correct,
	}
}

func writtenQuestion(answer string) model.Question {
	return model.Question{
		ID:     uuid.New(),
		Text:   "Capital of France?",
		Type:   model.QuestionTypeWritten,
		Answer: answer,
	}
}

func makeQuiz(questions ...model.Question) model.Quiz {
	return model.Quiz{ID: uuid.New(), Title: "Geography", Questions: questions}
}

func TestNewSession_EmptyContent(t *testing.T) {
	_, err := NewFlashcardSession(model.FlashcardSet{})
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = NewQuizSession(model.Quiz{})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestSession_AdvanceToCompletion(t *testing.T) {
	s, err := NewFlashcardSession(makeSet(3))
	require.NoError(t, err)

	assert.Equal(t, 0, s.CurrentIndex())
	assert.InDelta(t, 33.33, s.Progress(), 0.01)

	s.Advance()
	assert.Equal(t, 1, s.CurrentIndex())

	s.Advance()
	assert.Equal(t, 2, s.CurrentIndex())
	assert.False(t, s.Completed())

	s.Advance()
	assert.True(t, s.Completed())
	assert.Equal(t, 2, s.CurrentIndex())
	assert.Equal(t, 100.0, s.Progress())
}

func TestSession_RetreatFromCompleted(t *testing.T) {
	s, err := NewFlashcardSession(makeSet(3))
	require.NoError(t, err)

	s.Advance()
	s.Advance()
	s.Advance()
	require.True(t, s.Completed())

	s.Retreat()
	assert.False(t, s.Completed())
	assert.Equal(t, 1, s.CurrentIndex())
}

func TestSession_RetreatAtStart(t *testing.T) {
	s, err := NewFlashcardSession(makeSet(2))
	require.NoError(t, err)

	s.Retreat()
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestSession_FlipResetsOnMove(t *testing.T) {
	s, err := NewFlashcardSession(makeSet(2))
	require.NoError(t, err)

	require.NoError(t, s.Flip())
	assert.True(t, s.Flipped())

	require.NoError(t, s.Flip())
	assert.False(t, s.Flipped())

	require.NoError(t, s.Flip())
	s.Advance()
	assert.False(t, s.Flipped())
	assert.Equal(t, 0, s.Score())
}

func TestSession_FlipWrongMode(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(choiceQuestion(0)))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Flip(), ErrWrongMode)
}

func TestSession_SubmitOption(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(choiceQuestion(2)))
	require.NoError(t, err)

	answer, err := s.SubmitOption(2)
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, 1, s.Score())
	assert.True(t, s.Revealed())
}

func TestSession_SubmitOption_OutOfRange(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(choiceQuestion(0)))
	require.NoError(t, err)

	_, err = s.SubmitOption(-1)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = s.SubmitOption(4)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, 0, s.Score())
}

func TestSession_SubmitAfterReveal(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(choiceQuestion(1)))
	require.NoError(t, err)

	_, err = s.SubmitOption(1)
	require.NoError(t, err)

	_, err = s.SubmitOption(0)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)
	assert.Equal(t, 1, s.Score())
}

func TestSession_SubmitWritten_CaseAndWhitespace(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(writtenQuestion("  paris ")))
	require.NoError(t, err)

	answer, err := s.SubmitWritten("Paris")
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, 1, s.Score())
}

func TestSession_SubmitWritten_Blank(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(writtenQuestion("paris")))
	require.NoError(t, err)

	_, err = s.SubmitWritten("   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.False(t, s.Revealed())
}

func TestSession_ResubmitAdjustsScoreByDelta(t *testing.T) {
	q := choiceQuestion(2)
	s, err := NewQuizSession(makeQuiz(q, choiceQuestion(0)))
	require.NoError(t, err)

	// wrong first attempt
	answer, err := s.SubmitOption(1)
	require.NoError(t, err)
	assert.False(t, answer.IsCorrect)
	assert.Equal(t, 0, s.Score())

	// navigate forward and back, then correct it
	s.Advance()
	s.Retreat()
	answer, err = s.SubmitOption(2)
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, 1, s.Score())

	// correct again must not double-count
	s.Advance()
	s.Retreat()
	_, err = s.SubmitOption(2)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Score())

	// flipping back to wrong subtracts
	s.Advance()
	s.Retreat()
	_, err = s.SubmitOption(3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Score())

	summary, err := s.Summary()
	require.NoError(t, err)
	require.True(t, summary.Results[0].Answered)
	assert.Equal(t, 3, summary.Results[0].Answer.SelectedOption)
}

func TestSession_Restart(t *testing.T) {
	s, err := NewQuizSession(makeQuiz(choiceQuestion(0), choiceQuestion(1)))
	require.NoError(t, err)

	_, err = s.SubmitOption(0)
	require.NoError(t, err)
	s.Advance()
	s.Advance()
	require.True(t, s.Completed())

	s.Restart()
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.Score())
	assert.False(t, s.Completed())
	assert.False(t, s.Revealed())

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.False(t, summary.Results[0].Answered)
}

func TestSession_QuizEndToEnd(t *testing.T) {
	q1 := choiceQuestion(0)
	q2 := choiceQuestion(3)
	q3 := writtenQuestion("Lisbon")
	s, err := NewQuizSession(makeQuiz(q1, q2, q3))
	require.NoError(t, err)

	_, err = s.SubmitOption(0)
	require.NoError(t, err)
	s.Advance()

	_, err = s.SubmitOption(3)
	require.NoError(t, err)
	s.Advance()

	answer, err := s.SubmitWritten("Porto")
	require.NoError(t, err)
	assert.False(t, answer.IsCorrect)
	s.Advance()

	require.True(t, s.Completed())
	assert.Equal(t, 100.0, s.Progress())

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Score)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 67, summary.Percentage)
	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Answer.IsCorrect)
	assert.True(t, summary.Results[1].Answer.IsCorrect)
	assert.False(t, summary.Results[2].Answer.IsCorrect)
	assert.Equal(t, "Porto", summary.Results[2].Answer.WrittenText)
}

func TestSession_SummaryWrongMode(t *testing.T) {
	s, err := NewFlashcardSession(makeSet(1))
	require.NoError(t, err)

	_, err = s.Summary()
	assert.ErrorIs(t, err, ErrWrongMode)
}

func TestSession_CurrentItemAccessors(t *testing.T) {
	set := makeSet(1)
	fs, err := NewFlashcardSession(set)
	require.NoError(t, err)

	card, err := fs.CurrentCard()
	require.NoError(t, err)
	assert.Equal(t, set.Cards[0].ID, card.ID)

	_, err = fs.CurrentQuestion()
	assert.ErrorIs(t, err, ErrWrongMode)

	quiz := makeQuiz(choiceQuestion(0))
	qs, err := NewQuizSession(quiz)
	require.NoError(t, err)

	question, err := qs.CurrentQuestion()
	require.NoError(t, err)
	assert.Equal(t, quiz.Questions[0].ID, question.ID)

	_, err = qs.CurrentCard()
	assert.ErrorIs(t, err, ErrWrongMode)
}
