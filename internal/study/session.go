// Package study drives a single study or quiz-taking session over an
// ordered sequence of items. Session state is transient; nothing here is
// persisted.
package study

import (
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/dtereshkin/studykit/internal/model"
)

// Mode selects what a session iterates over.
type Mode string

const (
	// ModeFlashcards reviews front/back cards with flipping, no grading.
	ModeFlashcards Mode = "flashcards"
	// ModeQuiz grades answers and accumulates a score.
	ModeQuiz Mode = "quiz"
)

var (
	// ErrNoItems is returned when a session is started over empty content.
	ErrNoItems = errors.New("no items to study")
	// ErrWrongMode is returned when an operation does not apply to the
	// session's mode.
	ErrWrongMode = errors.New("operation does not apply to this session mode")
	// ErrAlreadyRevealed is returned when submitting after the current
	// item's grading has been revealed.
	ErrAlreadyRevealed = errors.New("answer already revealed for this question")
	// ErrNoSelection is returned for an out-of-range option index.
	ErrNoSelection = errors.New("select one of the options")
	// ErrEmptyAnswer is returned for a blank written answer.
	ErrEmptyAnswer = errors.New("type an answer first")
)

const noSelection = -1

// Answer records one graded attempt, re-gradable on re-submission.
type Answer struct {
	QuestionID     uuid.UUID
	SelectedOption int    // option index for multiple-choice, -1 otherwise
	WrittenText    string // free text for written questions
	IsCorrect      bool
}

// Session is the state machine for one study or quiz run.
type Session struct {
	mode      Mode
	cards     []model.Card
	questions []model.Question

	current    int
	flipped    bool
	selected   int
	written    string
	showResult bool
	score      int
	answers    []Answer
	completed  bool
}

// NewFlashcardSession starts a flashcard review over the set's cards.
func NewFlashcardSession(set model.FlashcardSet) (*Session, error) {
	if len(set.Cards) == 0 {
		return nil, ErrNoItems
	}
	return &Session{mode: ModeFlashcards, cards: set.Cards, selected: noSelection}, nil
}

// NewQuizSession starts a graded run over the quiz's questions.
func NewQuizSession(quiz model.Quiz) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoItems
	}
	return &Session{mode: ModeQuiz, questions: quiz.Questions, selected: noSelection}, nil
}

func (s *Session) Mode() Mode        { return s.mode }
func (s *Session) CurrentIndex() int { return s.current }
func (s *Session) Completed() bool   { return s.completed }
func (s *Session) Score() int        { return s.score }
func (s *Session) Flipped() bool     { return s.flipped }
func (s *Session) Revealed() bool    { return s.showResult }

// TotalItems returns the number of cards or questions in the session.
func (s *Session) TotalItems() int {
	if s.mode == ModeFlashcards {
		return len(s.cards)
	}
	return len(s.questions)
}

// CurrentCard returns the card at the current position (flashcard mode).
func (s *Session) CurrentCard() (model.Card, error) {
	if s.mode != ModeFlashcards {
		return model.Card{}, ErrWrongMode
	}
	return s.cards[s.current], nil
}

// CurrentQuestion returns the question at the current position (quiz mode).
func (s *Session) CurrentQuestion() (model.Question, error) {
	if s.mode != ModeQuiz {
		return model.Question{}, ErrWrongMode
	}
	return s.questions[s.current], nil
}

// Advance moves to the next item, or completes the session from the last
// one. Per-item scratch state resets on every move.
func (s *Session) Advance() {
	if s.current < s.TotalItems()-1 {
		s.current++
		s.resetScratch()
		return
	}
	s.completed = true
}

// Retreat moves back one item and returns the session to the active state
// even if it was completed. At the first item it does nothing.
func (s *Session) Retreat() {
	if s.current == 0 {
		return
	}
	s.current--
	s.completed = false
	s.resetScratch()
}

// Restart rewinds to the first item and clears the score and all recorded
// answers.
func (s *Session) Restart() {
	s.current = 0
	s.score = 0
	s.answers = nil
	s.completed = false
	s.resetScratch()
}

// Flip toggles the current card between front and back. It never affects
// the score or recorded answers.
func (s *Session) Flip() error {
	if s.mode != ModeFlashcards {
		return ErrWrongMode
	}
	s.flipped = !s.flipped
	return nil
}

// SubmitOption grades the chosen option index for the current
// multiple-choice question.
func (s *Session) SubmitOption(index int) (Answer, error) {
	question, err := s.CurrentQuestion()
	if err != nil {
		return Answer{}, err
	}
	if question.Type != model.QuestionTypeMultipleChoice {
		return Answer{}, ErrWrongMode
	}
	if s.showResult {
		return Answer{}, ErrAlreadyRevealed
	}
	if index < 0 || index >= len(question.Options) {
		return Answer{}, ErrNoSelection
	}

	s.selected = index
	answer := Answer{
		QuestionID:     question.ID,
		SelectedOption: index,
		IsCorrect:      index == question.CorrectOption,
	}
	s.recordAnswer(answer)
	return answer, nil
}

// SubmitWritten grades free text against the current written question's
// expected answer, ignoring case and surrounding whitespace.
func (s *Session) SubmitWritten(text string) (Answer, error) {
	question, err := s.CurrentQuestion()
	if err != nil {
		return Answer{}, err
	}
	if question.Type != model.QuestionTypeWritten {
		return Answer{}, ErrWrongMode
	}
	if s.showResult {
		return Answer{}, ErrAlreadyRevealed
	}
	if strings.TrimSpace(text) == "" {
		return Answer{}, ErrEmptyAnswer
	}

	s.written = text
	answer := Answer{
		QuestionID:     question.ID,
		SelectedOption: noSelection,
		WrittenText:    text,
		IsCorrect:      gradeWritten(text, question.Answer),
	}
	s.recordAnswer(answer)
	return answer, nil
}

func gradeWritten(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}

// recordAnswer upserts the answer keyed by question id. On re-submission
// the score moves by the correctness delta, so navigating back and
// answering again never double-counts.
func (s *Session) recordAnswer(answer Answer) {
	s.showResult = true

	for i := range s.answers {
		if s.answers[i].QuestionID == answer.QuestionID {
			switch {
			case !s.answers[i].IsCorrect && answer.IsCorrect:
				s.score++
			case s.answers[i].IsCorrect && !answer.IsCorrect:
				s.score--
			}
			s.answers[i] = answer
			return
		}
	}

	s.answers = append(s.answers, answer)
	if answer.IsCorrect {
		s.score++
	}
}

// Progress reports completion as a percentage. It counts the current item
// as in progress, reaching 100 only when the session completes.
func (s *Session) Progress() float64 {
	total := s.TotalItems()
	if total == 0 {
		return 0
	}
	position := s.current + 1
	if s.completed {
		position = total
	}
	return float64(position) / float64(total) * 100
}

func (s *Session) resetScratch() {
	s.flipped = false
	s.selected = noSelection
	s.written = ""
	s.showResult = false
}

// Result joins one question with its recorded answer for display.
type Result struct {
	Question model.Question
	Answer   Answer
	Answered bool
}

// Summary is the aggregate outcome of a completed quiz run.
type Summary struct {
	Score      int
	Total      int
	Percentage int
	Results    []Result
}

// Summary reports the aggregate score with answers joined back to their
// questions in quiz order.
func (s *Session) Summary() (Summary, error) {
	if s.mode != ModeQuiz {
		return Summary{}, ErrWrongMode
	}

	total := len(s.questions)
	results := make([]Result, 0, total)
	for _, question := range s.questions {
		result := Result{Question: question}
		for _, answer := range s.answers {
			if answer.QuestionID == question.ID {
				result.Answer = answer
				result.Answered = true
				break
			}
		}
		results = append(results, result)
	}

	return Summary{
		Score:      s.score,
		Total:      total,
		Percentage: int(math.Round(float64(s.score) / float64(total) * 100)),
		Results:    results,
	}, nil
}
