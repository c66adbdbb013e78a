package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtereshkin/studykit/internal/model"
	repo "github.com/dtereshkin/studykit/internal/repository/kv"
	"github.com/dtereshkin/studykit/internal/testutil"
)

// staticUser is a fixed CurrentUserProvider.
type staticUser struct {
	view model.UserView
	ok   bool
}

func (s staticUser) CurrentUser() (model.UserView, bool) { return s.view, s.ok }

func newContent(provider CurrentUserProvider) *Content {
	store := testutil.NewMemoryKV()
	return NewContent(
		repo.NewFlashcardRepository(store),
		repo.NewQuizRepository(store),
		provider,
		testutil.MakeNoopLogger(),
	)
}

func loggedIn() staticUser {
	return staticUser{view: model.UserView{ID: uuid.New(), Email: "user@example.com"}, ok: true}
}

func validSetParams() FlashcardSetParams {
	return FlashcardSetParams{
		Title:    "European Capitals",
		Category: "Geography",
		Cards: []CardInput{
			{Front: "France", Back: "Paris"},
			{Front: "Portugal", Back: "Lisbon"},
		},
	}
}

func validQuizParams() QuizParams {
	return QuizParams{
		Title:    "Capitals Quiz",
		Category: "Geography",
		Questions: []QuestionInput{
			{
				Text:          "Capital of France?",
				Type:          model.QuestionTypeMultipleChoice,
				Options:       []string{"Paris", "Lyon", "Nice", "Lille"},
				CorrectOption: 0,
			},
			{
				Text:   "Capital of Portugal?",
				Type:   model.QuestionTypeWritten,
				Answer: "Lisbon",
			},
		},
	}
}

func TestContent_LoadAll_NoCurrentUser(t *testing.T) {
	svc := newContent(staticUser{})

	all, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all.FlashcardSets)
	assert.Empty(t, all.Quizzes)
}

func TestContent_CreateFlashcardSet_Roundtrip(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	set, err := svc.CreateFlashcardSet(ctx, validSetParams())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, set.ID)
	assert.False(t, set.CreatedAt.IsZero())
	assert.False(t, set.UpdatedAt.IsZero())
	require.Len(t, set.Cards, 2)
	for _, card := range set.Cards {
		assert.NotEqual(t, uuid.Nil, card.ID)
	}

	all, err := svc.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all.FlashcardSets, 1)
	assert.Equal(t, "European Capitals", all.FlashcardSets[0].Title)
	assert.Equal(t, set.ID, all.FlashcardSets[0].ID)
}

func TestContent_CreateFlashcardSet_NotAuthenticated(t *testing.T) {
	svc := newContent(staticUser{})

	_, err := svc.CreateFlashcardSet(context.Background(), validSetParams())
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
}

func TestContent_CreateFlashcardSet_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*FlashcardSetParams)
	}{
		{"blank title", func(p *FlashcardSetParams) { p.Title = "   " }},
		{"blank category", func(p *FlashcardSetParams) { p.Category = "" }},
		{"no cards", func(p *FlashcardSetParams) { p.Cards = nil }},
		{"only half-filled cards", func(p *FlashcardSetParams) {
			p.Cards = []CardInput{{Front: "France", Back: "  "}, {Front: "", Back: "Paris"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newContent(loggedIn())
			params := validSetParams()
			tt.mutate(&params)

			_, err := svc.CreateFlashcardSet(ctx, params)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestContent_CreateFlashcardSet_DropsInvalidCards(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	params := validSetParams()
	params.Cards = append(params.Cards, CardInput{Front: "Spain", Back: "   "})

	set, err := svc.CreateFlashcardSet(ctx, params)
	require.NoError(t, err)
	assert.Len(t, set.Cards, 2)
}

func TestContent_UpdateFlashcardSet(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	set, err := svc.CreateFlashcardSet(ctx, validSetParams())
	require.NoError(t, err)

	params := validSetParams()
	params.Title = "World Capitals"
	updated, err := svc.UpdateFlashcardSet(ctx, set.ID, params)
	require.NoError(t, err)
	assert.Equal(t, "World Capitals", updated.Title)
	assert.Equal(t, set.ID, updated.ID)
	assert.Equal(t, set.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(set.UpdatedAt) || updated.UpdatedAt.Equal(set.UpdatedAt))
}

func TestContent_UpdateFlashcardSet_Missing(t *testing.T) {
	svc := newContent(loggedIn())

	_, err := svc.UpdateFlashcardSet(context.Background(), uuid.New(), validSetParams())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestContent_DeleteFlashcardSet(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	set, err := svc.CreateFlashcardSet(ctx, validSetParams())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFlashcardSet(ctx, set.ID))

	all, err := svc.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all.FlashcardSets)

	assert.ErrorIs(t, svc.DeleteFlashcardSet(ctx, set.ID), model.ErrNotFound)
}

func TestContent_CreateQuiz_Roundtrip(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	quiz, err := svc.CreateQuiz(ctx, validQuizParams())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, quiz.ID)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, model.QuestionTypeMultipleChoice, quiz.Questions[0].Type)
	assert.Empty(t, quiz.Questions[1].Options)

	all, err := svc.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all.Quizzes, 1)
	assert.Equal(t, quiz.ID, all.Quizzes[0].ID)
}

func TestContent_CreateQuiz_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*QuizParams)
	}{
		{"blank title", func(p *QuizParams) { p.Title = "" }},
		{"no questions", func(p *QuizParams) { p.Questions = nil }},
		{"choice question with empty option", func(p *QuizParams) {
			p.Questions = []QuestionInput{{
				Text:    "Q?",
				Type:    model.QuestionTypeMultipleChoice,
				Options: []string{"a", "b", "", "d"},
			}}
		}},
		{"choice question with three options", func(p *QuizParams) {
			p.Questions = []QuestionInput{{
				Text:    "Q?",
				Type:    model.QuestionTypeMultipleChoice,
				Options: []string{"a", "b", "c"},
			}}
		}},
		{"choice question with out-of-range answer", func(p *QuizParams) {
			p.Questions = []QuestionInput{{
				Text:          "Q?",
				Type:          model.QuestionTypeMultipleChoice,
				Options:       []string{"a", "b", "c", "d"},
				CorrectOption: 7,
			}}
		}},
		{"written question with blank answer", func(p *QuizParams) {
			p.Questions = []QuestionInput{{
				Text:   "Q?",
				Type:   model.QuestionTypeWritten,
				Answer: "  ",
			}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newContent(loggedIn())
			params := validQuizParams()
			tt.mutate(&params)

			_, err := svc.CreateQuiz(ctx, params)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestContent_UpdateQuiz(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	quiz, err := svc.CreateQuiz(ctx, validQuizParams())
	require.NoError(t, err)

	params := validQuizParams()
	params.Description = "Capitals of Europe"
	updated, err := svc.UpdateQuiz(ctx, quiz.ID, params)
	require.NoError(t, err)
	assert.Equal(t, "Capitals of Europe", updated.Description)
}

func TestContent_DeleteQuiz_Missing(t *testing.T) {
	svc := newContent(loggedIn())

	assert.ErrorIs(t, svc.DeleteQuiz(context.Background(), uuid.New()), model.ErrNotFound)
}

func TestContent_Search(t *testing.T) {
	ctx := context.Background()
	svc := newContent(loggedIn())

	_, err := svc.CreateFlashcardSet(ctx, validSetParams())
	require.NoError(t, err)

	other := validSetParams()
	other.Title = "Chemistry"
	other.Cards = []CardInput{{Front: "H2O", Back: "Water"}}
	_, err = svc.CreateFlashcardSet(ctx, other)
	require.NoError(t, err)

	_, err = svc.CreateQuiz(ctx, validQuizParams())
	require.NoError(t, err)

	t.Run("empty query matches everything", func(t *testing.T) {
		all, err := svc.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all.FlashcardSets, 2)
		assert.Len(t, all.Quizzes, 1)
	})

	t.Run("case-insensitive title match", func(t *testing.T) {
		found, err := svc.Search(ctx, "cHeMiStRy")
		require.NoError(t, err)
		require.Len(t, found.FlashcardSets, 1)
		assert.Equal(t, "Chemistry", found.FlashcardSets[0].Title)
		assert.Empty(t, found.Quizzes)
	})

	t.Run("card back match", func(t *testing.T) {
		found, err := svc.Search(ctx, "water")
		require.NoError(t, err)
		require.Len(t, found.FlashcardSets, 1)
		assert.Equal(t, "Chemistry", found.FlashcardSets[0].Title)
	})

	t.Run("quiz option match", func(t *testing.T) {
		found, err := svc.Search(ctx, "lyon")
		require.NoError(t, err)
		assert.Empty(t, found.FlashcardSets)
		assert.Len(t, found.Quizzes, 1)
	})

	t.Run("no match", func(t *testing.T) {
		found, err := svc.Search(ctx, "astronomy")
		require.NoError(t, err)
		assert.Empty(t, found.FlashcardSets)
		assert.Empty(t, found.Quizzes)
	})
}

func TestContent_ScopedToCurrentUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryKV()
	flashcards := repo.NewFlashcardRepository(store)
	quizzes := repo.NewQuizRepository(store)

	alice := loggedIn()
	bob := loggedIn()

	aliceSvc := NewContent(flashcards, quizzes, alice, testutil.MakeNoopLogger())
	bobSvc := NewContent(flashcards, quizzes, bob, testutil.MakeNoopLogger())

	_, err := aliceSvc.CreateFlashcardSet(ctx, validSetParams())
	require.NoError(t, err)

	bobAll, err := bobSvc.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, bobAll.FlashcardSets)
}
