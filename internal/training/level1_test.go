package training

import (
	"testing"

	"wordflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevel1Session_BuildsQuestions(t *testing.T) {
	words := makeWords(4)

	session, err := NewLevel1Session(NewSeededSampler(1), words)
	require.NoError(t, err)

	assert.Equal(t, 4, session.Total())
	assert.Len(t, session.Questions(), 4)
	assert.ElementsMatch(t, words, session.Queue)

	for _, q := range session.Questions() {
		assert.Len(t, q.Choices, 4)
		count := 0
		for _, c := range q.Choices {
			if c == q.Correct {
				count++
			}
		}
		assert.Equal(t, 1, count, "correct option must appear exactly once")
		assert.Equal(t, q.Word.Translation, q.Correct)
	}
}

func TestNewLevel1Session_Errors(t *testing.T) {
	tests := []struct {
		name     string
		words    []domain.Word
		expected error
	}{
		{
			name:     "no words",
			words:    nil,
			expected: ErrNotEnoughWords,
		},
		{
			name: "missing translation",
			words: []domain.Word{
				{ID: 1, Term: "a", Translation: "1"},
				{ID: 2, Term: "b", Translation: "2"},
				{ID: 3, Term: "c", Translation: "3"},
				{ID: 4, Term: "d", Translation: "4"},
				{ID: 5, Term: "e", Translation: " "},
			},
			expected: ErrNoTranslation,
		},
		{
			name:     "too few words for distractors",
			words:    makeWords(3),
			expected: ErrNotEnoughDistractors,
		},
		{
			name: "duplicate translations",
			words: []domain.Word{
				{ID: 1, Term: "a", Translation: "same"},
				{ID: 2, Term: "b", Translation: "same"},
				{ID: 3, Term: "c", Translation: "other"},
				{ID: 4, Term: "d", Translation: "third"},
			},
			expected: ErrNotEnoughDistractors,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewLevel1Session(NewSeededSampler(1), tt.words)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, session)
		})
	}
}

func TestLevel1Session_AnswerLocksQuestion(t *testing.T) {
	session, err := NewLevel1Session(NewSeededSampler(2), makeWords(5))
	require.NoError(t, err)

	q, ok := session.Current()
	require.True(t, ok)
	assert.False(t, session.Answered())

	correct, accepted, err := session.Answer(q.Correct)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.True(t, accepted)
	assert.True(t, session.Answered())

	var wrong string
	for _, c := range q.Choices {
		if c != q.Correct {
			wrong = c
			break
		}
	}
	correct, accepted, err = session.Answer(wrong)
	require.NoError(t, err)
	assert.True(t, correct, "second click keeps the first verdict")
	assert.False(t, accepted)
	assert.Equal(t, 1, session.CorrectCount)
	assert.Equal(t, Score{Correct: 1, Total: 1}, session.Progress())
}

func TestLevel1Session_UnknownChoice(t *testing.T) {
	session, err := NewLevel1Session(NewSeededSampler(2), makeWords(4))
	require.NoError(t, err)

	_, _, err = session.Answer("not an option")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.False(t, session.Answered())

	_, _, err = session.AnswerIndex(7)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestLevel1Session_PlayThrough(t *testing.T) {
	session, err := NewLevel1Session(NewSeededSampler(3), makeWords(6))
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		q, ok := session.Current()
		require.True(t, ok)
		assert.False(t, session.Answered(), "answered resets on each question")

		switch {
		case i%3 == 0:
			// skipped
		case i%3 == 1:
			_, _, err := session.Answer(q.Correct)
			require.NoError(t, err)
		default:
			for idx, c := range q.Choices {
				if c != q.Correct {
					_, _, err := session.AnswerIndex(idx)
					require.NoError(t, err)
					break
				}
			}
		}
		require.NoError(t, session.Next())
	}

	assert.True(t, session.Complete())
	assert.Equal(t, 6, session.Index)
	_, ok := session.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, session.Next(), ErrSessionComplete)

	assert.Equal(t, Score{Correct: 2, Total: 4}, session.Progress())
	assert.Equal(t, Score{Correct: 2, Total: 6}, session.Score())
}
