package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wordflow/internal/api"
	"wordflow/internal/domain"
	"wordflow/internal/repository"
	"wordflow/internal/service"
	"wordflow/internal/testutil"
	"wordflow/internal/training"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func startController(t *testing.T, level training.Level, words []domain.Word) *training.Controller {
	t.Helper()
	ctrl := training.NewController(training.NewSeededSampler(1), nil, testutil.NewTestLogger())
	ctrl.Load(words)
	require.NoError(t, ctrl.Start(context.Background(), level))
	return ctrl
}

func buttonData(markup *tele.ReplyMarkup) []string {
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.Unique)
		}
	}
	return data
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "expired session",
			err:      &api.Error{Status: 401, Detail: "Not authenticated"},
			expected: msgExpired,
		},
		{
			name:     "backend detail",
			err:      fmt.Errorf("create word: %w", &api.Error{Status: 409, Detail: "Word already exists"}),
			expected: "Word already exists",
		},
		{
			name:     "wrapped training error",
			err:      fmt.Errorf("level 2 needs 8 words, have 3: %w", training.ErrNotEnoughWords),
			expected: "Not enough words for this level. Add more words or pick another theme.",
		},
		{
			name:     "unauthorized sentinel",
			err:      repository.ErrUnauthorized,
			expected: msgExpired,
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: msgGenericError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, userMessage(tt.err))
		})
	}
}

func TestCardsView(t *testing.T) {
	cards := testutil.NewTestWords(9)
	cards[0].Starred = true
	cards[0].Tags = "food, travel"

	text, markup := cardsView(cards, 1, service.CardFilter{})

	assert.Contains(t, text, "page 1/2")
	assert.Contains(t, text, "1. term1 — translation1 ⭐  #food #travel")
	assert.NotContains(t, text, "term8")

	data := buttonData(markup)
	assert.Contains(t, data, "wu_1_1")
	assert.Contains(t, data, "wx_7_1")
	assert.Contains(t, data, "wp_2")
	assert.NotContains(t, data, "wp_0")
	assert.Contains(t, data, cbWordsStarred)
	assert.NotContains(t, data, cbWordsClear)

	text, markup = cardsView(cards, 2, service.CardFilter{})
	assert.Contains(t, text, "8. term8")
	assert.Contains(t, buttonData(markup), "wp_1")
}

func TestCardsViewFiltered(t *testing.T) {
	cards := testutil.NewTestWords(3)
	filter := service.CardFilter{Query: "term", Tag: "food", Starred: true}

	text, markup := cardsView(cards, 1, filter)

	assert.Contains(t, text, "«term» #food ⭐ only: 3 found, page 1/1")
	assert.Contains(t, text, "2. term2 — translation2")

	data := buttonData(markup)
	assert.NotContains(t, data, "wu_1_1")
	assert.NotContains(t, data, "wd_1_1")
	assert.Contains(t, data, "ws_2_1")
	assert.Contains(t, data, "wx_3_1")
	assert.Contains(t, data, cbWordsStarred)
	assert.Contains(t, data, cbWordsClear)

	text, markup = cardsView(nil, 1, service.CardFilter{Query: "zzz"})
	assert.Contains(t, text, "No matches found.")
	assert.Equal(t, []string{cbWordsStarred, cbWordsClear}, buttonData(markup))
}

func TestLevel1View(t *testing.T) {
	ctrl := startController(t, training.Level1, testutil.NewTestWords(5))
	session, err := ctrl.Level1()
	require.NoError(t, err)

	text, markup := level1View(session)
	assert.Contains(t, text, "Question 1/5")
	assert.Contains(t, buttonData(markup), cbL1Next)
	assert.Len(t, markup.InlineKeyboard, 5)

	q, _ := session.Current()
	_, _, err = session.Answer(q.Correct)
	require.NoError(t, err)

	text, markup = level1View(session)
	assert.Contains(t, text, "✅ Correct!")
	labels := []string{}
	for _, row := range markup.InlineKeyboard {
		labels = append(labels, row[0].Text)
	}
	assert.Contains(t, labels, "✅ "+q.Correct)
	assert.Contains(t, labels, "➡️ Next")

	for !session.Complete() {
		require.NoError(t, session.Next())
	}
	text, _ = level1View(session)
	assert.Equal(t, "🏁 Done! Score: 1/5", text)
}

func TestLevel2View(t *testing.T) {
	ctrl := startController(t, training.Level2, testutil.NewTestWords(8))
	session, err := ctrl.Level2()
	require.NoError(t, err)

	text, markup := level2View(session)
	assert.Contains(t, text, "(0/8)")
	assert.Len(t, markup.InlineKeyboard, 8)
	assert.NotContains(t, buttonData(markup), cbCheck)

	first := session.Terms[0]
	require.NoError(t, session.SelectTerm(first.ID))
	_, markup = level2View(session)
	assert.Equal(t, "👉 "+first.Term, markup.InlineKeyboard[0][0].Text)

	require.NoError(t, session.SelectTranslation(first.ID))
	_, markup = level2View(session)
	assert.Equal(t, "1. "+first.Term, markup.InlineKeyboard[0][0].Text)

	for _, w := range session.Terms[1:] {
		require.NoError(t, session.SelectTerm(w.ID))
		require.NoError(t, session.SelectTranslation(w.ID))
	}
	_, markup = level2View(session)
	assert.Contains(t, buttonData(markup), cbCheck)

	_, err = session.Check()
	require.NoError(t, err)
	text, _ = level2View(session)
	assert.Contains(t, text, "Score: 8/8")
}

func TestTasksView(t *testing.T) {
	ctrl := startController(t, training.Level3, testutil.NewTestWords(8))
	session, err := ctrl.Tasks()
	require.NoError(t, err)

	text, markup := tasksView(session)
	assert.Contains(t, text, "Translate the words")
	assert.Contains(t, buttonData(markup), "te_7")
	assert.Contains(t, buttonData(markup), cbCheck)

	require.NoError(t, session.SetAnswer(0, session.Tasks[0].Translation))
	_, err = session.Check()
	require.NoError(t, err)

	text, markup = tasksView(session)
	assert.Contains(t, text, "✅ 1. ")
	assert.Contains(t, text, "❌ 2. ")
	assert.Contains(t, text, "Score: 1/8")
	assert.Equal(t, []string{cbRestart, cbLevels}, buttonData(markup))
}

func TestNextOpenTask(t *testing.T) {
	ctrl := startController(t, training.Level3, testutil.NewTestWords(8))
	session, err := ctrl.Tasks()
	require.NoError(t, err)

	assert.Equal(t, 1, nextOpenTask(session, 0))

	require.NoError(t, session.SetAnswer(1, "x"))
	assert.Equal(t, 2, nextOpenTask(session, 0))
	assert.Equal(t, 0, nextOpenTask(session, 7))

	for i := range session.Tasks {
		require.NoError(t, session.SetAnswer(i, "x"))
	}
	assert.Equal(t, -1, nextOpenTask(session, 3))
}

func TestStatsText(t *testing.T) {
	text := statsText(&service.Summary{
		Stats: domain.Stats{TodayDueCount: 3, ReviewedTodayCount: 1, NewWords7d: 5, Reviews7d: 9},
		Series: domain.Series{
			Labels:   []string{"10-17", "10-18"},
			NewWords: []int{2},
			Reviews:  []int{4, 6},
		},
	})

	assert.Contains(t, text, "Due today: 3")
	assert.Contains(t, text, "7 days: 5 / 9")
	assert.Contains(t, text, "10-17  2 / 4")
	assert.Contains(t, text, "10-18  0 / 6")
}

func TestProfileText(t *testing.T) {
	view := &service.ProfileView{
		Account: domain.Account{Email: "user@example.com", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Profile: domain.Profile{TotalWords: 10, StarredWords: 1},
	}

	text := profileText(view)
	assert.Contains(t, text, "Member since 2024-01-02")
	assert.Contains(t, text, "No favourites yet")

	view.Starred = []domain.Word{testutil.NewTestWord(1, "cat", "кот")}
	assert.Contains(t, profileText(view), "cat — кот")
}
