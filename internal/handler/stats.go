package handler

import (
	"fmt"
	"strings"

	"wordflow/internal/service"

	tele "gopkg.in/telebot.v3"
)

// handleStats shows the learning counters and the last week of activity
func (h *Handler) handleStats(c tele.Context) error {
	backend, err := h.authService.Backend(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	summary, err := h.statsService.Summary(ctx, backend)
	if err != nil {
		return h.fail(c, err, "Failed to load stats")
	}
	return c.Send(statsText(summary))
}

func statsText(summary *service.Summary) string {
	st := summary.Stats

	var sb strings.Builder
	sb.WriteString("📊 Stats\n\n")
	fmt.Fprintf(&sb, "Due today: %d\nReviewed today: %d\nDue in the next 7 days: %d\n\n", st.TodayDueCount, st.ReviewedTodayCount, st.DueNext7d)
	sb.WriteString("New words / reviews\n")
	fmt.Fprintf(&sb, "1 day: %d / %d\n", st.NewWords1d, st.Reviews1d)
	fmt.Fprintf(&sb, "7 days: %d / %d\n", st.NewWords7d, st.Reviews7d)
	fmt.Fprintf(&sb, "30 days: %d / %d\n", st.NewWords30d, st.Reviews30d)
	fmt.Fprintf(&sb, "365 days: %d / %d\n", st.NewWords365d, st.Reviews365d)

	series := summary.Series
	if len(series.Labels) > 0 {
		sb.WriteString("\nLast 7 days (new / reviews)\n")
		for i, label := range series.Labels {
			fmt.Fprintf(&sb, "%s  %d / %d\n", label, valueAt(series.NewWords, i), valueAt(series.Reviews, i))
		}
	}
	return sb.String()
}

func valueAt(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// handleProfile shows the account, its counters and starred words
func (h *Handler) handleProfile(c tele.Context) error {
	backend, err := h.authService.Backend(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "Failed to open backend session")
	}

	ctx, cancel := requestContext()
	defer cancel()

	view, err := h.statsService.Profile(ctx, backend)
	if err != nil {
		return h.fail(c, err, "Failed to load profile")
	}
	return c.Send(profileText(view))
}

func profileText(view *service.ProfileView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 %s\n", view.Account.Email)
	if !view.Account.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Member since %s\n", view.Account.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, "\nWords: %d\nStarred: %d\nDue today: %d\n", view.Profile.TotalWords, view.Profile.StarredWords, view.Profile.DueToday)

	if len(view.Starred) == 0 {
		sb.WriteString("\nNo favourites yet. Star a word from the list.")
		return sb.String()
	}
	sb.WriteString("\n⭐ Starred\n")
	for _, w := range view.Starred {
		fmt.Fprintf(&sb, "%s — %s\n", w.Term, w.Translation)
	}
	return sb.String()
}
