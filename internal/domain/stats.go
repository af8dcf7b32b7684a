package domain

import "time"

// Stats holds review and vocabulary counters
type Stats struct {
	TodayDueCount      int `json:"today_due_count"`
	ReviewedTodayCount int `json:"reviewed_today_count"`
	NewWords1d         int `json:"new_words_1d"`
	NewWords7d         int `json:"new_words_7d"`
	NewWords30d        int `json:"new_words_30d"`
	NewWords365d       int `json:"new_words_365d"`
	Reviews1d          int `json:"reviews_1d"`
	Reviews7d          int `json:"reviews_7d"`
	Reviews30d         int `json:"reviews_30d"`
	Reviews365d        int `json:"reviews_365d"`
	DueNext7d          int `json:"due_next_7d"`
}

// Series is the activity chart data: one label per bucket with the number
// of words added and reviews done in it
type Series struct {
	Labels   []string `json:"labels"`
	NewWords []int    `json:"new_words"`
	Reviews  []int    `json:"reviews"`
}

// Account is the signed-in backend user
type Account struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the summary shown on the profile page
type Profile struct {
	TotalWords   int `json:"total_words"`
	StarredWords int `json:"starred_words"`
	DueToday     int `json:"due_today"`
}
