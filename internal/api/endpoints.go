package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"wordflow/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs in and stores the session cookie in the jar
func (s *Session) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	var acc domain.Account
	if err := s.do(ctx, http.MethodPost, "/api/auth/login", nil, credentials{email, password}, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Register creates an account and signs in
func (s *Session) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	var acc domain.Account
	if err := s.do(ctx, http.MethodPost, "/api/auth/register", nil, credentials{email, password}, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Logout ends the backend session
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// Me returns the signed-in account
func (s *Session) Me(ctx context.Context) (*domain.Account, error) {
	var acc domain.Account
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Profile returns the profile summary
func (s *Session) Profile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := s.do(ctx, http.MethodGet, "/api/profile", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListWords returns words matching q
func (s *Session) ListWords(ctx context.Context, q domain.WordQuery) ([]domain.Word, error) {
	params := url.Values{}
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.Starred {
		params.Set("starred", "true")
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	var words []domain.Word
	if err := s.do(ctx, http.MethodGet, "/api/words", params, nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// CreateWord adds a word
func (s *Session) CreateWord(ctx context.Context, in domain.WordInput) (*domain.Word, error) {
	var w domain.Word
	if err := s.do(ctx, http.MethodPost, "/api/words", nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWord patches the fields set in in
func (s *Session) UpdateWord(ctx context.Context, id int, in domain.WordInput) (*domain.Word, error) {
	var w domain.Word
	if err := s.do(ctx, http.MethodPatch, fmt.Sprintf("/api/words/%d", id), nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWord removes a word
func (s *Session) DeleteWord(ctx context.Context, id int) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/api/words/%d", id), nil, nil, nil)
}

// Themes returns the tags with their word counts
func (s *Session) Themes(ctx context.Context) ([]domain.Theme, error) {
	var themes []domain.Theme
	if err := s.do(ctx, http.MethodGet, "/api/themes", nil, nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// GenerateExamples asks the backend to write example sentences for ids and
// returns the words it updated. The backend may answer with the word list
// or with an object wrapping it under "words".
func (s *Session) GenerateExamples(ctx context.Context, ids []int) ([]domain.Word, error) {
	body := struct {
		WordIDs []int `json:"word_ids"`
	}{WordIDs: ids}

	var raw json.RawMessage
	if err := s.do(ctx, http.MethodPost, "/api/words/examples", nil, body, &raw); err != nil {
		return nil, err
	}

	var words []domain.Word
	if err := json.Unmarshal(raw, &words); err == nil {
		return words, nil
	}
	var wrapped struct {
		Words []domain.Word `json:"words"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode examples response: %w", err)
	}
	return wrapped.Words, nil
}

// ReviewToday returns words due for review
func (s *Session) ReviewToday(ctx context.Context, limit int) ([]domain.Word, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var words []domain.Word
	if err := s.do(ctx, http.MethodGet, "/api/review/today", params, nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// Review records a review outcome and returns the rescheduled word
func (s *Session) Review(ctx context.Context, id int, result domain.ReviewResult) (*domain.Word, error) {
	body := struct {
		Result domain.ReviewResult `json:"result"`
	}{Result: result}

	var w domain.Word
	if err := s.do(ctx, http.MethodPost, fmt.Sprintf("/api/review/%d", id), nil, body, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Stats returns the dashboard counters
func (s *Session) Stats(ctx context.Context) (*domain.Stats, error) {
	var st domain.Stats
	if err := s.do(ctx, http.MethodGet, "/api/stats", nil, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// StatsSeries returns the activity chart for rng ("7d", "30d", ...)
func (s *Session) StatsSeries(ctx context.Context, rng string) (*domain.Series, error) {
	params := url.Values{}
	params.Set("range", rng)
	var series domain.Series
	if err := s.do(ctx, http.MethodGet, "/api/stats/series", params, nil, &series); err != nil {
		return nil, err
	}
	return &series, nil
}
