package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wordflow/internal/domain"
	"wordflow/internal/reorder"
	"wordflow/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrEmptyWord is returned when a term or translation is blank
var ErrEmptyWord = errors.New("word and translation cannot be empty")

const (
	// PageSize is the number of word cards shown per page
	PageSize = 7

	// cardListLimit bounds how many words take part in the card ordering
	cardListLimit = 1000

	cardWidth  = 320
	cardHeight = 56
	cardGap    = 8
)

// Direction moves a card one position up or down
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// WordService handles word-related business logic
type WordService struct {
	orderRepo repository.OrderRepository
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewWordService creates a new word service
func NewWordService(orderRepo repository.OrderRepository, logger *zap.Logger) *WordService {
	return &WordService{
		orderRepo: orderRepo,
		validate:  validator.New(),
		logger:    logger,
	}
}

// ParseTranslation splits "translation #tag #other" into the translation
// and a normalized comma separated tag list
func ParseTranslation(text string) (string, string) {
	var words, tags []string
	for _, field := range strings.Fields(text) {
		if strings.HasPrefix(field, "#") {
			if tag := strings.ToLower(strings.TrimLeft(field, "#")); tag != "" {
				tags = append(tags, tag)
			}
			continue
		}
		words = append(words, field)
	}
	return strings.Join(words, " "), strings.Join(lo.Uniq(tags), ",")
}

// AddWord validates and creates a word
func (s *WordService) AddWord(ctx context.Context, backend repository.Backend, term, translation string) (*domain.Word, error) {
	term = strings.TrimSpace(term)
	translation, tags := ParseTranslation(translation)
	if term == "" || translation == "" {
		return nil, ErrEmptyWord
	}

	in := domain.WordInput{Term: &term, Translation: &translation}
	if tags != "" {
		in.Tags = &tags
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid word: %w", err)
	}
	return backend.CreateWord(ctx, in)
}

// ToggleStar flips the starred flag of a word
func (s *WordService) ToggleStar(ctx context.Context, backend repository.Backend, word domain.Word) (*domain.Word, error) {
	starred := !word.Starred
	return backend.UpdateWord(ctx, word.ID, domain.WordInput{Starred: &starred})
}

// DeleteWord removes a word
func (s *WordService) DeleteWord(ctx context.Context, backend repository.Backend, wordID int) error {
	return backend.DeleteWord(ctx, wordID)
}

// Themes returns the tags of the user's words
func (s *WordService) Themes(ctx context.Context, backend repository.Backend) ([]domain.Theme, error) {
	return backend.Themes(ctx)
}

// Cards returns every word of the user in the saved card order
func (s *WordService) Cards(ctx context.Context, backend repository.Backend, userID int64) ([]domain.Word, error) {
	words, board, err := s.board(ctx, backend, userID)
	if err != nil {
		return nil, err
	}
	return orderWords(words, board.Order()), nil
}

// CardFilter narrows the word cards the way the word list search does
type CardFilter struct {
	Query   string
	Tag     string
	Starred bool
}

// ParseCardFilter reads "text #tag" search input. The first #tag becomes the
// tag filter, the rest is the search text.
func ParseCardFilter(text string) CardFilter {
	query, tags := ParseTranslation(text)
	tag, _, _ := strings.Cut(tags, ",")
	return CardFilter{Query: query, Tag: tag}
}

// Active reports whether the filter hides any cards
func (f CardFilter) Active() bool {
	return f.Query != "" || f.Tag != "" || f.Starred
}

// FilteredCards returns the cards matching f in the saved card order. The
// order itself is always built from the full list.
func (s *WordService) FilteredCards(ctx context.Context, backend repository.Backend, userID int64, f CardFilter) ([]domain.Word, error) {
	cards, err := s.Cards(ctx, backend, userID)
	if err != nil || !f.Active() {
		return cards, err
	}

	matches, err := backend.ListWords(ctx, domain.WordQuery{
		Q:       f.Query,
		Tag:     f.Tag,
		Starred: f.Starred,
		Limit:   cardListLimit,
	})
	if err != nil {
		return nil, err
	}

	matched := lo.KeyBy(matches, func(w domain.Word) int { return w.ID })
	return lo.FilterMap(cards, func(w domain.Word, _ int) (domain.Word, bool) {
		m, ok := matched[w.ID]
		return m, ok
	}), nil
}

// MoveCard moves a word card one place up or down and saves the new order
func (s *WordService) MoveCard(ctx context.Context, backend repository.Backend, userID int64, wordID int, dir Direction) ([]domain.Word, error) {
	words, board, err := s.board(ctx, backend, userID)
	if err != nil {
		return nil, err
	}

	order := board.Order()
	id := strconv.Itoa(wordID)
	at := lo.IndexOf(order, id)
	if at < 0 {
		return nil, fmt.Errorf("word %d not found", wordID)
	}
	neighbor := at + int(dir)
	if neighbor < 0 || neighbor >= len(order) {
		return orderWords(words, order), nil
	}

	// Release just above the neighbor's center to land before it, just below to land after it.
	r, _ := board.Rect(order[neighbor])
	x, y := r.Center()
	y += float64(dir)

	if err := board.Move(id, x, y); err != nil {
		return nil, err
	}

	s.logger.Debug("Card moved",
		zap.Int64("user_id", userID),
		zap.Int("word_id", wordID),
		zap.Int("direction", int(dir)),
	)
	return orderWords(words, board.Order()), nil
}

func (s *WordService) board(ctx context.Context, backend repository.Backend, userID int64) ([]domain.Word, *reorder.Board, error) {
	words, err := backend.ListWords(ctx, domain.WordQuery{Limit: cardListLimit})
	if err != nil {
		return nil, nil, err
	}
	ids := lo.Map(words, func(w domain.Word, _ int) string { return strconv.Itoa(w.ID) })
	board, err := reorder.NewBoard(CardScope(userID), s.orderRepo, reorder.GridLayout(1, cardWidth, cardHeight, cardGap), ids)
	if err != nil {
		return nil, nil, err
	}
	return words, board, nil
}

// CardScope is the reorder scope of a user's word cards
func CardScope(userID int64) string {
	return fmt.Sprintf("words:%d", userID)
}

func orderWords(words []domain.Word, order []string) []domain.Word {
	byID := lo.KeyBy(words, func(w domain.Word) string { return strconv.Itoa(w.ID) })
	return lo.FilterMap(order, func(id string, _ int) (domain.Word, bool) {
		w, ok := byID[id]
		return w, ok
	})
}

// Page returns one page of words and the total number of pages
func Page(words []domain.Word, page int) ([]domain.Word, int) {
	totalPages := (len(words) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(words) {
		end = len(words)
	}
	return words[start:end], totalPages
}
