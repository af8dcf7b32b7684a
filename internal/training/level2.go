package training

import (
	"fmt"

	"wordflow/internal/domain"

	"github.com/samber/lo"
)

// SetSize is the number of words used by levels 2, 3 and 4
const SetSize = 8

// Level2Session is a matching game between a term column and a translation
// column. Both columns hold the same words in independent random order; a
// pair is correct when both sides come from the same word.
type Level2Session struct {
	Terms        []domain.Word
	Translations []domain.Word

	pairs              map[int]int // term id -> translation id
	reverse            map[int]int // translation id -> term id
	pendingTerm        *int
	pendingTranslation *int
	checked            bool
	score              Score
}

// NewLevel2Session samples SetSize words and shuffles both columns
func NewLevel2Session(s *Sampler, words []domain.Word) (*Level2Session, error) {
	if len(words) < SetSize {
		return nil, fmt.Errorf("level 2 needs %d words, have %d: %w", SetSize, len(words), ErrNotEnoughWords)
	}
	picked := Sample(s, words, SetSize)
	return &Level2Session{
		Terms:        Shuffle(s, picked),
		Translations: Shuffle(s, picked),
		pairs:        make(map[int]int, SetSize),
		reverse:      make(map[int]int, SetSize),
	}, nil
}

func (l *Level2Session) hasTerm(id int) bool {
	return lo.ContainsBy(l.Terms, func(w domain.Word) bool { return w.ID == id })
}

func (l *Level2Session) hasTranslation(id int) bool {
	return lo.ContainsBy(l.Translations, func(w domain.Word) bool { return w.ID == id })
}

// SelectTerm handles a click on a term. A paired term is unpaired; an
// unpaired one becomes the pending term and is committed when a
// translation is also pending.
func (l *Level2Session) SelectTerm(id int) error {
	if l.checked {
		return ErrSessionChecked
	}
	if !l.hasTerm(id) {
		return fmt.Errorf("term %d: %w", id, ErrUnknownItem)
	}
	if tr, ok := l.pairs[id]; ok {
		l.unpair(id, tr)
		l.clearPending()
		return nil
	}
	l.pendingTerm = &id
	l.commit()
	return nil
}

// SelectTranslation is the translation-column counterpart of SelectTerm
func (l *Level2Session) SelectTranslation(id int) error {
	if l.checked {
		return ErrSessionChecked
	}
	if !l.hasTranslation(id) {
		return fmt.Errorf("translation %d: %w", id, ErrUnknownItem)
	}
	if term, ok := l.reverse[id]; ok {
		l.unpair(term, id)
		l.clearPending()
		return nil
	}
	l.pendingTranslation = &id
	l.commit()
	return nil
}

func (l *Level2Session) commit() {
	if l.pendingTerm == nil || l.pendingTranslation == nil {
		return
	}
	term, tr := *l.pendingTerm, *l.pendingTranslation
	if old, ok := l.pairs[term]; ok {
		l.unpair(term, old)
	}
	if old, ok := l.reverse[tr]; ok {
		l.unpair(old, tr)
	}
	l.pairs[term] = tr
	l.reverse[tr] = term
	l.clearPending()
}

func (l *Level2Session) unpair(term, tr int) {
	delete(l.pairs, term)
	delete(l.reverse, tr)
}

func (l *Level2Session) clearPending() {
	l.pendingTerm = nil
	l.pendingTranslation = nil
}

// PendingTerm returns the selected, not yet paired term
func (l *Level2Session) PendingTerm() (int, bool) {
	if l.pendingTerm == nil {
		return 0, false
	}
	return *l.pendingTerm, true
}

// PendingTranslation returns the selected, not yet paired translation
func (l *Level2Session) PendingTranslation() (int, bool) {
	if l.pendingTranslation == nil {
		return 0, false
	}
	return *l.pendingTranslation, true
}

// PairOfTerm returns the translation id paired with term id
func (l *Level2Session) PairOfTerm(id int) (int, bool) {
	tr, ok := l.pairs[id]
	return tr, ok
}

// PairOfTranslation returns the term id paired with translation id
func (l *Level2Session) PairOfTranslation(id int) (int, bool) {
	term, ok := l.reverse[id]
	return term, ok
}

// Pairs returns a copy of the current term -> translation pairing
func (l *Level2Session) Pairs() map[int]int {
	out := make(map[int]int, len(l.pairs))
	for k, v := range l.pairs {
		out[k] = v
	}
	return out
}

// CanCheck reports whether every term is paired
func (l *Level2Session) CanCheck() bool {
	return !l.checked && len(l.pairs) == len(l.Terms)
}

// Checked reports whether the session has been scored
func (l *Level2Session) Checked() bool {
	return l.checked
}

// Check scores the pairing. It is allowed once, with every term paired.
func (l *Level2Session) Check() (Score, error) {
	if l.checked {
		return l.score, ErrSessionChecked
	}
	if len(l.pairs) != len(l.Terms) {
		return Score{}, fmt.Errorf("%d of %d pairs: %w", len(l.pairs), len(l.Terms), ErrIncompleteMatching)
	}
	correct := 0
	for term, tr := range l.pairs {
		if term == tr {
			correct++
		}
	}
	l.checked = true
	l.score = Score{Correct: correct, Total: len(l.Terms)}
	return l.score, nil
}

// Score returns the result of Check, or a zero score before it
func (l *Level2Session) Score() Score {
	return l.score
}
