package training

import (
	"fmt"
	"strings"

	"wordflow/internal/domain"

	"github.com/samber/lo"
)

const distractorCount = 3

// Question is one multiple choice item of level 1
type Question struct {
	Word     domain.Word
	Choices  []string
	Correct  string
	Selected string
	Answered bool
}

// IsCorrect reports whether the selected option is the right one
func (q *Question) IsCorrect() bool {
	return q.Answered && q.Selected == q.Correct
}

// Level1Session is a multiple choice quiz over the whole word set
type Level1Session struct {
	Queue        []domain.Word
	Index        int
	CorrectCount int

	questions []*Question
	answered  int
}

// NewLevel1Session shuffles words into a queue and builds one question per word.
// Any word that cannot produce a question fails the whole session.
func NewLevel1Session(s *Sampler, words []domain.Word) (*Level1Session, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("level 1: %w", ErrNotEnoughWords)
	}
	queue := Shuffle(s, words)
	questions := make([]*Question, 0, len(queue))
	for i, w := range queue {
		q, err := buildQuestion(s, queue, i)
		if err != nil {
			return nil, fmt.Errorf("level 1: %q: %w", w.Term, err)
		}
		questions = append(questions, q)
	}
	return &Level1Session{Queue: queue, questions: questions}, nil
}

func buildQuestion(s *Sampler, queue []domain.Word, index int) (*Question, error) {
	word := queue[index]
	correct := strings.TrimSpace(word.Translation)
	if correct == "" {
		return nil, ErrNoTranslation
	}

	others := append(append([]domain.Word{}, queue[:index]...), queue[index+1:]...)
	pool := lo.Uniq(lo.FilterMap(others, func(w domain.Word, _ int) (string, bool) {
		t := strings.TrimSpace(w.Translation)
		return t, t != "" && t != correct
	}))
	if len(pool) < distractorCount {
		return nil, ErrNotEnoughDistractors
	}

	choices := append([]string{correct}, Sample(s, pool, distractorCount)...)
	return &Question{
		Word:    word,
		Choices: Shuffle(s, choices),
		Correct: correct,
	}, nil
}

// Current returns the question at Index, or false once the session is complete
func (l *Level1Session) Current() (*Question, bool) {
	if l.Complete() {
		return nil, false
	}
	return l.questions[l.Index], true
}

// Questions returns every question in queue order
func (l *Level1Session) Questions() []*Question {
	return l.questions
}

// Answered reports whether the current question is locked
func (l *Level1Session) Answered() bool {
	q, ok := l.Current()
	return ok && q.Answered
}

// Answer locks the current question with choice. Only the first answer counts;
// later calls return the recorded verdict and accepted == false.
func (l *Level1Session) Answer(choice string) (correct bool, accepted bool, err error) {
	q, ok := l.Current()
	if !ok {
		return false, false, ErrSessionComplete
	}
	if q.Answered {
		return q.IsCorrect(), false, nil
	}
	if !lo.Contains(q.Choices, choice) {
		return false, false, fmt.Errorf("choice %q: %w", choice, ErrUnknownItem)
	}
	q.Selected = choice
	q.Answered = true
	l.answered++
	if q.IsCorrect() {
		l.CorrectCount++
	}
	return q.IsCorrect(), true, nil
}

// AnswerIndex answers with the option at position i of the current question
func (l *Level1Session) AnswerIndex(i int) (correct bool, accepted bool, err error) {
	q, ok := l.Current()
	if !ok {
		return false, false, ErrSessionComplete
	}
	if i < 0 || i >= len(q.Choices) {
		return false, false, fmt.Errorf("option %d: %w", i, ErrUnknownItem)
	}
	return l.Answer(q.Choices[i])
}

// Next moves to the following question, answered or skipped
func (l *Level1Session) Next() error {
	if l.Complete() {
		return ErrSessionComplete
	}
	l.Index++
	return nil
}

// Complete reports whether every question has been passed
func (l *Level1Session) Complete() bool {
	return l.Index >= len(l.Queue)
}

// Total returns the number of questions
func (l *Level1Session) Total() int {
	return len(l.Queue)
}

// Progress returns correct answers out of questions answered so far
func (l *Level1Session) Progress() Score {
	return Score{Correct: l.CorrectCount, Total: l.answered}
}

// Score returns correct answers out of all questions
func (l *Level1Session) Score() Score {
	return Score{Correct: l.CorrectCount, Total: len(l.Queue)}
}
