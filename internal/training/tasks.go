package training

import (
	"fmt"
	"strings"

	"wordflow/internal/domain"

	"github.com/samber/lo"
)

// Task is one free-text item of level 3 or 4
type Task struct {
	ID          int
	Prompt      string
	Term        string
	Translation string
	Answer      string
	Correct     *bool
}

// TaskSession is a batch of free-text tasks checked in one step.
// Level 3 accepts the translation; level 4 accepts the term or the translation.
type TaskSession struct {
	Level   Level
	Tasks   []*Task
	checked bool
	score   Score
}

// NewLevel3Session builds one typed-translation task per sampled word
func NewLevel3Session(s *Sampler, words []domain.Word) (*TaskSession, error) {
	if len(words) < SetSize {
		return nil, fmt.Errorf("level 3 needs %d words, have %d: %w", SetSize, len(words), ErrNotEnoughWords)
	}
	picked := Sample(s, words, SetSize)
	tasks := lo.Map(picked, func(w domain.Word, _ int) *Task {
		return &Task{ID: w.ID, Prompt: w.Term, Term: w.Term, Translation: w.Translation}
	})
	return &TaskSession{Level: Level3, Tasks: tasks}, nil
}

// NewLevel4Session builds fill-in-context tasks. Only words with both a term
// and a translation are candidates; each gets its example with the term
// blanked out, or a synthetic prompt.
func NewLevel4Session(s *Sampler, words []domain.Word) (*TaskSession, error) {
	candidates := lo.FilterMap(words, func(w domain.Word, _ int) (*Task, bool) {
		term := strings.TrimSpace(w.Term)
		tr := strings.TrimSpace(w.Translation)
		if term == "" || tr == "" {
			return nil, false
		}
		return &Task{
			ID:          w.ID,
			Prompt:      ContextPrompt(s, w.Example, term),
			Term:        term,
			Translation: tr,
		}, true
	})
	if len(candidates) < SetSize {
		return nil, fmt.Errorf("level 4 needs %d words with term and translation, have %d: %w", SetSize, len(candidates), ErrNotEnoughWords)
	}
	return &TaskSession{Level: Level4, Tasks: Sample(s, candidates, SetSize)}, nil
}

func (t *TaskSession) accepted(task *Task) []string {
	if t.Level == Level4 {
		return []string{task.Term, task.Translation}
	}
	return []string{task.Translation}
}

// SetAnswer records the free-text answer of the task at index i
func (t *TaskSession) SetAnswer(i int, answer string) error {
	if t.checked {
		return ErrSessionChecked
	}
	if i < 0 || i >= len(t.Tasks) {
		return fmt.Errorf("task %d: %w", i, ErrUnknownItem)
	}
	t.Tasks[i].Answer = answer
	return nil
}

// Checked reports whether the tasks have verdicts
func (t *TaskSession) Checked() bool {
	return t.checked
}

// Check gives every task its verdict at once. It cannot be repeated.
func (t *TaskSession) Check() (Score, error) {
	if t.checked {
		return t.score, ErrSessionChecked
	}
	correct := 0
	for _, task := range t.Tasks {
		ok := IsAccepted(task.Answer, t.accepted(task))
		task.Correct = &ok
		if ok {
			correct++
		}
	}
	t.checked = true
	t.score = Score{Correct: correct, Total: len(t.Tasks)}
	return t.score, nil
}

// Score returns the result of Check, or a zero score before it
func (t *TaskSession) Score() Score {
	return t.score
}
