package training

import (
	"context"
	"fmt"
	"strconv"

	"wordflow/internal/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Level identifies one of the four training modes
type Level int

const (
	Level1 Level = iota + 1 // multiple choice
	Level2                  // matching pairs
	Level3                  // typed translation
	Level4                  // fill in context
)

// maxExampleRequests bounds how many words get examples generated before level 4
const maxExampleRequests = 24

// ParseLevel parses "1".."4"
func ParseLevel(s string) (Level, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Level1) || n > int(Level4) {
		return 0, fmt.Errorf("level %q: %w", s, ErrUnknownLevel)
	}
	return Level(n), nil
}

func (l Level) String() string {
	switch l {
	case Level1:
		return "multiple choice"
	case Level2:
		return "matching pairs"
	case Level3:
		return "typed translation"
	case Level4:
		return "fill in context"
	default:
		return "unknown"
	}
}

// ExampleFiller generates example sentences for words that lack one and
// returns the updated words
type ExampleFiller interface {
	FillExamples(ctx context.Context, words []domain.Word) ([]domain.Word, error)
}

// Controller drives one user's training: it holds the loaded word set and at
// most one active level session. It is not safe for concurrent use.
type Controller struct {
	sampler *Sampler
	filler  ExampleFiller
	logger  *zap.Logger

	words     []domain.Word
	level     Level
	sessionID string
	level1    *Level1Session
	level2    *Level2Session
	tasks     *TaskSession
}

// NewController creates a controller. filler may be nil.
func NewController(sampler *Sampler, filler ExampleFiller, logger *zap.Logger) *Controller {
	if sampler == nil {
		sampler = NewSampler(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{sampler: sampler, filler: filler, logger: logger}
}

// Load replaces the word set and discards any active session
func (c *Controller) Load(words []domain.Word) {
	c.words = append([]domain.Word(nil), words...)
	c.Reset()
}

// Words returns the loaded word set
func (c *Controller) Words() []domain.Word {
	return c.words
}

// Start creates a fresh session for level. On failure the previous state
// is cleared and nothing of the new session is kept.
func (c *Controller) Start(ctx context.Context, level Level) error {
	c.Reset()

	var err error
	switch level {
	case Level1:
		c.level1, err = NewLevel1Session(c.sampler, c.words)
	case Level2:
		c.level2, err = NewLevel2Session(c.sampler, c.words)
	case Level3:
		c.tasks, err = NewLevel3Session(c.sampler, c.words)
	case Level4:
		c.fillMissingExamples(ctx)
		c.tasks, err = NewLevel4Session(c.sampler, c.words)
	default:
		return fmt.Errorf("level %d: %w", level, ErrUnknownLevel)
	}
	if err != nil {
		c.Reset()
		return err
	}

	c.level = level
	c.sessionID = uuid.NewString()
	c.logger.Debug("Training session started",
		zap.String("session_id", c.sessionID),
		zap.Stringer("level", level),
		zap.Int("words", len(c.words)),
	)
	return nil
}

func (c *Controller) fillMissingExamples(ctx context.Context) {
	if c.filler == nil {
		return
	}
	missing := lo.Filter(c.words, func(w domain.Word, _ int) bool { return !w.HasExample() })
	if len(missing) == 0 {
		return
	}
	batch := Sample(c.sampler, missing, maxExampleRequests)

	updated, err := c.filler.FillExamples(ctx, batch)
	if err != nil {
		c.logger.Warn("Example generation failed, continuing without it",
			zap.Int("requested", len(batch)),
			zap.Error(err),
		)
		return
	}

	byID := lo.KeyBy(updated, func(w domain.Word) int { return w.ID })
	for i, w := range c.words {
		if u, ok := byID[w.ID]; ok && u.HasExample() {
			c.words[i].Example = u.Example
		}
	}
}

// Next advances level 1 to its following question
func (c *Controller) Next() error {
	switch {
	case c.level == 0:
		return ErrNoActiveSession
	case c.level1 == nil:
		return ErrUnsupported
	}
	return c.level1.Next()
}

// Check scores the active session
func (c *Controller) Check() (Score, error) {
	switch {
	case c.level2 != nil:
		return c.level2.Check()
	case c.tasks != nil:
		return c.tasks.Check()
	case c.level1 != nil:
		if !c.level1.Complete() {
			return c.level1.Progress(), ErrUnsupported
		}
		return c.level1.Score(), nil
	}
	return Score{}, ErrNoActiveSession
}

// Reset discards the active session
func (c *Controller) Reset() {
	c.level = 0
	c.sessionID = ""
	c.level1 = nil
	c.level2 = nil
	c.tasks = nil
}

// Active reports whether a session is running
func (c *Controller) Active() bool {
	return c.level != 0
}

// Level returns the active level, 0 when idle
func (c *Controller) Level() Level {
	return c.level
}

// SessionID identifies the active session
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Level1 returns the active multiple choice session
func (c *Controller) Level1() (*Level1Session, error) {
	if c.level1 == nil {
		return nil, ErrNoActiveSession
	}
	return c.level1, nil
}

// Level2 returns the active matching session
func (c *Controller) Level2() (*Level2Session, error) {
	if c.level2 == nil {
		return nil, ErrNoActiveSession
	}
	return c.level2, nil
}

// Tasks returns the active level 3 or level 4 session
func (c *Controller) Tasks() (*TaskSession, error) {
	if c.tasks == nil {
		return nil, ErrNoActiveSession
	}
	return c.tasks, nil
}
