package training

import "errors"

var (
	ErrNotEnoughWords       = errors.New("not enough words")
	ErrNoTranslation        = errors.New("word has no translation")
	ErrNotEnoughDistractors = errors.New("not enough distinct translations for answer options")
	ErrSessionComplete      = errors.New("session is complete")
	ErrSessionChecked       = errors.New("session already checked")
	ErrIncompleteMatching   = errors.New("all pairs must be matched before checking")
	ErrUnknownItem          = errors.New("unknown item")
	ErrNoActiveSession      = errors.New("no active training session")
	ErrUnsupported          = errors.New("operation not supported by this level")
	ErrUnknownLevel         = errors.New("unknown training level")
)
