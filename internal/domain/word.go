package domain

import (
	"strings"
	"time"
)

// Word represents a vocabulary entry owned by the backend
type Word struct {
	ID          int       `json:"id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	Example     string    `json:"example,omitempty"`
	Tags        string    `json:"tags,omitempty"`
	Starred     bool      `json:"starred"`
	Stage       int       `json:"stage"`
	NextReview  Date      `json:"next_review"`
	CreatedAt   time.Time `json:"created_at"`
}

// TagList splits the comma separated tags field
func (w Word) TagList() []string {
	var tags []string
	for _, part := range strings.Split(w.Tags, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasExample reports whether the word carries a non-blank example sentence
func (w Word) HasExample() bool {
	return strings.TrimSpace(w.Example) != ""
}

// WordInput is the payload for creating or updating a word
type WordInput struct {
	Term        *string `json:"term,omitempty" validate:"omitempty,min=1,max=200"`
	Translation *string `json:"translation,omitempty" validate:"omitempty,min=1,max=200"`
	Example     *string `json:"example,omitempty" validate:"omitempty,max=500"`
	Tags        *string `json:"tags,omitempty" validate:"omitempty,max=200"`
	Starred     *bool   `json:"starred,omitempty"`
}

// Theme is a tag with the number of words carrying it
type Theme struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ReviewResult is the outcome of a single spaced-repetition review
type ReviewResult string

const (
	ReviewGood ReviewResult = "good"
	ReviewBad  ReviewResult = "bad"
)

// WordQuery filters the word list
type WordQuery struct {
	Q       string
	Tag     string
	Starred bool
	Limit   int
	Offset  int
}
