package training

import (
	"fmt"

	"wordflow/internal/domain"
)

func makeWords(n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = domain.Word{
			ID:          i + 1,
			Term:        fmt.Sprintf("term%d", i+1),
			Translation: fmt.Sprintf("translation%d", i+1),
		}
	}
	return words
}
