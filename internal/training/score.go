package training

import "fmt"

// Score is a correct-out-of-total result
type Score struct {
	Correct int
	Total   int
}

// Ratio returns Correct/Total, or 0 for an empty score
func (s Score) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

func (s Score) String() string {
	return fmt.Sprintf("%d/%d", s.Correct, s.Total)
}
