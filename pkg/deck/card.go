package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Card is one multiple-choice question. Cards are never modified after loading.
type Card struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Difficulty  int      `json:"difficulty,omitempty"` // optional, 1 = easiest
}

// MinOptions is the fewest choices a card may offer.
const MinOptions = 2

// Validate reports every structural problem with the card.
func (c *Card) Validate() error {
	var problems []string
	if strings.TrimSpace(c.ID) == "" {
		problems = append(problems, "id is empty")
	}
	if strings.TrimSpace(c.Prompt) == "" {
		problems = append(problems, "prompt is empty")
	}
	if len(c.Options) < MinOptions {
		problems = append(problems, fmt.Sprintf("has %d options, need at least %d", len(c.Options), MinOptions))
	}
	for i, opt := range c.Options {
		if strings.TrimSpace(opt) == "" {
			problems = append(problems, fmt.Sprintf("option %d is empty", i+1))
		}
	}
	if c.AnswerIndex < 0 || c.AnswerIndex >= len(c.Options) {
		problems = append(problems, fmt.Sprintf("answer_index %d out of range", c.AnswerIndex))
	}
	if c.Difficulty < 0 {
		problems = append(problems, "difficulty is negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// IsCorrect reports whether the selected option is the right answer.
func (c *Card) IsCorrect(selected int) bool {
	return selected == c.AnswerIndex
}
