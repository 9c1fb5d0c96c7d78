package deck

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed questions.json
var defaultPoolJSON []byte

// DefaultPool returns the built-in pre-calculus questions.
func DefaultPool() []Card {
	cards, err := ParsePool(defaultPoolJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded question pool is invalid: %v", err))
	}
	return cards
}

// LoadPool reads a JSON array of cards from path.
func LoadPool(path string) ([]Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("question pool not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read question pool: %w", err)
	}

	cards, err := ParsePool(data)
	if err != nil {
		return nil, fmt.Errorf("invalid question pool %s: %w", path, err)
	}
	return cards, nil
}

// ParsePool decodes and validates a pool.
func ParsePool(data []byte) ([]Card, error) {
	return parsePool(data, false)
}

// ParsePoolStrict is ParsePool but rejects unknown fields.
func ParsePoolStrict(data []byte) ([]Card, error) {
	return parsePool(data, true)
}

func parsePool(data []byte, strict bool) ([]Card, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}

	var cards []Card
	if err := dec.Decode(&cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrEmptyPool
	}

	seen := make(map[string]int, len(cards))
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return nil, fmt.Errorf("card %d (%q): %w", i, cards[i].ID, err)
		}
		if prev, dup := seen[cards[i].ID]; dup {
			return nil, fmt.Errorf("card %d: duplicate id %q (first seen at %d)", i, cards[i].ID, prev)
		}
		seen[cards[i].ID] = i
	}
	return cards, nil
}
