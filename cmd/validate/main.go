package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/precalc-roulette/pkg/deck"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <questions.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &PoolValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Question pool is valid!")
}

type PoolValidator struct {
	errors []string
}

func (v *PoolValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("question pool must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidID(nameWithoutExt) {
		return fmt.Errorf("question pool filename '%s' must be lowercase snake_case (e.g., unit_circle.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return v.validateData(filename, data)
}

func (v *PoolValidator) validateData(filename string, data []byte) error {
	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("file %s must contain a JSON array of cards: %w", filename, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("file %s: %w", filename, deck.ErrEmptyPool)
	}

	seen := make(map[string]int, len(raw))
	for i, msg := range raw {
		cards, err := deck.ParsePoolStrict(append(append([]byte("["), msg...), ']'))
		if err != nil {
			v.addError(fmt.Sprintf("card %d: %v", i, err))
			continue
		}
		v.validateCard(i, &cards[0], seen)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *PoolValidator) validateCard(i int, c *deck.Card, seen map[string]int) {
	if !isValidID(c.ID) {
		v.addError(fmt.Sprintf("card %d: id '%s' should be lowercase snake_case", i, c.ID))
	}
	if prev, dup := seen[c.ID]; dup {
		v.addError(fmt.Sprintf("card %d: duplicate id '%s' (first seen at card %d)", i, c.ID, prev))
	}
	seen[c.ID] = i

	options := make(map[string]bool, len(c.Options))
	for _, opt := range c.Options {
		key := strings.ToLower(strings.TrimSpace(opt))
		if options[key] {
			v.addError(fmt.Sprintf("card %s: option '%s' appears twice", c.ID, opt))
		}
		options[key] = true
	}
}

func (v *PoolValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
