package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/precalc-roulette/internal/config"
	"github.com/jwebster45206/precalc-roulette/internal/logger"
	"github.com/jwebster45206/precalc-roulette/pkg/deck"
	"github.com/jwebster45206/precalc-roulette/pkg/dice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		logOut = f
	}
	log := logger.Setup(cfg, logOut)

	pool := deck.DefaultPool()
	if cfg.QuestionsFile != "" {
		pool, err = deck.LoadPool(cfg.QuestionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load questions: %v\n", err)
			os.Exit(1)
		}
	}

	log.Info("Starting Precalc Roulette",
		"environment", cfg.Environment,
		"questions", len(pool),
		"chambers", cfg.Chambers,
		"seed", cfg.Seed)

	ui := NewConsoleUI(cfg, pool, dice.NewSource(cfg.Seed), log)
	p := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
