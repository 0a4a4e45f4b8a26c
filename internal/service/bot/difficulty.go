package bot

import (
	"strings"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates and returns the bot difficulty.
// Defaults to Medium if invalid or empty.
func ParseDifficulty(difficulty string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(difficulty))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Settings returns the search preset for the difficulty.
func (d Difficulty) Settings() Settings {
	return d.Apply(DefaultSettings())
}

// Apply overrides depth and breadth of base for easy and hard. Medium
// keeps base unchanged so configured defaults stay in effect.
func (d Difficulty) Apply(base Settings) Settings {
	switch d {
	case DifficultyEasy:
		return base.Merge(Settings{SearchDepth: 2, CandidateCount: 6})
	case DifficultyHard:
		return base.Merge(Settings{SearchDepth: 6, CandidateCount: 12})
	}
	return base.Merge(Settings{})
}

// CalculateBestMove runs a one-off search with the difficulty preset.
func CalculateBestMove(b *domain.Board, botPlayer domain.PlayerID, difficulty Difficulty) *SearchResult {
	return NewEngine(difficulty.Settings()).FindBestMove(b, botPlayer)
}
