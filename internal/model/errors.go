package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound      = errors.New("game not found")
	ErrEmptyGameName     = errors.New("game name must not be empty")
	ErrDuplicateGameName = errors.New("a game with this name already exists")

	// Score errors
	ErrNegativeScore = errors.New("score value must not be negative")
	ErrNotesTooLong  = errors.New("score notes exceed the maximum length")

	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrEmptyPlayerName = errors.New("player name must not be empty")
	ErrNoScores        = errors.New("player has no scores in this game")
)
