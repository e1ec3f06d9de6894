package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoActiveDeck    = errors.New("profile has no active deck")

	// Deck errors
	ErrDeckNotFound = errors.New("deck not found")

	// Room errors
	ErrInvalidRoomID = errors.New("room id does not contain exactly two identities")
	ErrRoomFull      = errors.New("room already has two members")
)
