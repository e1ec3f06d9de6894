package model

import "time"

// DeckID identifies a saved deck.
type DeckID string

// Profile holds the per-user data the relay needs for the game handshake:
// cosmetic references and the pointer to the user's active deck.
type Profile struct {
	Username     string    `json:"username"`
	AvatarName   string    `json:"avatarName"`
	SleeveName   string    `json:"sleeveName"`
	ActiveDeckID DeckID    `json:"activeDeckId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Deck is a saved deck: a named list of catalog cards.
type Deck struct {
	ID        DeckID    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Cards     []Card    `json:"cards"`
	UpdatedAt time.Time `json:"updatedAt"`
}
