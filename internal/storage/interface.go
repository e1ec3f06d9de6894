package storage

import (
	"context"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
)

// Storage defines the interface for data persistence. The relay core treats
// profiles and decks as externally owned; it only reads them during the game
// handshake, but the full CRUD surface is exposed so the collaborators are
// operable end to end.
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
	SetActiveDeck(ctx context.Context, username string, deckID model.DeckID) error

	// Deck operations
	SaveDeck(ctx context.Context, deck *model.Deck) error
	GetDeck(ctx context.Context, id model.DeckID) (*model.Deck, error)
	DeleteDeck(ctx context.Context, id model.DeckID) error

	// GetActiveDeckCards resolves a user's active deck to its catalog cards
	GetActiveDeckCards(ctx context.Context, username string) ([]model.Card, error)
}
