package memory

import (
	"context"
	"sync"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	profiles map[string]*model.Profile
	decks    map[model.DeckID]*model.Deck
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles: make(map[string]*model.Profile),
		decks:    make(map[model.DeckID]*model.Deck),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Username] = profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[username]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Storage) SetActiveDeck(ctx context.Context, username string, deckID model.DeckID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[username]
	if !ok {
		return model.ErrProfileNotFound
	}
	if _, ok := s.decks[deckID]; !ok {
		return model.ErrDeckNotFound
	}
	profile.ActiveDeckID = deckID
	return nil
}

// Deck operations

func (s *Storage) SaveDeck(ctx context.Context, deck *model.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[deck.ID] = deck
	return nil
}

func (s *Storage) GetDeck(ctx context.Context, id model.DeckID) (*model.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[id]
	if !ok {
		return nil, model.ErrDeckNotFound
	}
	return deck, nil
}

func (s *Storage) DeleteDeck(ctx context.Context, id model.DeckID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decks, id)
	return nil
}

func (s *Storage) GetActiveDeckCards(ctx context.Context, username string) ([]model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[username]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	if profile.ActiveDeckID == "" {
		return nil, model.ErrNoActiveDeck
	}
	deck, ok := s.decks[profile.ActiveDeckID]
	if !ok {
		return nil, model.ErrDeckNotFound
	}
	cards := make([]model.Card, len(deck.Cards))
	copy(cards, deck.Cards)
	return cards, nil
}
