package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileKey(profile.Username), data, s.cfg.ProfileTTL).Err()
}

func (s *Storage) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) SetActiveDeck(ctx context.Context, username string, deckID model.DeckID) error {
	profile, err := s.GetProfile(ctx, username)
	if err != nil {
		return err
	}

	exists, err := s.client.Exists(ctx, deckKey(deckID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrDeckNotFound
	}

	profile.ActiveDeckID = deckID
	return s.SaveProfile(ctx, profile)
}

// Deck operations

func (s *Storage) SaveDeck(ctx context.Context, deck *model.Deck) error {
	data, err := json.Marshal(deck)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, deckKey(deck.ID), data, s.cfg.DeckTTL).Err()
}

func (s *Storage) GetDeck(ctx context.Context, id model.DeckID) (*model.Deck, error) {
	data, err := s.client.Get(ctx, deckKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDeckNotFound
		}
		return nil, err
	}

	var deck model.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (s *Storage) DeleteDeck(ctx context.Context, id model.DeckID) error {
	return s.client.Del(ctx, deckKey(id)).Err()
}

func (s *Storage) GetActiveDeckCards(ctx context.Context, username string) ([]model.Card, error) {
	profile, err := s.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	if profile.ActiveDeckID == "" {
		return nil, model.ErrNoActiveDeck
	}

	deck, err := s.GetDeck(ctx, profile.ActiveDeckID)
	if err != nil {
		return nil, err
	}
	return deck.Cards, nil
}
