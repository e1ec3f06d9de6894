// Package deck turns catalog decks into per-game shuffled decks and encodes
// the distribution payload sent to both players at game start.
package deck

import (
	"encoding/json"
	"fmt"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/ident"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/random"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
)

const (
	// HandSize is the number of cards in the opening hand
	HandSize = 5

	// SecuritySize is the number of cards in the starting security stack
	SecuritySize = 5

	// DefaultChunkSize is the maximum character count of one distribution chunk
	DefaultChunkSize = 1000
)

// Split is one player's partition of a single shuffled deck.
type Split struct {
	Hand     []model.GameCard
	Deck     []model.GameCard
	EggDeck  []model.GameCard
	Security []model.GameCard
}

// Encoder builds and serializes GameStart payloads.
type Encoder struct {
	random    random.Random
	ident     ident.Generator
	chunkSize int
}

// NewEncoder creates an Encoder. chunkSize <= 0 selects DefaultChunkSize.
func NewEncoder(rnd random.Random, gen ident.Generator, chunkSize int) *Encoder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Encoder{
		random:    rnd,
		ident:     gen,
		chunkSize: chunkSize,
	}
}

// BuildGameDeck shuffles the catalog deck and instantiates each card as a
// GameCard with a fresh unique instance id and an untilted state.
func (e *Encoder) BuildGameDeck(cards []model.Card) []model.GameCard {
	shuffled := make([]model.Card, len(cards))
	copy(shuffled, cards)
	e.random.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	gameDeck := make([]model.GameCard, len(shuffled))
	for i, card := range shuffled {
		gameDeck[i] = model.GameCard{
			Card:     card,
			IsTilted: false,
			ID:       e.ident.NewID(),
		}
	}
	return gameDeck
}

// SplitDeck partitions a shuffled game deck: all egg-type cards come out
// first (preserving shuffle order), then the opening hand, then the security
// stack; whatever remains is the deck.
func SplitDeck(gameDeck []model.GameCard) Split {
	var split Split
	remaining := make([]model.GameCard, 0, len(gameDeck))
	for _, card := range gameDeck {
		if card.CardType == model.CardTypeEgg {
			split.EggDeck = append(split.EggDeck, card)
		} else {
			remaining = append(remaining, card)
		}
	}

	take := func(n int) []model.GameCard {
		if n > len(remaining) {
			n = len(remaining)
		}
		taken := remaining[:n]
		remaining = remaining[n:]
		return taken
	}

	split.Hand = take(HandSize)
	split.Security = take(SecuritySize)
	split.Deck = remaining
	return split
}

// BuildGameStart shuffles and partitions both players' catalog decks into
// the distribution bundle.
func (e *Encoder) BuildGameStart(deck1, deck2 []model.Card) *model.GameStart {
	split1 := SplitDeck(e.BuildGameDeck(deck1))
	split2 := SplitDeck(e.BuildGameDeck(deck2))

	return &model.GameStart{
		Player1Hand:      split1.Hand,
		Player1DeckField: split1.Deck,
		Player1EggDeck:   split1.EggDeck,
		Player1Security:  split1.Security,
		Player2Hand:      split2.Hand,
		Player2DeckField: split2.Deck,
		Player2EggDeck:   split2.EggDeck,
		Player2Security:  split2.Security,
	}
}

// EncodeChunks serializes a GameStart bundle and splits the JSON document
// into chunks of at most the configured size.
func (e *Encoder) EncodeChunks(gs *model.GameStart) ([]string, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("marshaling game start payload: %w", err)
	}
	return e.Chunk(string(data)), nil
}

// Chunk splits a payload into fragments of at most the configured character
// count. Splitting is rune-safe so a multi-byte character never straddles
// two chunks.
func (e *Encoder) Chunk(payload string) []string {
	if payload == "" {
		return nil
	}

	var chunks []string
	runes := []rune(payload)
	for start := 0; start < len(runes); start += e.chunkSize {
		end := start + e.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
