package redis

import (
	"fmt"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
)

// Key prefix for all relay-related data
const keyPrefix = "dtcg"

// profileKey returns the Redis key for a Profile
func profileKey(username string) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, username)
}

// deckKey returns the Redis key for a Deck
func deckKey(id model.DeckID) string {
	return fmt.Sprintf("%s:deck:%s", keyPrefix, id)
}
