package model

// CardTypeEgg is the catalog card type placed in the egg deck at game start.
const CardTypeEgg = "Digi-Egg"

// DigivolveCondition describes one digivolution requirement printed on a card.
type DigivolveCondition struct {
	Color string `json:"color"`
	Cost  int    `json:"cost"`
	Level int    `json:"level"`
}

// Card is an immutable catalog card record. The catalog owns these; the relay
// core only reads them when assembling a game deck.
type Card struct {
	UniqueCardNumber    string               `json:"uniqueCardNumber"`
	Name                string               `json:"name"`
	ImgURL              string               `json:"imgUrl"`
	CardType            string               `json:"cardType"`
	Color               []string             `json:"color"`
	Attribute           string               `json:"attribute,omitempty"`
	CardNumber          string               `json:"cardNumber"`
	DigivolveConditions []DigivolveCondition `json:"digivolveConditions,omitempty"`
	SpecialDigivolve    string               `json:"specialDigivolve,omitempty"`
	Stage               string               `json:"stage,omitempty"`
	DigiType            []string             `json:"digiType,omitempty"`
	DP                  int                  `json:"dp,omitempty"`
	PlayCost            int                  `json:"playCost,omitempty"`
	Level               int                  `json:"level,omitempty"`
	MainEffect          string               `json:"mainEffect,omitempty"`
	InheritedEffect     string               `json:"inheritedEffect,omitempty"`
	AceEffect           string               `json:"aceEffect,omitempty"`
	BurstDigivolve      string               `json:"burstDigivolve,omitempty"`
	DigiXros            string               `json:"digiXros,omitempty"`
	DNADigivolve        string               `json:"dnaDigivolve,omitempty"`
	SecurityEffect      string               `json:"securityEffect,omitempty"`
	RestrictionEN       string               `json:"restriction_en,omitempty"`
	RestrictionJP       string               `json:"restriction_jp,omitempty"`
	Illustrator         string               `json:"illustrator,omitempty"`
}

// GameCard is a per-match instance of a catalog card. Each physical card is
// instantiated exactly once per game, with a globally unique instance id and
// an untilted starting state.
type GameCard struct {
	Card
	IsTilted bool   `json:"isTilted"`
	ID       string `json:"id"`
}

// GameStart is the bundle distributed to both players at the start (or
// restart) of a game: one shuffle of each player's full deck, partitioned
// into opening hand, remaining deck, egg deck and security stack.
type GameStart struct {
	Player1Hand      []GameCard `json:"player1Hand"`
	Player1DeckField []GameCard `json:"player1DeckField"`
	Player1EggDeck   []GameCard `json:"player1EggDeck"`
	Player1Security  []GameCard `json:"player1Security"`
	Player2Hand      []GameCard `json:"player2Hand"`
	Player2DeckField []GameCard `json:"player2DeckField"`
	Player2EggDeck   []GameCard `json:"player2EggDeck"`
	Player2Security  []GameCard `json:"player2Security"`
}

// PlayerInfo is the descriptor pair pushed to clients during the handshake.
// Assembled from profile lookups per handshake, never persisted by the core.
type PlayerInfo struct {
	Username   string `json:"username"`
	AvatarName string `json:"avatarName"`
	SleeveName string `json:"sleeveName"`
}
