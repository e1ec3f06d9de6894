// Package protocol defines the colon-delimited text frame grammar shared by
// the relay's dispatcher and handlers: outbound frame tags, the closed
// inbound command table, and the room id format.
package protocol

import (
	"strings"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
)

const (
	// Delimiter separates fields within a frame
	Delimiter = ":"

	// RoomDelimiter joins the two player identities in a room id. It is
	// reserved: identities must not contain it.
	RoomDelimiter = "‗"

	// ChatSeparator separates the sender identity from the chat text in
	// outbound chat frames. Distinct from Delimiter so chat text may
	// contain ordinary colons.
	ChatSeparator = "﹕"

	// HeartbeatAck is the client's reply to a heartbeat; it is ignored.
	HeartbeatAck = "/heartbeat/"
)

// Outbound frame tags
const (
	TagHeartbeat           = "[HEARTBEAT]"
	TagStartGame           = "[START_GAME]"
	TagStartingPlayer      = "[STARTING_PLAYER]"
	TagDistributeCards     = "[DISTRIBUTE_CARDS]"
	TagOpponentReconnected = "[OPPONENT_RECONNECTED]"
	TagUpdateOpponent      = "[UPDATE_OPPONENT]"
	TagAttack              = "[ATTACK]"
	TagMoveCard            = "[MOVE_CARD]"
	TagMoveCardToDeck      = "[MOVE_CARD_TO_DECK]"
	TagTiltCard            = "[TILT_CARD]"
	TagUpdateMemory        = "[UPDATE_MEMORY]"
	TagChatMessage         = "[CHAT_MESSAGE]"
)

// Inbound command prefixes handled before room lookup
const (
	CmdStartGame = "/startGame"
	CmdReconnect = "/reconnect"
)

// Inbound room message prefixes with dedicated handlers
const (
	CmdRestartGame    = "/restartGame"
	CmdUpdateGame     = "/updateGame"
	CmdAttack         = "/attack"
	CmdMoveCard       = "/moveCard"
	CmdMoveCardToDeck = "/moveCardToDeck"
	CmdTiltCard       = "/tiltCard"
	CmdUpdateMemory   = "/updateMemory"
	CmdChatMessage    = "/chatMessage"
)

// SimpleIDCommands are relayed as "<tag>:<id>" to the opponent.
var SimpleIDCommands = []string{
	"/updateAttackPhase",
	"/activateEffect",
	"/activateTarget",
	"/createToken",
}

// commandTags is the closed mapping from inbound command token to outbound
// frame tag. Tokens outside this table are rejected by the dispatcher.
var commandTags = map[string]string{
	"/surrender":               "[SURRENDER]",
	"/restartRequestAsFirst":   "[RESTART_AS_FIRST]",
	"/restartRequestAsSecond":  "[RESTART_AS_SECOND]",
	"/acceptRestart":           "[ACCEPT_RESTART]",
	"/openedSecurity":          "[SECURITY_VIEWED]",
	"/playRevealSfx":           "[REVEAL_SFX]",
	"/playSecurityRevealSfx":   "[SECURITY_REVEAL_SFX]",
	"/playPlaceCardSfx":        "[PLACE_CARD_SFX]",
	"/playDrawCardSfx":         "[DRAW_CARD_SFX]",
	"/playSuspendCardSfx":      "[SUSPEND_CARD_SFX]",
	"/playUnsuspendCardSfx":    "[UNSUSPEND_CARD_SFX]",
	"/playButtonClickSfx":      "[BUTTON_CLICK_SFX]",
	"/playTrashCardSfx":        "[TRASH_CARD_SFX]",
	"/playShuffleDeckSfx":      "[SHUFFLE_DECK_SFX]",
	"/playNextPhaseSfx":        "[NEXT_PHASE_SFX]",
	"/playPassTurnSfx":         "[PASS_TURN_SFX]",
	"/playerReady":             "[PLAYER_READY]",
	"/updatePhase":             "[UPDATE_PHASE]",
	"/unsuspendAll":            "[UNSUSPEND_ALL]",
	"/resolveCounterBlock":     "[RESOLVE_COUNTER_BLOCK]",
	"/loaded":                  "[LOADED]",
	"/online":                  "[OPPONENT_ONLINE]",
	"/activateTarget":          "[ACTIVATE_TARGET]",
	"/activateEffect":          "[ACTIVATE_EFFECT]",
	"/updateAttackPhase":       "[OPPONENT_ATTACK_PHASE]",
	"/createToken":             "[CREATE_TOKEN]",
}

// LookupCommand translates an inbound command token to its outbound tag.
// The second return is false for tokens outside the closed table.
func LookupCommand(token string) (string, bool) {
	tag, ok := commandTags[token]
	return tag, ok
}

// SplitRoomID decomposes a room id into the two identities it encodes.
// The first identity is the room-creating side's.
func SplitRoomID(roomID string) (string, string, error) {
	parts := strings.Split(roomID, RoomDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", model.ErrInvalidRoomID
	}
	return parts[0], parts[1], nil
}
