// Package setup orchestrates the game start and restart handshake: pushing
// player descriptors, announcing the starting player, and distributing the
// shuffled starting decks.
package setup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/deck"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/protocol"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/storage"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/transport"
)

// Coordinator drives the start/restart handshake for a room.
type Coordinator struct {
	registry *transport.Registry
	store    storage.Storage
	encoder  *deck.Encoder
	logger   *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(registry *transport.Registry, store storage.Storage, encoder *deck.Encoder, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		store:    store,
		encoder:  encoder,
		logger:   logger.With(slog.String("component", "setup")),
	}
}

// StartGame runs one side's start sequence: join (or create) the room, push
// the player descriptor pair to the caller, and, once both members are in,
// announce the starting player and distribute decks. The starting player is
// fixed at room creation and the announcement goes out exactly once per
// room, whichever side's handler happens to complete the pair.
func (c *Coordinator) StartGame(ctx context.Context, conn transport.Conn, roomID string) {
	user1, user2, err := protocol.SplitRoomID(roomID)
	if err != nil {
		c.logger.Debug("dropping start frame", slog.String("room_id", roomID))
		return
	}

	full, err := c.registry.CreateOrJoin(roomID, conn)
	if err != nil {
		c.logger.Warn("start rejected",
			slog.String("room_id", roomID),
			slog.String("identity", conn.Identity()),
			slog.String("error", err.Error()))
		return
	}

	players, err := c.playersJSON(ctx, user1, user2)
	if err != nil {
		c.logger.Warn("assembling player descriptors failed",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()))
		return
	}
	conn.Send(protocol.TagStartGame + protocol.Delimiter + players)

	if full && c.registry.AnnounceReady(roomID) {
		starting, _ := c.registry.StartingPlayer(roomID)
		c.broadcast(roomID, protocol.TagStartingPlayer+protocol.Delimiter+starting)
		c.distribute(ctx, roomID, user1, user2)
	}
}

// RestartGame reruns the handshake for an existing room with the starting
// player already decided by the players. The caller gets a fresh descriptor
// push, the whole room gets the (unchanged) starting player, and new decks
// are distributed.
func (c *Coordinator) RestartGame(ctx context.Context, conn transport.Conn, roomID, startingPlayer string) {
	user1, user2, err := protocol.SplitRoomID(roomID)
	if err != nil {
		return
	}
	if !c.registry.RoomExists(roomID) {
		return
	}

	c.registry.SetStartingPlayer(roomID, startingPlayer)

	players, err := c.playersJSON(ctx, user1, user2)
	if err != nil {
		c.logger.Warn("assembling player descriptors failed",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()))
		return
	}
	conn.Send(protocol.TagStartGame + protocol.Delimiter + players)

	c.broadcast(roomID, protocol.TagStartingPlayer+protocol.Delimiter+startingPlayer)
	c.distribute(ctx, roomID, user1, user2)
}

// playersJSON assembles the two player descriptors from profile lookups.
// A missing profile falls back to a bare descriptor so a game can still
// start for accounts without cosmetics.
func (c *Coordinator) playersJSON(ctx context.Context, user1, user2 string) (string, error) {
	players := [2]model.PlayerInfo{}
	for i, username := range []string{user1, user2} {
		info := model.PlayerInfo{Username: username}
		profile, err := c.store.GetProfile(ctx, username)
		switch {
		case err == nil:
			info.AvatarName = profile.AvatarName
			info.SleeveName = profile.SleeveName
		case errors.Is(err, model.ErrProfileNotFound):
			c.logger.Debug("no profile for player", slog.String("username", username))
		default:
			return "", fmt.Errorf("looking up profile for %s: %w", username, err)
		}
		players[i] = info
	}

	data, err := json.Marshal(players)
	if err != nil {
		return "", fmt.Errorf("marshaling player descriptors: %w", err)
	}
	return string(data), nil
}

// distribute builds both players' shuffled starting decks and broadcasts the
// serialized bundle as numbered chunks. Each chunk frame carries its index
// and the total count so receivers know when the stream is complete.
func (c *Coordinator) distribute(ctx context.Context, roomID, user1, user2 string) {
	cards1, err := c.store.GetActiveDeckCards(ctx, user1)
	if err != nil {
		c.logger.Warn("deck distribution aborted",
			slog.String("room_id", roomID),
			slog.String("username", user1),
			slog.String("error", err.Error()))
		return
	}
	cards2, err := c.store.GetActiveDeckCards(ctx, user2)
	if err != nil {
		c.logger.Warn("deck distribution aborted",
			slog.String("room_id", roomID),
			slog.String("username", user2),
			slog.String("error", err.Error()))
		return
	}

	gameStart := c.encoder.BuildGameStart(cards1, cards2)
	chunks, err := c.encoder.EncodeChunks(gameStart)
	if err != nil {
		c.logger.Warn("encoding distribution payload failed",
			slog.String("room_id", roomID),
			slog.String("error", err.Error()))
		return
	}

	for i, chunk := range chunks {
		frame := fmt.Sprintf("%s:%d:%d:%s", protocol.TagDistributeCards, i+1, len(chunks), chunk)
		c.broadcast(roomID, frame)
	}
	c.logger.Info("decks distributed",
		slog.String("room_id", roomID),
		slog.Int("chunks", len(chunks)))
}

func (c *Coordinator) broadcast(roomID, frame string) {
	for _, member := range c.registry.Members(roomID) {
		member.Send(frame)
	}
}
