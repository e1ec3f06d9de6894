// Package relay routes inbound text frames: the start/reconnect handshake
// prefixes, the per-command room message handlers, and the closed table of
// passthrough commands. Anything outside the grammar is dropped.
package relay

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/perspective"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/protocol"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/setup"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/transport"
)

// Dispatcher implements transport.FrameHandler over the room registry and
// the setup coordinator.
type Dispatcher struct {
	registry *transport.Registry
	setup    *setup.Coordinator
	logger   *slog.Logger

	simpleID map[string]struct{}
}

var _ transport.FrameHandler = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher.
func NewDispatcher(registry *transport.Registry, coordinator *setup.Coordinator, logger *slog.Logger) *Dispatcher {
	simpleID := make(map[string]struct{}, len(protocol.SimpleIDCommands))
	for _, cmd := range protocol.SimpleIDCommands {
		simpleID[cmd] = struct{}{}
	}
	return &Dispatcher{
		registry: registry,
		setup:    coordinator,
		logger:   logger.With(slog.String("component", "relay")),
		simpleID: simpleID,
	}
}

// HandleFrame routes one inbound frame. Heartbeat acks are discarded, the
// start and reconnect prefixes run the handshake paths, and everything else
// is treated as "<roomId>:<roomMessage>".
func (d *Dispatcher) HandleFrame(ctx context.Context, conn transport.Conn, frame string) {
	if frame == protocol.HeartbeatAck {
		return
	}

	if rest, ok := strings.CutPrefix(frame, protocol.CmdStartGame+protocol.Delimiter); ok {
		d.setup.StartGame(ctx, conn, strings.TrimSpace(rest))
		return
	}

	if rest, ok := strings.CutPrefix(frame, protocol.CmdReconnect+protocol.Delimiter); ok {
		roomID := strings.TrimSpace(rest)
		if opponent, ok := d.registry.Reconnect(roomID, conn); ok {
			opponent.Send(protocol.TagOpponentReconnected)
			return
		}
		// Not reconnectable (room gone, empty, or already full). Fall
		// through to room message handling with an empty message, which
		// drops the frame.
		d.handleRoomMessage(ctx, conn, roomID, "")
		return
	}

	roomID, roomMessage, ok := strings.Cut(frame, protocol.Delimiter)
	if !ok {
		d.logger.Debug("dropping malformed frame", slog.String("identity", conn.Identity()))
		return
	}
	d.handleRoomMessage(ctx, conn, roomID, roomMessage)
}

// HandleDisconnect removes the connection from every room it belongs to.
func (d *Dispatcher) HandleDisconnect(conn transport.Conn) {
	d.registry.RemoveConn(conn)
}

func (d *Dispatcher) handleRoomMessage(ctx context.Context, conn transport.Conn, roomID, msg string) {
	if !d.registry.RoomExists(roomID) {
		d.logger.Debug("dropping frame for unknown room",
			slog.String("room_id", roomID),
			slog.String("identity", conn.Identity()))
		return
	}

	switch {
	case strings.HasPrefix(msg, protocol.CmdRestartGame+protocol.Delimiter):
		d.restartGame(ctx, conn, roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdUpdateGame+protocol.Delimiter):
		d.relayGameState(conn, roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdAttack+protocol.Delimiter):
		d.relayAttack(roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdMoveCardToDeck+protocol.Delimiter):
		d.relayMoveCardToDeck(roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdMoveCard+protocol.Delimiter):
		d.relayMoveCard(roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdTiltCard+protocol.Delimiter):
		d.relayTiltCard(roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdUpdateMemory+protocol.Delimiter):
		d.relayMemory(roomID, msg)
	case strings.HasPrefix(msg, protocol.CmdChatMessage+protocol.Delimiter):
		d.relayChat(conn, roomID, msg)
	default:
		d.relayCommand(roomID, msg)
	}
}

// restartGame expects "/restartGame:<startingPlayer>".
func (d *Dispatcher) restartGame(ctx context.Context, conn transport.Conn, roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 2)
	if len(parts) < 2 || parts[1] == "" {
		return
	}
	d.setup.RestartGame(ctx, conn, roomID, parts[1])
}

// relayGameState forwards a board snapshot chunk to the opponent verbatim.
func (d *Dispatcher) relayGameState(sender transport.Conn, roomID, msg string) {
	chunk := strings.TrimPrefix(msg, protocol.CmdUpdateGame+protocol.Delimiter)
	for _, other := range d.registry.Others(roomID, sender) {
		other.Send(protocol.TagUpdateOpponent + protocol.Delimiter + chunk)
	}
}

// relayAttack expects "/attack:<opponent>:<from>:<to>:<isEffect>" and sends
// the zones remapped into the receiver's perspective.
func (d *Dispatcher) relayAttack(roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 5)
	if len(parts) < 5 {
		return
	}
	from := perspective.Map(parts[2])
	to := perspective.Map(parts[3])
	if from == "" || to == "" {
		d.logger.Debug("dropping attack with unknown zone", slog.String("room_id", roomID))
		return
	}
	d.sendTo(roomID, parts[1], protocol.TagAttack+protocol.Delimiter+from+protocol.Delimiter+to+protocol.Delimiter+parts[4])
}

// relayMoveCard expects "/moveCard:<opponent>:<cardId>:<from>:<to>".
func (d *Dispatcher) relayMoveCard(roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 5)
	if len(parts) < 5 {
		return
	}
	from := perspective.Map(parts[3])
	to := perspective.Map(parts[4])
	if from == "" || to == "" {
		d.logger.Debug("dropping move with unknown zone", slog.String("room_id", roomID))
		return
	}
	d.sendTo(roomID, parts[1], protocol.TagMoveCard+protocol.Delimiter+parts[2]+protocol.Delimiter+from+protocol.Delimiter+to)
}

// relayMoveCardToDeck expects
// "/moveCardToDeck:<opponent>:<topOrBottom>:<cardId>:<from>:<to>".
func (d *Dispatcher) relayMoveCardToDeck(roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 6)
	if len(parts) < 6 {
		return
	}
	from := perspective.Map(parts[4])
	to := perspective.Map(parts[5])
	if from == "" || to == "" {
		d.logger.Debug("dropping deck move with unknown zone", slog.String("room_id", roomID))
		return
	}
	d.sendTo(roomID, parts[1],
		protocol.TagMoveCardToDeck+protocol.Delimiter+parts[2]+protocol.Delimiter+parts[3]+protocol.Delimiter+from+protocol.Delimiter+to)
}

// relayTiltCard expects "/tiltCard:<opponent>:<cardId>:<zone>".
func (d *Dispatcher) relayTiltCard(roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 4)
	if len(parts) < 4 {
		return
	}
	zone := perspective.Map(parts[3])
	if zone == "" {
		d.logger.Debug("dropping tilt with unknown zone", slog.String("room_id", roomID))
		return
	}
	d.sendTo(roomID, parts[1], protocol.TagTiltCard+protocol.Delimiter+parts[2]+protocol.Delimiter+zone)
}

// relayMemory expects "/updateMemory:<opponent>:<value>". The memory gauge
// is zero-sum, so the opponent receives the negated value.
func (d *Dispatcher) relayMemory(roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 3)
	if len(parts) < 3 {
		return
	}
	value, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		d.logger.Debug("dropping memory update with non-numeric value",
			slog.String("room_id", roomID))
		return
	}
	d.sendTo(roomID, parts[1], protocol.TagUpdateMemory+protocol.Delimiter+strconv.Itoa(-value))
}

// relayChat expects "/chatMessage:<opponent>:<text>". The outbound frame
// carries the sender identity joined to the text by the chat separator, so
// colons inside the text survive.
func (d *Dispatcher) relayChat(sender transport.Conn, roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 3)
	if len(parts) < 3 {
		return
	}
	d.sendTo(roomID, parts[1],
		protocol.TagChatMessage+protocol.Delimiter+sender.Identity()+protocol.ChatSeparator+parts[2])
}

// relayCommand handles the closed passthrough table: simple-id commands are
// forwarded as "<tag>:<id>", bare commands as "<tag>". Tokens outside the
// table are dropped.
func (d *Dispatcher) relayCommand(roomID, msg string) {
	parts := strings.SplitN(msg, protocol.Delimiter, 3)
	token := parts[0]

	if _, ok := d.simpleID[token]; ok {
		if len(parts) < 3 {
			return
		}
		tag, _ := protocol.LookupCommand(token)
		d.sendTo(roomID, parts[1], tag+protocol.Delimiter+parts[2])
		return
	}

	if len(parts) < 2 {
		return
	}
	tag, ok := protocol.LookupCommand(token)
	if !ok {
		d.logger.Debug("dropping unrecognized command",
			slog.String("room_id", roomID),
			slog.String("command", token))
		return
	}
	d.sendTo(roomID, parts[1], tag)
}

// sendTo delivers a frame to the named room member if currently connected.
func (d *Dispatcher) sendTo(roomID, identity, frame string) {
	conn := d.registry.Member(roomID, identity)
	if conn == nil {
		d.logger.Debug("recipient not connected",
			slog.String("room_id", roomID),
			slog.String("identity", identity))
		return
	}
	conn.Send(frame)
}
