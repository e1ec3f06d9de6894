package transport

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/clock"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/random"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/protocol"
)

// room holds one game room's state. All fields are guarded by the Registry
// mutex; rooms are never handed out directly.
type room struct {
	id             string
	members        []Conn
	startingPlayer string
	announced      bool
	createdAt      time.Time
}

// Registry is the single authority over rooms and their member connections.
// Every operation that reads room state and mutates it does so atomically
// under one lock, so two concurrent handlers can never both observe a room
// as reconnectable and both win.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*room
	random random.Random
	clock  clock.Clock
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(rnd random.Random, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*room),
		random: rnd,
		clock:  clk,
		logger: logger.With(slog.String("component", "registry")),
	}
}

// CreateOrJoin adds the connection to the room's member set, creating the
// room if absent. The starting player is decided once, at room creation,
// by a uniformly random draw between the two identities encoded in the room
// id; both sides later observe the same stored decision.
//
// The returned flag reports whether the room now holds both members.
func (r *Registry) CreateOrJoin(roomID string, conn Conn) (full bool, err error) {
	user1, user2, err := protocol.SplitRoomID(roomID)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		names := []string{user1, user2}
		rm = &room{
			id:             roomID,
			startingPlayer: names[r.random.Intn(len(names))],
			createdAt:      r.clock.Now(),
		}
		r.rooms[roomID] = rm
		r.logger.Info("room created",
			slog.String("room_id", roomID),
			slog.String("starting_player", rm.startingPlayer))
	}

	for _, member := range rm.members {
		if member == conn {
			return len(rm.members) == 2, nil
		}
	}
	if len(rm.members) == 2 {
		return true, model.ErrRoomFull
	}

	rm.members = append(rm.members, conn)
	return len(rm.members) == 2, nil
}

// Reconnect re-adds a connection to a room that currently holds exactly one
// member, returning that remaining member so it can be notified. Any other
// room state makes this a no-op with ok == false, leaving the caller to fall
// through to ordinary message handling.
func (r *Registry) Reconnect(roomID string, conn Conn) (opponent Conn, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, exists := r.rooms[roomID]
	if !exists || len(rm.members) != 1 {
		return nil, false
	}

	opponent = rm.members[0]
	rm.members = append(rm.members, conn)
	r.logger.Info("member reconnected",
		slog.String("room_id", roomID),
		slog.String("identity", conn.Identity()))
	return opponent, true
}

// RemoveConn removes the connection from every room it belongs to and
// deletes any room left empty. Safe for connections that were never
// registered.
func (r *Registry) RemoveConn(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rm := range r.rooms {
		kept := rm.members[:0]
		for _, member := range rm.members {
			if member != conn {
				kept = append(kept, member)
			}
		}
		rm.members = kept
		if len(rm.members) == 0 {
			delete(r.rooms, id)
			r.logger.Info("room removed", slog.String("room_id", id))
		}
	}
}

// RoomExists reports whether the room id maps to a live room.
func (r *Registry) RoomExists(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID]
	return ok
}

// Member returns the room member with the given identity, or nil.
func (r *Registry) Member(roomID, identity string) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	for _, member := range rm.members {
		if member.Identity() == identity {
			return member
		}
	}
	return nil
}

// Members returns a snapshot of the room's member connections.
func (r *Registry) Members(roomID string) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]Conn, len(rm.members))
	copy(members, rm.members)
	return members
}

// Others returns a snapshot of the room's members excluding the sender.
func (r *Registry) Others(roomID string, sender Conn) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	var others []Conn
	for _, member := range rm.members {
		if member != sender {
			others = append(others, member)
		}
	}
	return others
}

// Connections returns a snapshot of every member connection across all rooms.
func (r *Registry) Connections() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	var conns []Conn
	for _, rm := range r.rooms {
		conns = append(conns, rm.members...)
	}
	return conns
}

// StartingPlayer returns the identity stored on the room at creation time.
func (r *Registry) StartingPlayer(roomID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return "", false
	}
	return rm.startingPlayer, true
}

// SetStartingPlayer overrides the room's starting player. Used by the
// restart handshake, where the caller supplies the already-decided identity.
func (r *Registry) SetStartingPlayer(roomID, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rm, ok := r.rooms[roomID]; ok {
		rm.startingPlayer = identity
	}
}

// AnnounceReady reports, exactly once per room, that the starting-player
// announcement should go out: the first call made while the room holds both
// members returns true, every other call returns false.
func (r *Registry) AnnounceReady(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok || rm.announced || len(rm.members) != 2 {
		return false
	}
	rm.announced = true
	return true
}
