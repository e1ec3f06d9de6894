package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/mocks"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/deck"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/protocol"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/setup"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/storage/memory"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/testutil"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/transport"
)

const testRoomID = "alice‗bob"

type DispatcherSuite struct {
	suite.Suite
	registry   *transport.Registry
	dispatcher *Dispatcher
	alice      *testutil.FakeConn
	bob        *testutil.FakeConn
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	random := mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	s.registry = transport.NewRegistry(random, clk, logger)
	encoder := deck.NewEncoder(random, mocks.NewMockIdent(), 0)
	coordinator := setup.NewCoordinator(s.registry, store, encoder, logger)
	s.dispatcher = NewDispatcher(s.registry, coordinator, logger)
	s.alice = testutil.NewFakeConn("alice")
	s.bob = testutil.NewFakeConn("bob")
	s.ctx = context.Background()
}

// joinRoom runs the start handshake for both connections and clears the
// handshake frames so tests assert only on relayed traffic.
func (s *DispatcherSuite) joinRoom() {
	s.dispatcher.HandleFrame(s.ctx, s.alice, protocol.CmdStartGame+":"+testRoomID)
	s.dispatcher.HandleFrame(s.ctx, s.bob, protocol.CmdStartGame+":"+testRoomID)
	s.alice.Reset()
	s.bob.Reset()
}

func (s *DispatcherSuite) TestHeartbeatAckIgnored() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, protocol.HeartbeatAck)

	s.Empty(s.alice.Frames())
	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestStartGameJoinsRoom() {
	s.dispatcher.HandleFrame(s.ctx, s.alice, "/startGame:"+testRoomID)

	s.True(s.registry.RoomExists(testRoomID))
	s.Len(s.alice.FramesWithPrefix(protocol.TagStartGame), 1)
}

func (s *DispatcherSuite) TestUpdateGameBroadcastToOthers() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/updateGame:{\"board\":1}")

	s.Empty(s.alice.Frames())
	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[UPDATE_OPPONENT]:{\"board\":1}", frames[0])
}

func (s *DispatcherSuite) TestAttackMapsZones() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/attack:bob:myDigi1:opponentSecurity:true")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[ATTACK]:opponentDigi1:mySecurity:true", frames[0])
}

func (s *DispatcherSuite) TestAttackUnknownZoneDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/attack:bob:myDigi99:mySecurity:false")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestAttackTooFewFieldsDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/attack:bob:myDigi1")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestMoveCard() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/moveCard:bob:card-7:myHand:myTrash")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[MOVE_CARD]:card-7:opponentHand:opponentTrash", frames[0])
}

func (s *DispatcherSuite) TestMoveCardToDeck() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/moveCardToDeck:bob:Top:card-7:myHand:myDeckField")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[MOVE_CARD_TO_DECK]:Top:card-7:opponentHand:opponentDeckField", frames[0])
}

func (s *DispatcherSuite) TestTiltCard() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/tiltCard:bob:card-3:myDigi3")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[TILT_CARD]:card-3:opponentDigi3", frames[0])
}

func (s *DispatcherSuite) TestUpdateMemoryNegatesValue() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/updateMemory:bob:3")
	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/updateMemory:bob:-2")
	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/updateMemory:bob:0")

	s.Equal([]string{
		"[UPDATE_MEMORY]:-3",
		"[UPDATE_MEMORY]:2",
		"[UPDATE_MEMORY]:0",
	}, s.bob.Frames())
}

func (s *DispatcherSuite) TestUpdateMemoryNonNumericDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/updateMemory:bob:lots")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestChatMessageCarriesSender() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/chatMessage:bob:nice move: well played")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[CHAT_MESSAGE]:alice"+protocol.ChatSeparator+"nice move: well played", frames[0])
}

func (s *DispatcherSuite) TestSimpleIDCommand() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/activateEffect:bob:card-9")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[ACTIVATE_EFFECT]:card-9", frames[0])
}

func (s *DispatcherSuite) TestSimpleIDCommandWithoutIDDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/activateEffect:bob")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestBareCommand() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/surrender:bob")

	frames := s.bob.Frames()
	s.Require().Len(frames, 1)
	s.Equal("[SURRENDER]", frames[0])
}

func (s *DispatcherSuite) TestUnknownCommandDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/castFireball:bob")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestUnknownRoomDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, "carol‗dave:/surrender:bob")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestFrameWithoutDelimiterDropped() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, "gibberish")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestRecipientOfflineDropped() {
	s.joinRoom()
	s.dispatcher.HandleDisconnect(s.bob)

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/surrender:bob")

	s.Empty(s.bob.Frames())
}

func (s *DispatcherSuite) TestRestartGameFrame() {
	s.joinRoom()

	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/restartGame:bob")

	for _, conn := range []*testutil.FakeConn{s.alice, s.bob} {
		frames := conn.FramesWithPrefix(protocol.TagStartingPlayer)
		s.Require().Len(frames, 1, conn.Identity())
		s.Equal("[STARTING_PLAYER]:bob", frames[0])
	}
	starting, _ := s.registry.StartingPlayer(testRoomID)
	s.Equal("bob", starting)
}

func (s *DispatcherSuite) TestReconnectNotifiesOpponent() {
	s.joinRoom()
	s.dispatcher.HandleDisconnect(s.bob)

	rejoined := testutil.NewFakeConn("bob")
	s.dispatcher.HandleFrame(s.ctx, rejoined, "/reconnect:"+testRoomID)

	frames := s.alice.Frames()
	s.Require().Len(frames, 1)
	s.Equal(protocol.TagOpponentReconnected, frames[0])

	// Traffic flows to the rejoined connection
	s.dispatcher.HandleFrame(s.ctx, s.alice, testRoomID+":/surrender:bob")
	s.Equal([]string{"[SURRENDER]"}, rejoined.Frames())
}

func (s *DispatcherSuite) TestReconnectIntoFullRoomDropped() {
	s.joinRoom()

	intruder := testutil.NewFakeConn("bob")
	s.dispatcher.HandleFrame(s.ctx, intruder, "/reconnect:"+testRoomID)

	s.Empty(s.alice.Frames())
	s.Empty(s.bob.Frames())
	s.Len(s.registry.Members(testRoomID), 2)
}

func (s *DispatcherSuite) TestReconnectUnknownRoomDropped() {
	s.dispatcher.HandleFrame(s.ctx, s.alice, "/reconnect:carol‗dave")

	s.Empty(s.alice.Frames())
}

func (s *DispatcherSuite) TestDisconnectEmptiesRoom() {
	s.joinRoom()

	s.dispatcher.HandleDisconnect(s.alice)
	s.dispatcher.HandleDisconnect(s.bob)

	s.False(s.registry.RoomExists(testRoomID))
}
