package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/factory"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/protocol"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/testutil"
)

const testRoomID = "alice‗bob"

type APISuite struct {
	suite.Suite
	app    *factory.App
	server *httptest.Server
	ctx    context.Context
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	s.Require().NoError(err)
	s.app = app

	router := NewRouter(RouterConfig{
		Logger:     testutil.NopLogger(),
		GameSocket: app.GameSocket,
	})
	s.server = httptest.NewServer(router)
	s.ctx = context.Background()
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) seedPlayer(username string) {
	cards := make([]model.Card, 16)
	for i := range cards {
		cards[i] = model.Card{
			UniqueCardNumber: fmt.Sprintf("BT1-%03d", i+1),
			CardType:         "Digimon",
		}
	}
	cards[0].CardType = model.CardTypeEgg
	cards[1].CardType = model.CardTypeEgg

	deckID := model.DeckID(username + "-deck")
	s.Require().NoError(s.app.Storage.SaveProfile(s.ctx, &model.Profile{
		Username:   username,
		AvatarName: "Agumon",
		SleeveName: "Default",
	}))
	s.Require().NoError(s.app.Storage.SaveDeck(s.ctx, &model.Deck{
		ID:       deckID,
		Username: username,
		Name:     "Main",
		Cards:    cards,
	}))
	s.Require().NoError(s.app.Storage.SetActiveDeck(s.ctx, username, deckID))
}

func (s *APISuite) dial(username string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/game?user=" + username
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func (s *APISuite) send(conn *websocket.Conn, frame string) {
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func (s *APISuite) readFrame(conn *websocket.Conn) string {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, message, err := conn.ReadMessage()
	s.Require().NoError(err)
	return string(message)
}

func (s *APISuite) TestHealth() {
	resp, err := http.Get(s.server.URL + "/api/v1/health")
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))
}

func (s *APISuite) TestDialWithoutIdentityRejected() {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/game"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().Error(err)
	s.Require().NotNil(resp)
	defer func() { _ = resp.Body.Close() }()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *APISuite) TestDialWithHeaderIdentity() {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/game"
	header := http.Header{"X-Username": []string{"alice"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	_ = conn.Close()
}

func (s *APISuite) TestFullGameHandshake() {
	s.seedPlayer("alice")
	s.seedPlayer("bob")

	alice := s.dial("alice")
	defer func() { _ = alice.Close() }()
	s.send(alice, "/startGame:"+testRoomID)

	frame := s.readFrame(alice)
	s.Require().True(strings.HasPrefix(frame, protocol.TagStartGame+":"), frame)

	var players []model.PlayerInfo
	payload := strings.TrimPrefix(frame, protocol.TagStartGame+":")
	s.Require().NoError(json.Unmarshal([]byte(payload), &players))
	s.Require().Len(players, 2)
	s.Equal("alice", players[0].Username)
	s.Equal("bob", players[1].Username)

	bob := s.dial("bob")
	defer func() { _ = bob.Close() }()
	s.send(bob, "/startGame:"+testRoomID)

	// Bob's own start sequence
	frame = s.readFrame(bob)
	s.Require().True(strings.HasPrefix(frame, protocol.TagStartGame+":"), frame)

	bobStarting := s.readFrame(bob)
	s.Require().True(strings.HasPrefix(bobStarting, protocol.TagStartingPlayer+":"), bobStarting)

	// Alice sees the same announcement
	aliceStarting := s.readFrame(alice)
	s.Equal(bobStarting, aliceStarting)

	starter := strings.TrimPrefix(aliceStarting, protocol.TagStartingPlayer+":")
	s.Contains([]string{"alice", "bob"}, starter)

	// Both sides receive the identical chunked deck distribution
	aliceGS := s.readDistribution(alice)
	bobGS := s.readDistribution(bob)

	s.Len(aliceGS.Player1Hand, 5)
	s.Len(aliceGS.Player1Security, 5)
	s.Len(aliceGS.Player1EggDeck, 2)
	s.Len(aliceGS.Player1DeckField, 4)
	s.Len(aliceGS.Player2Hand, 5)
	s.Equal(aliceGS.Player1Hand[0].ID, bobGS.Player1Hand[0].ID)

	// Relay traffic flows with perspective and memory transforms applied
	s.send(alice, testRoomID+":/updateMemory:bob:4")
	s.Equal("[UPDATE_MEMORY]:-4", s.readFrame(bob))

	s.send(alice, testRoomID+":/attack:bob:myDigi1:opponentSecurity:true")
	s.Equal("[ATTACK]:opponentDigi1:mySecurity:true", s.readFrame(bob))

	s.send(bob, testRoomID+":/chatMessage:alice:gg")
	s.Equal("[CHAT_MESSAGE]:bob"+protocol.ChatSeparator+"gg", s.readFrame(alice))
}

func (s *APISuite) TestReconnectOverWebsocket() {
	s.seedPlayer("alice")
	s.seedPlayer("bob")

	alice := s.dial("alice")
	defer func() { _ = alice.Close() }()
	s.send(alice, "/startGame:"+testRoomID)
	_ = s.readFrame(alice)

	bob := s.dial("bob")
	s.send(bob, "/startGame:"+testRoomID)
	_ = s.readFrame(bob)

	// Drain alice's announcement and distribution
	_ = s.readFrame(alice)
	_ = s.readDistribution(alice)

	_ = bob.Close()
	s.Require().Eventually(func() bool {
		return s.app.Registry.Member(testRoomID, "bob") == nil
	}, 2*time.Second, 10*time.Millisecond)

	rejoined := s.dial("bob")
	defer func() { _ = rejoined.Close() }()
	s.send(rejoined, "/reconnect:"+testRoomID)

	s.Equal(protocol.TagOpponentReconnected, s.readFrame(alice))

	s.send(alice, testRoomID+":/surrender:bob")
	s.Equal("[SURRENDER]", s.readFrame(rejoined))
}

// readDistribution reads a full chunked distribution off the socket and
// decodes it.
func (s *APISuite) readDistribution(conn *websocket.Conn) *model.GameStart {
	first := s.readFrame(conn)
	parts := strings.SplitN(first, ":", 4)
	s.Require().Len(parts, 4)
	s.Require().Equal(protocol.TagDistributeCards, parts[0])

	total, err := strconv.Atoi(parts[2])
	s.Require().NoError(err)

	var payload strings.Builder
	payload.WriteString(parts[3])
	for i := 2; i <= total; i++ {
		frame := s.readFrame(conn)
		chunkParts := strings.SplitN(frame, ":", 4)
		s.Require().Len(chunkParts, 4)
		s.Require().Equal(strconv.Itoa(i), chunkParts[1])
		payload.WriteString(chunkParts[3])
	}

	var gs model.GameStart
	s.Require().NoError(json.Unmarshal([]byte(payload.String()), &gs))
	return &gs
}
