package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/model"
)

func TestSplitRoomID(t *testing.T) {
	user1, user2, err := SplitRoomID("alice‗bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", user1)
	assert.Equal(t, "bob", user2)
}

func TestSplitRoomIDRejectsMissingDelimiter(t *testing.T) {
	_, _, err := SplitRoomID("alicebob")
	assert.ErrorIs(t, err, model.ErrInvalidRoomID)
}

func TestSplitRoomIDRejectsEmptySides(t *testing.T) {
	for _, roomID := range []string{"‗bob", "alice‗", "‗"} {
		_, _, err := SplitRoomID(roomID)
		assert.ErrorIs(t, err, model.ErrInvalidRoomID, roomID)
	}
}

func TestSplitRoomIDRejectsExtraDelimiters(t *testing.T) {
	_, _, err := SplitRoomID("alice‗bob‗carol")
	assert.ErrorIs(t, err, model.ErrInvalidRoomID)
}

func TestLookupCommandKnownToken(t *testing.T) {
	tag, ok := LookupCommand("/surrender")
	require.True(t, ok)
	assert.Equal(t, "[SURRENDER]", tag)
}

func TestLookupCommandUnknownToken(t *testing.T) {
	tag, ok := LookupCommand("/doHomework")
	assert.False(t, ok)
	assert.Empty(t, tag)
}

func TestSimpleIDCommandsAreInTable(t *testing.T) {
	for _, cmd := range SimpleIDCommands {
		_, ok := LookupCommand(cmd)
		assert.True(t, ok, cmd)
	}
}
