package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usehealthifier/healthifier/store"
)

func TestListChatMessages_FlattensTurns(t *testing.T) {
	s, _ := newTestAPIService(t)

	_, err := s.Store.CreateChatTurn(context.Background(), &store.ChatTurn{
		UID:       "turn-1",
		UserUID:   "user-1",
		Message:   "how much water?",
		Reply:     "about two liters",
		MessageTs: 100,
		ReplyTs:   101,
	})
	require.NoError(t, err)
	_, err = s.Store.CreateChatTurn(context.Background(), &store.ChatTurn{
		UID:       "turn-2",
		UserUID:   "user-1",
		Message:   "and coffee?",
		Reply:     "in moderation",
		MessageTs: 200,
		ReplyTs:   201,
	})
	require.NoError(t, err)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/chats", "")
	require.NoError(t, s.ListChatMessages(withClaims(c, "user-1")))
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []*ChatMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 4)

	assert.Equal(t, "how much water?", messages[0].Message)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "about two liters", messages[1].Message)
	assert.Equal(t, "ai", messages[1].Sender)
	assert.Equal(t, int64(200), messages[2].Ts)
	assert.Equal(t, int64(201), messages[3].Ts)
}

func TestListChatMessages_OnlyOwnTurns(t *testing.T) {
	s, _ := newTestAPIService(t)

	_, err := s.Store.CreateChatTurn(context.Background(), &store.ChatTurn{
		UID: "turn-1", UserUID: "user-1", Message: "m", Reply: "r",
	})
	require.NoError(t, err)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/chats", "")
	require.NoError(t, s.ListChatMessages(withClaims(c, "user-2")))

	var messages []*ChatMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Empty(t, messages)
}
