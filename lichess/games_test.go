package lichess

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameStream = `{"type":"gameFull","id":"game1234","rated":false,"variant":{"key":"standard","name":"Standard"},"clock":{"initial":300000,"increment":3000},"white":{"id":"tomyyy","name":"Tomyyy","title":"BOT"},"black":{"id":null,"aiLevel":2},"initialFen":"startpos","state":{"type":"gameState","moves":"e2e4","wtime":300000,"btime":300000,"winc":3000,"binc":3000,"status":"started"}}
{"type":"chatLine","username":"lichess","text":"Good luck","room":"player"}

{"type":"gameState","moves":"e2e4 e7e5","wtime":298000,"btime":299000,"winc":3000,"binc":3000,"status":"started"}
{"type":"opponentGone","gone":true}
`

func TestStreamGameState(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bot/game/stream/game1234", r.URL.Path)
		fmt.Fprint(w, gameStream)
	}))

	ch, err := client.StreamGameState(context.Background(), "game1234")
	require.NoError(t, err)
	msgs := collect(t, ch)
	require.Len(t, msgs, 4)

	require.Equal(t, GameFullGameStateType, msgs[0].Type)
	full := msgs[0].Data.(GameFullGameState)
	assert.Equal(t, "game1234", full.ID)
	assert.Equal(t, "tomyyy", full.White.ID)
	assert.Equal(t, 2, full.Black.AILevel)
	assert.Equal(t, "startpos", full.InitialFen)
	assert.Equal(t, []string{"e2e4"}, full.State.MoveList())
	assert.Equal(t, int64(3000), full.Clock.Increment)

	require.Equal(t, ChatLineGameStateType, msgs[1].Type)
	assert.Equal(t, "Good luck", msgs[1].Data.(ChatLineGameState).Text)

	require.Equal(t, GameStateGameStateType, msgs[2].Type)
	state := msgs[2].Data.(GameStateGameState)
	assert.Equal(t, []string{"e2e4", "e7e5"}, state.MoveList())
	assert.Equal(t, int64(298000), state.WTime)

	assert.Equal(t, UnknownGameStateType, msgs[3].Type)
}

func TestMoveListEmpty(t *testing.T) {
	state := GameStateGameState{Moves: ""}
	assert.Empty(t, state.MoveList())
}

func TestPostMove(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bot/game/game1234/move/e7e8q", r.URL.Path)
		fmt.Fprint(w, `{"ok":true}`)
	}))

	require.NoError(t, client.PostMove(context.Background(), "game1234", "e7e8q"))
	assert.True(t, called)
}
