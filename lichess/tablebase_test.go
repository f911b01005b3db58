package lichess

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomyyy-1337/LichessBot/engine"
)

const tablebaseJSON = `{"category":"win","dtz":1,"moves":[
{"uci":"h7h8q","san":"h8=Q+","dtz":-2,"zeroing":true,"category":"loss"},
{"uci":"e1d2","san":"Kd2","dtz":null,"zeroing":false,"category":"unknown"},
{"uci":"e1f2","san":"Kf2","dtz":null,"zeroing":false,"category":"draw"}]}`

func TestTablebaseDTZ(t *testing.T) {
	p := engine.NewPosition("8/7P/8/8/8/8/k7/4K3 w - - 0 1")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standard", r.URL.Path)
		assert.Equal(t, strings.ReplaceAll(p.Fen(), " ", "_"), r.URL.Query().Get("fen"))
		// the token stays with the API host
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, tablebaseJSON)
	}))
	client.apiHost = "http://api.invalid/"

	moves, err := client.TablebaseDTZ(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	assert.Equal(t, "h7h8q", moves[0].UCI)
	assert.Equal(t, "h7h8q", moves[0].Move.String())
	require.NotNil(t, moves[0].DTZ)
	assert.Equal(t, -2, *moves[0].DTZ)
	assert.True(t, moves[0].Zeroing)
	assert.Equal(t, "loss", moves[0].Category)

	assert.Equal(t, "e1f2", moves[1].UCI)
	assert.Nil(t, moves[1].DTZ)
}

func TestTablebaseDTZError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := client.TablebaseDTZ(context.Background(), engine.StartPosition())
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
}
