package lichess

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeAI(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/challenge/ai", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2", r.PostForm.Get("level"))
		assert.Equal(t, "white", r.PostForm.Get("color"))
		assert.Equal(t, "standard", r.PostForm.Get("variant"))
		fmt.Fprint(w, `{"id":"game1234","variant":{"key":"standard"},"status":{"name":"started"}}`)
	}))

	id, err := client.ChallengeAI(context.Background(), DefaultAIChallenge)
	require.NoError(t, err)
	assert.Equal(t, "game1234", id)
}

func TestChallengeAINestedGameID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"game":{"id":"game5678"}}`)
	}))

	id, err := client.ChallengeAI(context.Background(), AIChallenge{Level: 8, Color: "black"})
	require.NoError(t, err)
	assert.Equal(t, "game5678", id)
}

func TestChallengeAIWithoutGameID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))

	_, err := client.ChallengeAI(context.Background(), DefaultAIChallenge)
	assert.Error(t, err)
}

func TestChallengeAIBadLevel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.ChallengeAI(context.Background(), AIChallenge{Level: 9})
	assert.Error(t, err)
}

func TestAcceptAndDeclineChallenge(t *testing.T) {
	var paths []string
	var reason string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		require.NoError(t, r.ParseForm())
		reason = r.PostForm.Get("reason")
		fmt.Fprint(w, `{"ok":true}`)
	}))

	require.NoError(t, client.AcceptChallenge(context.Background(), "chal1234"))
	require.NoError(t, client.DeclineChallenge(context.Background(), "chal5678", "variant"))
	assert.Equal(t, []string{"/api/challenge/chal1234/accept", "/api/challenge/chal5678/decline"}, paths)
	assert.Equal(t, "variant", reason)
}
