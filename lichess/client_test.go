package lichess

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

const testToken = "lip_test"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(testToken,
		WithAPIHost(srv.URL),
		WithTablebaseHost(srv.URL),
		WithRateLimit(time.Millisecond, 3))
}

func TestGetAccount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/account", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":"tomyyy","username":"Tomyyy","title":"BOT","profile":{"country":"DE"}}`)
	}))

	account, err := client.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tomyyy", account.ID)
	assert.Equal(t, "Tomyyy", account.Username)
	assert.Equal(t, "DE", account.Profile.Country)
	assert.True(t, account.IsBot())
}

func TestGetUser(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/someone", r.URL.Path)
		fmt.Fprint(w, `{"id":"someone","username":"Someone"}`)
	}))

	account, err := client.GetUser(context.Background(), "someone")
	require.NoError(t, err)
	assert.Equal(t, "Someone", account.Username)
	assert.False(t, account.IsBot())
}

func TestRateLimitIsRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"id":"tomyyy"}`)
	}))

	account, err := client.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tomyyy", account.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRateLimitedOnEveryAttempt(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	err := client.PostMove(context.Background(), "abcd1234", "e2e4")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriedPostResendsBody(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "3", r.PostForm.Get("level"))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"id":"game1234"}`)
	}))

	id, err := client.ChallengeAI(context.Background(), AIChallenge{Level: 3})
	require.NoError(t, err)
	assert.Equal(t, "game1234", id)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRequestError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"Not your turn, or game already over"}`)
	}))

	err := client.PostMove(context.Background(), "abcd1234", "e2e4")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Equal(t, "Not your turn, or game already over", reqErr.Message)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestNotFound(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedirectKeepsAuthAndMethod(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bot/account/upgrade", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/moved/upgrade", http.StatusFound)
	})
	var reached atomic.Bool
	mux.HandleFunc("/moved/upgrade", func(w http.ResponseWriter, r *http.Request) {
		reached.Store(true)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"ok":true}`)
	})
	client := newTestClient(t, mux)

	require.NoError(t, client.UpgradeAccount(context.Background()))
	assert.True(t, reached.Load())
}

func TestContextCancelledDuringCooloff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	client := NewClient(testToken, WithAPIHost(srv.URL), WithRateLimit(time.Hour, 4))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := client.GetAccount(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}
