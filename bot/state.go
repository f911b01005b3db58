package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Tomyyy-1337/LichessBot/lichess"
)

var ErrNotOurGame = errors.New("bot: neither player is us")

// The part of the lichess client the bot talks to.
type Client interface {
	StreamEvents(ctx context.Context) (<-chan lichess.EventMessage, error)
	StreamGameState(ctx context.Context, id string) (<-chan lichess.GameStateMessage, error)
	PostMove(ctx context.Context, id, moveUCI string) error
	AcceptChallenge(ctx context.Context, id string) error
	DeclineChallenge(ctx context.Context, id, reason string) error
}

const defaultPollInterval = time.Second
const maxChallengeRetries = 3

type State struct {
	client  Client
	moves   *MoveSource
	botName string
	logger  zerolog.Logger

	pollInterval time.Duration

	stateMu     sync.Mutex
	challenges  []Challenge
	activeGames []*Game
}

// NewState builds the bot for the account called botName.
func NewState(client Client, moves *MoveSource, botName string) *State {
	return &State{
		client:       client,
		moves:        moves,
		botName:      botName,
		logger:       log.With().Str("component", "bot").Str("bot", botName).Logger(),
		pollInterval: defaultPollInterval,
	}
}

// Run listens for events, accepts challenges and plays games until the context is done.
func (state *State) Run(ctx context.Context) {
	var waitGroup sync.WaitGroup
	waitGroup.Add(3)

	go state.ListenForEvents(ctx, &waitGroup)
	go state.AcceptChallenges(ctx, &waitGroup)
	go state.PlayGames(ctx, &waitGroup)

	waitGroup.Wait()
}

func (state *State) ActiveGames() []*Game {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	return append([]*Game(nil), state.activeGames...)
}

// Sleep for the poll interval. False if the context ended first.
func (state *State) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(state.pollInterval):
		return true
	}
}
