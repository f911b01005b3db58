package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/Tomyyy-1337/LichessBot/lichess"
)

var errStreamClosed = errors.New("event stream closed")

// ListenForEvents follows the account's event stream until the context is done,
// reconnecting with backoff whenever the stream drops.
func (state *State) ListenForEvents(ctx context.Context, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	err := retry.Do(
		func() error {
			return state.listenOnce(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(time.Second),
		retry.MaxDelay(time.Minute),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			state.logger.Warn().Err(err).Uint("n", n).Msg("event-stream-reconnecting")
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil && ctx.Err() == nil {
		state.logger.Error().Err(err).Msg("event-stream-failed")
	}
}

// Consume one connection of the event stream.
func (state *State) listenOnce(ctx context.Context) error {
	eventsChannel, err := state.client.StreamEvents(ctx)
	if err != nil {
		return err
	}
	state.logger.Info().Msg("listening-for-events")

	for msg := range eventsChannel {
		state.handleEvent(msg)
	}

	if ctx.Err() != nil {
		return retry.Unrecoverable(ctx.Err())
	}
	return errStreamClosed
}

func (state *State) handleEvent(msg lichess.EventMessage) {
	switch msg.Type {
	case lichess.ChallengeEventType:
		challenge := msg.Data.(lichess.ChallengeEvent)
		state.PushChallenge(Challenge{
			ID:         challenge.Challenge.ID,
			Challenger: challenge.Challenge.Challenger,
			Variant:    challenge.Challenge.Variant,
		})

	case lichess.GameStartEventType:
		gameStart := msg.Data.(lichess.GameStartEvent)
		state.PushGame(&Game{
			ID: gameStart.Game.Identifier(),
		})

	case lichess.GameFinishEventType:
		gameFinish := msg.Data.(lichess.GameFinishEvent)
		state.RemoveGame(gameFinish.Game.Identifier())

	default:
		state.logger.Debug().Interface("event", msg.Data).Msg("ignoring-event")
	}
}
