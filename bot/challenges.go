package bot

import (
	"context"
	"sync"

	"github.com/Tomyyy-1337/LichessBot/lichess"
)

type Challenge struct {
	ID         string
	Challenger lichess.User
	Variant    lichess.Variant

	Retries int
}

func (state *State) PushChallenge(challenge Challenge) {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	state.challenges = append(state.challenges, challenge)
}

func (state *State) PopChallenge() *Challenge {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	if len(state.challenges) == 0 {
		return nil
	}

	challenge := state.challenges[0]
	state.challenges = state.challenges[1:]
	return &challenge
}

// AcceptChallenges works through the challenge queue until the context is done. Only
// standard chess is played; failed accepts are requeued a few times.
func (state *State) AcceptChallenges(ctx context.Context, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	for ctx.Err() == nil {
		challenge := state.PopChallenge()
		if challenge == nil {
			if !state.wait(ctx) {
				return
			}
			continue
		}

		state.handleChallenge(ctx, challenge)
	}
}

func (state *State) handleChallenge(ctx context.Context, challenge *Challenge) {
	logger := state.logger.With().Str("challenge", challenge.ID).
		Str("challenger", challenge.Challenger.Name).Logger()

	if challenge.Variant.Key != lichess.StandardVariant {
		logger.Info().Str("variant", challenge.Variant.Key).Msg("declining-challenge")
		err := state.client.DeclineChallenge(ctx, challenge.ID, "standard")
		if err != nil {
			logger.Error().Err(err).Msg("decline-failed")
		}
		return
	}

	if challenge.Retries >= maxChallengeRetries {
		logger.Warn().Int("retries", challenge.Retries).Msg("giving-up-on-challenge")
		return
	}

	err := state.client.AcceptChallenge(ctx, challenge.ID)
	if err != nil {
		logger.Error().Err(err).Msg("accept-failed")

		challenge.Retries += 1
		state.PushChallenge(*challenge)
		return
	}
	logger.Info().Msg("accepted-challenge")
}
