package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

// Game statuses lichess reports while the game is still going.
var ongoingStatuses = map[string]bool{"": true, "created": true, "started": true}

type Game struct {
	ID         string
	InitialFen string
	WeAreWhite bool
	Status     string

	Moves        []string // List of moves in UCI format.
	HistoryTable HistoryTable

	isPlaying bool
	mutex     sync.Mutex
}

// PushGame starts tracking a game. Games already tracked are ignored.
func (state *State) PushGame(game *Game) {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	for _, active := range state.activeGames {
		if active.ID == game.ID {
			return
		}
	}
	state.activeGames = append(state.activeGames, game)
}

func (state *State) RemoveGame(gameID string) {
	state.stateMu.Lock()
	defer state.stateMu.Unlock()

	var games []*Game
	for _, game := range state.activeGames {
		if game.ID != gameID {
			games = append(games, game)
		}
	}

	state.activeGames = games
}

func lockGame(game *Game) bool {
	game.mutex.Lock()
	defer game.mutex.Unlock()

	acquiredLock := false
	if !game.isPlaying {
		acquiredLock = true
		game.isPlaying = true
	}

	return acquiredLock
}

func unlockGame(game *Game) {
	game.mutex.Lock()
	defer game.mutex.Unlock()

	game.isPlaying = false
}

// PlayGames starts a player for every active game that doesn't have one, until the context
// is done. Players stop with the context too.
func (state *State) PlayGames(ctx context.Context, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	var players sync.WaitGroup
	defer players.Wait()

	for {
		for _, game := range state.ActiveGames() {
			if lockGame(game) {
				players.Add(1)
				go func() {
					defer players.Done()
					defer unlockGame(game)
					state.playGame(ctx, game)
				}()
			}
		}

		if !state.wait(ctx) {
			return
		}
	}
}

// Play one game until it ends or the stream drops. The caller holds the game lock.
func (state *State) playGame(ctx context.Context, game *Game) {
	logger := state.logger.With().Str("game", game.ID).Logger()
	game.HistoryTable = make(HistoryTable)

	gameStateCh, err := state.client.StreamGameState(ctx, game.ID)
	if err != nil {
		logger.Error().Err(err).Msg("game-stream-failed")
		return
	}

	// Listen to game updates as long as we can.
	for msg := range gameStateCh {
		err := state.handleMessage(ctx, logger, game, msg)
		if err != nil {
			logger.Error().Err(err).Msg("game-update-failed")
			return
		}

		isOver, err := gameIsOver(game)
		if err != nil {
			logger.Error().Err(err).Msg("game-over-check-failed")
			return
		}
		if isOver {
			logger.Info().Str("status", game.Status).Int("moves", len(game.Moves)).Msg("game-finished")
			state.RemoveGame(game.ID)
			return
		}
	}
}

func (state *State) handleMessage(ctx context.Context, logger zerolog.Logger, game *Game, msg lichess.GameStateMessage) error {
	var anyErr error
	switch msg.Type {
	case lichess.GameFullGameStateType:
		anyErr = state.handleInitialGameState(game, msg.Data.(lichess.GameFullGameState))

	case lichess.GameStateGameStateType:
		anyErr = handleGameUpdate(game, msg.Data.(lichess.GameStateGameState))

	case lichess.ChatLineGameStateType:
		chatLine := msg.Data.(lichess.ChatLineGameState)
		logger.Info().Str("user", chatLine.Username).Str("text", chatLine.Text).Msg("chat")
		return nil

	default:
		logger.Debug().Interface("update", msg.Data).Msg("ignoring-game-update")
		return nil
	}

	if anyErr != nil {
		return anyErr
	}

	// If the game is not finished and it's our turn, we should move.
	isOver, err := gameIsOver(game)
	if err != nil {
		return err
	}

	if isOurTurn(game) && !isOver {
		return state.makeMove(ctx, logger, game)
	}

	return nil
}

func (state *State) handleInitialGameState(game *Game, initialState lichess.GameFullGameState) error {
	game.InitialFen = initialState.InitialFen
	if game.InitialFen == "" || game.InitialFen == "startpos" {
		game.InitialFen = engine.StartPosition().Fen()
	}

	switch {
	case state.isUs(initialState.White):
		game.WeAreWhite = true
	case state.isUs(initialState.Black):
		game.WeAreWhite = false
	default:
		return fmt.Errorf("game %s: expected one of the players to be %s: %w", game.ID, state.botName, ErrNotOurGame)
	}

	return handleGameUpdate(game, initialState.State)
}

func (state *State) isUs(player lichess.User) bool {
	return strings.EqualFold(player.ID, state.botName) || strings.EqualFold(player.Name, state.botName)
}

func handleGameUpdate(game *Game, update lichess.GameStateGameState) error {
	game.Moves = update.MoveList()
	game.Status = update.Status

	// Rebuild the repetition history from the full move list
	if game.HistoryTable == nil {
		game.HistoryTable = make(HistoryTable)
	}
	game.HistoryTable.Reset()
	_, err := game.replay(func(p engine.Position) {
		game.HistoryTable.Add(p.Hash())
	})
	return err
}

// Side to move, given the moves since the initial position.
func isOurTurn(game *Game) bool {
	whiteToPlay := game.initialPosition().SideToMove() == engine.White
	if len(game.Moves)%2 == 1 {
		whiteToPlay = !whiteToPlay
	}

	return whiteToPlay == game.WeAreWhite
}

// Apply the game's moves to the initial position, visiting every position on the way.
func (game *Game) replay(visit func(engine.Position)) (engine.Position, error) {
	p := game.initialPosition()
	visit(p)
	for _, moveStr := range game.Moves {
		move, err := engine.ParseMove(moveStr)
		if err != nil {
			return p, fmt.Errorf("game %s: %w", game.ID, err)
		}

		p = p.Apply(move)
		visit(p)
	}

	return p, nil
}

// Until the full game state arrives the game is assumed to start from the standard position.
func (game *Game) initialPosition() engine.Position {
	if game.InitialFen == "" {
		return engine.StartPosition()
	}
	return engine.NewPosition(game.InitialFen)
}

// Position is the current position of the game.
func (game *Game) Position() (engine.Position, error) {
	return game.replay(func(engine.Position) {})
}

// A game is over when lichess says so, when the side to move has no legal moves or when
// a position has occurred three times.
func gameIsOver(game *Game) (bool, error) {
	if !ongoingStatuses[game.Status] {
		return true, nil
	}

	p, err := game.Position()
	if err != nil {
		return false, err
	}

	if p.Status() != engine.Ongoing {
		return true, nil
	}
	return game.HistoryTable.Count(p.Hash()) >= 3, nil
}

func (state *State) makeMove(ctx context.Context, logger zerolog.Logger, game *Game) error {
	p, err := game.Position()
	if err != nil {
		return err
	}

	move, ok := state.moves.Choose(ctx, p)
	if !ok {
		return nil
	}

	logger.Info().Str("move", move.String()).Int("ply", len(game.Moves)).Msg("making-move")
	return state.client.PostMove(ctx, game.ID, move.String())
}
