// Load a lichess puzzle and print the engine's answer next to the puzzle's solution.
//
//	puzzle [flags] <puzzle id>...

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tomyyy-1337/LichessBot/config"
	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

func main() {
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	cfg.SetupLogging()

	ids := cfg.Args
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: puzzle [flags] <puzzle id>...")
		os.Exit(2)
	}

	ctx := context.Background()
	client := lichess.NewClient(cfg.APIKey, cfg.ClientOptions()...)
	e := engine.NewEngine(cfg.EngineConfig())

	solved := 0
	for _, id := range ids {
		ok, err := solve(ctx, client, e, id)
		if err != nil {
			log.Error().Err(err).Str("puzzle", id).Msg("puzzle-failed")
			continue
		}
		if ok {
			solved++
		}
	}
	fmt.Printf("solved %d/%d\n", solved, len(ids))
}

// Print the engine's first move for the puzzle. True if it matches the solution.
func solve(ctx context.Context, client *lichess.Client, e *engine.Engine, id string) (bool, error) {
	puzzle, err := client.LoadPuzzle(ctx, id)
	if err != nil {
		return false, err
	}
	p, err := puzzle.Position()
	if err != nil {
		return false, err
	}

	start := time.Now()
	move, ok := e.BestMove(ctx, p)
	if !ok {
		return false, fmt.Errorf("puzzle %s: no legal moves in %s", id, p.Fen())
	}

	expected := ""
	if len(puzzle.Solution) > 0 {
		expected = puzzle.Solution[0]
	}
	got := move.String()
	fmt.Printf("%s (%d) %s: engine %s, solution %s, %s\n", puzzle.ID, puzzle.Rating, p.Fen(), got, expected, time.Since(start).Round(time.Millisecond))
	return got == expected, nil
}
