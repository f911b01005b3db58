// CPU profile of a single iterative deepening search from the start position.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"

	"github.com/Tomyyy-1337/LichessBot/config"
	"github.com/Tomyyy-1337/LichessBot/engine"
)

func main() {
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	cfg.SetupLogging()

	p := engine.StartPosition()
	if len(cfg.Args) > 0 {
		p, err = engine.ParsePosition(cfg.Args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("bad-fen")
		}
	}

	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	fmt.Println("Starting...")

	e := engine.NewEngine(cfg.EngineConfig())
	start := time.Now()
	moves := e.EvaluateMoves(context.Background(), p)
	elapsed := time.Since(start)

	best, ok := engine.Best(moves)
	if !ok {
		fmt.Println("bestmove 0000")
		return
	}
	var nodes uint64
	for _, m := range moves {
		nodes += m.Nodes
	}
	fmt.Println("info depth", best.Depth, "score cp", -best.Score, "nodes", nodes, "time", elapsed.Milliseconds(), "nps", uint64(float64(nodes)/elapsed.Seconds()), "pv", best.Move.String())
	fmt.Println("bestmove", best.Move.String())
}
