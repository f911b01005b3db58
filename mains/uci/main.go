// Minimal UCI driver for the engine. Logs go to stderr so they stay out of the protocol.

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Tomyyy-1337/LichessBot/config"
)

func main() {
	cfg := &config.Config{}
	err := cfg.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	cfg.SetupLogging()

	newUCIDriver(cfg.EngineConfig(), os.Stdout).loop(context.Background(), os.Stdin)
}
