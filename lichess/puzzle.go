package lichess

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/notnil/chess"

	"github.com/Tomyyy-1337/LichessBot/engine"
)

type Puzzle struct {
	ID         string
	GameID     string
	Rating     int
	Themes     []string
	InitialPly int

	// Game moves from the standard start position up to the puzzle, in SAN.
	Moves []string
	// Expected answer, in UCI.
	Solution []string
}

type puzzleResponse struct {
	Game struct {
		ID  string `json:"id"`
		Pgn string `json:"pgn"`
	} `json:"game"`
	Puzzle struct {
		ID         string   `json:"id"`
		Rating     int      `json:"rating"`
		Solution   []string `json:"solution"`
		Themes     []string `json:"themes"`
		InitialPly int      `json:"initialPly"`
	} `json:"puzzle"`
}

// LoadPuzzle fetches a puzzle by id. Unknown ids give an error matching ErrNotFound.
func (c *Client) LoadPuzzle(ctx context.Context, id string) (*Puzzle, error) {
	req, err := c.newRequest(ctx, "GET", "/api/puzzle/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	res := puzzleResponse{}
	err = c.doJSONRequest(req, &res)
	if err != nil {
		return nil, fmt.Errorf("loading puzzle %s: %w", id, err)
	}

	return &Puzzle{
		ID:         res.Puzzle.ID,
		GameID:     res.Game.ID,
		Rating:     res.Puzzle.Rating,
		Themes:     res.Puzzle.Themes,
		InitialPly: res.Puzzle.InitialPly,
		Moves:      sanMoves(res.Game.Pgn),
		Solution:   res.Puzzle.Solution,
	}, nil
}

// Split a bare PGN move list into SAN moves, dropping move numbers and results.
func sanMoves(pgn string) []string {
	var moves []string
	for _, token := range strings.Fields(pgn) {
		if strings.HasSuffix(token, ".") {
			continue
		}
		switch token {
		case "1-0", "0-1", "1/2-1/2", "*":
			continue
		}
		moves = append(moves, token)
	}
	return moves
}

// Game replays the puzzle moves from the start position. Illegal move lists are rejected.
func (p *Puzzle) Game() (*chess.Game, error) {
	game := chess.NewGame()
	for i, san := range p.Moves {
		err := game.MoveStr(san)
		if err != nil {
			return nil, fmt.Errorf("puzzle %s: move %d (%s): %w", p.ID, i+1, san, err)
		}
	}
	return game, nil
}

// Position is the position the puzzle asks to solve.
func (p *Puzzle) Position() (engine.Position, error) {
	game, err := p.Game()
	if err != nil {
		return engine.Position{}, err
	}
	return engine.ParsePosition(game.FEN())
}
