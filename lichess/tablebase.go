package lichess

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/Tomyyy-1337/LichessBot/engine"
)

const unknownCategory = "unknown"

type TablebaseMove struct {
	Move     engine.Move
	UCI      string
	SAN      string
	DTZ      *int // nil when the tablebase does not know it
	Zeroing  bool
	Category string // win, loss, draw, ... from the opponent's point of view after the move
}

type tablebaseEntry struct {
	UCI      string `json:"uci"`
	SAN      string `json:"san"`
	DTZ      *int   `json:"dtz"`
	Zeroing  bool   `json:"zeroing"`
	Category string `json:"category"`
}

type tablebaseResponse struct {
	Category string           `json:"category"`
	Moves    []tablebaseEntry `json:"moves"`
}

// TablebaseDTZ looks the position up in the lichess endgame tablebase. Moves come back in
// the tablebase's order, best first; moves of unknown category are dropped.
func (c *Client) TablebaseDTZ(ctx context.Context, p engine.Position) ([]TablebaseMove, error) {
	fen := strings.ReplaceAll(p.Fen(), " ", "_")
	req, err := c.newHostRequest(ctx, c.tablebaseHost, "GET", "standard?fen="+url.QueryEscape(fen), nil)
	if err != nil {
		return nil, err
	}

	res := tablebaseResponse{}
	err = c.doJSONRequest(req, &res)
	if err != nil {
		return nil, fmt.Errorf("tablebase lookup: %w", err)
	}

	known := lo.Filter(res.Moves, func(m tablebaseEntry, _ int) bool {
		return m.Category != unknownCategory
	})

	moves := make([]TablebaseMove, 0, len(known))
	for _, m := range known {
		move, err := engine.ParseMove(m.UCI)
		if err != nil {
			return nil, fmt.Errorf("tablebase move %q: %w", m.UCI, err)
		}
		moves = append(moves, TablebaseMove{
			Move:     move,
			UCI:      m.UCI,
			SAN:      m.SAN,
			DTZ:      m.DTZ,
			Zeroing:  m.Zeroing,
			Category: m.Category,
		})
	}
	return moves, nil
}
