package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

type fakeTablebase struct {
	moves   []string
	err     error
	lookups int
}

func (ft *fakeTablebase) TablebaseDTZ(ctx context.Context, p engine.Position) ([]lichess.TablebaseMove, error) {
	ft.lookups++
	if ft.err != nil {
		return nil, ft.err
	}
	var moves []lichess.TablebaseMove
	for _, uci := range ft.moves {
		move, err := engine.ParseMove(uci)
		if err != nil {
			return nil, err
		}
		moves = append(moves, lichess.TablebaseMove{Move: move, UCI: uci, Category: "loss"})
	}
	return moves, nil
}

var rookEnding = "8/8/8/4k3/8/8/8/R3K3 w - - 0 1"

func TestMoveSourcePrefersTablebase(t *testing.T) {
	is := is.New(t)
	tb := &fakeTablebase{moves: []string{"a1a5", "e1e2"}}
	ms := NewMoveSource(firstMoveSearcher{}, tb, 0)

	move, ok := ms.Choose(context.Background(), engine.NewPosition(rookEnding))

	is.True(ok)
	is.Equal(move.String(), "a1a5")
	is.Equal(tb.lookups, 1)
}

func TestMoveSourceTooManyPieces(t *testing.T) {
	is := is.New(t)
	tb := &fakeTablebase{moves: []string{"e2e4"}}
	ms := NewMoveSource(firstMoveSearcher{}, tb, 7)

	move, ok := ms.Choose(context.Background(), engine.StartPosition())

	is.True(ok)
	is.Equal(move.String(), firstLegal(engine.StartPosition()))
	is.Equal(tb.lookups, 0)
}

func TestMoveSourceFallsBackToSearch(t *testing.T) {
	is := is.New(t)
	p := engine.NewPosition(rookEnding)

	for _, tb := range []*fakeTablebase{
		{err: errors.New("tablebase down")},
		{moves: nil},
		{moves: []string{"h1h8"}}, // not legal here
	} {
		ms := NewMoveSource(firstMoveSearcher{}, tb, 0)
		move, ok := ms.Choose(context.Background(), p)
		is.True(ok)
		is.Equal(move.String(), firstLegal(p))
		is.Equal(tb.lookups, 1)
	}
}

func TestMoveSourceWithoutTablebase(t *testing.T) {
	is := is.New(t)
	ms := NewMoveSource(firstMoveSearcher{}, nil, 0)
	p := engine.NewPosition(rookEnding)

	move, ok := ms.Choose(context.Background(), p)
	is.True(ok)
	is.Equal(move.String(), firstLegal(p))
}

func TestMoveSourceWithEngine(t *testing.T) {
	is := is.New(t)
	e := engine.NewEngine(engine.Config{ThinkTime: time.Hour, MaxDepth: 2, Workers: 2})
	ms := NewMoveSource(e, nil, 0)

	// hanging queen
	move, ok := ms.Choose(context.Background(), engine.NewPosition("4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1"))
	is.True(ok)
	is.Equal(move.String(), "d1d5")

	_, ok = ms.Choose(context.Background(), engine.NewPosition("2k5/8/8/8/8/1q6/r7/2K5 w - - 0 1"))
	is.True(!ok)
}
