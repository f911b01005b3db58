package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Tomyyy-1337/LichessBot/engine"
)

var VersionString = "0.1 " + runtime.GOOS + "-" + runtime.GOARCH

const minThinkTime = 10 * time.Millisecond

type uciDriver struct {
	cfg      engine.Config
	engine   *engine.Engine
	position engine.Position
	out      io.Writer
}

func newUCIDriver(cfg engine.Config, out io.Writer) *uciDriver {
	return &uciDriver{
		cfg:      cfg,
		engine:   engine.NewEngine(cfg),
		position: engine.StartPosition(),
		out:      out,
	}
}

func (d *uciDriver) println(a ...any) {
	fmt.Fprintln(d.out, a...)
}

// Read commands until quit or end of input. Searches run to completion before the next
// command is read, so stop is a no-op.
func (d *uciDriver) loop(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			d.println("id name LichessBot", VersionString)
			d.println("id author Tomyyy")
			d.println("option name ThinkTime type spin default", d.cfg.ThinkTime.Milliseconds(), "min 1 max 60000")
			d.println("option name StartDepth type spin default", d.cfg.StartDepth, "min", engine.MinDepth, "max", engine.MaxDepth)
			d.println("option name MaxDepth type spin default", d.cfg.MaxDepth, "min 0 max", engine.MaxDepth)
			d.println("option name Workers type spin default", d.cfg.Workers, "min 1 max 1024")
			d.println("uciok")
		case "isready":
			d.println("readyok")
		case "ucinewgame":
			// reset the board, in case the GUI skips 'position' after 'newgame'
			d.position = engine.StartPosition()
		case "quit":
			return
		case "stop":
		case "setoption":
			d.setOption(tokens)
		case "position":
			d.setPosition(tokens)
		case "go":
			d.goSearch(ctx, tokens)
		case "bench":
			d.bench(tokens)
		case "d":
			d.println("info string fen", d.position.Fen())
		default:
			d.println("info string Unknown command:", line)
		}
	}
}

func (d *uciDriver) setOption(tokens []string) {
	if len(tokens) != 5 || tokens[1] != "name" || tokens[3] != "value" {
		d.println("info string Malformed setoption command")
		return
	}
	res, err := strconv.Atoi(tokens[4])
	if err != nil {
		d.println("info string", tokens[2], "value is not an int (", err, ")")
		return
	}
	switch strings.ToLower(tokens[2]) {
	case "thinktime":
		d.cfg.ThinkTime = time.Duration(res) * time.Millisecond
	case "startdepth":
		d.cfg.StartDepth = res
	case "maxdepth":
		d.cfg.MaxDepth = res
	case "workers":
		d.cfg.Workers = res
	default:
		d.println("info string Unknown UCI option", tokens[2])
		return
	}
	d.engine = engine.NewEngine(d.cfg)
}

func (d *uciDriver) setPosition(tokens []string) {
	if len(tokens) < 2 {
		d.println("info string Malformed position command")
		return
	}

	i := 2
	switch strings.ToLower(tokens[1]) {
	case "startpos":
		d.position = engine.StartPosition()
	case "fen":
		for i < len(tokens) && strings.ToLower(tokens[i]) != "moves" {
			i++
		}
		if i == 2 {
			d.println("info string Invalid fen position")
			return
		}
		p, err := engine.ParsePosition(strings.Join(tokens[2:i], " "))
		if err != nil {
			d.println("info string Invalid fen position:", err)
			return
		}
		d.position = p
	default:
		d.println("info string Invalid position subcommand")
		return
	}

	if i >= len(tokens) || strings.ToLower(tokens[i]) != "moves" {
		return
	}
	for _, moveStr := range tokens[i+1:] {
		moveStr = strings.ToLower(moveStr)
		move, ok := findLegal(d.position, moveStr)
		if !ok {
			d.println("info string Move", moveStr, "not found for position", d.position.Fen())
			return
		}
		d.position = d.position.Apply(move)
	}
}

func findLegal(p engine.Position, uci string) (engine.Move, bool) {
	for _, move := range p.LegalMoves() {
		if move.String() == uci {
			return move, true
		}
	}
	return engine.NoMove, false
}

// Parse the go command. A movetime or clock shrinks the think time so that the whole root
// split fits the budget; otherwise the configured think time is used.
func (d *uciDriver) goSearch(ctx context.Context, tokens []string) {
	var wtime, btime, winc, binc, movetime int
	for i := 1; i < len(tokens); i++ {
		var target *int
		switch strings.ToLower(tokens[i]) {
		case "wtime":
			target = &wtime
		case "btime":
			target = &btime
		case "winc":
			target = &winc
		case "binc":
			target = &binc
		case "movetime":
			target = &movetime
		case "infinite":
			continue
		default:
			d.println("info string Unknown go subcommand", tokens[i])
			continue
		}
		if i+1 >= len(tokens) {
			d.println("info string Malformed go command option", tokens[i])
			break
		}
		i++
		value, err := strconv.Atoi(tokens[i])
		if err != nil {
			d.println("info string Malformed go command option; could not convert", tokens[i-1])
			continue
		}
		*target = value
	}

	e := d.engine
	allowed := movetime
	if allowed == 0 && wtime != 0 && btime != 0 {
		if d.position.SideToMove() == engine.White {
			allowed = uciCalculateAllowedTimeMs(wtime, winc)
		} else {
			allowed = uciCalculateAllowedTimeMs(btime, binc)
		}
	}
	if allowed > 0 {
		cfg := d.cfg
		cfg.ThinkTime = thinkTimeFor(time.Duration(allowed)*time.Millisecond, len(d.position.LegalMoves()), e.Config().Workers)
		e = engine.NewEngine(cfg)
	}

	d.search(ctx, e)
}

// Simple strategy - use 1/16th of the remaining time
func uciCalculateAllowedTimeMs(ourtimeMs int, ourincMs int) int {
	result := ourtimeMs / 16
	if result <= 0 {
		return ourincMs
	}
	return result
}

// Per root move budget: root moves run in waves of one per worker, and the last depth of
// each may overshoot by about as much again.
func thinkTimeFor(allowed time.Duration, moves int, workers int) time.Duration {
	if moves == 0 {
		return minThinkTime
	}
	waves := (moves + workers - 1) / workers
	return max(allowed/time.Duration(2*waves), minThinkTime)
}

func (d *uciDriver) search(ctx context.Context, e *engine.Engine) {
	start := time.Now()
	scores := e.EvaluateMoves(ctx, d.position)
	best, ok := engine.Best(scores)
	elapsed := time.Since(start)
	if !ok {
		d.println("info string no legal moves,", d.position.Status())
		d.println("bestmove 0000")
		return
	}

	var nodes uint64
	for _, ms := range scores {
		nodes += ms.Nodes
	}
	nps := uint64(float64(nodes) / max(elapsed.Seconds(), 1e-9))
	// Score is the opponent's eval after our move
	d.println("info depth", best.Depth, "score cp", -best.Score, "nodes", nodes,
		"time", elapsed.Milliseconds(), "nps", nps, "pv", best.Move.String())
	d.println("bestmove", best.Move.String())
}

// Compare plain negamax with alpha-beta at a fixed depth on the current position.
func (d *uciDriver) bench(tokens []string) {
	depth := 4
	if len(tokens) > 1 {
		res, err := strconv.Atoi(tokens[1])
		if err != nil || res < engine.MinDepth {
			d.println("info string bench depth must be a positive int")
			return
		}
		depth = res
	}

	start := time.Now()
	mm := engine.NewSearch(nil)
	mmEval := mm.NegaMax(d.position, 0, depth)
	mmTime := time.Since(start)

	start = time.Now()
	ab := engine.NewSearch(nil)
	abEval := ab.NegAlphaBeta(d.position, 0, depth, engine.MinScore, engine.MaxScore)
	abTime := time.Since(start)

	d.println("info string negamax depth", depth, "eval", mmEval, "nodes", mm.Stats().Nodes, "time", mmTime.Milliseconds())
	d.println("info string alphabeta depth", depth, "eval", abEval, "nodes", ab.Stats().Nodes,
		"cuts", engine.PerC(ab.Stats().CutNodes, ab.Stats().NonLeafs),
		"1st-child-cuts", engine.PerC(ab.Stats().FirstChildCuts, ab.Stats().CutNodes),
		"time", abTime.Milliseconds())
	if mmEval != abEval {
		d.println("info string bench MISMATCH")
	}
}
