// Package server exposes the engine's root move evaluation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Tomyyy-1337/LichessBot/engine"
)

const DefaultRequestTimeout = 30 * time.Second

type Evaluator interface {
	EvaluateMoves(ctx context.Context, p engine.Position) []engine.MoveScore
}

type Server struct {
	evaluator Evaluator
	logger    zerolog.Logger
}

type moveDTO struct {
	Move  string       `json:"move"`
	Score engine.Score `json:"score"` // opponent's eval after the move, lower is better for us
	Depth int          `json:"depth"`
	Nodes uint64       `json:"nodes"`
}

type bestMoveResponse struct {
	Fen    string   `json:"fen"`
	Status string   `json:"status"`
	Move   *moveDTO `json:"move"`
}

type evaluateResponse struct {
	Fen    string    `json:"fen"`
	Status string    `json:"status"`
	Moves  []moveDTO `json:"moves"`
}

// New returns the router. Requests taking longer than timeout are cut off.
func New(evaluator Evaluator, timeout time.Duration) http.Handler {
	s := &Server{
		evaluator: evaluator,
		logger:    log.With().Str("component", "server").Logger(),
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/bestmove", s.bestMove)
	r.Get("/evaluate", s.evaluate)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("request-id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

var errMissingFen = errors.New("missing fen parameter")

// Read the fen query parameter. The engine never sees a FEN that chess could not parse.
func parsePosition(r *http.Request) (engine.Position, string, error) {
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		return engine.Position{}, "", errMissingFen
	}
	p, err := engine.ParsePosition(fen)
	return p, fen, err
}

// Scores sorted best first. Equal scores keep generation order.
func rankMoves(scores []engine.MoveScore) []moveDTO {
	ranked := slices.Clone(scores)
	slices.SortStableFunc(ranked, func(a, b engine.MoveScore) int {
		return int(a.Score) - int(b.Score)
	})
	return lo.Map(ranked, func(ms engine.MoveScore, _ int) moveDTO {
		return moveDTO{Move: ms.Move.String(), Score: ms.Score, Depth: ms.Depth, Nodes: ms.Nodes}
	})
}

func (s *Server) bestMove(w http.ResponseWriter, r *http.Request) {
	p, fen, err := parsePosition(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res := bestMoveResponse{Fen: fen, Status: p.Status().String()}
	best, ok := engine.Best(s.evaluator.EvaluateMoves(r.Context(), p))
	if ok {
		res.Move = &moveDTO{Move: best.Move.String(), Score: best.Score, Depth: best.Depth, Nodes: best.Nodes}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	p, fen, err := parsePosition(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		Fen:    fen,
		Status: p.Status().String(),
		Moves:  rankMoves(s.evaluator.EvaluateMoves(r.Context(), p)),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
