// internal/httpserver/server.go
//
// HTTP server wiring for the solver.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log, metrics).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/words".
//   - Stateless analysis: POST /analyze.
//   - Feedback generator: POST /score.
//   - Solving sessions: mounted under /session (see routes_session.go).
//
// All client input is validated here, once, before it reaches the solver.

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/metrics"
	"github.com/robalobadob/wordle/apps/go-solver/internal/session"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Options carries the settings the handlers need.
type Options struct {
	ClientOrigin string
	JWTSecret    string
	SessionTTL   time.Duration
	ResultLimit  int
	Timeout      time.Duration
}

// Server bundles router, solver engine, corpus and session store.
type Server struct {
	r      *chi.Mux
	engine *solver.Engine
	corpus words.Corpus
	store  store.Store
	opts   Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(engine *solver.Engine, corpus words.Corpus, st store.Store, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), engine: engine, corpus: corpus, store: st, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.Timeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","/metrics","POST /analyze","POST /score","/session/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.corpus.Stats())
	})
	s.r.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.r.Post("/analyze", s.handleAnalyze)
	s.r.Post("/score", s.handleScore)
	s.mountSession(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs each request with zerolog and counts it by route pattern.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveRequest(route, status)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ helpers ------------------------------------

// writeJSON buffers the body; a value that cannot be encoded answers 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorRes struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var le *feedback.LengthError
	switch {
	case errors.As(err, &le):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "length_mismatch", Detail: err.Error()})
	case errors.Is(err, feedback.ErrInvalidLetter),
		errors.Is(err, feedback.ErrInvalidState),
		errors.Is(err, feedback.ErrUnresolvedState),
		errors.Is(err, feedback.ErrEmptyGuess):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_tile", Detail: err.Error()})
	case errors.Is(err, solver.ErrNoLength),
		errors.Is(err, solver.ErrBadLength),
		errors.Is(err, solver.ErrBadExclusion),
		errors.Is(err, session.ErrBadLength),
		errors.Is(err, session.ErrBadPosition),
		errors.Is(err, session.ErrExcludesFixed):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_request", Detail: err.Error()})
	case errors.Is(err, session.ErrFull):
		writeJSON(w, http.StatusConflict, errorRes{Error: "session_full", Detail: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorRes{Error: "not_found"})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeJSON(w, http.StatusServiceUnavailable, errorRes{Error: "timeout"})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "internal"})
	}
}

// guessPayload is one round as sent by clients: either per-letter states
// or a compact g/y/b pattern.
type guessPayload struct {
	Word    string   `json:"word"`
	States  []string `json:"states,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

func (p guessPayload) record(wantLen int) (feedback.GuessRecord, error) {
	if p.Pattern != "" && len(p.States) == 0 {
		g, err := feedback.ParsePattern(p.Word, p.Pattern)
		if err != nil {
			return nil, err
		}
		if wantLen != 0 && len(g) != wantLen {
			return nil, &feedback.LengthError{Got: len(g), Want: wantLen}
		}
		return g, nil
	}
	return feedback.NewGuess(p.Word, p.States, wantLen)
}

// analysisRes is shared by /analyze and the session endpoints.
type analysisRes struct {
	*solver.Result
	Empty bool `json:"empty"`
}

func newAnalysisRes(r *solver.Result) analysisRes {
	return analysisRes{Result: r, Empty: r.Empty()}
}

// ------------------------------ ANALYZE ------------------------------------

type analyzeReq struct {
	Guesses    []guessPayload            `json:"guesses"`
	Length     int                       `json:"length"`
	Exclusions map[feedback.Letter][]int `json:"exclusions"`
	Limit      *int                      `json:"limit"`
}

// handleAnalyze runs a stateless analysis over the supplied history.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Detail: err.Error()})
		return
	}

	wantLen := req.Length
	history := make([]feedback.GuessRecord, 0, len(req.Guesses))
	for i, p := range req.Guesses {
		g, err := p.record(wantLen)
		if err != nil {
			log.Debug().Err(err).Int("guess", i).Msg("rejected guess")
			writeError(w, err)
			return
		}
		if wantLen == 0 {
			wantLen = len(g)
		}
		history = append(history, g)
	}

	res, err := s.engine.Analyze(r.Context(), solver.Request{
		History:    history,
		Length:     req.Length,
		Exclusions: req.Exclusions,
		Limit:      s.limit(req.Limit),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnalysisRes(res))
}

// limit resolves the requested result limit against the configured default.
func (s *Server) limit(requested *int) int {
	if requested != nil {
		return *requested
	}
	return s.opts.ResultLimit
}

// ------------------------------- SCORE -------------------------------------

type scoreReq struct {
	Answer string `json:"answer"`
	Guess  string `json:"guess"`
}

type scoreRes struct {
	Tiles   feedback.GuessRecord `json:"tiles"`
	Pattern string               `json:"pattern"`
	Solved  bool                 `json:"solved"`
}

// handleScore evaluates a guess against a known answer.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Detail: err.Error()})
		return
	}
	g, err := feedback.Score(req.Answer, req.Guess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreRes{Tiles: g, Pattern: g.Pattern(), Solved: g.Solved()})
}
