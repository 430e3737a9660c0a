// internal/httpserver/routes_session.go
//
// Solving sessions: a stored guess history that grows one round at a time.
// The token returned by /session/new (and set as a cookie) carries the
// session ID; every other route resolves it through requireSession.

package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/session"
)

func (s *Server) mountSession(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/new", s.handleSessionNew)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleSessionGet)
			r.Post("/guess", s.handleSessionGuess)
			r.Post("/exclude", s.handleSessionExclude)
			r.Delete("/", s.handleSessionDelete)
		})
	})
}

type sessionView struct {
	Session     *session.Session `json:"session"`
	Solved      bool             `json:"solved"`
	Fingerprint string           `json:"fingerprint"`
	Analysis    analysisRes      `json:"analysis"`
}

// view analyzes the session's current history.
func (s *Server) view(r *http.Request, sess *session.Session, limit int) (*sessionView, error) {
	res, err := s.engine.Analyze(r.Context(), sess.Request(limit))
	if err != nil {
		return nil, err
	}
	return &sessionView{
		Session:     sess,
		Solved:      sess.Solved(),
		Fingerprint: sess.Fingerprint(),
		Analysis:    newAnalysisRes(res),
	}, nil
}

// ------------------------------- NEW ---------------------------------------

type sessionNewReq struct {
	Length  int            `json:"length"`
	Guesses []guessPayload `json:"guesses"`
	Limit   *int           `json:"limit"`
}

type sessionNewRes struct {
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	State     *sessionView `json:"state"`
}

func (s *Server) handleSessionNew(w http.ResponseWriter, r *http.Request) {
	var req sessionNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Detail: err.Error()})
		return
	}
	length := req.Length
	if length == 0 && len(req.Guesses) > 0 {
		length = len(req.Guesses[0].Word)
	}
	sess, err := session.New(length)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, p := range req.Guesses {
		g, err := p.record(sess.Length)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := sess.AddGuess(g); err != nil {
			writeError(w, err)
			return
		}
	}

	v, err := s.view(r, sess, s.limit(req.Limit))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	token, exp, err := s.signToken(sess.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, token, exp)
	log.Info().Str("session", sess.ID).Int("length", sess.Length).Msg("session created")
	writeJSON(w, http.StatusCreated, sessionNewRes{SessionID: sess.ID, Token: token, ExpiresAt: exp, State: v})
}

// ------------------------------- GET ---------------------------------------

// handleSessionGet returns the current analysis. The ETag covers the
// session evidence and the limit, so unchanged sessions answer 304.
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	limit := s.opts.ResultLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_request", Detail: "limit must be an integer"})
			return
		}
		limit = n
	}

	etag := fmt.Sprintf(`"%s-%d"`, sess.Fingerprint(), limit)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	v, err := s.view(r, sess, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ------------------------------ GUESS --------------------------------------

type sessionGuessReq struct {
	guessPayload
	Limit *int `json:"limit"`
}

func (s *Server) handleSessionGuess(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var req sessionGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Detail: err.Error()})
		return
	}
	g, err := req.record(sess.Length)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := sess.AddGuess(g); err != nil {
		writeError(w, err)
		return
	}
	s.saveAndView(w, r, sess, req.Limit)
}

// ----------------------------- EXCLUDE -------------------------------------

type sessionExcludeReq struct {
	Letter    feedback.Letter `json:"letter"`
	Positions []int           `json:"positions"`
	Limit     *int            `json:"limit"`
}

func (s *Server) handleSessionExclude(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var req sessionExcludeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Detail: err.Error()})
		return
	}
	if req.Letter == 0 || len(req.Positions) == 0 {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_request", Detail: "letter and positions are required"})
		return
	}
	if err := sess.Exclude(req.Letter, req.Positions...); err != nil {
		writeError(w, err)
		return
	}
	s.saveAndView(w, r, sess, req.Limit)
}

func (s *Server) saveAndView(w http.ResponseWriter, r *http.Request, sess *session.Session, limit *int) {
	v, err := s.view(r, sess, s.limit(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("ETag", fmt.Sprintf(`"%s-%d"`, v.Fingerprint, s.limit(limit)))
	writeJSON(w, http.StatusOK, v)
}

// ------------------------------ DELETE -------------------------------------

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, err)
		return
	}
	clearSessionCookie(w)
	log.Info().Str("session", sess.ID).Msg("session deleted")
	w.WriteHeader(http.StatusNoContent)
}
