package httpserver

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/rank"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	corpus := words.FromWords("raise", "rathe", "arose", "earns", "crane", "cloud", "flood", "ghoul")
	st := store.NewMemoryStore()
	s := New(solver.New(corpus), corpus, st, Options{
		ClientOrigin: "http://example.test",
		JWTSecret:    "test-secret",
		SessionTTL:   time.Hour,
	})
	return s, st
}

func do(t *testing.T, s *Server, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type analysisBody struct {
	Length    int `json:"length"`
	Solutions []struct {
		Word  string  `json:"word"`
		Score float64 `json:"score"`
	} `json:"solutions"`
	Considered int  `json:"considered"`
	Survivors  int  `json:"survivors"`
	Empty      bool `json:"empty"`
}

func (a analysisBody) words() []string {
	out := make([]string, len(a.Solutions))
	for i, s := range a.Solutions {
		out[i] = s.Word
	}
	return out
}

func TestHealthAndCORS(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, "http://example.test", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = do(t, s, http.MethodOptions, "/analyze", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestNotFoundIsJSON(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not_found","path":"/nope"}`, rr.Body.String())
}

func TestAnalyze(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"guesses":[{"word":"crane","states":["absent","present","present","absent","correct"]}]}`
	rr := do(t, s, http.MethodPost, "/analyze", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	res := decode[analysisBody](t, rr)
	assert.Equal(t, 5, res.Length)
	assert.Equal(t, 5, res.Considered)
	assert.ElementsMatch(t, []string{"raise", "rathe"}, res.words())
	assert.False(t, res.Empty)
}

func TestAnalyzePatternAndExclusions(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"guesses":[{"word":"CRANE","pattern":"byybg"}],"exclusions":{"r":[0]}}`
	rr := do(t, s, http.MethodPost, "/analyze", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[analysisBody](t, rr)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Solutions)
}

func TestAnalyzeRejectsMalformedInput(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"bad json", `{"guesses":`, "bad_json"},
		{"bad letter", `{"guesses":[{"word":"cr4ne","pattern":"bbbbb"}]}`, "invalid_tile"},
		{"bad state", `{"guesses":[{"word":"ab","states":["correct","purple"]}]}`, "invalid_tile"},
		{"unresolved state", `{"guesses":[{"word":"ab","states":["correct","unknown"]}]}`, "invalid_tile"},
		{"length mismatch", `{"guesses":[{"word":"crane","pattern":"bbbbb"},{"word":"able","pattern":"bbbb"}]}`, "length_mismatch"},
		{"declared length", `{"length":4,"guesses":[{"word":"crane","pattern":"bbbbb"}]}`, "length_mismatch"},
		{"no length", `{"guesses":[]}`, "invalid_request"},
		{"bad exclusion", `{"length":5,"exclusions":{"a":[7]}}`, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, http.MethodPost, "/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, decode[errorRes](t, rr).Error)
		})
	}
}

func TestScore(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodPost, "/score", `{"answer":"robot","guess":"spool"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[scoreRes](t, rr)
	assert.Equal(t, "bbygb", res.Pattern)
	assert.False(t, res.Solved)
	assert.Len(t, res.Tiles, 5)

	rr = do(t, s, http.MethodPost, "/score", `{"answer":"robot","guess":"spo"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDebugWords(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/debug/words", "")
	require.Equal(t, http.StatusOK, rr.Code)
	st := decode[words.Stats](t, rr)
	assert.Equal(t, 8, st.Words)
	assert.Equal(t, 8, st.ByLength[5])
	assert.Equal(t, []int{5}, st.Lengths)
}

// nanCorpus serves candidates whose frequency is not a number.
type nanCorpus struct{}

func (nanCorpus) Candidates(length int) []rank.Candidate {
	if length != 5 {
		return nil
	}
	return []rank.Candidate{{Word: "raise", Frequency: math.NaN()}, {Word: "rathe", Frequency: 3}}
}

func (nanCorpus) Stats() words.Stats { return words.Stats{Words: 2, ByLength: map[int]int{5: 2}} }

func TestAnalyzeWithNaNFrequencyStaysEncodable(t *testing.T) {
	s := New(solver.New(nanCorpus{}), nanCorpus{}, store.NewMemoryStore(), Options{JWTSecret: "x"})
	rr := do(t, s, http.MethodPost, "/analyze", `{"guesses":[{"word":"crane","pattern":"byybg"}],"limit":-1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[analysisBody](t, rr)
	assert.Equal(t, 2, res.Survivors)
	for _, sol := range res.Solutions {
		assert.True(t, sol.Score >= 0 && sol.Score <= rank.MaxScore, "%s scored %v", sol.Word, sol.Score)
	}
}

func TestWriteJSONUnencodableIsServerError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]float64{"score": math.NaN()})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal"}`, rr.Body.String())
}

type sessionBody struct {
	Solved      bool         `json:"solved"`
	Fingerprint string       `json:"fingerprint"`
	Analysis    analysisBody `json:"analysis"`
}

func TestSessionLifecycle(t *testing.T) {
	s, st := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/session/new", `{"length":5}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[struct {
		SessionID string      `json:"sessionId"`
		Token     string      `json:"token"`
		State     sessionBody `json:"state"`
	}](t, rr)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, 8, created.State.Analysis.Survivors)
	assert.NotEmpty(t, rr.Result().Cookies())
	auth := "Bearer " + created.Token

	rr = do(t, s, http.MethodPost, "/session/guess", `{"word":"crane","pattern":"byybg"}`, "Authorization", auth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	afterGuess := decode[sessionBody](t, rr)
	assert.ElementsMatch(t, []string{"raise", "rathe"}, afterGuess.Analysis.words())
	assert.False(t, afterGuess.Solved)

	// Stored history reflects the guess.
	stored, err := st.Get(context.Background(), created.SessionID)
	require.NoError(t, err)
	assert.Len(t, stored.History, 1)

	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", auth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.True(t, strings.Contains(etag, afterGuess.Fingerprint))

	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", auth, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rr.Code)

	rr = do(t, s, http.MethodPost, "/session/exclude", `{"letter":"R","positions":[0]}`, "Authorization", auth)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	afterExclude := decode[sessionBody](t, rr)
	assert.True(t, afterExclude.Analysis.Empty)
	assert.NotEqual(t, afterGuess.Fingerprint, afterExclude.Fingerprint)

	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", auth, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, rr.Code, "evidence changed so the old ETag no longer matches")

	rr = do(t, s, http.MethodDelete, "/session", "", "Authorization", auth)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", auth)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionRejectsMismatchedGuess(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodPost, "/session/new", `{"guesses":[{"word":"crane","pattern":"byybg"}]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	token := decode[struct {
		Token string `json:"token"`
	}](t, rr).Token

	rr = do(t, s, http.MethodPost, "/session/guess", `{"word":"able","pattern":"bbbb"}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "length_mismatch", decode[errorRes](t, rr).Error)

	rr = do(t, s, http.MethodPost, "/session/exclude", `{"letter":"R","positions":[9]}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, s, http.MethodPost, "/session/exclude", `{"letter":"E","positions":[4]}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_request", decode[errorRes](t, rr).Error)
}

func TestSessionRequiresValidToken(t *testing.T) {
	s, _ := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_token", decode[errorRes](t, rr).Error)

	other := New(solver.New(words.FromWords()), words.FromWords(), store.NewMemoryStore(), Options{JWTSecret: "other"})
	forged, _, err := other.signToken("some-id")
	require.NoError(t, err)
	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Valid signature, unknown session.
	valid, _, err := s.signToken("missing")
	require.NoError(t, err)
	rr = do(t, s, http.MethodGet, "/session", "", "Authorization", "Bearer "+valid)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "session_expired", decode[errorRes](t, rr).Error)
}

func TestSessionNewRejectsBadLength(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodPost, "/session/new", `{"length":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(t, s, http.MethodPost, "/session/new", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
