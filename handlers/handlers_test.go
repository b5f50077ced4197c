package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/routes"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var secret = []byte("handlers-test-secret")

type apiFixture struct {
	router http.Handler
	hub    *brackets.Hub
	token  string
}

func newAPI(t *testing.T, limiter *middleware.IPRateLimiter) *apiFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := brackets.NewHub(logger)
	go hub.Run(ctx)

	store := repositories.NewMemoryStore()
	svc := services.NewBracketService(store.Tournaments(), store.Participants(), hub, nil, nil, logger,
		services.Config{MaxWriteRetries: services.DefaultMaxWriteRetries})

	router := chi.NewRouter()
	routes.SetupRoutes(router,
		routes.Options{JWTSecret: secret, ResultLimiter: limiter},
		handlers.NewTournamentHandler(svc),
		handlers.NewParticipantHandler(svc),
		handlers.NewMatchHandler(svc),
		handlers.NewWebSocketHandler(hub, svc, nil, logger),
	)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "organizer-1",
		"role":    "organizer",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	return &apiFixture{router: router, hub: hub, token: token}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, auth bool) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:4000"
	if auth {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// seedTournament creates a single elimination tournament with confirmed
// participants and a generated bracket.
func (f *apiFixture) seedTournament(t *testing.T, ids ...string) string {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/tournaments", map[string]interface{}{
		"name":   "Spring Cup",
		"format": "single_elimination",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tournament := decode[models.Tournament](t, env["tournament"])

	for _, id := range ids {
		rec, _ = f.do(t, http.MethodPost, "/tournaments/"+tournament.ID+"/participants",
			map[string]string{"id": id, "display_name": strings.ToUpper(id)}, true)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		rec, _ = f.do(t, http.MethodPatch, "/tournaments/"+tournament.ID+"/participants/"+id,
			map[string]string{"status": "confirmed"}, true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return tournament.ID
}

func TestTournamentLifecycle(t *testing.T) {
	f := newAPI(t, nil)

	rec, _ := f.do(t, http.MethodPost, "/tournaments", map[string]string{"name": "x", "format": "swiss"}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	id := f.seedTournament(t, "a", "b", "c", "d")
	base := "/tournaments/" + id

	rec, _ = f.do(t, http.MethodPost, base+"/participants", map[string]string{"id": "a"}, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = f.do(t, http.MethodGet, base+"/bracket", nil, false)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := f.do(t, http.MethodGet, base, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[models.Tournament](t, env["tournament"])
	assert.Len(t, view.Registrations, 4)
	assert.Equal(t, models.StatusRegistration, view.Status)

	rec, env = f.do(t, http.MethodPost, base+"/bracket", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	generated := decode[models.Tournament](t, env["tournament"])
	assert.Equal(t, models.StatusActive, generated.Status)
	require.NotNil(t, generated.Bracket)
	assert.Equal(t, 2, generated.Bracket.TotalRounds)

	rec, _ = f.do(t, http.MethodPost, base+"/bracket", nil, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = f.do(t, http.MethodPost, base+"/participants", map[string]string{"id": "late"}, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = f.do(t, http.MethodGet, base+"/bracket/current", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]brackets.PendingMatch](t, env["matches"])
	require.Len(t, pending, 2)
	assert.Equal(t, "R1M1", pending[0].Match.MatchID)

	for _, step := range []struct{ match, winner string }{{"R1M1", "a"}, {"R1M2", "d"}} {
		rec, _ = f.do(t, http.MethodPost, base+"/matches/"+step.match+"/result",
			map[string]interface{}{"round_number": 1, "winner_id": step.winner}, true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec, env = f.do(t, http.MethodPost, base+"/matches/R2M1/result", map[string]string{"winner_id": "d"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	final := decode[models.Tournament](t, env["tournament"])
	assert.Equal(t, models.StatusCompleted, final.Status)
	require.NotNil(t, final.Bracket.Winner)
	assert.Equal(t, "d", final.Bracket.Winner.ID)

	rec, env = f.do(t, http.MethodGet, base+"/standings", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	standings := decode[[]models.TournamentParticipant](t, env["standings"])
	require.Len(t, standings, 4)
	assert.Equal(t, "d", standings[0].ID)
	assert.Equal(t, "a", standings[1].ID)

	rec, env = f.do(t, http.MethodGet, "/tournaments?status=completed", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Tournament](t, env["tournaments"]), 1)
}

func TestErrorMapping(t *testing.T) {
	f := newAPI(t, nil)
	id := f.seedTournament(t, "a", "b", "c")
	base := "/tournaments/" + id

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		auth       bool
		wantStatus int
	}{
		{"malformed tournament id", http.MethodGet, "/tournaments/not-a-uuid", nil, false, http.StatusBadRequest},
		{"unknown tournament", http.MethodGet, "/tournaments/" + uuid.NewString(), nil, false, http.StatusNotFound},
		{"unknown format", http.MethodPost, "/tournaments", map[string]string{"name": "x", "format": "ladder"}, true, http.StatusBadRequest},
		{"unknown body key", http.MethodPost, "/tournaments", `{"name":"x","format":"swiss","prize":1}`, true, http.StatusBadRequest},
		{"bad list status", http.MethodGet, "/tournaments?status=archived", nil, false, http.StatusBadRequest},
		{"bad list limit", http.MethodGet, "/tournaments?limit=-1", nil, false, http.StatusBadRequest},
		{"unknown participant status", http.MethodPatch, base + "/participants/a", map[string]string{"status": "maybe"}, true, http.StatusBadRequest},
		{"unknown participant", http.MethodPatch, base + "/participants/zed", map[string]string{"status": "confirmed"}, true, http.StatusNotFound},
		{"result before bracket", http.MethodPost, base + "/matches/R1M1/result", map[string]string{"winner_id": "a"}, true, http.StatusConflict},
		{"result without token", http.MethodPost, base + "/matches/R1M1/result", map[string]string{"winner_id": "a"}, false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := f.do(t, tt.method, tt.path, tt.body, tt.auth)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, env, "error")
		})
	}
}

func TestMatchErrors(t *testing.T) {
	f := newAPI(t, nil)
	id := f.seedTournament(t, "a", "b", "c")
	base := "/tournaments/" + id

	rec, _ := f.do(t, http.MethodPost, base+"/bracket", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
	}{
		{"unknown match", base + "/matches/R9M9/result", map[string]string{"winner_id": "a"}, http.StatusNotFound},
		{"winner not in match", base + "/matches/R1M1/result", map[string]string{"winner_id": "c"}, http.StatusBadRequest},
		{"bye cannot be played", base + "/matches/R1M2/result", map[string]string{"winner_id": "c"}, http.StatusConflict},
		{"contested match is not a bye", base + "/matches/R1M1/bye", nil, http.StatusConflict},
		{"round mismatch", base + "/matches/R1M1/result", map[string]interface{}{"round_number": 2, "winner_id": "a"}, http.StatusNotFound},
		{"negative round", base + "/matches/R1M1/result", map[string]interface{}{"round_number": -1, "winner_id": "a"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := f.do(t, http.MethodPost, tt.path, tt.body, true)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec, env := f.do(t, http.MethodPost, base+"/matches/R1M2/bye", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	advanced := decode[models.Tournament](t, env["tournament"])
	assert.Equal(t, "c", advanced.Bracket.Rounds[1].Matches[0].Player1.ID)

	rec, _ = f.do(t, http.MethodPost, base+"/matches/R1M2/bye", nil, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResultSubmissionIsRateLimited(t *testing.T) {
	f := newAPI(t, middleware.NewIPRateLimiter(rate.Every(time.Hour), 1))
	id := f.seedTournament(t, "a", "b")
	base := "/tournaments/" + id

	rec, _ := f.do(t, http.MethodPost, base+"/bracket", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = f.do(t, http.MethodPost, base+"/matches/R1M1/result", map[string]string{"winner_id": "zzz"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPost, base+"/matches/R1M1/result", map[string]string{"winner_id": "a"}, true)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are not limited.
	rec, _ = f.do(t, http.MethodGet, base+"/bracket", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebSocketReceivesSnapshotAndUpdates(t *testing.T) {
	f := newAPI(t, nil)
	id := f.seedTournament(t, "a", "b", "c", "d")
	base := "/tournaments/" + id
	rec, _ := f.do(t, http.MethodPost, base+"/bracket", nil, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	read := func() brackets.WebSocketMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg brackets.WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, handlers.EventBracketSnapshot, read().Type)
	require.Eventually(t, func() bool {
		return f.hub.RoomSize(brackets.RoomForTournament(id)) == 1
	}, time.Second, 10*time.Millisecond)

	rec, _ = f.do(t, http.MethodPost, base+"/matches/R1M1/result", map[string]string{"winner_id": "a"}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	msg := read()
	assert.Equal(t, brackets.EventBracketUpdated, msg.Type)
	assert.Equal(t, brackets.RoomForTournament(id), msg.RoomID)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/tournaments/"+uuid.NewString(), nil)
	assert.Error(t, err, "unknown tournaments are rejected before the upgrade")
}
