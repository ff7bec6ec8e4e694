package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/grid"
	"github.com/gridrun/grid-runner-go/internal/live"
	"github.com/gridrun/grid-runner-go/internal/snapshot"
	"github.com/gridrun/grid-runner-go/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	ts := httptest.NewServer(NewServer(db, live.NewHub(log), log).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func validDoc(t *testing.T, playerName string) *snapshot.Document {
	t.Helper()
	e := engine.New(playerName, grid.Easy, rand.New(rand.NewSource(7)))
	return snapshot.Encode(e.Snapshot())
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) GameError {
	t.Helper()
	var gameErr GameError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&gameErr))
	resp.Body.Close()
	return gameErr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	doc := validDoc(t, "alice")

	resp := postJSON(t, ts.URL+"/api/v1/saves", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved SaveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	resp.Body.Close()
	assert.Equal(t, "alice", saved.PlayerName)
	assert.False(t, saved.LastSaved.IsZero())

	resp, err := http.Get(ts.URL + "/api/v1/saves/alice")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loaded snapshot.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loaded))
	resp.Body.Close()

	assert.Equal(t, doc.PlayerName, loaded.PlayerName)
	assert.Equal(t, doc.Difficulty, loaded.Difficulty)
	assert.Equal(t, doc.Player, loaded.Player)
	assert.Equal(t, doc.GridData, loaded.GridData)
	assert.Equal(t, saved.LastSaved.UTC(), loaded.LastSaved.UTC())
}

func TestSaveRejectsInvalidSnapshot(t *testing.T) {
	ts := newTestServer(t)

	doc := validDoc(t, "alice")
	doc.PlayerName = ""
	resp := postJSON(t, ts.URL+"/api/v1/saves", doc)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	gameErr := decodeError(t, resp)
	assert.Equal(t, ErrTypeValidation, gameErr.Type)
	assert.Contains(t, gameErr.Message, "playerName")

	resp, err := http.Post(ts.URL+"/api/v1/saves", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	gameErr = decodeError(t, resp)
	assert.Equal(t, ErrTypeValidation, gameErr.Type)
}

func TestLoadUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/saves/nobody")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	gameErr := decodeError(t, resp)
	assert.Equal(t, ErrTypeNotFound, gameErr.Type)
}

func TestListSaves(t *testing.T) {
	ts := newTestServer(t)

	for _, name := range []string{"alice", "bob"} {
		resp := postJSON(t, ts.URL+"/api/v1/saves", validDoc(t, name))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/v1/saves")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summaries []store.SaveSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	resp.Body.Close()
	assert.Len(t, summaries, 2)
}

func TestDeleteSave(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/saves", validDoc(t, "alice"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/saves/alice", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.DefaultClient.Do(req.Clone(req.Context()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{PlayerName: "alice", Difficulty: "medium"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	resp.Body.Close()

	_, err := uuid.Parse(sess.SessionID)
	assert.NoError(t, err, "session id must be a uuid")
	assert.Equal(t, "ongoing", sess.Outcome)
	require.NotNil(t, sess.State)
	assert.Equal(t, "alice", sess.State.PlayerName)
	assert.Equal(t, grid.Medium, sess.State.Difficulty)
	assert.Len(t, sess.State.GridData, grid.DefaultSide)
}

func TestCreateSessionValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{Difficulty: "easy"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeValidation, decodeError(t, resp).Type)

	resp = postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{PlayerName: "alice", Difficulty: "impossible"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrTypeValidation, decodeError(t, resp).Type)
}

func TestResumeSessionFromSave(t *testing.T) {
	ts := newTestServer(t)

	doc := validDoc(t, "alice")
	*doc.Player.Health = 61
	*doc.Game.TimeLeft = 33
	resp := postJSON(t, ts.URL+"/api/v1/saves", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{PlayerName: "alice", Resume: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	resp.Body.Close()

	assert.Equal(t, "ongoing", sess.Outcome)
	require.NotNil(t, sess.State)
	assert.Equal(t, 61, *sess.State.Player.Health)
	assert.Equal(t, 33, *sess.State.Game.TimeLeft)

	// resume with no save on file
	resp = postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{PlayerName: "ghost", Resume: true})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrTypeNotFound, decodeError(t, resp).Type)
}

func TestSessionSocket(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{PlayerName: "alice", Difficulty: "easy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/sessions/" + sess.SessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	type frame struct {
		Type    string             `json:"type"`
		Outcome string             `json:"outcome"`
		State   *snapshot.Document `json:"state"`
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var opening frame
	require.NoError(t, conn.ReadJSON(&opening))
	assert.Equal(t, "state", opening.Type)
	assert.Equal(t, "ongoing", opening.Outcome)
	require.NotNil(t, opening.State)
	require.NotNil(t, opening.State.Game.IsFPSView)
	assert.False(t, *opening.State.Game.IsFPSView)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "intent", "intent": "toggle_view"}))

	// clock-tick frames may interleave before the intent is applied
	toggled := false
	for i := 0; i < 10 && !toggled; i++ {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		require.Equal(t, "state", f.Type)
		require.NotNil(t, f.State)
		toggled = f.State.Game.IsFPSView != nil && *f.State.Game.IsFPSView
	}
	assert.True(t, toggled, "view toggle never reflected in a state frame")
}

func TestSessionSocketRejectsSecondConnection(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/sessions", SessionRequest{PlayerName: "alice", Difficulty: "easy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/sessions/" + sess.SessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// one clock per session: a second socket must not attach
	_, second, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, second)
	defer second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestSessionSocketUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/sessions/" + uuid.NewString() + "/ws")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}
