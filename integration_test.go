package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"merge-tactics-server/api"
	"merge-tactics-server/catalog"
	"merge-tactics-server/config"
	"merge-tactics-server/modifier"
	"merge-tactics-server/session"
	"merge-tactics-server/ws"
)

// setupTestServer builds the full server stack without a persistence
// backend and returns an httptest server over it.
func setupTestServer(t *testing.T) (*httptest.Server, *config.Config, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cards := catalog.Builtin()
	mods := modifier.NewDefaultRegistry()
	sessions := session.NewManager(cfg, cards, mods)

	server := &api.Server{
		Config:   cfg,
		Sessions: sessions,
		Catalog:  cards,
		Mods:     mods,
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(sessions, server)
	server.Notify = hub.Broadcast
	go hub.Run(ctx)

	router := server.Router()
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	ts := httptest.NewServer(router)
	cleanup := func() {
		ts.Close()
		cancel()
	}
	return ts, cfg, cleanup
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("POST %s: status %d, body %v", path, resp.StatusCode, out)
	}
	return out
}

func getJSON(t *testing.T, ts *httptest.Server, path string) map[string]any {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("GET %s: status %d, body %v", path, resp.StatusCode, out)
	}
	return out
}

func stateOf(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	state, ok := out["state"].(map[string]any)
	if !ok {
		t.Fatalf("response has no state: %v", out)
	}
	return state
}

func TestStaticEndpoints(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	cards := getJSON(t, ts, "/api/cards")
	if got := int(cards["count"].(float64)); got != 20 {
		t.Errorf("card count = %d, want 20", got)
	}
	mods := getJSON(t, ts, "/api/modifiers")
	if got := int(mods["count"].(float64)); got != 27 {
		t.Errorf("modifier count = %d, want 27", got)
	}
	leaders := getJSON(t, ts, "/api/leaders")
	if got := len(leaders["leaders"].([]any)); got != 2 {
		t.Errorf("leader count = %d, want 2", got)
	}
}

func TestFullGameFlow(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	created := postJSON(t, ts, "/api/new_game", map[string]any{"leader": "Impératrice"})
	sessionID, _ := created["session_id"].(string)
	if sessionID == "" {
		t.Fatal("new_game returned no session_id")
	}
	state := stateOf(t, created)
	if got := int(state["elixir"].(float64)); got != 4 {
		t.Fatalf("starting elixir = %d, want 4", got)
	}
	if got := int(state["hp"].(float64)); got != 10 {
		t.Fatalf("starting hp = %d, want 10", got)
	}

	// Buy a 2-cost card; 4-2 = 2 elixir left.
	bought := postJSON(t, ts, "/api/buy_card", map[string]any{
		"session_id": sessionID, "card": "Chevalier",
	})
	state = stateOf(t, bought)
	if got := int(state["elixir"].(float64)); got != 2 {
		t.Errorf("elixir after buy = %d, want 2", got)
	}
	if got := len(state["bench"].([]any)); got != 1 {
		t.Errorf("bench size after buy = %d, want 1", got)
	}

	// Field it.
	moved := postJSON(t, ts, "/api/move_to_board", map[string]any{
		"session_id": sessionID, "card": "Chevalier",
	})
	state = stateOf(t, moved)
	if got := len(state["board"].([]any)); got != 1 {
		t.Errorf("board size after move = %d, want 1", got)
	}

	// Score a shop offer.
	recs := postJSON(t, ts, "/api/recommendations", map[string]any{
		"session_id": sessionID,
		"choices": []map[string]any{
			{"card": "Chevalier"},
			{"card": "Gobelins"},
		},
	})
	scores, ok := recs["scores"].([]any)
	if !ok || len(scores) != 2 {
		t.Fatalf("recommendations returned %v scores, want 2", recs["scores"])
	}
	top := scores[0].(map[string]any)["card"].(map[string]any)
	if top["name"] != "Chevalier" {
		t.Errorf("top recommendation = %v, want Chevalier (merge proximity)", top["name"])
	}

	// Lose a battle with 2 enemies left: -3 HP.
	fought := postJSON(t, ts, "/api/battle_result", map[string]any{
		"session_id": sessionID, "victory": false, "enemy_remaining": 2,
	})
	state = stateOf(t, fought)
	if got := int(state["hp"].(float64)); got != 7 {
		t.Errorf("hp after loss = %d, want 7", got)
	}
	if got := int(state["turn"].(float64)); got != 2 {
		t.Errorf("turn after loss = %d, want 2", got)
	}

	// End the turn explicitly: +4 income.
	advanced := postJSON(t, ts, "/api/advance_turn", map[string]any{"session_id": sessionID})
	state = stateOf(t, advanced)
	if got := int(state["turn"].(float64)); got != 3 {
		t.Errorf("turn after advance = %d, want 3", got)
	}
	if got := int(state["elixir"].(float64)); got != 10 {
		t.Errorf("elixir after advance = %d, want 10", got)
	}

	// State endpoint agrees with the command responses.
	fetched := getJSON(t, ts, "/api/game_state/"+sessionID)
	state = stateOf(t, fetched)
	if got := int(state["turn"].(float64)); got != 3 {
		t.Errorf("game_state turn = %d, want 3", got)
	}
}

func TestRecommendationOfferLevel(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	created := postJSON(t, ts, "/api/new_game", map[string]any{})
	sessionID := created["session_id"].(string)

	// Three Chevalier buys merge into a level-2 copy; field it.
	postJSON(t, ts, "/api/buy_card", map[string]any{"session_id": sessionID, "card": "Chevalier"})
	postJSON(t, ts, "/api/buy_card", map[string]any{"session_id": sessionID, "card": "Chevalier"})
	postJSON(t, ts, "/api/advance_turn", map[string]any{"session_id": sessionID})
	postJSON(t, ts, "/api/buy_card", map[string]any{"session_id": sessionID, "card": "Chevalier"})
	postJSON(t, ts, "/api/move_to_board", map[string]any{"session_id": sessionID, "card": "Chevalier", "level": 2})

	// A level-2 offer beside the level-2 board copy completes a pair; the
	// same card offered at level 1 does not.
	recs := postJSON(t, ts, "/api/recommendations", map[string]any{
		"session_id": sessionID,
		"choices": []map[string]any{
			{"card": "Chevalier", "level": 2},
			{"card": "Chevalier"},
		},
	})
	scores := recs["scores"].([]any)
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	fusionByLevel := map[int]float64{}
	for _, s := range scores {
		sm := s.(map[string]any)
		card := sm["card"].(map[string]any)
		terms := sm["terms"].(map[string]any)
		fusionByLevel[int(card["level"].(float64))] = terms["fusion_sell"].(float64)
	}
	if fusionByLevel[2] != 3.0 {
		t.Errorf("fusion_sell for level-2 offer = %v, want 3.0", fusionByLevel[2])
	}
	if fusionByLevel[1] != 0.0 {
		t.Errorf("fusion_sell for level-1 offer = %v, want 0", fusionByLevel[1])
	}
	top := scores[0].(map[string]any)["card"].(map[string]any)
	if got := int(top["level"].(float64)); got != 2 {
		t.Errorf("top offer level = %d, want 2", got)
	}
}

func TestRecommendationUsesSessionWeights(t *testing.T) {
	ts, cfg, cleanup := setupTestServer(t)
	defer cleanup()

	created := postJSON(t, ts, "/api/new_game", map[string]any{})
	sessionID := created["session_id"].(string)

	// Weight changes after the session exists must not leak into it.
	cfg.ScoreWeights.Cost = 100

	recs := postJSON(t, ts, "/api/recommendations", map[string]any{
		"session_id": sessionID,
		"choices":    []map[string]any{{"card": "Gobelins"}},
	})
	scores := recs["scores"].([]any)
	total := scores[0].(map[string]any)["total"].(float64)
	if total != -1.75 {
		t.Errorf("total = %v, want -1.75 from the session's own weights", total)
	}
}

func TestCommandErrors(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	created := postJSON(t, ts, "/api/new_game", map[string]any{})
	sessionID := created["session_id"].(string)

	cases := []struct {
		name   string
		path   string
		body   map[string]any
		status int
	}{
		{"unknown session", "/api/buy_card", map[string]any{"session_id": "nope", "card": "Chevalier"}, http.StatusNotFound},
		{"unknown card", "/api/buy_card", map[string]any{"session_id": sessionID, "card": "Dragon"}, http.StatusBadRequest},
		{"unaffordable", "/api/buy_card", map[string]any{"session_id": sessionID, "card": "Reine"}, http.StatusBadRequest},
		{"missing card", "/api/manual_merge", map[string]any{"session_id": sessionID, "card": "Chevalier"}, http.StatusBadRequest},
		{"bad zone", "/api/sell_card", map[string]any{"session_id": sessionID, "card": "Chevalier", "zone": "pocket"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		data, _ := json.Marshal(tc.body)
		resp, err := http.Post(ts.URL+tc.path, "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.status)
		}
	}
}

func TestAccountRoutesWithoutStore(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	data, _ := json.Marshal(map[string]any{"username": "a", "email": "a@b.c", "password": "x"})
	resp, err := http.Post(ts.URL+"/api/register", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("register without store: status = %d, want 503", resp.StatusCode)
	}
}

func TestWebSocketStateFeed(t *testing.T) {
	ts, _, cleanup := setupTestServer(t)
	defer cleanup()

	created := postJSON(t, ts, "/api/new_game", map[string]any{})
	sessionID := created["session_id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	readMsg := func() map[string]any {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read ws message: %v", err)
		}
		var out map[string]any
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode ws message: %v", err)
		}
		return out
	}

	// Subscribing answers with an immediate state push.
	sub := fmt.Sprintf(`{"type":"subscribe","session_id":%q}`, sessionID)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(sub)); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	msg := readMsg()
	if msg["type"] != "state" {
		t.Fatalf("first message type = %v, want state", msg["type"])
	}

	// A command over the socket yields a result and a state push.
	cmd := fmt.Sprintf(`{"type":"command","session_id":%q,"action":"buy_card","payload":{"card":"Chevalier"}}`, sessionID)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
		t.Fatalf("write command: %v", err)
	}
	sawResult, sawState := false, false
	for i := 0; i < 2; i++ {
		switch m := readMsg(); m["type"] {
		case "result":
			sawResult = true
		case "state":
			sawState = true
			state := m["state"].(map[string]any)
			if got := len(state["bench"].([]any)); got != 1 {
				t.Errorf("pushed state bench size = %d, want 1", got)
			}
		}
	}
	if !sawResult || !sawState {
		t.Errorf("expected result and state frames, got result=%v state=%v", sawResult, sawState)
	}

	// A mutation over HTTP also reaches the subscriber.
	postJSON(t, ts, "/api/move_to_board", map[string]any{"session_id": sessionID, "card": "Chevalier"})
	msg = readMsg()
	if msg["type"] != "state" {
		t.Fatalf("after HTTP mutation, message type = %v, want state", msg["type"])
	}
	state := msg["state"].(map[string]any)
	if got := len(state["board"].([]any)); got != 1 {
		t.Errorf("pushed board size = %d, want 1", got)
	}
}
