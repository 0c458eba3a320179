package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// client is a thin wrapper over the HTTP API. Every call decodes into a
// loose map; the rendering layer picks out what it shows.
type client struct {
	base      string
	http      *http.Client
	sessionID string
}

func newClient(base string) *client {
	return &client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) get(path string) (map[string]any, error) {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func (c *client) post(path string, body any) (map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (map[string]any, error) {
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("bad response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode >= 400 {
		if msg, ok := out["error"].(string); ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("server error: %s", resp.Status)
	}
	return out, nil
}

// command posts one session command and returns the response.
func (c *client) command(action string, payload map[string]any) (map[string]any, error) {
	if c.sessionID == "" {
		return nil, fmt.Errorf("no game in progress, use 'new' first")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	payload["session_id"] = c.sessionID
	return c.post("/api/"+action, payload)
}

func (c *client) newGame(leader string, modifiers []string) (map[string]any, error) {
	body := map[string]any{}
	if leader != "" {
		body["leader"] = leader
	}
	if len(modifiers) > 0 {
		body["modifiers"] = modifiers
	}
	out, err := c.post("/api/new_game", body)
	if err != nil {
		return nil, err
	}
	if id, ok := out["session_id"].(string); ok {
		c.sessionID = id
	}
	return out, nil
}

func (c *client) gameState() (map[string]any, error) {
	if c.sessionID == "" {
		return nil, fmt.Errorf("no game in progress, use 'new' first")
	}
	return c.get("/api/game_state/" + c.sessionID)
}

func (c *client) recommendations(choices []map[string]any) (map[string]any, error) {
	if c.sessionID == "" {
		return nil, fmt.Errorf("no game in progress, use 'new' first")
	}
	return c.post("/api/recommendations", map[string]any{
		"session_id": c.sessionID,
		"choices":    choices,
	})
}
