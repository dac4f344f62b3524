package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/imran31415/forcefield/pkg/config"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/layout"
	"github.com/imran31415/forcefield/pkg/observability"
	"github.com/imran31415/forcefield/pkg/stats"
)

func testHandler(cfg *config.Config) http.Handler {
	return New(cfg, nil).Handler()
}

// starGraph is a hub with four spokes, small enough to lay out quickly.
func starGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Labels: []string{"Hub"}},
			{ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "a", To: "b"},
			{ID: "e2", From: "a", To: "c"},
			{ID: "e3", From: "a", To: "d"},
			{ID: "e4", From: "a", To: "e"},
		},
	}
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func errCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decodeResponse(t, rr, &body)
	return body.Error.Code
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := doRequest(t, h, http.MethodPost, "/api/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, want %d", rr.Code, http.StatusCreated)
	}
	var info sessionInfo
	decodeResponse(t, rr, &info)
	if _, err := uuid.Parse(info.ID); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", info.ID, err)
	}
	return info.ID
}

func computeLayout(t *testing.T, h http.Handler, sessionID string) layoutResponse {
	t.Helper()
	rr := doRequest(t, h, http.MethodPost, "/api/sessions/"+sessionID+"/layout", layoutRequest{
		Graph: starGraph(), Width: 400, Height: 400,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp layoutResponse
	decodeResponse(t, rr, &resp)
	return resp
}

func TestHealthz(t *testing.T) {
	h := testHandler(nil)
	rr := doRequest(t, h, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Body.String(); got != "OK" {
		t.Errorf("body = %q, want %q", got, "OK")
	}
}

func TestCreateSession(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)

	rr := doRequest(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("info status = %d", rr.Code)
	}
	var info sessionInfo
	decodeResponse(t, rr, &info)
	if info.ID != id {
		t.Errorf("info.ID = %q, want %q", info.ID, id)
	}
	if info.HasLayout {
		t.Error("new session reports a layout")
	}
	if info.Generation != 0 {
		t.Errorf("Generation = %d, want 0", info.Generation)
	}
	if !info.ExpiresAt.After(info.CreatedAt) {
		t.Errorf("ExpiresAt %v not after CreatedAt %v", info.ExpiresAt, info.CreatedAt)
	}
}

func TestLayoutFlow(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)

	resp := computeLayout(t, h, id)
	if !resp.Applied {
		t.Error("first layout not applied")
	}
	if resp.Generation != 1 {
		t.Errorf("Generation = %d, want 1", resp.Generation)
	}
	if resp.Layout == nil {
		t.Fatal("layout missing from response")
	}
	if got := len(resp.Layout.Nodes); got != 5 {
		t.Errorf("len(Nodes) = %d, want 5", got)
	}
	if got := len(resp.Layout.Edges); got != 4 {
		t.Errorf("len(Edges) = %d, want 4", got)
	}
	if resp.Stats == nil || resp.Stats.NodeCount != 5 || resp.Stats.EdgeCount != 4 {
		t.Errorf("stats = %+v, want 5 nodes / 4 edges", resp.Stats)
	}

	for _, pn := range resp.Layout.Nodes {
		if pn.X < layout.DefaultPadding || pn.X > 400-layout.DefaultPadding ||
			pn.Y < layout.DefaultPadding || pn.Y > 400-layout.DefaultPadding {
			t.Errorf("node %s at (%v, %v) outside padded viewport", pn.ID, pn.X, pn.Y)
		}
	}

	rr := doRequest(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	var info sessionInfo
	decodeResponse(t, rr, &info)
	if !info.HasLayout {
		t.Error("session does not report its layout")
	}
}

func TestFocusFlow(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)
	base := computeLayout(t, h, id)

	rr := doRequest(t, h, http.MethodPost, "/api/sessions/"+id+"/focus", focusRequest{Node: "a"})
	if rr.Code != http.StatusOK {
		t.Fatalf("focus status = %d, body %s", rr.Code, rr.Body.String())
	}
	var focused layoutResponse
	decodeResponse(t, rr, &focused)
	if !focused.Applied {
		t.Error("focus not applied")
	}
	if focused.Focused != "a" {
		t.Errorf("Focused = %q, want %q", focused.Focused, "a")
	}
	if focused.Generation != base.Generation+1 {
		t.Errorf("Generation = %d, want %d", focused.Generation, base.Generation+1)
	}

	hub, ok := focused.Layout.NodeByID("a")
	if !ok {
		t.Fatal("focused node missing from layout")
	}
	if hub.X != 200 || hub.Y != 200 {
		t.Errorf("focused node at (%v, %v), want viewport center (200, 200)", hub.X, hub.Y)
	}
	nbr, ok := focused.Layout.NodeByID("b")
	if !ok {
		t.Fatal("neighbor missing from layout")
	}
	if d := math.Hypot(nbr.X-200, nbr.Y-200); math.Abs(d-layout.FocusRingRadius) > 1e-9 {
		t.Errorf("neighbor distance = %v, want %v", d, layout.FocusRingRadius)
	}

	rr = doRequest(t, h, http.MethodDelete, "/api/sessions/"+id+"/focus", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unfocus status = %d", rr.Code)
	}
	var restored layoutResponse
	decodeResponse(t, rr, &restored)
	if restored.Focused != "" {
		t.Errorf("Focused = %q after unfocus, want empty", restored.Focused)
	}
	if !reflect.DeepEqual(restored.Layout.Nodes, base.Layout.Nodes) {
		t.Error("unfocus did not restore the base layout positions")
	}
}

func TestUnfocusIdempotent(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)
	base := computeLayout(t, h, id)

	for i := range 2 {
		rr := doRequest(t, h, http.MethodDelete, "/api/sessions/"+id+"/focus", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("unfocus %d status = %d", i, rr.Code)
		}
		var resp layoutResponse
		decodeResponse(t, rr, &resp)
		if !reflect.DeepEqual(resp.Layout.Nodes, base.Layout.Nodes) {
			t.Errorf("unfocus %d changed the base layout", i)
		}
	}
}

func TestFocusErrors(t *testing.T) {
	h := testHandler(nil)

	fresh := createSession(t, h)
	loaded := createSession(t, h)
	computeLayout(t, h, loaded)

	tests := []struct {
		name     string
		session  string
		body     any
		wantCode int
		wantErr  string
	}{
		{"no layout yet", fresh, focusRequest{Node: "a"}, http.StatusBadRequest, "INVALID_GRAPH"},
		{"unknown node", loaded, focusRequest{Node: "ghost"}, http.StatusNotFound, "NODE_NOT_FOUND"},
		{"empty node", loaded, focusRequest{}, http.StatusBadRequest, "INVALID_PARAMS"},
		{"malformed body", loaded, []byte("{not json"), http.StatusBadRequest, "INVALID_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodPost, "/api/sessions/"+tt.session+"/focus", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if got := errCode(t, rr); got != tt.wantErr {
				t.Errorf("error code = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestSessionErrors(t *testing.T) {
	h := testHandler(nil)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantErr  string
	}{
		{"unknown session", "/api/sessions/" + uuid.NewString(), http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"malformed id", "/api/sessions/not-a-uuid", http.StatusBadRequest, "INVALID_PARAMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodGet, tt.path, nil)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if got := errCode(t, rr); got != tt.wantErr {
				t.Errorf("error code = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestLayoutErrors(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)

	dupGraph := graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}}

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"unknown preset", layoutRequest{Graph: starGraph(), Preset: "ghost"}, http.StatusBadRequest, "INVALID_PRESET"},
		{"duplicate node ids", layoutRequest{Graph: dupGraph}, http.StatusBadRequest, "INVALID_GRAPH"},
		{"malformed body", []byte("{not json"), http.StatusBadRequest, "INVALID_FORMAT"},
		{"negative viewport", layoutRequest{Graph: starGraph(), Width: -1}, http.StatusBadRequest, "INVALID_PARAMS"},
		{"viewport inside padding", layoutRequest{Graph: starGraph(), Width: 100, Height: 100}, http.StatusBadRequest, "INVALID_PARAMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodPost, "/api/sessions/"+id+"/layout", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if got := errCode(t, rr); got != tt.wantErr {
				t.Errorf("error code = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestLayoutPresetSelectsParams(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)

	rr := doRequest(t, h, http.MethodPost, "/api/sessions/"+id+"/layout", layoutRequest{
		Graph: starGraph(), Preset: "compact",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp layoutResponse
	decodeResponse(t, rr, &resp)
	if !resp.Applied || resp.Layout == nil {
		t.Fatalf("compact preset layout not applied: %+v", resp)
	}
	if resp.Layout.Width != layout.DefaultWidth || resp.Layout.Height != layout.DefaultHeight {
		t.Errorf("viewport = %vx%v, want default %vx%v",
			resp.Layout.Width, resp.Layout.Height, layout.DefaultWidth, layout.DefaultHeight)
	}
}

func TestLayoutCancelledRequest(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)

	data, err := json.Marshal(layoutRequest{Graph: starGraph()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/layout", bytes.NewReader(data)).WithContext(ctx)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != statusClientClosedRequest {
		t.Fatalf("status = %d, want %d", rr.Code, statusClientClosedRequest)
	}
	if got := errCode(t, rr); got != "CANCELLED" {
		t.Errorf("error code = %q, want CANCELLED", got)
	}
}

func TestLayoutAppliesConfiguredCaps(t *testing.T) {
	cfg := config.Default()
	cfg.Limits.MaxNodes = 3
	cfg.Limits.MaxEdges = 2
	h := testHandler(cfg)
	id := createSession(t, h)

	resp := computeLayout(t, h, id)
	if got := len(resp.Layout.Nodes); got != 3 {
		t.Errorf("len(Nodes) = %d, want capped 3", got)
	}
	if got := len(resp.Layout.Edges); got > 2 {
		t.Errorf("len(Edges) = %d, want at most 2", got)
	}
	if resp.Stats.NodeCount != 3 {
		t.Errorf("stats.NodeCount = %d, want 3", resp.Stats.NodeCount)
	}
}

func TestSessionExpiry(t *testing.T) {
	cfg := config.Default()
	cfg.Server.SessionTTL = config.Duration{Duration: 20 * time.Millisecond}
	h := testHandler(cfg)
	id := createSession(t, h)

	time.Sleep(40 * time.Millisecond)

	rr := doRequest(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	if rr.Code != http.StatusGone {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusGone)
	}
	if got := errCode(t, rr); got != "SESSION_EXPIRED" {
		t.Errorf("error code = %q, want SESSION_EXPIRED", got)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second lookup status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDeleteSession(t *testing.T) {
	h := testHandler(nil)
	id := createSession(t, h)

	rr := doRequest(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/sessions/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("lookup after delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}

	// Deleting again is not an error.
	rr = doRequest(t, h, http.MethodDelete, "/api/sessions/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("second delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := testHandler(nil)

	rr := doRequest(t, h, http.MethodPost, "/api/stats", starGraph())
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var summary stats.Summary
	decodeResponse(t, rr, &summary)
	if summary.NodeCount != 5 || summary.EdgeCount != 4 {
		t.Errorf("summary = %d nodes / %d edges, want 5 / 4", summary.NodeCount, summary.EdgeCount)
	}
	if summary.Labels["Hub"] != 1 {
		t.Errorf(`Labels["Hub"] = %d, want 1`, summary.Labels["Hub"])
	}
	if summary.Degrees.Max != 4 {
		t.Errorf("Degrees.Max = %d, want 4", summary.Degrees.Max)
	}

	rr = doRequest(t, h, http.MethodPost, "/api/stats", []byte("{not json"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed graph status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

type countingServerHooks struct {
	observability.NoopServerHooks
	requests  int
	responses int
	status    int
}

func (h *countingServerHooks) OnRequest(_ context.Context, _, _ string) { h.requests++ }
func (h *countingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses++
	h.status = status
}

func TestRequestHooks(t *testing.T) {
	hooks := &countingServerHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	h := testHandler(nil)
	doRequest(t, h, http.MethodGet, "/healthz", nil)

	if hooks.requests != 1 || hooks.responses != 1 {
		t.Errorf("hook counts = %d requests / %d responses, want 1 / 1", hooks.requests, hooks.responses)
	}
	if hooks.status != http.StatusOK {
		t.Errorf("hook status = %d, want %d", hooks.status, http.StatusOK)
	}
}
