package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/generate"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/layout"
	"github.com/matzehuels/colorgraph/pkg/render"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	g := graph.NewColored[int]()
	lay := layout.New(g, layout.WithSeed(7))
	r := render.New(lay, generate.NextInt(g), render.WithFPS(500))
	s := New(r, WithLogger(log.New(io.Discard)), WithSyncTimeout(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)
	go func() {
		_ = r.Run(ctx)
		done <- struct{}{}
	}()
	go func() {
		s.Events().Run(ctx)
		done <- struct{}{}
	}()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
		<-done
		<-done
		s.Close()
	})
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeView(t *testing.T, resp *http.Response) render.View[int] {
	t.Helper()
	var v render.View[int]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/nodes/x", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "abc-123", decodeError(t, resp).RequestID)
}

func TestNodesAndEdges(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/nodes", `{"x": 100, "y": 100}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	v := decodeView(t, resp)
	require.Len(t, v.Nodes, 1)
	assert.InDelta(t, 100, v.Nodes[0].X, 1e-9)

	// An empty body places the node at the center.
	resp = do(t, ts, http.MethodPost, "/nodes", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	v = decodeView(t, resp)
	n, ok := v.Node(1)
	require.True(t, ok)
	assert.InDelta(t, v.Width/2, n.X, 1e-9)

	resp = do(t, ts, http.MethodPost, "/edges", `{"from": 0, "to": 1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []render.EdgeView[int]{{From: 0, To: 1}}, decodeView(t, resp).Edges)

	resp = do(t, ts, http.MethodDelete, "/edges/1/0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeView(t, resp).Edges)

	resp = do(t, ts, http.MethodDelete, "/nodes/0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeView(t, resp).Nodes, 1)
}

func TestDragAndSelection(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/nodes", `{"x": 10, "y": 10}`)

	resp := do(t, ts, http.MethodPost, "/nodes/0/drag", `{"x": 300, "y": 200}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	n, _ := decodeView(t, resp).Node(0)
	assert.True(t, n.Pinned)
	assert.InDelta(t, 300, n.X, 1e-9)

	resp = do(t, ts, http.MethodPost, "/nodes/0/release", "")
	n, _ = decodeView(t, resp).Node(0)
	assert.False(t, n.Pinned)

	resp = do(t, ts, http.MethodPut, "/selection", `{"node": 0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView(t, resp)
	assert.True(t, v.HasSelection)
	assert.Equal(t, 0, v.Selected)

	resp = do(t, ts, http.MethodDelete, "/selection", "")
	assert.False(t, decodeView(t, resp).HasSelection)
}

func TestGenerateAndColor(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/graph/generate", `{"nodes": 12, "min_neighbors": 1, "max_neighbors": 3, "seed": 42}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView(t, resp)
	assert.Len(t, v.Nodes, 12)
	assert.Zero(t, v.Colors)

	for _, colorer := range []string{"fast", "rlf", "rsf"} {
		t.Run(colorer, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, "/graph/color", `{"colorer": "`+colorer+`"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			v := decodeView(t, resp)
			assert.Positive(t, v.Colors)

			class := make(map[int]int, len(v.Nodes))
			for _, n := range v.Nodes {
				require.GreaterOrEqual(t, n.Class, 0)
				class[n.Value] = n.Class
			}
			for _, e := range v.Edges {
				assert.NotEqual(t, class[e.From], class[e.To], "edge %d-%d", e.From, e.To)
			}
		})
	}

	resp = do(t, ts, http.MethodPost, "/graph/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodDelete, "/graph", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeView(t, resp).Nodes)
}

func TestCanvasAndSimulation(t *testing.T) {
	s, ts := newTestServer(t)

	resp := do(t, ts, http.MethodPut, "/canvas", `{"width": 400, "height": 300}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeView(t, resp)
	assert.Equal(t, 400.0, v.Width)
	assert.Equal(t, 300.0, v.Height)

	resp = do(t, ts, http.MethodPut, "/simulation", `{"enabled": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, s.renderer.SimulationEnabled())
}

func TestExport(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/graph/generate", `{"nodes": 3, "min_neighbors": 1, "max_neighbors": 1, "seed": 1}`)

	resp := do(t, ts, http.MethodGet, "/graph/export/dot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "graphviz")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("graph G {")))
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/nodes", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"bad node id", http.MethodDelete, "/nodes/abc", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown node", http.MethodDelete, "/nodes/99", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown drag target", http.MethodPost, "/nodes/99/drag", `{"x":1,"y":1}`, http.StatusNotFound, errors.ErrCodeNotFound},
		{"self edge", http.MethodPost, "/edges", `{"from":0,"to":0}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"edge to unknown", http.MethodPost, "/edges", `{"from":0,"to":5}`, http.StatusNotFound, errors.ErrCodeNotFound},
		{"malformed body", http.MethodPost, "/edges", `{"from":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown colorer", http.MethodPost, "/graph/color", `{"colorer":"greedy"}`, http.StatusBadRequest, errors.ErrCodeInvalidColorer},
		{"too many nodes", http.MethodPost, "/graph/generate", `{"nodes":2001,"min_neighbors":1,"max_neighbors":3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"neighbor range", http.MethodPost, "/graph/generate", `{"nodes":3,"min_neighbors":0,"max_neighbors":3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown format", http.MethodGet, "/graph/export/gif", "", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"select unknown", http.MethodPut, "/selection", `{"node":42}`, http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad canvas", http.MethodPut, "/canvas", `{"width":-1,"height":10}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestWithMaxNodes(t *testing.T) {
	g := graph.NewColored[int]()
	r := render.New(layout.New(g), generate.NextInt(g))
	s := New(r, WithLogger(log.New(io.Discard)), WithMaxNodes(5))
	defer s.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graph/generate", strings.NewReader(`{"nodes":6,"min_neighbors":1,"max_neighbors":2}`))
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at most 5")
	assert.Zero(t, r.Scheduler().Pending(), "rejected before anything is queued")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidPalette, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeStopped, "x"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}

func TestEvents(t *testing.T) {
	s, ts := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l, ok := <-lines:
			require.True(t, ok, "stream closed")
			return l
		case <-time.After(5 * time.Second):
			t.Fatal("no event line")
			return ""
		}
	}

	require.True(t, strings.HasPrefix(next(), ": connected "))
	require.Eventually(t, func() bool { return s.Events().ClientCount() == 1 }, 5*time.Second, 5*time.Millisecond)

	do(t, ts, http.MethodPost, "/nodes", `{"x": 50, "y": 60}`)

	var event, data string
	for event == "" || data == "" {
		l := next()
		switch {
		case strings.HasPrefix(l, "event: "):
			event = strings.TrimPrefix(l, "event: ")
		case strings.HasPrefix(l, "data: "):
			data = strings.TrimPrefix(l, "data: ")
		}
	}
	assert.Equal(t, "change", event)

	var ev struct {
		Type string           `json:"type"`
		Data render.View[int] `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Len(t, ev.Data.Nodes, 1)
}
