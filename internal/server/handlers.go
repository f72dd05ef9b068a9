package server

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/colorgraph/pkg/buildinfo"
	"github.com/matzehuels/colorgraph/pkg/coloring"
	"github.com/matzehuels/colorgraph/pkg/errors"
	"github.com/matzehuels/colorgraph/pkg/generate"
	"github.com/matzehuels/colorgraph/pkg/graph"
	"github.com/matzehuels/colorgraph/pkg/render/nodelink"
)

// =============================================================================
// Request bodies
// =============================================================================

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type edgeRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type selectionRequest struct {
	Node int `json:"node"`
}

type colorRequest struct {
	Colorer string `json:"colorer"`
}

type canvasRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type simulationRequest struct {
	Enabled bool `json:"enabled"`
}

type generateRequest struct {
	Nodes        int    `json:"nodes"`
	MinNeighbors int    `json:"min_neighbors"`
	MaxNeighbors int    `json:"max_neighbors"`
	Seed         uint64 `json:"seed"`
}

// =============================================================================
// Status
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"running":    s.renderer.Scheduler().Running(),
		"simulation": s.renderer.SimulationEnabled(),
		"clients":    s.events.ClientCount(),
	})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Graph
// =============================================================================

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.renderer.Snapshot())
}

func (s *Server) exportGraph(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	out, err := nodelink.Export(r.Context(), s.renderer.Snapshot(), format, nodelink.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) clearGraph(w http.ResponseWriter, r *http.Request) {
	s.renderer.Rebuild("clear", func(g *graph.Graph[int]) { g.Clear() })
	s.respond(w, r)
}

func (s *Server) generateGraph(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{
		Nodes:        generate.DefaultNodes,
		MinNeighbors: generate.DefaultMinNeighbors,
		MaxNeighbors: generate.DefaultMaxNeighbors,
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Nodes > s.maxNodes {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"node count must be at most %d, got %d", s.maxNodes, req.Nodes))
		return
	}
	if err := errors.ValidateNeighborRange(req.Nodes, req.MinNeighbors, req.MaxNeighbors); err != nil {
		s.writeError(w, r, err)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	s.renderer.Rebuild("generate", func(g *graph.Graph[int]) {
		// The range was validated above.
		_ = generate.Random(g, req.Nodes, req.MinNeighbors, req.MaxNeighbors, rng)
	})
	s.respond(w, r)
}

func (s *Server) resetGraph(w http.ResponseWriter, r *http.Request) {
	s.renderer.Reset()
	s.respond(w, r)
}

func (s *Server) colorGraph(w http.ResponseWriter, r *http.Request) {
	req := colorRequest{Colorer: coloring.IDRLF}
	if !s.decode(w, r, &req) {
		return
	}
	c, err := coloring.Lookup[int](req.Colorer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderer.Recolor(c)
	s.respond(w, r)
}

// =============================================================================
// Nodes and edges
// =============================================================================

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	v := s.renderer.Snapshot()
	req := pointRequest{X: v.Width / 2, Y: v.Height / 2}
	if !s.decode(w, r, &req) {
		return
	}
	s.renderer.CreateNode(req.X, req.Y)
	s.respondStatus(w, r, http.StatusCreated)
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.existingNode(w, r, "id")
	if !ok {
		return
	}
	s.renderer.RemoveNode(id)
	s.respond(w, r)
}

func (s *Server) dragNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.existingNode(w, r, "id")
	if !ok {
		return
	}
	var req pointRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.renderer.Drag(id, req.X, req.Y)
	s.respond(w, r)
}

func (s *Server) releaseNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.existingNode(w, r, "id")
	if !ok {
		return
	}
	s.renderer.Release(id)
	s.respond(w, r)
}

func (s *Server) connectNodes(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.edgeEnds(w, r, req.From, req.To) {
		return
	}
	s.renderer.ConnectNodes(req.From, req.To)
	s.respond(w, r)
}

func (s *Server) disconnectNodes(w http.ResponseWriter, r *http.Request) {
	from, ok := s.existingNode(w, r, "from")
	if !ok {
		return
	}
	to, ok := s.existingNode(w, r, "to")
	if !ok {
		return
	}
	if !s.edgeEnds(w, r, from, to) {
		return
	}
	s.renderer.DisconnectNodes(from, to)
	s.respond(w, r)
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, ok := s.renderer.Snapshot().Node(req.Node); !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "node %d not found", req.Node))
		return
	}
	s.renderer.SelectNode(req.Node)
	s.respond(w, r)
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	s.renderer.ClearSelection()
	s.respond(w, r)
}

// =============================================================================
// Canvas and simulation
// =============================================================================

func (s *Server) resizeCanvas(w http.ResponseWriter, r *http.Request) {
	var req canvasRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := errors.ValidateSize(req.Width, req.Height); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderer.Resize(req.Width, req.Height)
	s.respond(w, r)
}

func (s *Server) setSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.renderer.SetSimulationEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": s.renderer.SimulationEnabled()})
}

// =============================================================================
// Helpers
// =============================================================================

// respond waits for every queued intent to apply and writes the view.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	s.respondStatus(w, r, http.StatusOK)
}

func (s *Server) respondStatus(w http.ResponseWriter, r *http.Request, status int) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	if err := s.renderer.Sync(ctx); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeTimeout, err, "renderer did not apply the request in %s", s.timeout))
		return
	}
	writeJSON(w, status, s.renderer.Snapshot())
}

// decode reads an optional JSON body into dst. An empty body keeps dst as is.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// existingNode parses the path parameter name as a node id that is present in
// the current view.
func (s *Server) existingNode(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", raw))
		return 0, false
	}
	if _, ok := s.renderer.Snapshot().Node(id); !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "node %d not found", id))
		return 0, false
	}
	return id, true
}

func (s *Server) edgeEnds(w http.ResponseWriter, r *http.Request, from, to int) bool {
	if from == to {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "cannot link node %d to itself", from))
		return false
	}
	v := s.renderer.Snapshot()
	for _, id := range []int{from, to} {
		if _, ok := v.Node(id); !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "node %d not found", id))
			return false
		}
	}
	return true
}

func contentType(format string) string {
	switch format {
	case nodelink.FormatSVG:
		return "image/svg+xml"
	case nodelink.FormatPDF:
		return "application/pdf"
	case nodelink.FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
