// Package server exposes the BFS analysis engine over HTTP, grounded in
// ldobbelsteen-wikipath's serve.go ("/paths" endpoint, query-parameter
// parsing, status-code conventions) but routed through
// julienschmidt/httprouter instead of http.ServeMux. Every endpoint reads
// its node ids from query parameters (a single graph per server process).
// Only /distance is fronted by an internal/querycache lookup before
// falling through to a live BFS; /path and /step-groups always run a live
// BFS.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/ldobbelsteen/wikigraph/internal/bfs"
	"github.com/ldobbelsteen/wikigraph/internal/graph"
	"github.com/ldobbelsteen/wikigraph/internal/querycache"
)

// Server answers distance/path/step-groups queries against a single
// in-memory Graph, optionally fronted by a disk-backed result cache.
type Server struct {
	graph *graph.Graph
	links bfs.Links
	cache *querycache.Cache // nil disables caching
}

// New builds a Server for g. cache may be nil.
func New(g *graph.Graph, cache *querycache.Cache) *Server {
	return &Server{
		graph: g,
		links: bfs.LinksOf(g),
		cache: cache,
	}
}

// Handler returns the configured httprouter.Router for the server's
// endpoints: GET /distance, GET /path, GET /step-groups.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/distance", s.handleDistance)
	router.GET("/path", s.handlePath)
	router.GET("/step-groups", s.handleStepGroups)
	return router
}

// ListenAndServe starts the HTTP server on addr (e.g. ":8080").
func (s *Server) ListenAndServe(addr string) error {
	log.Print("wikigraph: listening on ", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// parseNodeID parses a query parameter as a NodeID in range [0, |articles|),
// writing a 400 response and returning ok=false on a malformed or
// out-of-range value (SPEC_FULL.md §6).
func (s *Server) parseNodeID(w http.ResponseWriter, param, raw string) (graph.NodeID, bool) {
	if raw == "" {
		http.Error(w, "missing "+param+" parameter", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || int(id) >= len(s.graph.Articles) {
		http.Error(w, param+" must be a valid node id in range", http.StatusBadRequest)
		return 0, false
	}
	return graph.NodeID(id), true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	marshalled, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		log.Print("wikigraph: failed to marshal response: ", err)
		return
	}
	w.Write(marshalled)
}

type distanceResponse struct {
	Found    bool `json:"found"`
	Distance int  `json:"distance,omitempty"`
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	root, ok := s.parseNodeID(w, "root", query.Get("root"))
	if !ok {
		return
	}
	dest, ok := s.parseNodeID(w, "dest", query.Get("dest"))
	if !ok {
		return
	}

	key := querycache.Key{Operation: "distance", Root: root, Param: dest}
	if s.cache != nil {
		if cached, hit := s.cache.Fetch(key); hit {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}
	}

	distance, found := bfs.Distance(s.links, root, dest)
	resp := distanceResponse{Found: found, Distance: distance}
	marshalled, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if s.cache != nil {
		if err := s.cache.Store(key, marshalled); err != nil {
			log.Print("wikigraph: cache store failed: ", err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(marshalled)
}

type pathResponse struct {
	Found bool           `json:"found"`
	Path  []graph.NodeID `json:"path,omitempty"`
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	root, ok := s.parseNodeID(w, "root", query.Get("root"))
	if !ok {
		return
	}
	dest, ok := s.parseNodeID(w, "dest", query.Get("dest"))
	if !ok {
		return
	}

	path, found := bfs.Path(s.links, len(s.graph.Articles), root, dest)
	writeJSON(w, pathResponse{Found: found, Path: path})
}

type stepGroupsResponse struct {
	Groups [][]graph.NodeID `json:"groups"`
}

func (s *Server) handleStepGroups(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	root, ok := s.parseNodeID(w, "root", query.Get("root"))
	if !ok {
		return
	}

	maxDepth := -1
	if raw := query.Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "depth must be a non-negative integer", http.StatusBadRequest)
			return
		}
		maxDepth = parsed
	}

	groups := bfs.StepGroups(s.links, len(s.graph.Articles), root, maxDepth)
	writeJSON(w, stepGroupsResponse{Groups: groups})
}
