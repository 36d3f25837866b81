package graph

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/autowiki/autowiki/pkg/parser"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Sanitize maps any character outside [A-Za-z0-9_-] to '_', matching the
// collection-naming rule VectorStore uses so graph files and vector
// collections stay addressed by the same sanitized id.
func Sanitize(projectID string) string {
	return unsafeChars.ReplaceAllString(projectID, "_")
}

type persistedGraph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// Service owns, per project, one in-memory Graph and its derived
// ModuleTree, persisting both to JSON files under BaseDir. It is the
// injected collaborator that replaces the single process-wide
// GraphService singleton the original design used.
type Service struct {
	BaseDir string
	logger  *slog.Logger

	mu       sync.Mutex
	graphs   map[string]*Graph
	trees    map[string]*TreeNode
}

// NewService creates a Service rooted at baseDir (typically
// "<base>/graphs"). baseDir is created lazily on first persist.
func NewService(baseDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		BaseDir: baseDir,
		logger:  logger,
		graphs:  make(map[string]*Graph),
		trees:   make(map[string]*TreeNode),
	}
}

// Graph returns the in-memory graph for projectID, rehydrating it from
// disk on first access after a restart. A load failure yields a fresh
// empty graph with a warning, per the fall-back-to-empty-graph policy.
func (s *Service) Graph(projectID string) *Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graphLocked(projectID)
}

func (s *Service) graphLocked(projectID string) *Graph {
	if g, ok := s.graphs[projectID]; ok {
		return g
	}

	g := New()
	if data, err := os.ReadFile(s.graphPath(projectID)); err == nil {
		var persisted persistedGraph
		if err := json.Unmarshal(data, &persisted); err != nil {
			s.logger.Warn("graph.load.corrupt", "project_id", projectID, "error", err)
		} else {
			rehydrate(g, persisted)
		}
	}
	s.graphs[projectID] = g
	return g
}

func rehydrate(g *Graph, persisted persistedGraph) {
	for _, n := range persisted.Nodes {
		g.upsertNode(n.ID, n.Kind, n.Attributes)
	}
	for _, e := range persisted.Edges {
		g.addEdge(e.Source, e.Target, e.Kind)
	}
	// imports map is not reconstructed from persisted attributes beyond
	// what BuildEdges needs; a reloaded graph is expected to be queried
	// or re-ingested, not have BuildEdges called on it again blind.
	// A rehydrated graph's import list loses each ImportInfo's Kind: only
	// the module string survives in the persisted "imports" attribute.
	// BuildEdges on a rehydrated graph therefore resolves every import as
	// local_absolute (a direct file-map lookup); stdlib/local_relative
	// imports that would have been skipped or dot-resolved pre-restart
	// are harmless false lookups that simply miss the file map. This
	// matters only if BuildEdges is re-run against a reloaded graph
	// without a fresh ingestion, which the orchestrator never does.
	for _, n := range persisted.Nodes {
		if n.Kind != NodeFile {
			continue
		}
		registerFileMapEntry(g.fileMap, n.ID)
		if imports, ok := n.Attributes["imports"].([]any); ok {
			var infos []parser.ImportInfo
			for _, raw := range imports {
				if module, ok := raw.(string); ok {
					infos = append(infos, parser.ImportInfo{Module: module, Kind: parser.ImportLocalAbsolute})
				}
			}
			g.imports[n.ID] = infos
		}
	}
}

// AddFile delegates to the project's in-memory Graph.
func (s *Service) AddFile(projectID string, structure parser.FileStructure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.graphLocked(projectID)
	g.AddFile(structure)
}

// BuildEdges delegates to the project's in-memory Graph.
func (s *Service) BuildEdges(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.graphLocked(projectID)
	g.BuildEdges()
}

// BuildModuleTree computes, stores in-memory, and returns the project's
// module tree.
func (s *Service) BuildModuleTree(projectID string) *TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.graphLocked(projectID)
	tree := g.BuildModuleTree(g.NodeImportance())
	s.trees[projectID] = tree
	return tree
}

// Tree returns the project's module tree, loading it from disk if it
// isn't already in memory. Returns (nil, false) if no tree file exists.
func (s *Service) Tree(projectID string) (*TreeNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.trees[projectID]; ok {
		return t, true
	}
	data, err := os.ReadFile(s.treePath(projectID))
	if err != nil {
		return nil, false
	}
	var tree TreeNode
	if err := json.Unmarshal(data, &tree); err != nil {
		s.logger.Warn("tree.load.corrupt", "project_id", projectID, "error", err)
		return nil, false
	}
	s.trees[projectID] = &tree
	return &tree, true
}

// Persist writes the project's graph and tree to their JSON files using
// a temp-file-then-rename so a reader never observes a partial write.
func (s *Service) Persist(projectID string) error {
	s.mu.Lock()
	g, gok := s.graphs[projectID]
	tree, tok := s.trees[projectID]
	s.mu.Unlock()

	if !gok {
		return fmt.Errorf("graph: no in-memory graph for project %q", projectID)
	}

	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return fmt.Errorf("graph: create base dir: %w", err)
	}

	persisted := persistedGraph{Nodes: g.Nodes(), Edges: g.Edges()}
	if err := writeJSONAtomic(s.graphPath(projectID), persisted); err != nil {
		return fmt.Errorf("graph: persist graph: %w", err)
	}

	if tok {
		if err := writeJSONAtomic(s.treePath(projectID), tree); err != nil {
			return fmt.Errorf("graph: persist tree: %w", err)
		}
	}
	return nil
}

// DeleteGraph removes both persisted files for projectID and evicts it
// from the in-memory cache. Idempotent: missing files are not an error.
func (s *Service) DeleteGraph(projectID string) error {
	s.mu.Lock()
	delete(s.graphs, projectID)
	delete(s.trees, projectID)
	s.mu.Unlock()

	for _, path := range []string{s.graphPath(projectID), s.treePath(projectID)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("graph: delete %s: %w", path, err)
		}
	}
	return nil
}

func (s *Service) graphPath(projectID string) string {
	return filepath.Join(s.BaseDir, Sanitize(projectID)+".json")
}

func (s *Service) treePath(projectID string) string {
	return filepath.Join(s.BaseDir, Sanitize(projectID)+"_tree.json")
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
