// Package filestore tracks engine-side file identity and contents. It backs
// the translation layer's FileSource contract with an append-only reference
// table, editor-held overlays, and the engine's bundled payload files.
package filestore

import (
	"fmt"
	"path"
	"sync"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/fs"
	protocolmapper "github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/protocol"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKey = "filestore"

// Module provides a new Store.
var Module = fx.Options(fx.Provide(New))

// PayloadEntry names one engine-bundled file: the canonical path exposed to
// clients and the location of its contents on disk.
type PayloadEntry struct {
	Path string `yaml:"path"`
	File string `yaml:"file"`
}

type storeConfig struct {
	PayloadDir string         `yaml:"payloadDir"`
	Payload    []PayloadEntry `yaml:"payload"`
}

// Store tracks the identity and contents of every file the engine knows
// about. References are append-only and stable for the daemon's lifetime.
type Store interface {
	workspace.FileSource

	// Register tracks a path and returns its reference. Registering a known
	// path returns the existing reference.
	Register(path string) workspace.FileRef

	// SetOverlay stores editor-held contents for a path, registering the
	// path if needed. Overlay contents shadow the disk until removed.
	SetOverlay(path string, content string) workspace.FileRef

	// RemoveOverlay drops editor-held contents so that reads fall back to
	// the disk.
	RemoveOverlay(path string)

	// Content returns the current contents of a tracked file.
	Content(ref workspace.FileRef) (string, error)
}

// Params are the parameters to create a new Store.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
	Stats  tally.Scope
	FS     fs.SlspFS
}

type fileEntry struct {
	path      string
	localPath string
	payload   bool

	mu      sync.Mutex
	overlay *string
}

type store struct {
	logger *zap.SugaredLogger
	stats  tally.Scope
	fs     fs.SlspFS

	mu      sync.RWMutex
	refs    map[string]workspace.FileRef
	entries []*fileEntry // indexed by ref; index 0 backs the zero ref
}

// New creates a Store and registers the configured payload manifest.
func New(p Params) Store {
	var cfg storeConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		panic(fmt.Sprintf("getting config for %q: %v", _configKey, err))
	}

	s := &store{
		logger:  p.Logger,
		stats:   p.Stats.SubScope("filestore"),
		fs:      p.FS,
		refs:    make(map[string]workspace.FileRef),
		entries: []*fileEntry{nil},
	}
	for _, entry := range cfg.Payload {
		local := entry.File
		if cfg.PayloadDir != "" && local != "" {
			local = path.Join(cfg.PayloadDir, entry.File)
		}
		s.registerEntry(&fileEntry{path: entry.Path, localPath: local, payload: true})
	}
	if len(cfg.Payload) > 0 {
		s.logger.Infof("registered %d payload files", len(cfg.Payload))
	}
	return s
}

func (s *store) registerEntry(e *fileEntry) workspace.FileRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.refs[e.path]; ok {
		return ref
	}
	ref := workspace.FileRef(len(s.entries))
	s.entries = append(s.entries, e)
	s.refs[e.path] = ref
	s.stats.Gauge("tracked_files").Update(float64(len(s.entries) - 1))
	return ref
}

func (s *store) entry(ref workspace.FileRef) *fileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ref == 0 || int(ref) >= len(s.entries) {
		return nil
	}
	return s.entries[ref]
}

// FindFileByPath returns the reference tracking the given path, or the zero
// FileRef when the path is not tracked.
func (s *store) FindFileByPath(path string) workspace.FileRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refs[path]
}

// PathForRef returns the tracked path for a reference.
func (s *store) PathForRef(ref workspace.FileRef) (string, bool) {
	e := s.entry(ref)
	if e == nil {
		return "", false
	}
	return e.path, true
}

// IsPayload reports whether the reference names an engine-bundled file.
func (s *store) IsPayload(ref workspace.FileRef) bool {
	e := s.entry(ref)
	return e != nil && e.payload
}

// Register tracks a path and returns its reference.
func (s *store) Register(path string) workspace.FileRef {
	return s.registerEntry(&fileEntry{path: path})
}

// SetOverlay stores editor-held contents for a path.
func (s *store) SetOverlay(path string, content string) workspace.FileRef {
	ref := s.Register(path)
	e := s.entry(ref)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overlay = &content
	return ref
}

// RemoveOverlay drops editor-held contents for a path.
func (s *store) RemoveOverlay(path string) {
	e := s.entry(s.FindFileByPath(path))
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overlay = nil
}

// Content returns the overlay contents when an editor holds the file, and
// the disk contents otherwise.
func (s *store) Content(ref workspace.FileRef) (string, error) {
	e := s.entry(ref)
	if e == nil {
		return "", fmt.Errorf("no file tracked for reference %d", ref)
	}

	e.mu.Lock()
	if e.overlay != nil {
		defer e.mu.Unlock()
		return *e.overlay, nil
	}
	e.mu.Unlock()

	target := e.path
	if e.localPath != "" {
		target = e.localPath
	}
	data, err := s.fs.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", target, err)
	}
	return string(data), nil
}

// OffsetForPosition resolves a 1-based line and byte column to a byte offset.
func (s *store) OffsetForPosition(ref workspace.FileRef, line int, col int) (int, error) {
	content, err := s.Content(ref)
	if err != nil {
		return 0, err
	}
	m := protocolmapper.NewTextOffsetMapper([]byte(content))
	offset, ok := m.LineColOffset(line, col)
	if !ok {
		return 0, fmt.Errorf("position %d:%d is outside the file contents", line, col)
	}
	return offset, nil
}

// RangeForLoc recovers the client-facing range spanned by a Loc.
func (s *store) RangeForLoc(loc workspace.Loc) (*protocol.Range, error) {
	content, err := s.Content(loc.File)
	if err != nil {
		return nil, err
	}
	m := protocolmapper.NewTextOffsetMapper([]byte(content))
	start, err := m.OffsetPosition(loc.Begin)
	if err != nil {
		return nil, fmt.Errorf("recovering start position: %w", err)
	}
	end, err := m.OffsetPosition(loc.End)
	if err != nil {
		return nil, fmt.Errorf("recovering end position: %w", err)
	}
	return &protocol.Range{Start: start, End: end}, nil
}
