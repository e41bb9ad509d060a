package workspace

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/errors"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/ignore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/projectfile"
	"github.com/uber-go/tally"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _configKey = "workspace"

// Module provides a workspace Manager.
var Module = fx.Options(fx.Provide(New))

type managerConfig struct {
	// Roots lists the engine root directories, as plain paths or file URIs.
	// The daemon serves exactly one.
	Roots []string `yaml:"roots"`
	// IgnorePatterns and IgnoreGlobs seed the exclusion matcher. The project
	// file may extend both.
	IgnorePatterns []string `yaml:"ignorePatterns"`
	IgnoreGlobs    []string `yaml:"ignoreGlobs"`
	// MissingFromClient names root directories the client checkout lacks.
	MissingFromClient []string `yaml:"missingFromClient"`
}

// Manager hands out one Workspace per IDE session, all bound to the daemon's
// single workspace root.
type Manager interface {
	// Root returns the engine's workspace root path.
	Root() string

	// Project returns the settings loaded from the workspace project file.
	Project() projectfile.Project

	// CreateWorkspace returns the Workspace for the given session, creating
	// it on first use.
	CreateWorkspace(id uuid.UUID) *Workspace

	// Workspace returns the Workspace for the given session.
	Workspace(id uuid.UUID) (*Workspace, error)

	// DeleteWorkspace discards the Workspace for the given session.
	DeleteWorkspace(id uuid.UUID)

	// UUIDs lists the sessions currently holding a Workspace.
	UUIDs() []uuid.UUID
}

// Params are the parameters to create a new Manager.
type Params struct {
	fx.In

	Config      config.Provider
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
	ProjectFile projectfile.Loader
}

type manager struct {
	mu    sync.Mutex
	store map[uuid.UUID]*Workspace

	root    string
	project projectfile.Project
	ignore  *ignore.Matcher
	missing *ignore.Matcher
	logger  *zap.SugaredLogger
	stats   tally.Scope
}

// New constructs a Manager from the daemon configuration and the workspace
// project file.
func New(p Params) (Manager, error) {
	var cfg managerConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get workspace settings from config: %w", err)
	}

	if len(cfg.Roots) != 1 {
		p.Logger.Error("slsp's language server requires a single workspace root directory.")
		return nil, fmt.Errorf("expected a single workspace root, got %d", len(cfg.Roots))
	}
	// Deployment tooling hands the root around as a file URI; accept both forms.
	root := cfg.Roots[0]
	if strings.HasPrefix(root, "file://") {
		root = uri.URI(root).Filename()
	}
	root = strings.TrimSuffix(root, "/")

	var err error
	for _, dir := range cfg.MissingFromClient {
		if !strings.HasPrefix(dir, "/") {
			err = multierr.Append(err, fmt.Errorf("missingFromClient entry %q does not start with /", dir))
		}
	}
	if err != nil {
		return nil, err
	}

	project, err := p.ProjectFile.Load(root)
	if err != nil {
		return nil, fmt.Errorf("unable to load workspace project file: %w", err)
	}

	m := &manager{
		store:   make(map[uuid.UUID]*Workspace),
		root:    root,
		project: project,
		ignore:  ignore.New(root, append(cfg.IgnorePatterns, project.Ignore...), append(cfg.IgnoreGlobs, project.IgnoreGlobs...)),
		missing: ignore.New(root, append(cfg.MissingFromClient, project.MissingFromClient...), nil),
		logger:  p.Logger,
		stats:   p.Stats.SubScope("workspace"),
	}
	m.logger.Infof("serving workspace root %q", root)
	return m, nil
}

// Root returns the engine's workspace root path.
func (m *manager) Root() string {
	return m.root
}

// Project returns the settings loaded from the workspace project file.
func (m *manager) Project() projectfile.Project {
	return m.project
}

// CreateWorkspace returns the Workspace for the given session, creating it on
// first use. Recreating an existing session's Workspace returns the original
// holder, so a repeated handshake still trips its activate-once guard.
func (m *manager) CreateWorkspace(id uuid.UUID) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.store[id]; ok {
		return w
	}
	w := NewWorkspace(m.root, m.ignore, m.missing, m.logger, m.stats)
	m.store[id] = w
	m.stats.Gauge("sessions").Update(float64(len(m.store)))
	return w
}

// Workspace returns the Workspace for the given session.
func (m *manager) Workspace(id uuid.UUID) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.store[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return w, nil
}

// DeleteWorkspace discards the Workspace for the given session.
func (m *manager) DeleteWorkspace(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, id)
	m.stats.Gauge("sessions").Update(float64(len(m.store)))
}

// UUIDs lists the sessions currently holding a Workspace.
func (m *manager) UUIDs() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(m.store))
	for id := range m.store {
		ids = append(ids, id)
	}
	return ids
}
