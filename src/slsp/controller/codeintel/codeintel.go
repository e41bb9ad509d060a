// Package codeintel serves code navigation queries from prebuilt scip-ruby
// indexes. Indexes are decoded into an in-memory registry, reloaded when
// their files change, and queried in terms of workspace-relative paths; the
// session's translator converts between those paths and client URIs.
package codeintel

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/factory"
	ideclient "github.com/sorbet-tools/sorbet-lsp/src/slsp/gateway/ide-client"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/executor"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/filestore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/fs"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session"
	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey         = "codeintel"
	_configKey       = "codeintel"
	_scipExt         = ".scip"
	_debounceTimeout = 10 * time.Millisecond
)

// Controller answers code navigation requests from the loaded indexes.
type Controller interface {
	// InitializeResult adds this controller's capabilities to the handshake
	// response.
	InitializeResult(ctx context.Context, result *protocol.InitializeResult) error

	// StartIndexLoad loads the workspace's index files and begins watching
	// them for changes. Missing files are built with the workspace's index
	// build command when one is configured.
	StartIndexLoad(ctx context.Context) error

	Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.LocationLink, error)
	TypeDefinition(ctx context.Context, params *protocol.TypeDefinitionParams) ([]protocol.LocationLink, error)
	References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error)
	Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error)
	DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Sessions   session.Repository
	Workspaces workspace.Manager
	Files      filestore.Store
	IdeGateway ideclient.Gateway
	Executor   executor.Executor
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Config     config.Provider
	FS         fs.SlspFS
	Lifecycle  fx.Lifecycle
}

type controllerConfig struct {
	// Indexes lists root-relative scip index paths served when the workspace
	// project file names none.
	Indexes []string `yaml:"indexes"`
}

type controller struct {
	sessions   session.Repository
	workspaces workspace.Manager
	files      filestore.Store
	ideGateway ideclient.Gateway
	executor   executor.Executor
	logger     *zap.SugaredLogger
	stats      tally.Scope
	fs         fs.SlspFS

	indexes      []string
	buildCommand []string
	registry     Registry

	watcher     *fsnotify.Watcher
	once        sync.Once
	watchCloser chan bool

	loadedMu      sync.Mutex
	loadedIndexes map[string]string

	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer
}

// New creates a new controller for code navigation.
func New(p Params) (Controller, error) {
	var cfg controllerConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get code navigation settings from config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher for index files: %w", err)
	}

	// Project file entries replace the daemon defaults rather than extending
	// them, so a workspace can point at its own index output directory.
	project := p.Workspaces.Project()
	indexes := cfg.Indexes
	if len(project.Indexes) > 0 {
		indexes = project.Indexes
	}

	c := &controller{
		sessions:       p.Sessions,
		workspaces:     p.Workspaces,
		files:          p.Files,
		ideGateway:     p.IdeGateway,
		executor:       p.Executor,
		logger:         p.Logger.With("controller", _nameKey),
		stats:          p.Stats.SubScope(_nameKey),
		fs:             p.FS,
		indexes:        indexes,
		buildCommand:   project.IndexBuildCommand,
		registry:       NewRegistry(p.Logger.Named("index-registry")),
		watcher:        watcher,
		watchCloser:    make(chan bool, 1),
		loadedIndexes:  make(map[string]string),
		debounceTimers: make(map[string]*time.Timer),
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: c.stopWatching,
	})
	return c, nil
}

// stopWatching shuts the index watcher down. If the watch loop started it is
// signaled to stop timers and close the watcher; otherwise the watcher is
// closed directly and the consumed once keeps the loop from starting late.
func (c *controller) stopWatching(ctx context.Context) error {
	c.once.Do(func() {
		if err := c.watcher.Close(); err != nil {
			c.logger.Warnf("Failed to close index change watcher: %v", err)
		}
	})
	select {
	case c.watchCloser <- true:
	default:
	}
	return nil
}

// InitializeResult implements Controller.
func (c *controller) InitializeResult(ctx context.Context, result *protocol.InitializeResult) error {
	mapper.InitializeResultEnsureDefinitionProvider(result, false)
	mapper.InitializeResultEnsureTypeDefinitionProvider(result, false)
	mapper.InitializeResultEnsureReferencesProvider(result, false)
	mapper.InitializeResultEnsureHoverProvider(result, false)
	mapper.InitializeResultEnsureDocumentSymbolProvider(result, false)
	return nil
}

// StartIndexLoad implements Controller.
func (c *controller) StartIndexLoad(ctx context.Context) error {
	c.once.Do(func() {
		go c.handleChanges(c.watchCloser)
	})

	if len(c.indexes) == 0 {
		c.logger.Info("No index files configured, code navigation is disabled")
		return nil
	}

	token := protocol.NewProgressToken(factory.UUID().String())
	c.sendLoadStart(ctx, *token)
	defer c.sendLoadEnd(ctx, *token)

	root := c.workspaces.Root()
	watchDirs := make(map[string]struct{})
	for _, rel := range c.indexes {
		watchDirs[path.Dir(path.Join(root, rel))] = struct{}{}
	}
	for dir := range watchDirs {
		if err := c.fs.MkdirAll(dir); err != nil {
			c.logger.Warnf("Failed to create index directory %q: %v", dir, err)
			return err
		}
		if err := c.watcher.Add(dir); err != nil {
			c.logger.Warnf("Failed to watch for changes in %q: %v", dir, err)
			return err
		}
	}

	return c.loadIndexes(ctx)
}

func (c *controller) loadIndexes(ctx context.Context) error {
	root := c.workspaces.Root()

	pending := make([]string, 0, len(c.indexes))
	missing := make([]string, 0)
	for _, rel := range c.indexes {
		fPath := path.Join(root, rel)
		ok, err := c.fs.FileExists(fPath)
		if err != nil {
			return fmt.Errorf("checking index %q: %w", fPath, err)
		}
		if !ok {
			missing = append(missing, fPath)
			continue
		}
		pending = append(pending, fPath)
	}

	if len(missing) > 0 {
		if err := c.buildIndexes(ctx); err != nil {
			c.logger.Warnf("Failed to build missing indexes: %v", err)
			c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
				Message: fmt.Sprintf("Failed to build %d missing indexes: %v", len(missing), err),
				Type:    protocol.MessageTypeWarning,
			})
		} else {
			for _, fPath := range missing {
				if ok, _ := c.fs.FileExists(fPath); ok {
					pending = append(pending, fPath)
				}
			}
		}
	}

	failed := c.loadPaths(pending)
	if len(failed) > 0 {
		c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Message: fmt.Sprintf("Failed to load %d indexes: %v", len(failed), failed),
			Type:    protocol.MessageTypeInfo,
		})
		c.logger.Warnf("Failed to load %d indexes", len(failed))
	}
	return nil
}

// buildIndexes runs the workspace's index build command, streaming its output
// to the requesting session's log view.
func (c *controller) buildIndexes(ctx context.Context) error {
	if len(c.buildCommand) == 0 {
		c.logger.Info("No index build command configured, skipping missing indexes")
		return nil
	}

	cmd := exec.CommandContext(ctx, c.buildCommand[0], c.buildCommand[1:]...)
	cmd.Dir = c.workspaces.Root()
	if writer, err := c.ideGateway.GetLogMessageWriter(ctx, _nameKey); err == nil {
		cmd.Stdout = writer
		cmd.Stderr = writer
	}

	var env []string
	if s, err := c.sessions.GetFromContext(ctx); err == nil {
		env = s.Env
	}

	c.stats.Counter("index_builds").Inc(1)
	if err := c.executor.RunCommand(cmd, env); err != nil {
		c.stats.Counter("index_build_failures").Inc(1)
		return fmt.Errorf("running %q: %w", strings.Join(c.buildCommand, " "), err)
	}
	return nil
}

// loadPaths decodes the given index files into the registry, a few at a time.
func (c *controller) loadPaths(paths []string) []string {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	failed := make([]string, 0)

	sem := make(chan struct{}, c.registry.LoadConcurrency())
	for _, fPath := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(fPath string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := c.loadIndexFile(fPath); err != nil {
				c.logger.Warnf("Failed to load index %q: %v", fPath, err)
				mu.Lock()
				failed = append(failed, fPath)
				mu.Unlock()
			}
		}(fPath)
	}
	wg.Wait()

	return failed
}

func (c *controller) loadIndexFile(fPath string) error {
	data, err := c.fs.ReadFile(fPath)
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	sum := fmt.Sprintf("%x", sha256.Sum256(data))

	c.loadedMu.Lock()
	loaded := c.loadedIndexes[fPath]
	c.loadedMu.Unlock()
	if loaded == sum {
		c.logger.Infof("Skipping index %q, already loaded", fPath)
		return nil
	}

	c.logger.Infof("Loading index %q", fPath)
	start := time.Now()
	if err := c.registry.LoadIndexBytes(data); err != nil {
		c.stats.Counter("index_load_failures").Inc(1)
		return err
	}

	c.loadedMu.Lock()
	c.loadedIndexes[fPath] = sum
	c.loadedMu.Unlock()

	c.stats.Counter("index_loads").Inc(1)
	c.stats.Gauge("documents").Update(float64(c.registry.DocumentCount()))
	c.logger.Infof("Finished loading index %q in %s", fPath, time.Since(start))
	return nil
}

// handleChanges reacts to index file events until the closer is signaled.
func (c *controller) handleChanges(closer chan bool) {
	if c.watcher == nil {
		c.logger.Warn("File watcher unavailable, continuing without watching for index changes")
		return
	}
	for {
		select {
		case event := <-c.watcher.Events:
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			c.handleDebounce(event)

		case err := <-c.watcher.Errors:
			c.logger.Warnf("Failure in index change watcher: %v", err)

		case <-closer:
			c.debounceMu.Lock()
			for _, timer := range c.debounceTimers {
				timer.Stop()
			}
			c.debounceTimers = make(map[string]*time.Timer)
			c.debounceMu.Unlock()

			if err := c.watcher.Close(); err != nil {
				c.logger.Warnf("Failed to close index change watcher: %v", err)
			}
			return
		}
	}
}

// handleDebounce coalesces bursts of events for one file into a single reload.
func (c *controller) handleDebounce(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, _scipExt) || !c.isServedIndex(event.Name) {
		return
	}

	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()

	if timer, exists := c.debounceTimers[event.Name]; exists {
		timer.Stop()
	}

	c.debounceTimers[event.Name] = time.AfterFunc(_debounceTimeout, func() {
		c.debounceMu.Lock()
		delete(c.debounceTimers, event.Name)
		c.debounceMu.Unlock()

		if err := c.loadIndexFile(event.Name); err != nil {
			c.logger.Warnf("Failed to reload index: %v", err)
			c.showMessageAll(context.Background(), &protocol.ShowMessageParams{
				Message: fmt.Sprintf("Failed to reload index %q: %v", event.Name, err),
				Type:    protocol.MessageTypeError,
			})
		}
	})
}

// isServedIndex reports whether an absolute path names a configured index.
// Watches cover whole directories, so events arrive for sibling files too.
func (c *controller) isServedIndex(fPath string) bool {
	root := c.workspaces.Root()
	for _, rel := range c.indexes {
		if path.Join(root, rel) == fPath {
			return true
		}
	}
	return false
}

// Definition implements Controller.
func (c *controller) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.LocationLink, error) {
	t, err := c.translator(ctx)
	if err != nil {
		return nil, err
	}
	relPath, ok := relativePath(t, string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	source, definition := c.registry.Definition(relPath, params.Position)
	if definition == nil {
		return nil, nil
	}

	location, err := c.renderLocation(t, definition)
	if err != nil {
		return nil, err
	}

	link := protocol.LocationLink{
		TargetURI:            location.URI,
		TargetRange:          location.Range,
		TargetSelectionRange: location.Range,
	}
	if source != nil {
		rng := mapper.ScipToProtocolRange(source.Occurrence.Range)
		link.OriginSelectionRange = &rng
	}
	return []protocol.LocationLink{link}, nil
}

// TypeDefinition implements Controller.
func (c *controller) TypeDefinition(ctx context.Context, params *protocol.TypeDefinitionParams) ([]protocol.LocationLink, error) {
	t, err := c.translator(ctx)
	if err != nil {
		return nil, err
	}
	relPath, ok := relativePath(t, string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	definitions := c.registry.TypeDefinition(relPath, params.Position)
	links := make([]protocol.LocationLink, 0, len(definitions))
	for _, def := range definitions {
		location, err := c.renderLocation(t, def)
		if err != nil {
			return nil, err
		}
		links = append(links, protocol.LocationLink{
			TargetURI:            location.URI,
			TargetRange:          location.Range,
			TargetSelectionRange: location.Range,
		})
	}
	return links, nil
}

// References implements Controller.
func (c *controller) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	t, err := c.translator(ctx)
	if err != nil {
		return nil, err
	}
	relPath, ok := relativePath(t, string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	refs := c.registry.References(relPath, params.Position)
	locations := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		if !params.Context.IncludeDeclaration && ref.Occurrence.SymbolRoles&int32(scip.SymbolRole_Definition) > 0 {
			continue
		}
		location, err := c.renderLocation(t, ref)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *location)
	}
	return locations, nil
}

// Hover implements Controller.
func (c *controller) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	t, err := c.translator(ctx)
	if err != nil {
		return nil, err
	}
	relPath, ok := relativePath(t, string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	docs, occ := c.registry.Hover(relPath, params.Position)
	if docs == "" {
		return nil, nil
	}

	rng := mapper.ScipToProtocolRange(occ.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  t.ClientConfig().HoverFormat,
			Value: docs,
		},
		Range: &rng,
	}, nil
}

// DocumentSymbol implements Controller.
func (c *controller) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	t, err := c.translator(ctx)
	if err != nil {
		return nil, err
	}
	relPath, ok := relativePath(t, string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	symbols := c.registry.DocumentSymbols(relPath)
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		result = append(result, *mapper.ScipSymbolInformationToDocumentSymbol(sym.Info, sym.Occurrence))
	}
	return result, nil
}

func (c *controller) translator(ctx context.Context) (*workspace.Translator, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, err
	}
	w, err := c.workspaces.Workspace(s.UUID)
	if err != nil {
		return nil, err
	}
	return w.Translator(), nil
}

// relativePath resolves a client URI to the workspace-relative path indexes
// key their documents by.
func relativePath(t *workspace.Translator, uri string) (string, bool) {
	id, ok := t.ParseURI(uri)
	if !ok || id.Space == workspace.SpaceRemoteURL {
		return "", false
	}
	return id.Rel, true
}

// renderLocation converts an index occurrence into a client-facing location.
// Resolving through the file store keeps payload files and directories the
// client's checkout lacks on their canonical URIs.
func (c *controller) renderLocation(t *workspace.Translator, so *SymbolOccurrence) (*protocol.Location, error) {
	ref := c.files.Register(t.LocalPath(workspace.Ident{Space: workspace.SpaceClientURI, Rel: so.Path}))
	rng := mapper.ScipToProtocolRange(so.Occurrence.Range)

	loc, err := t.PositionToLoc(c.files, ref, rng.Start)
	if err != nil {
		// Index entries can outrun the file on disk. Fall back to the raw
		// index range rather than failing the whole query.
		c.logger.Debugf("resolving %s:%d:%d: %v", so.Path, rng.Start.Line, rng.Start.Character, err)
		return &protocol.Location{URI: protocol.DocumentURI(t.FileRefToURI(c.files, ref)), Range: rng}, nil
	}

	location, err := t.LocToLocation(c.files, loc)
	if err != nil {
		return nil, err
	}
	// LocToLocation renders the zero-width start point. Widen it back to the
	// occurrence's full range.
	location.Range = rng
	return location, nil
}

func (c *controller) sendLoadStart(ctx context.Context, token protocol.ProgressToken) {
	if err := c.ideGateway.WorkDoneProgressCreate(ctx, &protocol.WorkDoneProgressCreateParams{Token: token}); err != nil {
		c.logger.Debugf("creating progress token: %v", err)
		return
	}
	if err := c.ideGateway.Progress(ctx, &protocol.ProgressParams{
		Token: token,
		Value: protocol.WorkDoneProgressBegin{
			Kind:  protocol.WorkDoneProgressKindBegin,
			Title: "Loading scip-ruby indexes",
		},
	}); err != nil {
		c.logger.Debugf("sending progress: %v", err)
	}
}

func (c *controller) sendLoadEnd(ctx context.Context, token protocol.ProgressToken) {
	if err := c.ideGateway.Progress(ctx, &protocol.ProgressParams{
		Token: token,
		Value: protocol.WorkDoneProgressEnd{Kind: protocol.WorkDoneProgressKindEnd},
	}); err != nil {
		c.logger.Debugf("sending progress: %v", err)
	}
}

// showMessageAll fans a message out to every connected session. Watcher
// callbacks run without a session context, so each send gets its own.
func (c *controller) showMessageAll(ctx context.Context, params *protocol.ShowMessageParams) {
	sessions, err := c.sessions.GetAll(ctx)
	if err != nil {
		c.logger.Warnf("listing sessions for message fan-out: %v", err)
		return
	}
	for _, s := range sessions {
		sCtx := context.WithValue(ctx, entity.SessionContextKey, s.UUID)
		if err := c.ideGateway.ShowMessage(sCtx, params); err != nil {
			c.logger.Warnf("notifying session %s: %v", s.UUID, err)
		}
	}
}
