// Package typecheck mirrors the engine's typecheck run lifecycle to the
// editor. Edits are classified as fast path (confined to method bodies, only
// the edited files are rechecked) or slow path (a definition changed, the
// whole workspace is rechecked), batched over a debounce window, and reported
// through the sorbet/typecheckRunInfo and sorbet/showOperation extensions to
// sessions that opted in.
package typecheck

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	ideclient "github.com/sorbet-tools/sorbet-lsp/src/slsp/gateway/ide-client"
	slspprotocol "github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/protocol"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/projectfile"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session"
	"github.com/uber-go/tally"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "typecheck"
	_configKey = "typecheck"

	_defaultDebounce = 250 * time.Millisecond

	_operationName        = "SlowPathNonBlocking"
	_operationDescription = "Typechecking in background"
)

// _definitionPattern matches lines that introduce definitions: method, class,
// module and attribute declarations, sig blocks, and constant assignment.
// Edits touching these lines can change types visible from other files.
var _definitionPattern = regexp.MustCompile(
	`(?m)^[ \t]*(?:def|class|module|sig|attr_(?:reader|writer|accessor))\b.*|^[ \t]*[A-Z][A-Za-z0-9_]*\s*=(?:[^=].*)?$`)

// Controller turns document lifecycle events into typecheck run notifications.
type Controller interface {
	// DocumentOpened and DocumentClosed force the next run onto the slow
	// path: the engine's view of the file flips between disk and editor
	// contents.
	DocumentOpened(ctx context.Context, path string)
	DocumentClosed(ctx context.Context, path string)

	// DocumentChanged classifies an edit by its before and after text and
	// folds it into the pending run.
	DocumentChanged(ctx context.Context, path string, before string, after string)

	// FilesChangedOnDisk folds watched-file events into the pending run.
	// Disk changes have no before text to diff, so they take the slow path.
	FilesChangedOnDisk(ctx context.Context, paths []string)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Sessions   session.Repository
	Workspaces workspace.Manager
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Config     config.Provider
	Lifecycle  fx.Lifecycle
}

type controllerConfig struct {
	// DebounceMs is how long to wait after the last edit before a run is
	// reported as ended. The workspace project file takes precedence.
	DebounceMs int `yaml:"debounceMs"`
}

// run accumulates the edits of one debounced typecheck run.
type run struct {
	fastPath bool
	files    map[string]struct{}
}

func (r *run) sortedFiles() []string {
	files := make([]string, 0, len(r.files))
	for f := range r.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

type controller struct {
	sessions   session.Repository
	workspaces workspace.Manager
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	stats      tally.Scope
	differ     *diffmatchpatch.DiffMatchPatch
	debounce   time.Duration

	mu      sync.Mutex
	pending *run
	timer   *time.Timer
	gen     uint64
}

// New creates a new controller for typecheck run notifications.
func New(p Params) (Controller, error) {
	var cfg controllerConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get typecheck settings from config: %w", err)
	}

	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	if ms := p.Workspaces.Project().TypecheckDebounceMs; ms > 0 {
		debounce = time.Duration(ms) * time.Millisecond
	}
	if debounce <= 0 {
		debounce = _defaultDebounce
	}

	c := &controller{
		sessions:   p.Sessions,
		workspaces: p.Workspaces,
		ideGateway: p.IdeGateway,
		logger:     p.Logger.With("controller", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
		differ:     diffmatchpatch.New(),
		debounce:   debounce,
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: c.stop,
	})
	return c, nil
}

// stop halts a pending debounce timer so no run settles after shutdown.
func (c *controller) stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.pending = nil
	return nil
}

// DocumentOpened forces the next run onto the slow path.
func (c *controller) DocumentOpened(ctx context.Context, path string) {
	c.schedule(ctx, path, false)
}

// DocumentClosed forces the next run onto the slow path.
func (c *controller) DocumentClosed(ctx context.Context, path string) {
	c.schedule(ctx, path, false)
}

// DocumentChanged classifies an edit and folds it into the pending run.
func (c *controller) DocumentChanged(ctx context.Context, path string, before string, after string) {
	c.schedule(ctx, path, c.takesFastPath(path, before, after))
}

// FilesChangedOnDisk forces the next run onto the slow path for every
// changed file.
func (c *controller) FilesChangedOnDisk(ctx context.Context, paths []string) {
	for _, p := range paths {
		c.schedule(ctx, p, false)
	}
}

// takesFastPath reports whether an edit leaves every definition intact. Edits
// confined to method bodies are rechecked file-locally; anything that touches
// a definition line invalidates downstream files and takes the slow path, as
// does any change to the workspace project file.
func (c *controller) takesFastPath(fPath string, before string, after string) bool {
	if path.Base(fPath) == projectfile.FileName {
		return false
	}
	if before == after {
		return true
	}

	diffs := c.differ.DiffMain(before, after, false)
	initialText, edits := mapper.DiffsToEditOffsets(diffs)
	if len(edits) == 0 {
		return true
	}
	for _, e := range edits {
		if _definitionPattern.MatchString(e.Text) {
			return false
		}
	}

	changed, err := mapper.EditOffsetsToTextEdits(initialText, edits)
	if err != nil {
		c.logger.Debugf("mapping edits for %s: %v", fPath, err)
		return false
	}
	definitions := mapper.FindAllStringMatches(_definitionPattern, before)
	for _, edit := range changed {
		for _, def := range definitions {
			if edit.Range.Start.Line <= def.Range.End.Line && edit.Range.End.Line >= def.Range.Start.Line {
				return false
			}
		}
	}
	return true
}

// schedule folds an event into the pending run and restarts the debounce
// window. A fast run preempted by a slow edit is reported as cancelled and
// restarted, so clients never see a run change paths midway.
func (c *controller) schedule(ctx context.Context, path string, fast bool) {
	if fast {
		c.stats.Counter("edits_fast").Inc(1)
	} else {
		c.stats.Counter("edits_slow").Inc(1)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.pending == nil:
		c.pending = &run{fastPath: fast, files: map[string]struct{}{path: {}}}
		c.notifyRunStarted(ctx, c.pending)
	case c.pending.fastPath && !fast:
		c.stats.Counter("runs_cancelled").Inc(1)
		c.notifyRunInfo(ctx, &slspprotocol.TypecheckRunInfo{
			Status:     slspprotocol.TypecheckRunCancelled,
			IsFastPath: true,
		})
		c.pending.fastPath = false
		c.pending.files[path] = struct{}{}
		c.notifyRunStarted(ctx, c.pending)
	default:
		c.pending.files[path] = struct{}{}
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.debounce, func() { c.settle(gen) })
}

// settle closes out the pending run once the debounce window passes with no
// further edits. A stale generation means another edit arrived after this
// timer was set.
func (c *controller) settle(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.pending == nil {
		return
	}
	finished := c.pending
	c.pending = nil
	c.timer = nil

	if finished.fastPath {
		c.stats.Counter("runs_fast").Inc(1)
	} else {
		c.stats.Counter("runs_slow").Inc(1)
	}

	// Timer callbacks run without a session context. The fan-out attaches one
	// per session.
	ctx := context.Background()
	info := &slspprotocol.TypecheckRunInfo{
		Status:     slspprotocol.TypecheckRunEnded,
		IsFastPath: finished.fastPath,
	}
	if finished.fastPath {
		info.FilesTypechecked = finished.sortedFiles()
	}
	c.notifyRunInfo(ctx, info)
	if !finished.fastPath {
		c.notifyOperation(ctx, slspprotocol.OperationEnd)
	}
}

func (c *controller) notifyRunStarted(ctx context.Context, r *run) {
	info := &slspprotocol.TypecheckRunInfo{
		Status:     slspprotocol.TypecheckRunStarted,
		IsFastPath: r.fastPath,
	}
	if r.fastPath {
		info.FilesTypechecked = r.sortedFiles()
	}
	c.notifyRunInfo(ctx, info)
	if !r.fastPath {
		c.notifyOperation(ctx, slspprotocol.OperationStart)
	}
}

func (c *controller) notifyRunInfo(ctx context.Context, info *slspprotocol.TypecheckRunInfo) {
	c.forEachSession(ctx, func(sCtx context.Context, s *entity.Session, cfg entity.ClientConfig) {
		if !cfg.TypecheckProgress {
			return
		}
		if err := c.ideGateway.TypecheckRunInfo(sCtx, info); err != nil {
			c.logger.Warnf("notifying session %s: %v", s.UUID, err)
		}
	})
}

func (c *controller) notifyOperation(ctx context.Context, status slspprotocol.OperationStatus) {
	params := &slspprotocol.ShowOperationParams{
		OperationName: _operationName,
		Description:   _operationDescription,
		Status:        status,
	}
	c.forEachSession(ctx, func(sCtx context.Context, s *entity.Session, cfg entity.ClientConfig) {
		if !cfg.OperationNotifications {
			return
		}
		if err := c.ideGateway.ShowOperation(sCtx, params); err != nil {
			c.logger.Warnf("notifying session %s: %v", s.UUID, err)
		}
	})
}

// forEachSession fans a notification out to every activated session, each
// send carrying its own session context. The client config decides per
// session whether the send happens.
func (c *controller) forEachSession(ctx context.Context, send func(context.Context, *entity.Session, entity.ClientConfig)) {
	sessions, err := c.sessions.GetAll(ctx)
	if err != nil {
		c.logger.Warnf("listing sessions for notification fan-out: %v", err)
		return
	}
	for _, s := range sessions {
		w, err := c.workspaces.Workspace(s.UUID)
		if err != nil || !w.Activated() {
			continue
		}
		sCtx := context.WithValue(ctx, entity.SessionContextKey, s.UUID)
		send(sCtx, s, w.Translator().ClientConfig())
	}
}
