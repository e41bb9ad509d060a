// Package slspdaemon implements the slsp-daemon business logic. The central
// controller owns session and workspace lifecycle and dispatches document and
// code navigation work to the fixed sub-controllers.
package slspdaemon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/codeintel"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/docstore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/typecheck"
	ideclient "github.com/sorbet-tools/sorbet-lsp/src/slsp/gateway/ide-client"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/filestore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _idleTimeoutMinutesKey = "idleTimeoutMinutes"

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) (err error)
	Shutdown(ctx context.Context) (err error)
	Exit(ctx context.Context) error

	// Document related methods.
	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error
	DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error

	// Code navigation methods.
	GotoDefinition(ctx context.Context, params *protocol.DefinitionParams) (result []protocol.LocationLink, err error)
	GotoTypeDefinition(ctx context.Context, params *protocol.TypeDefinitionParams) (result []protocol.LocationLink, err error)
	References(ctx context.Context, params *protocol.ReferenceParams) (result []protocol.Location, err error)
	Hover(ctx context.Context, params *protocol.HoverParams) (result *protocol.Hover, err error)
	DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) (result []protocol.DocumentSymbol, err error)

	// ReadFile serves the sorbet/readFile extension: content of files the
	// client cannot read from its own checkout.
	ReadFile(ctx context.Context, params *protocol.TextDocumentIdentifier) (*protocol.TextDocumentItem, error)

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, uuid uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Shutdowner fx.Shutdowner
	Sessions   session.Repository
	Workspaces workspace.Manager
	Files      filestore.Store
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Config     config.Provider

	Documents docstore.Controller
	CodeIntel codeintel.Controller
	Typecheck typecheck.Controller
}

type controller struct {
	sessions   session.Repository
	workspaces workspace.Manager
	files      filestore.Store
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	shutdowner fx.Shutdowner

	documents docstore.Controller
	codeIntel codeintel.Controller
	typecheck typecheck.Controller

	fullShutdown bool
	idleTimer    *time.Timer
	idleTimerMu  sync.Mutex
	idleTimeout  time.Duration
	wg           sync.WaitGroup
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	ctx := context.Background()

	var timeoutMinutesRaw int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&timeoutMinutesRaw); err != nil || timeoutMinutesRaw == 0 {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}

	c := &controller{
		sessions:    p.Sessions,
		workspaces:  p.Workspaces,
		files:       p.Files,
		ideGateway:  p.IdeGateway,
		logger:      p.Logger,
		shutdowner:  p.Shutdowner,
		documents:   p.Documents,
		codeIntel:   p.CodeIntel,
		typecheck:   p.Typecheck,
		idleTimeout: time.Duration(timeoutMinutesRaw) * time.Minute,
	}
	c.refreshIdleTimer(ctx)

	return c, nil
}

// translator returns the session's URI translator. Requests arriving before
// the initialize handshake completes have no translator yet and get an error
// rather than a panic.
func (c *controller) translator(ctx context.Context) (*workspace.Translator, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}
	w, err := c.workspaces.Workspace(id)
	if err != nil {
		return nil, fmt.Errorf("getting session workspace: %w", err)
	}
	if !w.Activated() {
		return nil, fmt.Errorf("session %s is not initialized", id)
	}
	return w.Translator(), nil
}

// typecheckPath resolves the engine path a document event refers to. Empty
// means the event addresses nothing the engine typechecks: an unrecognized
// URI, a remote URL, or an ignored file.
func (c *controller) typecheckPath(ctx context.Context, uri protocol.DocumentURI) string {
	t, err := c.translator(ctx)
	if err != nil {
		return ""
	}
	id, ok := t.ParseURI(string(uri))
	if !ok || id.Space == workspace.SpaceRemoteURL {
		return ""
	}
	path := t.LocalPath(id)
	if t.IsFileIgnored(path) {
		return ""
	}
	return path
}

// refreshIdleTimer ensures that the service shuts down after a defined inactivity period with no connections.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call initializes new timer and leaves it running prior to first connection.
	if c.idleTimer == nil {
		c.idleTimer = time.NewTimer(c.idleTimeout)
		go func() {
			<-c.idleTimer.C
			c.logger.Info("Shutdown signal received.")
			if err := c.shutdowner.Shutdown(); err != nil {
				os.Exit(1)
			}
		}()
		return nil
	}

	// Subsequent calls stop the timer and reset it only if no connections are active.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer.Reset(c.idleTimeout)
	}
	return nil
}
