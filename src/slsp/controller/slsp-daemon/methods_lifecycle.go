package slspdaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Initialize stores the handshake parameters, activates the session's URI
// translator from the negotiated capabilities, and assembles the server
// capability response.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	w := c.workspaces.CreateWorkspace(s.UUID)
	if w.Activated() {
		return nil, fmt.Errorf("session %s sent initialize twice", s.UUID)
	}
	root := c.workspaces.Root()
	cfg := mapper.InitializeParamsToClientConfig(params)
	if cfg.RootURI != "" && cfg.RootURI != string(uri.File(root)) {
		c.logger.Warnf("client rootUri %q does not name the configured workspace root %q", cfg.RootURI, root)
	}
	w.Activate(cfg)

	s.InitializeParams = params
	s.WorkspaceRoot = root
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	if err := c.documents.InitSession(ctx); err != nil {
		return nil, fmt.Errorf("initializing document tracking: %w", err)
	}

	result := &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: "Sorbet Language Server",
		},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
				Save: &protocol.SaveOptions{
					IncludeText: true,
				},
			},
		},
	}
	if err := c.codeIntel.InitializeResult(ctx, result); err != nil {
		return nil, fmt.Errorf("assembling server capabilities: %w", err)
	}

	return result, nil
}

// Initialized marks the session ready and kicks off index loading.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	w, err := c.workspaces.Workspace(s.UUID)
	if err != nil {
		return fmt.Errorf("getting session workspace: %w", err)
	}
	w.MarkInitialized()

	if err := c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
		Message: "Connection to the Sorbet language server is now initialized.",
		Type:    protocol.MessageTypeInfo,
	}); err != nil {
		c.logger.Warnf("sending ready message: %v", err)
	}

	// Index loading outlives this request. It runs on a fresh context that
	// keeps only the session identity, since the request context may be
	// cancelled as soon as the reply is written.
	loadCtx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.codeIntel.StartIndexLoad(loadCtx); err != nil {
			c.logger.Warnf("loading indexes: %v", err)
		}
	}()

	return nil
}

// Shutdown is sent just before Exit to indicate that the session will exit.
// Session state is kept until the matching Exit arrives.
func (c *controller) Shutdown(ctx context.Context) error {
	return nil
}

// Exit cleans up after an individual connection, or shuts the whole server
// down after RequestFullShutdown.
func (c *controller) Exit(ctx context.Context) error {
	if c.fullShutdown {
		// Zero out the timer to trigger immediate shutdown.
		c.idleTimerMu.Lock()
		c.idleTimer.Reset(0)
		c.idleTimerMu.Unlock()
		return nil
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}
	return c.EndSession(ctx, s.UUID)
}

// RequestFullShutdown will set the controller to treat subsequent Shutdown and Exit requests as requests to exit the entire process.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.fullShutdown = true

	return nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	session := mapper.UUIDToSession(id, conn)
	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}

	if err := c.sessions.Set(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EndSession includes any cleanup at the end of the session, during or after the last JSON-RPC request.
func (c *controller) EndSession(ctx context.Context, uuid uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	if err := c.documents.EndSession(ctx, uuid); err != nil {
		c.logger.Errorf("ending document tracking for %s: %v", uuid, err)
	}
	if err := c.ideGateway.DeregisterClient(ctx, uuid); err != nil {
		c.logger.Error(err)
	}

	c.workspaces.DeleteWorkspace(uuid)
	return c.sessions.Delete(ctx, uuid)
}
