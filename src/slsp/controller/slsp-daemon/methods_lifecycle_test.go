package slspdaemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/sorbet-tools/sorbet-lsp/idl/mock/fxmock"
	"github.com/sorbet-tools/sorbet-lsp/idl/mock/jsonrpc2mock"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/codeintel/codeintelmock"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/docstore/docstoremock"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/factory"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/gateway/ide-client/ideclientmock"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace/workspacemock"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session/repositorymock"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	params := &protocol.InitializeParams{
		RootURI: "file:///workspace/project/",
	}

	t.Run("initialize success", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Do(func(ctx context.Context, updated *entity.Session) {
			assert.Equal(t, params, updated.InitializeParams)
			assert.Equal(t, _testRoot, updated.WorkspaceRoot)
		}).Return(nil)

		ws := sampleEmptyWorkspace()
		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().CreateWorkspace(s.UUID).Return(ws)
		workspaces.EXPECT().Root().Return(_testRoot)

		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().InitSession(gomock.Any()).Return(nil)

		codeIntel := codeintelmock.NewMockController(ctrl)
		codeIntel.EXPECT().InitializeResult(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, result *protocol.InitializeResult) error {
			result.Capabilities.HoverProvider = true
			return nil
		})

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			documents:  documents,
			codeIntel:  codeIntel,
		}

		res, err := c.Initialize(ctx, params)
		assert.NoError(t, err, "Unexpected initialize error.")
		assert.Equal(t, "Sorbet Language Server", res.ServerInfo.Name)
		assert.Equal(t, protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindIncremental,
			Save: &protocol.SaveOptions{
				IncludeText: true,
			},
		}, res.Capabilities.TextDocumentSync)
		assert.Equal(t, true, res.Capabilities.HoverProvider)
		assert.True(t, ws.Activated())
		assert.Equal(t, "file:///workspace/project", ws.Translator().ClientConfig().RootURI)
	})

	t.Run("mismatched client root is logged", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().CreateWorkspace(s.UUID).Return(sampleEmptyWorkspace())
		workspaces.EXPECT().Root().Return(_testRoot)

		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().InitSession(gomock.Any()).Return(nil)

		codeIntel := codeintelmock.NewMockController(ctrl)
		codeIntel.EXPECT().InitializeResult(gomock.Any(), gomock.Any()).Return(nil)

		core, recorded := observer.New(zap.WarnLevel)
		c := controller{
			logger:     zap.New(core).Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			documents:  documents,
			codeIntel:  codeIntel,
		}

		_, err := c.Initialize(ctx, &protocol.InitializeParams{RootURI: "file:///somewhere/else"})
		assert.NoError(t, err)
		assert.Equal(t, 1, recorded.FilterMessageSnippet("configured workspace root").Len())
	})

	t.Run("missing session uuid in context", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(nil, errors.New("sample"))
		c := controller{
			sessions: sessionRepository,
		}

		_, err := c.Initialize(context.Background(), params)
		assert.Error(t, err)
	})

	t.Run("duplicate initialize", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().CreateWorkspace(s.UUID).Return(sampleWorkspace(sampleClientConfig()))

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
		}

		_, err := c.Initialize(ctx, params)
		assert.Error(t, err)
	})

	t.Run("session update failure", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("sample"))

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().CreateWorkspace(s.UUID).Return(sampleEmptyWorkspace())
		workspaces.EXPECT().Root().Return(_testRoot)

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
		}

		_, err := c.Initialize(ctx, params)
		assert.Error(t, err)
	})

	t.Run("document tracking failure", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().CreateWorkspace(s.UUID).Return(sampleEmptyWorkspace())
		workspaces.EXPECT().Root().Return(_testRoot)

		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().InitSession(gomock.Any()).Return(errors.New("sample"))

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			documents:  documents,
		}

		_, err := c.Initialize(ctx, params)
		assert.Error(t, err)
	})

	t.Run("capability assembly failure", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().CreateWorkspace(s.UUID).Return(sampleEmptyWorkspace())
		workspaces.EXPECT().Root().Return(_testRoot)

		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().InitSession(gomock.Any()).Return(nil)

		codeIntel := codeintelmock.NewMockController(ctrl)
		codeIntel.EXPECT().InitializeResult(gomock.Any(), gomock.Any()).Return(errors.New("sample"))

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			documents:  documents,
			codeIntel:  codeIntel,
		}

		_, err := c.Initialize(ctx, params)
		assert.Error(t, err)
	})
}

func TestInitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	t.Run("initialized success", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)

		ws := sampleWorkspace(sampleClientConfig())
		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().Workspace(s.UUID).Return(ws, nil)

		mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
		mockIdeGateway.EXPECT().ShowMessage(gomock.Any(), gomock.Any()).Return(nil)

		loadCtxs := make(chan context.Context, 1)
		codeIntel := codeintelmock.NewMockController(ctrl)
		codeIntel.EXPECT().StartIndexLoad(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
			loadCtxs <- ctx
			return nil
		})

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			ideGateway: mockIdeGateway,
			codeIntel:  codeIntel,
		}

		err := c.Initialized(ctx, &protocol.InitializedParams{})
		c.wg.Wait()
		assert.NoError(t, err)
		assert.True(t, ws.Initialized())

		// Index loading must carry the session identity on its own context.
		select {
		case loadCtx := <-loadCtxs:
			assert.Equal(t, s.UUID, loadCtx.Value(entity.SessionContextKey))
		default:
			t.Fatal("StartIndexLoad was not called")
		}
	})

	t.Run("ready message failure is logged", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().Workspace(s.UUID).Return(sampleWorkspace(sampleClientConfig()), nil)

		mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
		mockIdeGateway.EXPECT().ShowMessage(gomock.Any(), gomock.Any()).Return(errors.New("sample"))

		codeIntel := codeintelmock.NewMockController(ctrl)
		codeIntel.EXPECT().StartIndexLoad(gomock.Any()).Return(nil)

		core, recorded := observer.New(zap.WarnLevel)

		c := controller{
			logger:     zap.New(core).Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			ideGateway: mockIdeGateway,
			codeIntel:  codeIntel,
		}

		err := c.Initialized(ctx, &protocol.InitializedParams{})
		c.wg.Wait()
		assert.NoError(t, err)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("index load failure is logged", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().Workspace(s.UUID).Return(sampleWorkspace(sampleClientConfig()), nil)

		mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
		mockIdeGateway.EXPECT().ShowMessage(gomock.Any(), gomock.Any()).Return(nil)

		codeIntel := codeintelmock.NewMockController(ctrl)
		codeIntel.EXPECT().StartIndexLoad(gomock.Any()).Return(errors.New("sample"))

		core, recorded := observer.New(zap.WarnLevel)

		c := controller{
			logger:     zap.New(core).Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
			ideGateway: mockIdeGateway,
			codeIntel:  codeIntel,
		}

		err := c.Initialized(ctx, &protocol.InitializedParams{})
		c.wg.Wait()
		assert.NoError(t, err)
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("missing workspace", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().Workspace(s.UUID).Return(nil, errors.New("sample"))

		c := controller{
			logger:     zap.NewNop().Sugar(),
			sessions:   sessionRepository,
			workspaces: workspaces,
		}

		err := c.Initialized(ctx, &protocol.InitializedParams{})
		assert.Error(t, err)
	})
}

func TestShutdown(t *testing.T) {
	c := controller{}
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	t.Run("full shutdown enabled", func(t *testing.T) {
		mockShutdowner := fxmock.NewMockShutdowner(ctrl)

		c := controller{
			logger:       zap.NewNop().Sugar(),
			shutdowner:   mockShutdowner,
			fullShutdown: true,
			idleTimeout:  time.Duration(5) * time.Minute,
		}
		c.refreshIdleTimer(ctx)

		mockShutdowner.EXPECT().Shutdown().Return(nil).Times(1)
		assert.NoError(t, c.Exit(ctx))

		// Small delay to allow shutdown goroutine to complete.
		time.Sleep(100 * time.Millisecond)
	})

	t.Run("full shutdown disabled", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil)
		sessionRepository.EXPECT().Delete(gomock.Any(), s.UUID).Return(nil)
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(0, nil)

		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().EndSession(gomock.Any(), s.UUID).Return(nil)

		mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
		mockIdeGateway.EXPECT().DeregisterClient(gomock.Any(), s.UUID).Return(nil)

		workspaces := workspacemock.NewMockManager(ctrl)
		workspaces.EXPECT().DeleteWorkspace(s.UUID)

		c := controller{
			logger:      zap.NewNop().Sugar(),
			sessions:    sessionRepository,
			workspaces:  workspaces,
			documents:   documents,
			ideGateway:  mockIdeGateway,
			idleTimer:   time.NewTimer(time.Hour),
			idleTimeout: time.Hour,
		}

		assert.NoError(t, c.Exit(ctx))

		// Timer restarts once the last session is gone.
		assert.True(t, c.idleTimer.Stop())
	})

	t.Run("error getting session", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(nil, errors.New("sample"))

		c := controller{
			logger:   zap.NewNop().Sugar(),
			sessions: sessionRepository,
		}

		assert.Error(t, c.Exit(context.Background()))
	})
}

func TestRequestFullShutdown(t *testing.T) {
	c := controller{}

	// fullShutdown is set to true
	assert.False(t, c.fullShutdown)
	c.RequestFullShutdown(context.Background())
	assert.True(t, c.fullShutdown)

	// Duplicate calls have no effect
	c.RequestFullShutdown(context.Background())
	assert.True(t, c.fullShutdown)
}

func TestInitSession(t *testing.T) {
	ctrl := gomock.NewController(t)

	sessionRepository := repositorymock.NewMockRepository(ctrl)

	mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
	mockIdeGateway.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	c := controller{
		sessions:    sessionRepository,
		logger:      zap.NewNop().Sugar(),
		idleTimer:   time.NewTimer(time.Hour),
		idleTimeout: time.Hour,
		ideGateway:  mockIdeGateway,
	}

	mockConn := jsonrpc2mock.NewMockConn(ctrl)
	var conn jsonrpc2.Conn = mockConn

	ctx := context.Background()

	t.Run("value set successfully", func(t *testing.T) {
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil)
		id, err := c.InitSession(ctx, &conn)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.UUID{}, id)

		// Timer should be stopped when a value is set.
		assert.False(t, c.idleTimer.Stop())
	})

	t.Run("error setting value", func(t *testing.T) {
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("error"))
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(0, nil)
		_, err := c.InitSession(ctx, &conn)
		assert.Error(t, err)

		// Timer should be running when no sessions are active.
		assert.True(t, c.idleTimer.Stop())
	})
}

func TestEndSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil).AnyTimes()
	sessionRepository.EXPECT().Delete(gomock.Any(), s.UUID).Return(nil).AnyTimes()

	workspaces := workspacemock.NewMockManager(ctrl)
	workspaces.EXPECT().DeleteWorkspace(s.UUID).AnyTimes()

	t.Run("clean exit", func(t *testing.T) {
		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().EndSession(gomock.Any(), s.UUID).Return(nil)

		mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
		mockIdeGateway.EXPECT().DeregisterClient(gomock.Any(), s.UUID).Return(nil)

		core, recorded := observer.New(zap.ErrorLevel)

		c := controller{
			logger:      zap.New(core).Sugar(),
			sessions:    sessionRepository,
			workspaces:  workspaces,
			documents:   documents,
			ideGateway:  mockIdeGateway,
			idleTimer:   time.NewTimer(time.Hour),
			idleTimeout: time.Hour,
		}

		assert.NoError(t, c.EndSession(ctx, s.UUID))
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("cleanup failures are logged", func(t *testing.T) {
		documents := docstoremock.NewMockController(ctrl)
		documents.EXPECT().EndSession(gomock.Any(), s.UUID).Return(errors.New("sample"))

		mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
		mockIdeGateway.EXPECT().DeregisterClient(gomock.Any(), s.UUID).Return(errors.New("sample"))

		core, recorded := observer.New(zap.ErrorLevel)

		c := controller{
			logger:      zap.New(core).Sugar(),
			sessions:    sessionRepository,
			workspaces:  workspaces,
			documents:   documents,
			ideGateway:  mockIdeGateway,
			idleTimer:   time.NewTimer(time.Hour),
			idleTimeout: time.Hour,
		}

		// Cleanup continues past failures so the session entry is removed.
		assert.NoError(t, c.EndSession(ctx, s.UUID))
		assert.Equal(t, 2, recorded.Len())
	})
}
