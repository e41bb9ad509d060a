package slspdaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/slsp-daemon/slspdaemonmock"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/factory"
	slspprotocol "github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/protocol"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

func TestDocumentMethods(t *testing.T) {

	tests := []struct {
		name             string
		method           string
		setReturn        func(c *slspdaemonmock.MockController, result interface{}, err error)
		params           interface{}
		controllerResult interface{}
		request          bool
	}{
		{
			name:   "DidOpen",
			method: protocol.MethodTextDocumentDidOpen,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				c.EXPECT().DidOpen(gomock.Any(), gomock.Any()).Return(err)
			},
			params: protocol.DidOpenTextDocumentParams{},
		},
		{
			name:   "DidChange",
			method: protocol.MethodTextDocumentDidChange,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				c.EXPECT().DidChange(gomock.Any(), gomock.Any()).Return(err)
			},
			params: protocol.DidChangeTextDocumentParams{},
		},
		{
			name:   "DidClose",
			method: protocol.MethodTextDocumentDidClose,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				c.EXPECT().DidClose(gomock.Any(), gomock.Any()).Return(err)
			},
			params: protocol.DidCloseTextDocumentParams{},
		},
		{
			name:   "DidSave",
			method: protocol.MethodTextDocumentDidSave,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				c.EXPECT().DidSave(gomock.Any(), gomock.Any()).Return(err)
			},
			params: protocol.DidSaveTextDocumentParams{},
		},
		{
			name:   "DidChangeWatchedFiles",
			method: protocol.MethodWorkspaceDidChangeWatchedFiles,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				c.EXPECT().DidChangeWatchedFiles(gomock.Any(), gomock.Any()).Return(err)
			},
			params: protocol.DidChangeWatchedFilesParams{},
		},
		{
			name:   "ReadFile",
			method: slspprotocol.MethodReadFile,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				r := result.(*protocol.TextDocumentItem)
				c.EXPECT().ReadFile(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.TextDocumentIdentifier{URI: "sorbet:core.rbi"},
			controllerResult: &protocol.TextDocumentItem{URI: "sorbet:core.rbi"},
			request:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			replier := newMockReplier()

			c := slspdaemonmock.NewMockController(ctrl)
			r := jsonRPCRouter{slspdaemon: c}

			// Document sync methods arrive as notifications, readFile as a call.
			newReq := func(params interface{}) jsonrpc2.Request {
				if tt.request {
					return factory.JSONRPCRequest(tt.method, params)
				}
				return factory.JSONRPCNotification(tt.method, params)
			}

			// Valid params.
			tt.setReturn(c, tt.controllerResult, nil)
			err := r.HandleReq(ctx, replier, newReq(tt.params))
			assert.NoError(t, err)

			// Invalid params.
			if tt.params != nil {
				err = r.HandleReq(ctx, replier, newReq(5))
				assert.Error(t, err)
			}

			// Controller error.
			tt.setReturn(c, tt.controllerResult, errors.New("err"))
			err = r.HandleReq(ctx, replier, newReq(tt.params))
			assert.Error(t, err)
		})
	}
}
