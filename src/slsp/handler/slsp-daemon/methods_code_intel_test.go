package slspdaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/slsp-daemon/slspdaemonmock"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

func TestCodeIntelMethods(t *testing.T) {

	tests := []struct {
		name             string
		method           string
		setReturn        func(c *slspdaemonmock.MockController, result interface{}, err error)
		params           interface{}
		controllerResult interface{}
	}{
		{
			name:   "GotoDefinition",
			method: protocol.MethodTextDocumentDefinition,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				r := result.([]protocol.LocationLink)
				c.EXPECT().GotoDefinition(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.DefinitionParams{},
			controllerResult: []protocol.LocationLink{{}},
		},
		{
			name:   "GotoTypeDefinition",
			method: protocol.MethodTextDocumentTypeDefinition,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				r := result.([]protocol.LocationLink)
				c.EXPECT().GotoTypeDefinition(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.TypeDefinitionParams{},
			controllerResult: []protocol.LocationLink{{}},
		},
		{
			name:   "References",
			method: protocol.MethodTextDocumentReferences,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				r := result.([]protocol.Location)
				c.EXPECT().References(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.ReferenceParams{},
			controllerResult: []protocol.Location{{}, {}},
		},
		{
			name:   "Hover",
			method: protocol.MethodTextDocumentHover,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				r := result.(*protocol.Hover)
				c.EXPECT().Hover(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.HoverParams{},
			controllerResult: &protocol.Hover{},
		},
		{
			name:   "DocumentSymbol",
			method: protocol.MethodTextDocumentDocumentSymbol,
			setReturn: func(c *slspdaemonmock.MockController, result interface{}, err error) {
				r := result.([]protocol.DocumentSymbol)
				c.EXPECT().DocumentSymbol(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.DocumentSymbolParams{},
			controllerResult: []protocol.DocumentSymbol{{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			replier := newMockReplier()

			c := slspdaemonmock.NewMockController(ctrl)
			r := jsonRPCRouter{slspdaemon: c}

			// Valid params.
			tt.setReturn(c, tt.controllerResult, nil)
			req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, tt.params)
			err := r.HandleReq(ctx, replier, req)
			assert.NoError(t, err)

			// Invalid params.
			req, _ = jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, 5)
			err = r.HandleReq(ctx, replier, req)
			assert.Error(t, err)

			// Controller error.
			tt.setReturn(c, tt.controllerResult, errors.New("err"))
			req, _ = jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, tt.params)
			err = r.HandleReq(ctx, replier, req)
			assert.Error(t, err)
		})
	}
}
