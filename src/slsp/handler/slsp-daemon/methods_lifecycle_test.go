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

func TestInitialize(t *testing.T) {

	tests := []struct {
		name             string
		params           interface{}
		controllerResult *protocol.InitializeResult
		controllerError  error
		wantErr          bool
	}{
		{
			name:             "error from controller",
			params:           protocol.InitializeParams{},
			controllerResult: nil,
			controllerError:  errors.New("controller error"),
			wantErr:          true,
		},
		{
			name:             "no error from controller",
			params:           protocol.InitializeParams{},
			controllerResult: &protocol.InitializeResult{},
			controllerError:  nil,
			wantErr:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			replier := newMockReplier()

			c := slspdaemonmock.NewMockController(ctrl)
			c.EXPECT().Initialize(gomock.Any(), gomock.Any()).Return(tt.controllerResult, tt.controllerError)

			r := jsonRPCRouter{slspdaemon: c}
			req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), protocol.MethodInitialize, tt.params)
			err := r.HandleReq(ctx, replier, req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("invalid params", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c := slspdaemonmock.NewMockController(ctrl)
		r := jsonRPCRouter{slspdaemon: c}

		req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), protocol.MethodInitialize, 5)
		err := r.HandleReq(context.Background(), newMockReplier(), req)
		assert.Error(t, err)
	})
}

func TestInitialized(t *testing.T) {
	tests := []struct {
		name            string
		controllerError error
		wantErr         bool
	}{
		{
			name:            "error from controller",
			controllerError: errors.New("controller error"),
			wantErr:         true,
		},
		{
			name:    "no error from controller",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := slspdaemonmock.NewMockController(ctrl)
			c.EXPECT().Initialized(gomock.Any(), gomock.Any()).Return(tt.controllerError)

			r := jsonRPCRouter{slspdaemon: c}
			req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), protocol.MethodInitialized, protocol.InitializedParams{})
			err := r.HandleReq(context.Background(), newMockReplier(), req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := slspdaemonmock.NewMockController(ctrl)
	c.EXPECT().Shutdown(gomock.Any()).Return(nil)

	r := jsonRPCRouter{slspdaemon: c}
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), protocol.MethodShutdown, nil)
	err := r.HandleReq(context.Background(), newMockReplier(), req)
	assert.NoError(t, err)
}

func TestExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := slspdaemonmock.NewMockController(ctrl)

	replied := false
	replier := func(ctx context.Context, result interface{}, err error) error {
		replied = true
		return err
	}

	// The reply must be sent before the controller begins shutdown.
	c.EXPECT().Exit(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		assert.True(t, replied)
		return nil
	})

	r := jsonRPCRouter{slspdaemon: c}
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), protocol.MethodExit, nil)
	err := r.HandleReq(context.Background(), replier, req)
	assert.NoError(t, err)
}

func TestRequestFullShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := slspdaemonmock.NewMockController(ctrl)
	c.EXPECT().RequestFullShutdown(gomock.Any()).Return(nil)

	r := jsonRPCRouter{slspdaemon: c}
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), MethodRequestFullShutdown, nil)
	err := r.HandleReq(context.Background(), newMockReplier(), req)
	assert.NoError(t, err)
}
