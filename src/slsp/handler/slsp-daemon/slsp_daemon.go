// Package slspdaemon wires the daemon controller into the JSON-RPC transport.
package slspdaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	controller "github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/slsp-daemon"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/jsonrpcfx"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
)

// Handler manages editor connections for the daemon, providing a Router for
// each one so its requests reach the controller.
type Handler interface {
	jsonrpcfx.ConnectionManager
}

// New constructs the connection manager and registers it with the JSON-RPC module.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, stats tally.Scope) (Handler, error) {
	c := &jsonRPCConnectionManager{
		ctrl:  ctrl,
		stats: stats.SubScope("json_rpc"),
	}
	if err := jsonrpcmod.RegisterConnectionManager(c); err != nil {
		return nil, err
	}

	return c, nil
}

type jsonRPCConnectionManager struct {
	ctrl  controller.Controller
	stats tally.Scope
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	r := jsonRPCRouter{
		slspdaemon: c.ctrl,
		uuid:       id,
		stats:      c.stats,
	}

	return &r, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	c.ctrl.EndSession(ctx, id)
}
