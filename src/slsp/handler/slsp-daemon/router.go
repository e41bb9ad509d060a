package slspdaemon

import (
	"context"

	"github.com/gofrs/uuid"
	controller "github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/slsp-daemon"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	slspprotocol "github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/protocol"
	tally "github.com/uber-go/tally"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// MethodRequestFullShutdown directs the server to shut down on the next JSON-RPC 'exit' method call.
const MethodRequestFullShutdown = "slsp/requestFullShutdown"

type jsonRPCRouter struct {
	slspdaemon controller.Controller
	uuid       uuid.UUID
	stats      tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)

	// Routing to each of the available methods in go.lsp.dev/protocol will occur here.
	// Results are passed back to reply to be returned to the client.
	switch req.Method() {
	// Lifecycle related methods.
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)

	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)

	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)

	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)

	case MethodRequestFullShutdown:
		return r.RequestFullShutdown(ctx, reply, req)

	// Document related methods.
	case protocol.MethodTextDocumentDidOpen:
		return r.DidOpen(ctx, reply, req)

	case protocol.MethodTextDocumentDidChange:
		return r.DidChange(ctx, reply, req)

	case protocol.MethodTextDocumentDidClose:
		return r.DidClose(ctx, reply, req)

	case protocol.MethodTextDocumentDidSave:
		return r.DidSave(ctx, reply, req)

	case protocol.MethodWorkspaceDidChangeWatchedFiles:
		return r.DidChangeWatchedFiles(ctx, reply, req)

	// Code intel related methods.
	case protocol.MethodTextDocumentDefinition:
		return r.GotoDefinition(ctx, reply, req)

	case protocol.MethodTextDocumentTypeDefinition:
		return r.GotoTypeDefinition(ctx, reply, req)

	case protocol.MethodTextDocumentReferences:
		return r.References(ctx, reply, req)

	case protocol.MethodTextDocumentHover:
		return r.Hover(ctx, reply, req)

	case protocol.MethodTextDocumentDocumentSymbol:
		return r.DocumentSymbol(ctx, reply, req)

	// Protocol extensions.
	case slspprotocol.MethodReadFile:
		return r.ReadFile(ctx, reply, req)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
