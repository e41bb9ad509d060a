package slspdaemon

import (
	"context"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) DidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidOpenTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.slspdaemon.DidOpen(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) DidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.slspdaemon.DidChange(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) DidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidCloseTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.slspdaemon.DidClose(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) DidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidSaveTextDocumentParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.slspdaemon.DidSave(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) DidChangeWatchedFiles(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeWatchedFilesParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.slspdaemon.DidChangeWatchedFiles(ctx, params)
	return reply(ctx, nil, err)
}

// ReadFile serves file contents for URIs the client has no checkout file for.
func (r *jsonRPCRouter) ReadFile(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToTextDocumentIdentifier(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.slspdaemon.ReadFile(ctx, params)
	return reply(ctx, result, err)
}
