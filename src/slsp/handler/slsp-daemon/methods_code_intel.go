package slspdaemon

import (
	"context"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) GotoDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDefinitionParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.slspdaemon.GotoDefinition(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) GotoTypeDefinition(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToTypeDefinitionParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.slspdaemon.GotoTypeDefinition(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) References(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToReferencesParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.slspdaemon.References(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Hover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToHoverParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.slspdaemon.Hover(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) DocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDocumentSymbolParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.slspdaemon.DocumentSymbol(ctx, params)
	return reply(ctx, result, err)
}
