package slspdaemon

import (
	"context"
	"fmt"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/errors"
	"go.lsp.dev/protocol"
)

func (c *controller) GotoDefinition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.LocationLink, error) {
	return c.codeIntel.Definition(ctx, params)
}

func (c *controller) GotoTypeDefinition(ctx context.Context, params *protocol.TypeDefinitionParams) ([]protocol.LocationLink, error) {
	return c.codeIntel.TypeDefinition(ctx, params)
}

func (c *controller) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	return c.codeIntel.References(ctx, params)
}

func (c *controller) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	return c.codeIntel.Hover(ctx, params)
}

func (c *controller) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	return c.codeIntel.DocumentSymbol(ctx, params)
}

// ReadFile returns the engine's content for URIs the client has no file for,
// such as sorbet: URIs pointing at payload stubs or checkout-missing
// directories.
func (c *controller) ReadFile(ctx context.Context, params *protocol.TextDocumentIdentifier) (*protocol.TextDocumentItem, error) {
	t, err := c.translator(ctx)
	if err != nil {
		return nil, err
	}

	ref := t.URIToFileRef(c.files, string(params.URI))
	if !ref.Exists() {
		return nil, &errors.FileNotFoundError{Path: string(params.URI)}
	}
	content, err := c.files.Content(ref)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", params.URI, err)
	}

	return &protocol.TextDocumentItem{
		URI:        params.URI,
		LanguageID: protocol.RubyLanguage,
		Text:       content,
	}, nil
}
