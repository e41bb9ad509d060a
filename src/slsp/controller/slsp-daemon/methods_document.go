package slspdaemon

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
)

func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	if err := c.documents.DidOpen(ctx, params); err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	if path := c.typecheckPath(ctx, params.TextDocument.URI); path != "" {
		c.typecheck.DocumentOpened(ctx, path)
	}
	return nil
}

func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	before, after, err := c.documents.DidChange(ctx, params)
	if err != nil {
		return fmt.Errorf("applying document changes: %w", err)
	}
	if path := c.typecheckPath(ctx, params.TextDocument.URI); path != "" {
		c.typecheck.DocumentChanged(ctx, path, before, after)
	}
	return nil
}

func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	if err := c.documents.DidClose(ctx, params); err != nil {
		return fmt.Errorf("closing document: %w", err)
	}
	if path := c.typecheckPath(ctx, params.TextDocument.URI); path != "" {
		c.typecheck.DocumentClosed(ctx, path)
	}
	return nil
}

func (c *controller) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	if err := c.documents.DidSave(ctx, params); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// DidChangeWatchedFiles folds disk-side changes into the typecheck run
// stream. Contents are not available for diffing, so every change takes the
// slow path.
func (c *controller) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	changed := make([]string, 0, len(params.Changes))
	for _, event := range params.Changes {
		if path := c.typecheckPath(ctx, event.URI); path != "" {
			changed = append(changed, path)
		}
	}
	c.typecheck.FilesChangedOnDisk(ctx, changed)
	return nil
}
