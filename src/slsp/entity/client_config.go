package entity

import (
	"go.lsp.dev/protocol"
)

// ClientConfig is an immutable snapshot of the client's declared capabilities,
// derived once while processing the initialize request and read-only afterward.
type ClientConfig struct {
	// RootURI is the client's declared workspace URI with a single trailing
	// slash stripped. Empty when the client has no real root (for example an
	// embedded Monaco editor), which selects bare relative paths everywhere.
	RootURI string

	// HoverFormat and CompletionDocFormat are the markup kinds used when
	// rendering hover and completion documentation. Markdown is selected
	// whenever the client declares it anywhere in its format list; the
	// declared list order is not honored.
	HoverFormat         protocol.MarkupKind
	CompletionDocFormat protocol.MarkupKind

	// SnippetSupport indicates that completion items may contain snippets.
	SnippetSupport bool

	// OperationNotifications enables sorbet/showOperation notifications.
	OperationNotifications bool

	// TypecheckProgress enables sorbet/typecheckRunInfo notifications.
	TypecheckProgress bool

	// InternalURISupport indicates that the client can open sorbet: URIs,
	// letting the server reference files the client's workspace does not show.
	InternalURISupport bool
}

// NewClientConfig returns a ClientConfig with every field at its default:
// plain-text markup and all extension flags off.
func NewClientConfig() ClientConfig {
	return ClientConfig{
		HoverFormat:         protocol.PlainText,
		CompletionDocFormat: protocol.PlainText,
	}
}
