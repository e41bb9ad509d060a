package mapper

import (
	"encoding/json"
	"strings"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"go.lsp.dev/protocol"
)

// initializationOptions are the slsp-specific settings an editor extension may
// send alongside the standard initialize request. Every field is optional.
type initializationOptions struct {
	SupportsOperationNotifications *bool `json:"supportsOperationNotifications"`
	SupportsSorbetURIs             *bool `json:"supportsSorbetURIs"`
	EnableTypecheckInfo            *bool `json:"enableTypecheckInfo"`
}

// InitializeParamsToClientConfig derives the session's client configuration
// from the initialize handshake. The derivation is total: anything the client
// leaves out falls back to the most conservative default.
func InitializeParamsToClientConfig(params *protocol.InitializeParams) entity.ClientConfig {
	cfg := entity.NewClientConfig()
	if params == nil {
		return cfg
	}

	cfg.RootURI = strings.TrimSuffix(string(params.RootURI), "/")

	opts := decodeInitializationOptions(params.InitializationOptions)
	cfg.OperationNotifications = valueOrFalse(opts.SupportsOperationNotifications)
	cfg.InternalURISupport = valueOrFalse(opts.SupportsSorbetURIs)
	cfg.TypecheckProgress = valueOrFalse(opts.EnableTypecheckInfo)

	td := params.Capabilities.TextDocument
	if td == nil {
		return cfg
	}
	if td.Completion != nil && td.Completion.CompletionItem != nil {
		item := td.Completion.CompletionItem
		cfg.SnippetSupport = item.SnippetSupport
		if item.DocumentationFormat != nil {
			cfg.CompletionDocFormat = preferredMarkupKind(item.DocumentationFormat)
		}
	}
	if td.Hover != nil && td.Hover.ContentFormat != nil {
		cfg.HoverFormat = preferredMarkupKind(td.Hover.ContentFormat)
	}
	return cfg
}

// decodeInitializationOptions recovers the typed options from the raw
// interface{} the protocol decoder produced. Options that fail to decode are
// treated the same as absent ones.
func decodeInitializationOptions(raw interface{}) initializationOptions {
	var opts initializationOptions
	if raw == nil {
		return opts
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return initializationOptions{}
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return initializationOptions{}
	}
	return opts
}

// preferredMarkupKind selects Markdown when the client lists it among its
// supported kinds and PlainText otherwise. The declared preference order is
// ignored.
func preferredMarkupKind(kinds []protocol.MarkupKind) protocol.MarkupKind {
	for _, kind := range kinds {
		if kind == protocol.Markdown {
			return protocol.Markdown
		}
	}
	return protocol.PlainText
}

func valueOrFalse(v *bool) bool {
	return v != nil && *v
}

// InitializeResultEnsureDefinitionProvider ensures the definition provider capability is set
func InitializeResultEnsureDefinitionProvider(initResult *protocol.InitializeResult, workDoneProgress bool) {
	if initResult == nil {
		return
	}
	if initResult.Capabilities.DefinitionProvider == nil {
		initResult.Capabilities.DefinitionProvider = &protocol.DefinitionOptions{}
	}

	if workDoneProgress == true {
		defOpts, ok := initResult.Capabilities.DefinitionProvider.(*protocol.DefinitionOptions)
		if ok {
			defOpts.WorkDoneProgress = true
		} else {
			initResult.Capabilities.DefinitionProvider = &protocol.DefinitionOptions{
				WorkDoneProgressOptions: protocol.WorkDoneProgressOptions{
					WorkDoneProgress: true,
				},
			}
		}
	}
}

// InitializeResultEnsureTypeDefinitionProvider ensures the type definition provider capability is set
func InitializeResultEnsureTypeDefinitionProvider(initResult *protocol.InitializeResult, workDoneProgress bool) {
	if initResult == nil {
		return
	}
	if initResult.Capabilities.TypeDefinitionProvider == nil {
		initResult.Capabilities.TypeDefinitionProvider = &protocol.TypeDefinitionOptions{}
	}

	if workDoneProgress == true {
		defOpts, ok := initResult.Capabilities.TypeDefinitionProvider.(*protocol.TypeDefinitionOptions)
		if ok {
			defOpts.WorkDoneProgress = true
		} else {
			initResult.Capabilities.TypeDefinitionProvider = &protocol.TypeDefinitionOptions{
				WorkDoneProgressOptions: protocol.WorkDoneProgressOptions{
					WorkDoneProgress: true,
				},
			}
		}
	}
}

// InitializeResultEnsureReferencesProvider ensures the references provider capability is set
func InitializeResultEnsureReferencesProvider(initResult *protocol.InitializeResult, workDoneProgress bool) {
	if initResult == nil {
		return
	}
	if initResult.Capabilities.ReferencesProvider == nil {
		initResult.Capabilities.ReferencesProvider = &protocol.ReferencesOptions{}
	}

	if workDoneProgress == true {
		defOpts, ok := initResult.Capabilities.ReferencesProvider.(*protocol.ReferencesOptions)
		if ok {
			defOpts.WorkDoneProgress = true
		} else {
			initResult.Capabilities.ReferencesProvider = &protocol.ReferencesOptions{
				WorkDoneProgressOptions: protocol.WorkDoneProgressOptions{
					WorkDoneProgress: true,
				},
			}
		}
	}
}

// InitializeResultEnsureHoverProvider ensures the hover provider capability is set
func InitializeResultEnsureHoverProvider(initResult *protocol.InitializeResult, workDoneProgress bool) {
	if initResult == nil {
		return
	}
	if initResult.Capabilities.HoverProvider == nil {
		initResult.Capabilities.HoverProvider = &protocol.HoverOptions{}
	}

	if workDoneProgress == true {
		defOpts, ok := initResult.Capabilities.HoverProvider.(*protocol.HoverOptions)
		if ok {
			defOpts.WorkDoneProgress = true
		} else {
			initResult.Capabilities.HoverProvider = &protocol.HoverOptions{
				WorkDoneProgressOptions: protocol.WorkDoneProgressOptions{
					WorkDoneProgress: true,
				},
			}
		}
	}
}

// InitializeResultEnsureDocumentSymbolProvider ensures the document symbol provider capability is set
func InitializeResultEnsureDocumentSymbolProvider(initResult *protocol.InitializeResult, workDoneProgress bool) {
	if initResult == nil {
		return
	}
	if initResult.Capabilities.DocumentSymbolProvider == nil {
		initResult.Capabilities.DocumentSymbolProvider = &protocol.DocumentSymbolOptions{}
	}

	if workDoneProgress == true {
		defOpts, ok := initResult.Capabilities.DocumentSymbolProvider.(*protocol.DocumentSymbolOptions)
		if ok {
			defOpts.WorkDoneProgress = true
		} else {
			initResult.Capabilities.DocumentSymbolProvider = &protocol.DocumentSymbolOptions{
				WorkDoneProgressOptions: protocol.WorkDoneProgressOptions{
					WorkDoneProgress: true,
				},
			}
		}
	}
}
