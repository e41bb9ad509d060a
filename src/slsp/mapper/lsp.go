package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	protocolmapper "github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/protocol"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// EditOffset stores a string modification based on byte offsets in the string.
type EditOffset struct {
	Start int
	End   int
	Text  string
}

// RequestToInitializeParams maps the parameters from a jsonrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsonrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidOpenTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidOpenTextDocumentParams.
func RequestToDidOpenTextDocumentParams(req jsonrpc2.Request) (*protocol.DidOpenTextDocumentParams, error) {
	params := protocol.DidOpenTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidChangeTextDocumentParams.
func RequestToDidChangeTextDocumentParams(req jsonrpc2.Request) (*protocol.DidChangeTextDocumentParams, error) {
	params := protocol.DidChangeTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidCloseTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidCloseTextDocumentParams.
func RequestToDidCloseTextDocumentParams(req jsonrpc2.Request) (*protocol.DidCloseTextDocumentParams, error) {
	params := protocol.DidCloseTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidSaveTextDocumentParams maps the parameters from a jsonrpc2.Request into protocol.DidSaveTextDocumentParams.
func RequestToDidSaveTextDocumentParams(req jsonrpc2.Request) (*protocol.DidSaveTextDocumentParams, error) {
	params := protocol.DidSaveTextDocumentParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeWatchedFilesParams maps the parameters from a jsonrpc2.Request into protocol.DidChangeWatchedFilesParams.
func RequestToDidChangeWatchedFilesParams(req jsonrpc2.Request) (*protocol.DidChangeWatchedFilesParams, error) {
	params := protocol.DidChangeWatchedFilesParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDefinitionParams maps the parameters from a jsonrpc2.Request into protocol.DefinitionParams
func RequestToDefinitionParams(req jsonrpc2.Request) (*protocol.DefinitionParams, error) {
	params := protocol.DefinitionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToTypeDefinitionParams maps the parameters from a jsonrpc2.Request into protocol.TypeDefinitionParams
func RequestToTypeDefinitionParams(req jsonrpc2.Request) (*protocol.TypeDefinitionParams, error) {
	params := protocol.TypeDefinitionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToReferencesParams maps the parameters from a jsonrpc2.Request into protocol.ReferenceParams
func RequestToReferencesParams(req jsonrpc2.Request) (*protocol.ReferenceParams, error) {
	params := protocol.ReferenceParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToHoverParams maps the parameters from a jsonrpc2.Request into protocol.HoverParams.
func RequestToHoverParams(req jsonrpc2.Request) (*protocol.HoverParams, error) {
	params := protocol.HoverParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDocumentSymbolParams maps the parameters from a jsonrpc2.Request into protocol.DocumentSymbolParams
func RequestToDocumentSymbolParams(req jsonrpc2.Request) (*protocol.DocumentSymbolParams, error) {
	params := protocol.DocumentSymbolParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToTextDocumentIdentifier maps the parameters from a jsonrpc2.Request
// into a bare protocol.TextDocumentIdentifier, the argument shape of the
// sorbet/readFile request.
func RequestToTextDocumentIdentifier(req jsonrpc2.Request) (*protocol.TextDocumentIdentifier, error) {
	params := protocol.TextDocumentIdentifier{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// ApplyContentChanges applies the given content change events to a given text string.
func ApplyContentChanges(initialText string, changes []protocol.TextDocumentContentChangeEvent) (string, error) {
	content := []byte(initialText)
	m := protocolmapper.NewTextOffsetMapper(content)
	for _, change := range changes {
		start, err := m.PositionOffset(change.Range.Start)
		if err != nil {
			return "", fmt.Errorf("unable to apply changes: %w", err)
		}
		end, err := m.PositionOffset(change.Range.End)
		if err != nil {
			return "", fmt.Errorf("unable to apply changes: %w", err)
		}
		var buf bytes.Buffer
		buf.Write(content[:start])
		buf.Write([]byte(change.Text))
		buf.Write(content[end:])
		content = buf.Bytes()
		m = protocolmapper.NewTextOffsetMapper(content)
	}

	return string(content), nil
}

// DiffsToEditOffsets converts diffs into a list of text edits based on offsets within the initial text.
func DiffsToEditOffsets(diffs []diffmatchpatch.Diff) (initialText bytes.Buffer, offsets []EditOffset) {
	edits := make([]EditOffset, 0, len(diffs))
	offset := 0
	for _, d := range diffs {
		start := offset
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			initialText.Write([]byte(d.Text))
			offset += len(d.Text)
			edits = append(edits, EditOffset{Start: start, End: offset, Text: ""})
		case diffmatchpatch.DiffEqual:
			initialText.Write([]byte(d.Text))
			offset += len(d.Text)
		case diffmatchpatch.DiffInsert:
			edits = append(edits, EditOffset{Start: start, End: start, Text: d.Text})
		}
	}
	return initialText, edits
}

// EditOffsetsToTextEdits converts a list of offset based edits to TextEdits formatted for LSP protocol.
func EditOffsetsToTextEdits(initialText bytes.Buffer, edits []EditOffset) ([]protocol.TextEdit, error) {
	protocolTextEdits := make([]protocol.TextEdit, 0, len(edits))
	m := protocolmapper.NewTextOffsetMapper(initialText.Bytes())
	for _, edit := range edits {
		startPosition, err := m.OffsetPosition(edit.Start)
		if err != nil {
			return nil, err
		}
		endPosition, err := m.OffsetPosition(edit.End)
		if err != nil {
			return nil, err
		}
		protocolTextEdits = append(protocolTextEdits, protocol.TextEdit{
			Range:   PositionsToRange(startPosition, endPosition),
			NewText: edit.Text,
		})
	}
	return protocolTextEdits, nil
}

// PositionsToRange converts two positions into a range.
func PositionsToRange(start, end protocol.Position) protocol.Range {
	return protocol.Range{
		Start: start,
		End:   end,
	}
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
