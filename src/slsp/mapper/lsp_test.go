package mapper

import (
	"bytes"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestRequestToInitializeParams(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		params := protocol.InitializeParams{
			Locale:    "exampleLocale",
			ProcessID: 5555,
			RootURI:   "file:///home/user/myrepo",
		}
		validReq := factory.JSONRPCRequest(protocol.MethodInitialize, params)
		result, err := RequestToInitializeParams(validReq)
		assert.NoError(t, err)
		assert.Equal(t, params.Locale, result.Locale)
		assert.Equal(t, params.ProcessID, result.ProcessID)
		assert.Equal(t, params.RootURI, result.RootURI)
	})

	t.Run("invalid params", func(t *testing.T) {
		invalidReq := factory.JSONRPCRequest("sampleMethodName", struct {
			Locale int
		}{
			Locale: 5,
		})
		_, err := RequestToInitializeParams(invalidReq)
		assert.Error(t, err)
	})
}

func TestRequestToInitializedParams(t *testing.T) {
	params := protocol.InitializedParams{}
	validReq := factory.JSONRPCRequest(protocol.MethodInitialized, params)
	_, err := RequestToInitializedParams(validReq)
	assert.NoError(t, err)
}

func TestRequestToDidOpenTextDocumentParams(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		params := protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{
				URI:        "file:///home/user/myrepo/app/models/user.rb",
				LanguageID: "ruby",
				Version:    1,
				Text:       "class User; end\n",
			},
		}
		validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentDidOpen, params)
		result, err := RequestToDidOpenTextDocumentParams(validReq)
		assert.NoError(t, err)
		assert.Equal(t, params.TextDocument, result.TextDocument)
	})

	t.Run("invalid params", func(t *testing.T) {
		invalidReq := factory.JSONRPCRequest("sampleMethodName", struct {
			TextDocument int
		}{
			TextDocument: 5,
		})
		_, err := RequestToDidOpenTextDocumentParams(invalidReq)
		assert.Error(t, err)
	})
}

func TestRequestToDidChangeTextDocumentParams(t *testing.T) {
	params := protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{
				URI: "file:///home/user/myrepo/app/models/user.rb",
			},
			Version: 7,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 0},
					End:   protocol.Position{Line: 0, Character: 5},
				},
				Text: "module",
			},
		},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentDidChange, params)
	result, err := RequestToDidChangeTextDocumentParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocument, result.TextDocument)
	assert.Equal(t, params.ContentChanges, result.ContentChanges)
}

func TestRequestToDidCloseTextDocumentParams(t *testing.T) {
	params := protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentDidClose, params)
	result, err := RequestToDidCloseTextDocumentParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocument, result.TextDocument)
}

func TestRequestToDidSaveTextDocumentParams(t *testing.T) {
	params := protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
		Text:         "class App; end\n",
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentDidSave, params)
	result, err := RequestToDidSaveTextDocumentParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocument, result.TextDocument)
	assert.Equal(t, params.Text, result.Text)
}

func TestRequestToDidChangeWatchedFilesParams(t *testing.T) {
	params := protocol.DidChangeWatchedFilesParams{
		Changes: []*protocol.FileEvent{
			{URI: "file:///home/user/myrepo/bazel-out/slsp/index.scip", Type: protocol.FileChangeTypeChanged},
		},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodWorkspaceDidChangeWatchedFiles, params)
	result, err := RequestToDidChangeWatchedFilesParams(validReq)
	assert.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, params.Changes[0].URI, result.Changes[0].URI)
	assert.Equal(t, params.Changes[0].Type, result.Changes[0].Type)
}

func TestRequestToDefinitionParams(t *testing.T) {
	params := protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
			Position:     protocol.Position{Line: 12, Character: 4},
		},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentDefinition, params)
	result, err := RequestToDefinitionParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocumentPositionParams, result.TextDocumentPositionParams)
}

func TestRequestToTypeDefinitionParams(t *testing.T) {
	params := protocol.TypeDefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
			Position:     protocol.Position{Line: 3, Character: 9},
		},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentTypeDefinition, params)
	result, err := RequestToTypeDefinitionParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocumentPositionParams, result.TextDocumentPositionParams)
}

func TestRequestToReferencesParams(t *testing.T) {
	params := protocol.ReferenceParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
			Position:     protocol.Position{Line: 8, Character: 2},
		},
		Context: protocol.ReferenceContext{IncludeDeclaration: true},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentReferences, params)
	result, err := RequestToReferencesParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocumentPositionParams, result.TextDocumentPositionParams)
	assert.Equal(t, params.Context, result.Context)
}

func TestRequestToHoverParams(t *testing.T) {
	params := protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
			Position:     protocol.Position{Line: 1, Character: 1},
		},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentHover, params)
	result, err := RequestToHoverParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocumentPositionParams, result.TextDocumentPositionParams)
}

func TestRequestToDocumentSymbolParams(t *testing.T) {
	params := protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///home/user/myrepo/app.rb"},
	}
	validReq := factory.JSONRPCRequest(protocol.MethodTextDocumentDocumentSymbol, params)
	result, err := RequestToDocumentSymbolParams(validReq)
	assert.NoError(t, err)
	assert.Equal(t, params.TextDocument, result.TextDocument)
}

func TestRequestToTextDocumentIdentifier(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		params := protocol.TextDocumentIdentifier{URI: "sorbet:payload/core.rbi"}
		validReq := factory.JSONRPCRequest("sorbet/readFile", params)
		result, err := RequestToTextDocumentIdentifier(validReq)
		assert.NoError(t, err)
		assert.Equal(t, params.URI, result.URI)
	})

	t.Run("invalid params", func(t *testing.T) {
		invalidReq := factory.JSONRPCRequest("sorbet/readFile", struct {
			URI int
		}{
			URI: 5,
		})
		_, err := RequestToTextDocumentIdentifier(invalidReq)
		assert.Error(t, err)
	})
}

func TestApplyContentChanges(t *testing.T) {
	t.Run("single replacement", func(t *testing.T) {
		initial := "class Foo\n  def bar; end\nend\n"
		changes := []protocol.TextDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 1, Character: 2},
					End:   protocol.Position{Line: 1, Character: 5},
				},
				Text: "xyz",
			},
		}
		result, err := ApplyContentChanges(initial, changes)
		require.NoError(t, err)
		assert.Equal(t, "class Foo\n  xyz bar; end\nend\n", result)
	})

	t.Run("sequential changes see prior edits", func(t *testing.T) {
		initial := "ab\ncd\n"
		changes := []protocol.TextDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 0},
					End:   protocol.Position{Line: 0, Character: 2},
				},
				Text: "xyz",
			},
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 3},
					End:   protocol.Position{Line: 0, Character: 3},
				},
				Text: "!",
			},
		}
		result, err := ApplyContentChanges(initial, changes)
		require.NoError(t, err)
		assert.Equal(t, "xyz!\ncd\n", result)
	})

	t.Run("position beyond content", func(t *testing.T) {
		changes := []protocol.TextDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 5, Character: 0},
					End:   protocol.Position{Line: 5, Character: 1},
				},
				Text: "x",
			},
		}
		_, err := ApplyContentChanges("one line\n", changes)
		assert.Error(t, err)
	})
}

func TestDiffsToEditOffsets(t *testing.T) {
	diffs := []diffmatchpatch.Diff{
		{Type: diffmatchpatch.DiffEqual, Text: "hello "},
		{Type: diffmatchpatch.DiffDelete, Text: "cruel "},
		{Type: diffmatchpatch.DiffInsert, Text: "kind "},
		{Type: diffmatchpatch.DiffEqual, Text: "world"},
	}

	initialText, offsets := DiffsToEditOffsets(diffs)
	assert.Equal(t, "hello cruel world", initialText.String())
	assert.Equal(t, []EditOffset{
		{Start: 6, End: 12, Text: ""},
		{Start: 12, End: 12, Text: "kind "},
	}, offsets)
}

func TestEditOffsetsToTextEdits(t *testing.T) {
	initial := bytes.NewBufferString("hello\nworld")
	edits := []EditOffset{
		{Start: 6, End: 11, Text: "there"},
	}

	textEdits, err := EditOffsetsToTextEdits(*initial, edits)
	require.NoError(t, err)
	require.Len(t, textEdits, 1)
	assert.Equal(t, protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: 1, Character: 0},
			End:   protocol.Position{Line: 1, Character: 5},
		},
		NewText: "there",
	}, textEdits[0])
}

func TestEditOffsetsToTextEditsInvalidOffset(t *testing.T) {
	initial := bytes.NewBufferString("short")
	_, err := EditOffsetsToTextEdits(*initial, []EditOffset{{Start: 0, End: 99}})
	assert.Error(t, err)
}

func TestPositionsToRange(t *testing.T) {
	start := protocol.Position{Line: 1, Character: 2}
	end := protocol.Position{Line: 3, Character: 4}
	assert.Equal(t, protocol.Range{Start: start, End: end}, PositionsToRange(start, end))
}
