package codeintel

import (
	"testing"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

const (
	_userSymbol   = "scip-ruby gem myapp 1.0 User#"
	_nameSymbol   = "scip-ruby gem myapp 1.0 User#name()."
	_signupSymbol = "scip-ruby gem myapp 1.0 Signup#"
	_stringSymbol = "scip-ruby gem ruby 3.2 String#"
	_localSymbol  = "local 0"

	_userPath   = "app/models/user.rb"
	_signupPath = "app/services/signup.rb"
)

func testUserInfo() *scip.SymbolInformation {
	return &scip.SymbolInformation{
		Symbol:        _userSymbol,
		DisplayName:   "User",
		Kind:          scip.SymbolInformation_Class,
		Documentation: []string{"```ruby\nclass User\n```", "The user model."},
	}
}

// testIndex builds a small scip-ruby index: User is defined in user.rb and
// referenced from signup.rb, which also holds a local variable typed as User.
func testIndex() *scip.Index {
	return &scip.Index{
		Metadata: &scip.Metadata{
			ToolInfo:    &scip.ToolInfo{Name: "scip-ruby", Version: "0.3.22"},
			ProjectRoot: "file:///workspace/project",
		},
		Documents: []*scip.Document{
			{
				Language:     "ruby",
				RelativePath: _userPath,
				Occurrences: []*scip.Occurrence{
					{Range: []int32{0, 6, 10}, Symbol: _userSymbol, SymbolRoles: int32(scip.SymbolRole_Definition)},
					{Range: []int32{2, 6, 10}, Symbol: _nameSymbol, SymbolRoles: int32(scip.SymbolRole_Definition)},
					{Range: []int32{4, 11, 17}, Symbol: _stringSymbol},
				},
				Symbols: []*scip.SymbolInformation{
					testUserInfo(),
					{
						Symbol:                 _nameSymbol,
						DisplayName:            "name",
						Kind:                   scip.SymbolInformation_Method,
						SignatureDocumentation: &scip.Document{Text: "sig { returns(String) }"},
					},
				},
			},
			{
				Language:     "ruby",
				RelativePath: _signupPath,
				Occurrences: []*scip.Occurrence{
					{Range: []int32{0, 4, 8}, Symbol: _userSymbol, OverrideDocumentation: []string{"The account being created."}},
					{Range: []int32{1, 6, 12}, Symbol: _signupSymbol, SymbolRoles: int32(scip.SymbolRole_Definition)},
					{Range: []int32{3, 6, 10}, Symbol: _localSymbol, SymbolRoles: int32(scip.SymbolRole_Definition)},
					{Range: []int32{4, 2, 6}, Symbol: _localSymbol},
					{Range: []int32{5, 2, 6}, Symbol: _localSymbol},
				},
				Symbols: []*scip.SymbolInformation{
					{Symbol: _signupSymbol, DisplayName: "Signup", Kind: scip.SymbolInformation_Class},
					{
						Symbol:      _localSymbol,
						DisplayName: "user",
						Kind:        scip.SymbolInformation_Variable,
						Relationships: []*scip.Relationship{
							{Symbol: _userSymbol, IsTypeDefinition: true},
						},
					},
				},
			},
		},
		ExternalSymbols: []*scip.SymbolInformation{
			{
				Symbol:        _stringSymbol,
				DisplayName:   "String",
				Kind:          scip.SymbolInformation_Class,
				Documentation: []string{"Ruby's String class."},
			},
		},
	}
}

func testRegistry(t *testing.T) Registry {
	t.Helper()
	reg := NewRegistry(zap.NewNop().Sugar())
	require.NoError(t, reg.LoadIndexBytes(mustMarshal(t, testIndex())))
	return reg
}

func mustMarshal(t *testing.T, index *scip.Index) []byte {
	t.Helper()
	data, err := proto.Marshal(index)
	require.NoError(t, err)
	return data
}

func TestLoadIndexBytes(t *testing.T) {
	t.Run("valid index", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop().Sugar())
		require.NoError(t, reg.LoadIndexBytes(mustMarshal(t, testIndex())))
		assert.Equal(t, 2, reg.DocumentCount())
	})

	t.Run("invalid contents", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop().Sugar())
		assert.Error(t, reg.LoadIndexBytes([]byte("not a proto")))
		assert.Equal(t, 0, reg.DocumentCount())
	})
}

func TestLoadConcurrency(t *testing.T) {
	reg := NewRegistry(zap.NewNop().Sugar())
	assert.GreaterOrEqual(t, reg.LoadConcurrency(), 1)
}

func TestRegistryDefinition(t *testing.T) {
	reg := testRegistry(t)

	t.Run("global symbol resolves across documents", func(t *testing.T) {
		source, definition := reg.Definition(_signupPath, protocol.Position{Line: 0, Character: 5})
		require.NotNil(t, source)
		require.NotNil(t, definition)
		assert.Equal(t, _signupPath, source.Path)
		assert.Equal(t, []int32{0, 4, 8}, source.Occurrence.Range)
		assert.Equal(t, _userPath, definition.Path)
		assert.Equal(t, []int32{0, 6, 10}, definition.Occurrence.Range)
		assert.Equal(t, "User", definition.Info.DisplayName)
	})

	t.Run("local symbol resolves within its document", func(t *testing.T) {
		source, definition := reg.Definition(_signupPath, protocol.Position{Line: 4, Character: 3})
		require.NotNil(t, source)
		require.NotNil(t, definition)
		assert.Equal(t, []int32{4, 2, 6}, source.Occurrence.Range)
		assert.Equal(t, _signupPath, definition.Path)
		assert.Equal(t, []int32{3, 6, 10}, definition.Occurrence.Range)
		assert.Equal(t, "user", definition.Info.DisplayName)
	})

	t.Run("external symbol has no definition site", func(t *testing.T) {
		source, definition := reg.Definition(_userPath, protocol.Position{Line: 4, Character: 14})
		require.NotNil(t, source)
		assert.Equal(t, "String", source.Info.DisplayName)
		assert.Nil(t, definition)
	})

	t.Run("no occurrence at position", func(t *testing.T) {
		source, definition := reg.Definition(_userPath, protocol.Position{Line: 9, Character: 0})
		assert.Nil(t, source)
		assert.Nil(t, definition)
	})

	t.Run("unknown document", func(t *testing.T) {
		source, definition := reg.Definition("app/unknown.rb", protocol.Position{Line: 0, Character: 0})
		assert.Nil(t, source)
		assert.Nil(t, definition)
	})
}

func TestRegistryTypeDefinition(t *testing.T) {
	reg := testRegistry(t)

	t.Run("variable resolves to its type", func(t *testing.T) {
		results := reg.TypeDefinition(_signupPath, protocol.Position{Line: 4, Character: 3})
		require.Len(t, results, 1)
		assert.Equal(t, _userPath, results[0].Path)
		assert.Equal(t, []int32{0, 6, 10}, results[0].Occurrence.Range)
		assert.Equal(t, "User", results[0].Info.DisplayName)
	})

	t.Run("symbol without type relationships", func(t *testing.T) {
		assert.Empty(t, reg.TypeDefinition(_userPath, protocol.Position{Line: 0, Character: 7}))
	})
}

func TestRegistryReferences(t *testing.T) {
	reg := testRegistry(t)

	t.Run("global symbol found in every document", func(t *testing.T) {
		results := reg.References(_userPath, protocol.Position{Line: 0, Character: 7})
		require.Len(t, results, 2)
		assert.Equal(t, _userPath, results[0].Path)
		assert.Equal(t, []int32{0, 6, 10}, results[0].Occurrence.Range)
		assert.Equal(t, _signupPath, results[1].Path)
		assert.Equal(t, []int32{0, 4, 8}, results[1].Occurrence.Range)
		assert.Equal(t, "User", results[0].Info.DisplayName)
	})

	t.Run("local symbol stays within its document", func(t *testing.T) {
		results := reg.References(_signupPath, protocol.Position{Line: 3, Character: 8})
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Equal(t, _signupPath, r.Path)
		}
		assert.Equal(t, []int32{3, 6, 10}, results[0].Occurrence.Range)
		assert.Equal(t, []int32{4, 2, 6}, results[1].Occurrence.Range)
		assert.Equal(t, []int32{5, 2, 6}, results[2].Occurrence.Range)
	})

	t.Run("no occurrence at position", func(t *testing.T) {
		assert.Empty(t, reg.References(_userPath, protocol.Position{Line: 9, Character: 0}))
	})
}

func TestRegistryHover(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		desc string
		path string
		pos  protocol.Position
		want string
	}{
		{
			desc: "symbol documentation",
			path: _userPath,
			pos:  protocol.Position{Line: 0, Character: 8},
			want: "```ruby\nclass User\n```\nThe user model.",
		},
		{
			desc: "signature fallback",
			path: _userPath,
			pos:  protocol.Position{Line: 2, Character: 8},
			want: "sig { returns(String) }",
		},
		{
			desc: "occurrence override wins",
			path: _signupPath,
			pos:  protocol.Position{Line: 0, Character: 6},
			want: "The account being created.",
		},
		{
			desc: "external symbol documentation",
			path: _userPath,
			pos:  protocol.Position{Line: 4, Character: 14},
			want: "Ruby's String class.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			docs, occ := reg.Hover(tt.path, tt.pos)
			assert.Equal(t, tt.want, docs)
			assert.NotNil(t, occ)
		})
	}

	t.Run("no occurrence at position", func(t *testing.T) {
		docs, occ := reg.Hover(_userPath, protocol.Position{Line: 9, Character: 9})
		assert.Empty(t, docs)
		assert.Nil(t, occ)
	})
}

func TestRegistryDocumentSymbols(t *testing.T) {
	reg := testRegistry(t)

	t.Run("global definitions only", func(t *testing.T) {
		results := reg.DocumentSymbols(_userPath)
		require.Len(t, results, 2)
		assert.Equal(t, "User", results[0].Info.DisplayName)
		assert.Equal(t, "name", results[1].Info.DisplayName)
	})

	t.Run("references and locals are skipped", func(t *testing.T) {
		results := reg.DocumentSymbols(_signupPath)
		require.Len(t, results, 1)
		assert.Equal(t, "Signup", results[0].Info.DisplayName)
	})

	t.Run("unknown document", func(t *testing.T) {
		assert.Empty(t, reg.DocumentSymbols("app/unknown.rb"))
	})
}

func TestReloadReplacesDocument(t *testing.T) {
	reg := testRegistry(t)

	// A rebuilt index moves the class definition and drops the method.
	updated := &scip.Index{
		Documents: []*scip.Document{
			{
				Language:     "ruby",
				RelativePath: _userPath,
				Occurrences: []*scip.Occurrence{
					{Range: []int32{5, 6, 10}, Symbol: _userSymbol, SymbolRoles: int32(scip.SymbolRole_Definition)},
				},
				Symbols: []*scip.SymbolInformation{testUserInfo()},
			},
		},
	}
	require.NoError(t, reg.LoadIndexBytes(mustMarshal(t, updated)))

	assert.Equal(t, 2, reg.DocumentCount())

	_, definition := reg.Definition(_signupPath, protocol.Position{Line: 0, Character: 5})
	require.NotNil(t, definition)
	assert.Equal(t, []int32{5, 6, 10}, definition.Occurrence.Range)

	docs, occ := reg.Hover(_userPath, protocol.Position{Line: 2, Character: 8})
	assert.Empty(t, docs)
	assert.Nil(t, occ)

	assert.Len(t, reg.DocumentSymbols(_userPath), 1)
}

func TestOccurrenceForPosition(t *testing.T) {
	occurrences := []*scip.Occurrence{
		{Range: []int32{0, 6, 10}, Symbol: "a"},
		{Range: []int32{2, 6, 10}, Symbol: "b"},
		{Range: []int32{4, 11, 17}, Symbol: "c"},
	}

	tests := []struct {
		desc string
		pos  protocol.Position
		want string
	}{
		{desc: "first occurrence", pos: protocol.Position{Line: 0, Character: 7}, want: "a"},
		{desc: "middle occurrence", pos: protocol.Position{Line: 2, Character: 10}, want: "b"},
		{desc: "last occurrence", pos: protocol.Position{Line: 4, Character: 11}, want: "c"},
		{desc: "before all", pos: protocol.Position{Line: 0, Character: 2}, want: ""},
		{desc: "between occurrences", pos: protocol.Position{Line: 3, Character: 0}, want: ""},
		{desc: "after all", pos: protocol.Position{Line: 9, Character: 0}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			occ := occurrenceForPosition(occurrences, tt.pos)
			if tt.want == "" {
				assert.Nil(t, occ)
				return
			}
			require.NotNil(t, occ)
			assert.Equal(t, tt.want, occ.Symbol)
		})
	}

	t.Run("empty slice", func(t *testing.T) {
		assert.Nil(t, occurrenceForPosition(nil, protocol.Position{}))
	})
}

func TestMatchesPosition(t *testing.T) {
	tests := []struct {
		desc  string
		rng   []int32
		pos   protocol.Position
		match bool
	}{
		{desc: "single line inside", rng: []int32{2, 4, 9}, pos: protocol.Position{Line: 2, Character: 5}, match: true},
		{desc: "single line at start", rng: []int32{2, 4, 9}, pos: protocol.Position{Line: 2, Character: 4}, match: true},
		{desc: "single line at end", rng: []int32{2, 4, 9}, pos: protocol.Position{Line: 2, Character: 9}, match: true},
		{desc: "single line before", rng: []int32{2, 4, 9}, pos: protocol.Position{Line: 2, Character: 3}, match: false},
		{desc: "single line wrong line", rng: []int32{2, 4, 9}, pos: protocol.Position{Line: 1, Character: 5}, match: false},
		{desc: "multiline middle line", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 2, Character: 0}, match: true},
		{desc: "multiline start line", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 1, Character: 4}, match: true},
		{desc: "multiline before start", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 1, Character: 3}, match: false},
		{desc: "multiline end line", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 3, Character: 2}, match: true},
		{desc: "multiline past end", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 3, Character: 3}, match: false},
		{desc: "multiline outside lines", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 4, Character: 0}, match: false},
		{desc: "malformed range", rng: []int32{1}, pos: protocol.Position{Line: 1, Character: 0}, match: false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			occ := &scip.Occurrence{Range: tt.rng}
			assert.Equal(t, tt.match, matchesPosition(occ, tt.pos))
		})
	}
}

func TestRangeEndsBefore(t *testing.T) {
	tests := []struct {
		desc string
		rng  []int32
		pos  protocol.Position
		want bool
	}{
		{desc: "single line earlier line", rng: []int32{2, 1, 5}, pos: protocol.Position{Line: 3, Character: 0}, want: true},
		{desc: "single line same line at end", rng: []int32{2, 1, 5}, pos: protocol.Position{Line: 2, Character: 5}, want: false},
		{desc: "single line same line past end", rng: []int32{2, 1, 5}, pos: protocol.Position{Line: 2, Character: 6}, want: true},
		{desc: "single line later line", rng: []int32{2, 1, 5}, pos: protocol.Position{Line: 1, Character: 0}, want: false},
		{desc: "multiline past end line", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 3, Character: 3}, want: true},
		{desc: "multiline at end", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 3, Character: 2}, want: false},
		{desc: "multiline within", rng: []int32{1, 4, 3, 2}, pos: protocol.Position{Line: 2, Character: 0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, rangeEndsBefore(tt.rng, tt.pos))
		})
	}
}

func TestRangeStartsBefore(t *testing.T) {
	assert.True(t, rangeStartsBefore([]int32{1, 2, 5}, []int32{1, 3, 4}))
	assert.True(t, rangeStartsBefore([]int32{1, 9, 9}, []int32{2, 0, 1}))
	assert.False(t, rangeStartsBefore([]int32{2, 0, 1}, []int32{1, 9, 9}))
	assert.False(t, rangeStartsBefore([]int32{1, 2, 5}, []int32{1, 2, 9}))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
