package codeintel

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/scip/bindings/go/scip"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// SymbolOccurrence pairs an occurrence with the workspace-relative path of
// the document it appears in and the symbol information describing it.
type SymbolOccurrence struct {
	Path       string
	Occurrence *scip.Occurrence
	Info       *scip.SymbolInformation
}

// Registry is the in-memory view of the workspace's SCIP indexes. Queries
// address documents by workspace-relative path; URI handling stays with the
// caller.
type Registry interface {
	LoadConcurrency() int

	// LoadIndexBytes decodes a serialized SCIP index and merges its documents
	// into the registry, replacing any previously loaded versions.
	LoadIndexBytes(data []byte) error

	// Definition returns the source occurrence and the definition occurrence for a given position.
	Definition(path string, pos protocol.Position) (source *SymbolOccurrence, definition *SymbolOccurrence)
	// TypeDefinition returns the definitions of the type-definition relationships of the symbol at a given position.
	TypeDefinition(path string, pos protocol.Position) []*SymbolOccurrence
	// References returns every occurrence of the symbol at a given position across the loaded index.
	References(path string, pos protocol.Position) []*SymbolOccurrence
	// Hover returns the documentation for a given position, as well as its occurrence.
	Hover(path string, pos protocol.Position) (string, *scip.Occurrence)
	// DocumentSymbols returns the definition occurrences within a given document.
	DocumentSymbols(path string) []*SymbolOccurrence

	// DocumentCount reports how many documents are currently loaded.
	DocumentCount() int
}

type indexedDocument struct {
	relativePath string
	occurrences  []*scip.Occurrence // sorted by range start
	symbols      map[string]*scip.SymbolInformation
}

type symbolEntry struct {
	info    *scip.SymbolInformation
	defPath string
	defOcc  *scip.Occurrence
}

type registry struct {
	logger *zap.SugaredLogger

	mu        sync.RWMutex
	documents map[string]*indexedDocument
	symbols   map[string]*symbolEntry
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *zap.SugaredLogger) Registry {
	return &registry{
		logger:    logger,
		documents: make(map[string]*indexedDocument),
		symbols:   make(map[string]*symbolEntry),
	}
}

func (r *registry) LoadConcurrency() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		return 1
	}
	return n
}

// LoadIndexBytes implements Registry.
func (r *registry) LoadIndexBytes(data []byte) error {
	var index scip.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("decoding scip index: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, doc := range index.Documents {
		r.replaceDocumentLocked(doc)
	}

	// External symbols carry documentation for definitions that live outside
	// the indexed documents, such as gem or payload symbols.
	for _, info := range index.ExternalSymbols {
		entry := r.symbolLocked(info.Symbol)
		if entry.info == nil {
			entry.info = info
		}
	}

	return nil
}

func (r *registry) replaceDocumentLocked(doc *scip.Document) {
	if prev, ok := r.documents[doc.RelativePath]; ok {
		r.forgetDefinitionsLocked(prev)
	}

	indexed := &indexedDocument{
		relativePath: doc.RelativePath,
		occurrences:  append([]*scip.Occurrence(nil), doc.Occurrences...),
		symbols:      make(map[string]*scip.SymbolInformation, len(doc.Symbols)),
	}
	sort.SliceStable(indexed.occurrences, func(i, j int) bool {
		return rangeStartsBefore(indexed.occurrences[i].Range, indexed.occurrences[j].Range)
	})
	for _, info := range doc.Symbols {
		indexed.symbols[info.Symbol] = info
	}
	r.documents[doc.RelativePath] = indexed

	for _, info := range doc.Symbols {
		if scip.IsLocalSymbol(info.Symbol) {
			continue
		}
		r.symbolLocked(info.Symbol).info = info
	}
	for _, occ := range indexed.occurrences {
		if scip.IsLocalSymbol(occ.Symbol) || occ.SymbolRoles&int32(scip.SymbolRole_Definition) == 0 {
			continue
		}
		entry := r.symbolLocked(occ.Symbol)
		entry.defPath = doc.RelativePath
		entry.defOcc = occ
	}
}

// forgetDefinitionsLocked drops definition sites recorded from a document that
// is being replaced. Symbol information is kept so that references from other
// documents keep their descriptions.
func (r *registry) forgetDefinitionsLocked(doc *indexedDocument) {
	for _, occ := range doc.occurrences {
		if scip.IsLocalSymbol(occ.Symbol) || occ.SymbolRoles&int32(scip.SymbolRole_Definition) == 0 {
			continue
		}
		if entry, ok := r.symbols[occ.Symbol]; ok && entry.defPath == doc.relativePath {
			entry.defPath = ""
			entry.defOcc = nil
		}
	}
}

func (r *registry) symbolLocked(symbol string) *symbolEntry {
	entry, ok := r.symbols[symbol]
	if !ok {
		entry = &symbolEntry{}
		r.symbols[symbol] = entry
	}
	return entry
}

// Definition implements Registry.
func (r *registry) Definition(path string, pos protocol.Position) (*SymbolOccurrence, *SymbolOccurrence) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.documents[path]
	if doc == nil {
		return nil, nil
	}
	src := occurrenceForPosition(doc.occurrences, pos)
	if src == nil {
		return nil, nil
	}

	if scip.IsLocalSymbol(src.Symbol) {
		// Local symbols are file unique, so the first definition occurrence wins.
		info := doc.symbols[src.Symbol]
		source := &SymbolOccurrence{Path: path, Occurrence: src, Info: info}
		defs := occurrencesForSymbol(doc.occurrences, src.Symbol, scip.SymbolRole_Definition)
		if len(defs) == 0 {
			return source, nil
		}
		return source, &SymbolOccurrence{Path: path, Occurrence: defs[0], Info: info}
	}

	entry := r.symbols[src.Symbol]
	var info *scip.SymbolInformation
	if entry != nil {
		info = entry.info
	}
	source := &SymbolOccurrence{Path: path, Occurrence: src, Info: info}
	if entry == nil || entry.defOcc == nil {
		return source, nil
	}
	return source, &SymbolOccurrence{Path: entry.defPath, Occurrence: entry.defOcc, Info: info}
}

// TypeDefinition implements Registry.
func (r *registry) TypeDefinition(path string, pos protocol.Position) []*SymbolOccurrence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.documents[path]
	if doc == nil {
		return nil
	}
	src := occurrenceForPosition(doc.occurrences, pos)
	if src == nil {
		return nil
	}

	info := r.infoLocked(doc, src.Symbol)
	if info == nil {
		return nil
	}

	results := make([]*SymbolOccurrence, 0)
	for _, rel := range info.Relationships {
		if !rel.IsTypeDefinition {
			continue
		}
		if entry, ok := r.symbols[rel.Symbol]; ok && entry.defOcc != nil {
			results = append(results, &SymbolOccurrence{Path: entry.defPath, Occurrence: entry.defOcc, Info: entry.info})
		}
	}
	return results
}

// References implements Registry.
func (r *registry) References(path string, pos protocol.Position) []*SymbolOccurrence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.documents[path]
	if doc == nil {
		return nil
	}
	src := occurrenceForPosition(doc.occurrences, pos)
	if src == nil {
		return nil
	}

	results := make([]*SymbolOccurrence, 0)

	// For local symbols, only search in the current document.
	if scip.IsLocalSymbol(src.Symbol) {
		info := doc.symbols[src.Symbol]
		for _, occ := range doc.occurrences {
			if occ.Symbol == src.Symbol {
				results = append(results, &SymbolOccurrence{Path: path, Occurrence: occ, Info: info})
			}
		}
		return results
	}

	var info *scip.SymbolInformation
	if entry := r.symbols[src.Symbol]; entry != nil {
		info = entry.info
	}

	paths := make([]string, 0, len(r.documents))
	for relPath := range r.documents {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	for _, relPath := range paths {
		for _, occ := range r.documents[relPath].occurrences {
			if occ.Symbol == src.Symbol {
				results = append(results, &SymbolOccurrence{Path: relPath, Occurrence: occ, Info: info})
			}
		}
	}
	return results
}

// Hover implements Registry.
func (r *registry) Hover(path string, pos protocol.Position) (string, *scip.Occurrence) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.documents[path]
	if doc == nil {
		return "", nil
	}
	occ := occurrenceForPosition(doc.occurrences, pos)
	if occ == nil {
		return "", nil
	}

	info := r.infoLocked(doc, occ.Symbol)

	var docs string
	if len(occ.OverrideDocumentation) > 0 {
		docs = strings.Join(occ.OverrideDocumentation, "\n")
	} else if info != nil && len(info.Documentation) > 0 {
		docs = strings.Join(info.Documentation, "\n")
	} else if info != nil && info.SignatureDocumentation != nil {
		docs = info.SignatureDocumentation.Text
	}

	return docs, occ
}

// DocumentSymbols implements Registry.
func (r *registry) DocumentSymbols(path string) []*SymbolOccurrence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.documents[path]
	if doc == nil {
		return nil
	}

	results := make([]*SymbolOccurrence, 0)
	for _, occ := range doc.occurrences {
		if scip.IsGlobalSymbol(occ.Symbol) && occ.SymbolRoles&int32(scip.SymbolRole_Definition) > 0 {
			info := doc.symbols[occ.Symbol]
			if info == nil {
				continue
			}
			results = append(results, &SymbolOccurrence{Path: path, Occurrence: occ, Info: info})
		}
	}
	return results
}

// DocumentCount implements Registry.
func (r *registry) DocumentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documents)
}

func (r *registry) infoLocked(doc *indexedDocument, symbol string) *scip.SymbolInformation {
	if scip.IsLocalSymbol(symbol) {
		return doc.symbols[symbol]
	}
	if entry := r.symbols[symbol]; entry != nil {
		return entry.info
	}
	return nil
}

// occurrencesForSymbol returns the occurrences for a given symbol and role.
func occurrencesForSymbol(occurrences []*scip.Occurrence, symbol string, role scip.SymbolRole) []*scip.Occurrence {
	found := make([]*scip.Occurrence, 0)
	for _, occ := range occurrences {
		if occ.Symbol == symbol && occ.SymbolRoles&int32(role) > 0 {
			found = append(found, occ)
		}
	}
	return found
}

// occurrenceForPosition returns the occurrence enclosing a given position.
// Occurrences are sorted by their position in the document, so a binary
// search is used for the lookup.
func occurrenceForPosition(occurrences []*scip.Occurrence, pos protocol.Position) *scip.Occurrence {
	low := 0
	high := len(occurrences) - 1

	for low <= high {
		mid := (low + high) / 2
		occ := occurrences[mid]
		if matchesPosition(occ, pos) {
			return occ
		}
		if rangeEndsBefore(occ.Range, pos) {
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return nil
}

func rangeStartsBefore(a, b []int32) bool {
	if len(a) < 2 || len(b) < 2 {
		return len(a) < len(b)
	}
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// rangeEndsBefore returns true if the range ends before the position.
func rangeEndsBefore(r []int32, pos protocol.Position) bool {
	endLine := int32(0)
	endChar := int32(0)
	if len(r) == 3 {
		endLine = r[0]
		endChar = r[2]
	}
	if len(r) == 4 {
		endLine = r[2]
		endChar = r[3]
	}

	return endLine < int32(pos.Line) ||
		(endLine == int32(pos.Line) && endChar < int32(pos.Character))
}

// matchesPosition returns true if the occurrence's range encloses the position.
func matchesPosition(occ *scip.Occurrence, pos protocol.Position) bool {
	rng, err := scip.NewRange(occ.Range)
	if err != nil {
		return false
	}
	if rng.IsSingleLine() {
		return rng.Start.Line == int32(pos.Line) &&
			rng.Start.Character <= int32(pos.Character) &&
			rng.End.Character >= int32(pos.Character)
	}

	// For multiline ranges:
	// 1. If the position is between the start and end line, no character check is needed.
	// 2. If the position is on the start line, it must be at or beyond the start of the range.
	// 3. If the position is on the end line, it must be at or before the end of the range.
	return (rng.Start.Line < int32(pos.Line) && rng.End.Line > int32(pos.Line)) ||
		(rng.Start.Line == int32(pos.Line) && rng.Start.Character <= int32(pos.Character)) ||
		(rng.End.Line == int32(pos.Line) && rng.End.Character >= int32(pos.Character))
}
