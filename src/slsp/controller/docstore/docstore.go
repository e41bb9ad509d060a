package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/errors"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/filestore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/fs"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey        = "docstore"
	_maxFileSizeKey = "maxFileSizeBytes"
)

// _trackedLanguages lists the language identifiers this server synchronizes.
// Documents in other languages are left to the editor.
var _trackedLanguages = []protocol.LanguageIdentifier{protocol.RubyLanguage}

// DocumentState keeps track of the current state of a document.
type DocumentState int

const (
	// DocumentStateOpenClean indicates that the document is open and has no modifications in the editor.
	DocumentStateOpenClean DocumentState = iota
	// DocumentStateOpenDirty indicates that the document is open and has unsaved modifications in the editor.
	DocumentStateOpenDirty
	// DocumentStateClosed indicates that the document is closed.
	DocumentStateClosed
)

// Controller tracks the editor-held state of open documents, one set per
// session, and mirrors their contents into the engine file store.
type Controller interface {
	// InitSession adds an entry to keep track of this session's documents.
	InitSession(ctx context.Context) error

	// EndSession removes the session's documents and drops any overlays no
	// other session still holds.
	EndSession(ctx context.Context, uuid uuid.UUID) error

	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error

	// DidChange updates the document with the latest incoming changes and
	// returns the document text before and after they were applied.
	DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) (before string, after string, err error)

	// GetTextDocument returns the current version of the text document as of the last received DidChange event.
	GetTextDocument(ctx context.Context, doc protocol.TextDocumentIdentifier) (protocol.TextDocumentItem, error)

	// GetDocumentState returns the current status of a given document within a session.
	GetDocumentState(ctx context.Context, doc protocol.TextDocumentIdentifier) (DocumentState, error)
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Sessions   session.Repository
	Workspaces workspace.Manager
	Files      filestore.Store
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Config     config.Provider
	FS         fs.SlspFS
}

type documentStoreEntry struct {
	Document protocol.TextDocumentItem
	// EnginePath is the engine-local path the document's URI translates to.
	EnginePath          string
	EditedSinceLastSave bool
}

type documentStore map[uuid.UUID]map[protocol.TextDocumentIdentifier]*documentStoreEntry

type controller struct {
	sessions         session.Repository
	workspaces       workspace.Manager
	files            filestore.Store
	logger           *zap.SugaredLogger
	documents        documentStore
	documentsMu      sync.RWMutex
	stats            tally.Scope
	maxFileSizeBytes int64
	fs               fs.SlspFS
}

// New creates a new controller for document tracking.
func New(p Params) Controller {
	var maxFileSizeBytes int64
	if err := p.Config.Get(_maxFileSizeKey).Populate(&maxFileSizeBytes); err != nil || maxFileSizeBytes == 0 {
		panic(fmt.Errorf("unable to get maximum file size from config: %w", err))
	}

	c := &controller{
		sessions:         p.Sessions,
		workspaces:       p.Workspaces,
		files:            p.Files,
		logger:           p.Logger.With("controller", _nameKey),
		documents:        make(documentStore),
		stats:            p.Stats.SubScope("docstore"),
		maxFileSizeBytes: maxFileSizeBytes,
		fs:               p.FS,
	}
	defer c.updateMetrics(context.Background())
	return c
}

// InitSession adds an entry to keep track of this session's documents.
func (c *controller) InitSession(ctx context.Context) error {
	defer c.updateMetrics(ctx)
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	c.documents[s.UUID] = make(map[protocol.TextDocumentIdentifier]*documentStoreEntry)
	return nil
}

// EndSession removes the session's documents.
func (c *controller) EndSession(ctx context.Context, uuid uuid.UUID) error {
	defer c.updateMetrics(ctx)

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()

	for _, entry := range c.documents[uuid] {
		c.removeOverlayLocked(uuid, entry)
	}
	delete(c.documents, uuid)
	return nil
}

// DidOpen adds an entry for a newly opened document and stores its initial contents.
func (c *controller) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	defer c.updateMetrics(ctx)
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}

	if !isTrackedLanguage(params.TextDocument.LanguageID) {
		c.logger.Debugf("not tracking document: %v", &errors.DocumentLanguageIDError{Document: params.TextDocument, ExpectedLanguageIDs: _trackedLanguages})
		return nil
	}

	w, err := c.workspaces.Workspace(s.UUID)
	if err != nil {
		return err
	}
	enginePath := w.Translator().URIToPath(string(params.TextDocument.URI))

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	if c.documents[s.UUID] == nil {
		return &errors.UUIDNotFoundError{UUID: s.UUID}
	}

	if err := c.validateSize(ctx, params.TextDocument.Text); err != nil {
		// It is expected that some documents will exceed configured size limit. Log a warning which can be used to monitor and adjust the threshold.
		// If there are future attempts to access this document, those will result in errors.
		c.logger.Warnf("unable to track open document %q: %v", params.TextDocument.URI, err)
		return nil
	}

	c.documents[s.UUID][protocol.TextDocumentIdentifier{URI: params.TextDocument.URI}] = &documentStoreEntry{
		Document:   params.TextDocument,
		EnginePath: enginePath,
	}
	c.files.SetOverlay(enginePath, params.TextDocument.Text)

	return nil
}

// DidClose deletes the entry for a closed document.
func (c *controller) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	defer c.updateMetrics(ctx)
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()

	doc := protocol.TextDocumentIdentifier{URI: params.TextDocument.URI}
	entry, ok := c.documents[s.UUID][doc]
	if !ok {
		return nil
	}
	delete(c.documents[s.UUID], doc)
	c.removeOverlayLocked(s.UUID, entry)

	return nil
}

// DidChange updates the document with the latest incoming changes.
func (c *controller) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) (string, string, error) {
	oldEntry, newEntry, err := c.updateDocumentText(ctx, params)
	if err != nil {
		return "", "", fmt.Errorf("adding changes to document: %w", err)
	}

	c.files.SetOverlay(newEntry.EnginePath, newEntry.Document.Text)
	return oldEntry.Document.Text, newEntry.Document.Text, nil
}

// DidSave marks the document clean again and reconciles its contents with the
// text included in the save notification.
func (c *controller) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	defer c.updateMetrics(ctx)
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()

	docEntry, ok := c.documents[s.UUID][params.TextDocument]
	if !ok {
		return &errors.DocumentNotFoundError{Document: params.TextDocument}
	}

	newEntry := &documentStoreEntry{Document: docEntry.Document, EnginePath: docEntry.EnginePath}
	// Document text should already be updated by DidChange, but this reconciles it in case something got out of sync.
	if params.Text != "" {
		newEntry.Document.Text = params.Text
	}
	c.documents[s.UUID][params.TextDocument] = newEntry
	c.files.SetOverlay(newEntry.EnginePath, newEntry.Document.Text)

	return nil
}

// GetTextDocument returns the current version of the text document as of the last received DidChange event.
func (c *controller) GetTextDocument(ctx context.Context, doc protocol.TextDocumentIdentifier) (protocol.TextDocumentItem, error) {
	entry, err := c.getDocumentStoreEntry(ctx, doc)
	if err != nil {
		return protocol.TextDocumentItem{}, err
	}
	return entry.Document, nil
}

// GetDocumentState reports whether the document is open and whether its
// editor-held contents differ from the disk.
func (c *controller) GetDocumentState(ctx context.Context, doc protocol.TextDocumentIdentifier) (DocumentState, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return 0, err
	}

	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	if _, ok := c.documents[s.UUID]; !ok {
		return 0, &errors.UUIDNotFoundError{UUID: s.UUID}
	}

	entry, ok := c.documents[s.UUID][doc]
	if !ok {
		return DocumentStateClosed, nil
	}

	if entry.EditedSinceLastSave {
		contentOnDisk, err := c.fs.ReadFile(entry.EnginePath)
		if err != nil {
			return 0, fmt.Errorf("unable to open file %q: %w", entry.EnginePath, err)
		}

		if string(contentOnDisk) != entry.Document.Text {
			return DocumentStateOpenDirty, nil
		}
	}
	return DocumentStateOpenClean, nil
}

func (c *controller) getDocumentStoreEntry(ctx context.Context, doc protocol.TextDocumentIdentifier) (*documentStoreEntry, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, err
	}

	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	if _, ok := c.documents[s.UUID]; !ok {
		return nil, &errors.UUIDNotFoundError{UUID: s.UUID}
	}

	entry, ok := c.documents[s.UUID][doc]
	if !ok {
		return nil, &errors.DocumentNotFoundError{Document: doc}
	}

	return entry, nil
}

func (c *controller) updateDocumentText(ctx context.Context, params *protocol.DidChangeTextDocumentParams) (oldEntry *documentStoreEntry, newEntry *documentStoreEntry, err error) {
	defer c.updateMetrics(ctx)
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	c.documentsMu.Lock()
	defer c.documentsMu.Unlock()
	initialEntry, ok := c.documents[s.UUID][params.TextDocument.TextDocumentIdentifier]
	if !ok {
		return nil, nil, &errors.DocumentNotFoundError{Document: params.TextDocument.TextDocumentIdentifier}
	}

	// Changes for an older version can arrive when the client retries after a
	// reconnect. Applying them would corrupt the document, so they are refused.
	if params.TextDocument.Version < initialEntry.Document.Version {
		outdated := initialEntry.Document
		outdated.Version = params.TextDocument.Version
		return nil, nil, &errors.DocumentOutdatedError{CurrentDocument: initialEntry.Document, OutdatedDocument: outdated}
	}

	doc := initialEntry.Document
	doc.Text, err = mapper.ApplyContentChanges(doc.Text, params.ContentChanges)
	if err != nil {
		return nil, nil, err
	}

	if err := c.validateSize(ctx, doc.Text); err != nil {
		return nil, nil, fmt.Errorf("unable to add changes to document %q: %w", doc.URI, err)
	}

	doc.Version = params.TextDocument.Version

	result := &documentStoreEntry{
		Document:            doc,
		EnginePath:          initialEntry.EnginePath,
		EditedSinceLastSave: true,
	}
	c.documents[s.UUID][params.TextDocument.TextDocumentIdentifier] = result
	return initialEntry, result, nil
}

// removeOverlayLocked drops the engine overlay for an entry unless another
// session still has the same document open. Callers hold documentsMu.
func (c *controller) removeOverlayLocked(closing uuid.UUID, entry *documentStoreEntry) {
	for id, sessionDocs := range c.documents {
		if id == closing {
			continue
		}
		for _, other := range sessionDocs {
			if other.EnginePath == entry.EnginePath {
				return
			}
		}
	}
	c.files.RemoveOverlay(entry.EnginePath)
}

func (c *controller) updateMetrics(ctx context.Context) {
	c.documentsMu.RLock()
	defer c.documentsMu.RUnlock()

	openDocs := 0
	openBytes := 0
	for _, sessionDocs := range c.documents {
		openDocs += len(sessionDocs)
		for _, entry := range sessionDocs {
			openBytes += len([]byte(entry.Document.Text))
		}
	}
	c.stats.Gauge("open_docs").Update(float64(openDocs))
	c.stats.Gauge("open_bytes").Update(float64(openBytes))
}

func (c *controller) validateSize(ctx context.Context, text string) error {
	if c.maxFileSizeBytes == 0 {
		return fmt.Errorf("max file size is not set")
	}

	size := int64(len([]byte(text)))
	if size > c.maxFileSizeBytes {
		return &errors.DocumentSizeLimitError{Size: size}
	}
	return nil
}

func isTrackedLanguage(id protocol.LanguageIdentifier) bool {
	for _, lang := range _trackedLanguages {
		if id == lang {
			return true
		}
	}
	return false
}
