// Package admin exposes out-of-band daemon introspection procedures over yarpc.
// Unlike the JSON-RPC surface these are not tied to an editor connection, so
// operators and tooling can query a running daemon directly.
package admin

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/errors"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/filestore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/mapper"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session"
	"go.uber.org/fx"
	"go.uber.org/yarpc/api/transport"
	"go.uber.org/yarpc/encoding/json"
	"go.uber.org/yarpc/yarpcerrors"
)

const (
	_procedureStatus     = "slsp::status"
	_procedureSession    = "slsp::session"
	_procedureReadFile   = "slsp::readFile"
	_procedureResolveURI = "slsp::resolve-uri"
)

// Module provides the admin procedures into the yarpc dispatcher.
var Module = fx.Provide(New)

// Params are inbound parameters to construct the admin handler.
type Params struct {
	fx.In

	Sessions   session.Repository
	Workspaces workspace.Manager
	Files      filestore.Store
}

// Result provides the admin procedures to the yarpcprocedures group.
type Result struct {
	fx.Out

	Procedures []transport.Procedure `group:"yarpcprocedures,flatten"`
}

type handler struct {
	sessions   session.Repository
	workspaces workspace.Manager
	files      filestore.Store
}

// New constructs the admin procedures.
func New(p Params) Result {
	h := &handler{
		sessions:   p.Sessions,
		workspaces: p.Workspaces,
		files:      p.Files,
	}

	var procedures []transport.Procedure
	procedures = append(procedures, json.Procedure(_procedureStatus, h.Status)...)
	procedures = append(procedures, json.Procedure(_procedureSession, h.Session)...)
	procedures = append(procedures, json.Procedure(_procedureReadFile, h.ReadFile)...)
	procedures = append(procedures, json.Procedure(_procedureResolveURI, h.ResolveURI)...)

	return Result{Procedures: procedures}
}

// StatusRequest has no fields; status covers the whole daemon.
type StatusRequest struct{}

// SessionStatus summarizes one editor connection.
type SessionStatus struct {
	UUID        string `json:"uuid"`
	Initialized bool   `json:"initialized"`
}

// StatusResponse describes the daemon's current sessions and workspace.
type StatusResponse struct {
	WorkspaceRoot string          `json:"workspaceRoot"`
	SessionCount  int             `json:"sessionCount"`
	Sessions      []SessionStatus `json:"sessions"`
}

// Status reports the workspace root and each connected session.
func (h *handler) Status(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	all, err := h.sessions.GetAll(ctx)
	if err != nil {
		return nil, mapper.ToYARPCError(err)
	}

	result := &StatusResponse{
		WorkspaceRoot: h.workspaces.Root(),
		SessionCount:  len(all),
		Sessions:      make([]SessionStatus, 0, len(all)),
	}
	for _, s := range all {
		status := SessionStatus{UUID: s.UUID.String()}
		if w, err := h.workspaces.Workspace(s.UUID); err == nil {
			status.Initialized = w.Initialized()
		}
		result.Sessions = append(result.Sessions, status)
	}

	return result, nil
}

// SessionRequest names the session to describe.
type SessionRequest struct {
	UUID string `json:"uuid"`
}

// SessionResponse describes one session in detail.
type SessionResponse struct {
	UUID          string `json:"uuid"`
	WorkspaceRoot string `json:"workspaceRoot"`
	Initialized   bool   `json:"initialized"`
}

// Session describes a single editor connection by UUID.
func (h *handler) Session(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
	if req.UUID == "" {
		return nil, mapper.ToYARPCError(errors.NoUUIDOnWireError)
	}

	id, err := uuid.FromString(req.UUID)
	if err != nil {
		return nil, yarpcerrors.InvalidArgumentErrorf("invalid session UUID %q", req.UUID)
	}

	s, err := h.sessions.Get(ctx, id)
	if err != nil {
		return nil, mapper.ToYARPCError(err)
	}

	result := &SessionResponse{
		UUID:          s.UUID.String(),
		WorkspaceRoot: s.WorkspaceRoot,
	}
	if w, err := h.workspaces.Workspace(s.UUID); err == nil {
		result.Initialized = w.Initialized()
	}

	return result, nil
}

// ReadFileRequest names the tracked file to read.
type ReadFileRequest struct {
	Path string `json:"path"`
}

// ReadFileResponse carries the current contents of a tracked file, including
// any editor overlay shadowing the disk.
type ReadFileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ReadFile returns the engine's view of a tracked file.
func (h *handler) ReadFile(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
	if req.Path == "" {
		return nil, yarpcerrors.InvalidArgumentErrorf("path is required")
	}

	ref := h.files.FindFileByPath(req.Path)
	if !ref.Exists() {
		return nil, mapper.ToYARPCError(&errors.FileNotFoundError{Path: req.Path})
	}

	content, err := h.files.Content(ref)
	if err != nil {
		return nil, mapper.ToYARPCError(err)
	}

	return &ReadFileResponse{Path: req.Path, Content: content}, nil
}

// ResolveURIRequest names a session and an identifier to translate. Exactly
// one of URI or Path should be set.
type ResolveURIRequest struct {
	UUID string `json:"uuid"`
	URI  string `json:"uri,omitempty"`
	Path string `json:"path,omitempty"`
}

// ResolveURIResponse carries both renderings of the identifier plus how the
// daemon classified it.
type ResolveURIResponse struct {
	URI     string `json:"uri"`
	Path    string `json:"path"`
	Space   string `json:"space"`
	Ignored bool   `json:"ignored"`
}

// ResolveURI translates an identifier through the named session's workspace,
// in either direction. The session must have completed initialization.
func (h *handler) ResolveURI(ctx context.Context, req *ResolveURIRequest) (*ResolveURIResponse, error) {
	if req.UUID == "" {
		return nil, mapper.ToYARPCError(errors.NoUUIDOnWireError)
	}
	id, err := uuid.FromString(req.UUID)
	if err != nil {
		return nil, yarpcerrors.InvalidArgumentErrorf("invalid session UUID %q", req.UUID)
	}

	w, err := h.workspaces.Workspace(id)
	if err != nil {
		return nil, mapper.ToYARPCError(err)
	}
	if !w.Activated() {
		return nil, yarpcerrors.FailedPreconditionErrorf("session %s is not initialized", req.UUID)
	}
	t := w.Translator()

	switch {
	case req.URI != "" && req.Path == "":
		ident, ok := t.ParseURI(req.URI)
		if !ok {
			return nil, yarpcerrors.InvalidArgumentErrorf("URI %q is outside the workspace", req.URI)
		}
		path := t.LocalPath(ident)
		return &ResolveURIResponse{
			URI:     req.URI,
			Path:    path,
			Space:   ident.Space.String(),
			Ignored: t.IsFileIgnored(path),
		}, nil
	case req.Path != "" && req.URI == "":
		return &ResolveURIResponse{
			URI:     t.PathToURI(req.Path),
			Path:    req.Path,
			Space:   workspace.SpaceLocalPath.String(),
			Ignored: t.IsFileIgnored(req.Path),
		}, nil
	default:
		return nil, yarpcerrors.InvalidArgumentErrorf("exactly one of uri or path is required")
	}
}
