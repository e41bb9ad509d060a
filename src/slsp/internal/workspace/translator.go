package workspace

import (
	"fmt"
	"strings"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/ignore"
	"github.com/uber-go/tally"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// InternalScheme prefixes URIs for files the client's workspace does not show.
const InternalScheme = "sorbet:"

const _httpsScheme = "https"

const _unknownURI = "???"

// Translator converts identifiers between the client's view of the workspace
// and the engine's local view. It is produced by activating a Workspace after
// the initialize handshake and is immutable afterward, so every method is
// safe for unbounded concurrent use.
type Translator struct {
	root         string
	cfg          entity.ClientConfig
	ignore       *ignore.Matcher
	missing      *ignore.Matcher
	logger       *zap.SugaredLogger
	unrecognized tally.Counter
}

// Root returns the engine's workspace root path. It is empty only in the
// degenerate current-directory mode.
func (t *Translator) Root() string {
	return t.root
}

// ClientConfig returns the capability snapshot the translator was built from.
func (t *Translator) ClientConfig() entity.ClientConfig {
	return t.cfg
}

// ParseURI classifies a URI received from the client into its identifier
// space. The boolean is false when the URI starts with neither the client's
// root URI nor the internal scheme and the client declared no internal-scheme
// support at all.
func (t *Translator) ParseURI(uri string) (Ident, bool) {
	isInternal := strings.HasPrefix(uri, InternalScheme)
	if !strings.HasPrefix(uri, t.cfg.RootURI) && !t.cfg.InternalURISupport && !isInternal {
		return Ident{}, false
	}

	prefix := t.cfg.RootURI
	if isInternal {
		prefix = InternalScheme
	}
	rel := strings.TrimPrefix(uri, prefix)
	rel = strings.TrimPrefix(rel, "/")

	// May be https:// or https%3A//. VS Code URL-encodes the : in
	// sorbet:https:// URIs.
	if isInternal && strings.HasPrefix(rel, _httpsScheme) && len(rel) > len(_httpsScheme) &&
		(rel[len(_httpsScheme)] == ':' || rel[len(_httpsScheme)] == '%') {
		return Ident{Space: SpaceRemoteURL, Rel: strings.ReplaceAll(rel, "%3A", ":")}, true
	}

	if isInternal {
		return Ident{Space: SpaceInternalURI, Rel: rel}, true
	}
	return Ident{Space: SpaceClientURI, Rel: rel}, true
}

// LocalPath renders an identifier as the engine's local path. Remote URLs
// pass through whole so downstream callers recognize them as non-local.
func (t *Translator) LocalPath(id Ident) string {
	if id.Space == SpaceRemoteURL {
		return id.Rel
	}
	// Special case: the root is empty when the engine runs on the current
	// directory.
	if t.root == "" {
		return id.Rel
	}
	return t.root + "/" + id.Rel
}

// URIToPath translates a URI received from the client to an engine-local
// path. Unrecognized URIs are logged and returned unchanged so that callers
// fail gracefully downstream instead of crashing.
func (t *Translator) URIToPath(uri string) string {
	id, ok := t.ParseURI(uri)
	if !ok {
		t.unrecognized.Inc(1)
		t.logger.Errorf("Unrecognized URI received from client: %s", uri)
		return uri
	}
	return t.LocalPath(id)
}

// PathToURI renders an engine-local path as the URI the client should see.
// The path must be the workspace root or a descendant of it.
func (t *Translator) PathToURI(path string) string {
	if !strings.HasPrefix(path, t.root) {
		panic(fmt.Sprintf("path %q is outside the workspace root %q", path, t.root))
	}
	rel := strings.TrimPrefix(path, t.root)
	rel = strings.TrimPrefix(rel, "/")

	// Special case: the root URI is empty for embedded editors like Monaco,
	// which expect bare relative paths.
	if t.cfg.RootURI == "" {
		return rel
	}

	// Use a sorbet: URI when the file is not present on the client and the
	// client supports the scheme.
	if t.cfg.InternalURISupport && t.missing.Matches(path) {
		return InternalScheme + rel
	}
	return t.cfg.RootURI + "/" + rel
}

// URIToFileRef resolves a URI to the file-content store's reference for it.
// The zero FileRef is returned when the URI matches neither the client's
// root URI nor the internal scheme, or when the path is not tracked.
func (t *Translator) URIToFileRef(src FileSource, uri string) FileRef {
	if !strings.HasPrefix(uri, t.cfg.RootURI) && !strings.HasPrefix(uri, InternalScheme) {
		return FileRef(0)
	}
	return src.FindFileByPath(t.URIToPath(uri))
}

// FileRefToURI renders a file reference as the URI the client should see.
// Engine-bundled payload files bypass the root-relative logic: they are
// exposed with the internal scheme when supported, else by their bare
// canonical path.
func (t *Translator) FileRefToURI(src FileSource, ref FileRef) string {
	if !ref.Exists() {
		return _unknownURI
	}
	path, ok := src.PathForRef(ref)
	if !ok {
		return _unknownURI
	}
	if src.IsPayload(ref) {
		if t.cfg.InternalURISupport {
			return InternalScheme + path
		}
		return path
	}
	return t.PathToURI(path)
}

// PositionToLoc converts a protocol position to a zero-width internal Loc.
// Protocol lines and characters are 0-based; the engine counts both from 1.
func (t *Translator) PositionToLoc(src FileSource, ref FileRef, pos protocol.Position) (Loc, error) {
	offset, err := src.OffsetForPosition(ref, int(pos.Line)+1, int(pos.Character)+1)
	if err != nil {
		return Loc{}, fmt.Errorf("resolving position %d:%d: %w", pos.Line, pos.Character, err)
	}
	return Loc{File: ref, Begin: offset, End: offset}, nil
}

// LocToLocation renders an internal span as a protocol location. URIs of
// payload files gain a #L{line} suffix when the client cannot open sorbet:
// URIs. Editors ignore the fragment, while a plain web viewer opening the
// canonical URL jumps close to the right line.
func (t *Translator) LocToLocation(src FileSource, loc Loc) (*protocol.Location, error) {
	rng, err := src.RangeForLoc(loc)
	if err != nil {
		return nil, fmt.Errorf("recovering range: %w", err)
	}
	uri := t.FileRefToURI(src, loc.File)
	if loc.File.Exists() && src.IsPayload(loc.File) && !t.cfg.InternalURISupport {
		uri = fmt.Sprintf("%s#L%d", uri, rng.Start.Line+1)
	}
	return &protocol.Location{URI: protocol.DocumentURI(uri), Range: *rng}, nil
}

// IsFileIgnored applies the workspace exclusion patterns to a local path.
func (t *Translator) IsFileIgnored(path string) bool {
	return t.ignore.Matches(path)
}

// URIInWorkspace reports whether a URI addresses a file under the client's
// declared root.
func (t *Translator) URIInWorkspace(uri string) bool {
	return strings.HasPrefix(uri, t.cfg.RootURI)
}
