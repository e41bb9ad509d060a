// Package workspace reconciles the client's view of project files (URIs,
// 0-based positions, capabilities negotiated at handshake) with the engine's
// local view (paths under a single workspace root, 1-based lines and columns,
// byte offsets).
package workspace

import (
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/entity"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/ignore"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Workspace is the pre-handshake holder for one IDE session. It exposes no
// translation methods: those live on the Translator it publishes exactly once
// when the session's client configuration arrives.
type Workspace struct {
	root    string
	ignore  *ignore.Matcher
	missing *ignore.Matcher
	logger  *zap.SugaredLogger
	scope   tally.Scope

	initialized atomic.Bool
	translator  atomic.Pointer[Translator]
}

// NewWorkspace returns a holder bound to the given engine root and exclusion
// matchers. The ignore matcher carries the general exclusion patterns; the
// missing matcher names directories absent from the client's checkout.
func NewWorkspace(root string, ignoreMatcher *ignore.Matcher, missingMatcher *ignore.Matcher, logger *zap.SugaredLogger, scope tally.Scope) *Workspace {
	return &Workspace{
		root:    root,
		ignore:  ignoreMatcher,
		missing: missingMatcher,
		logger:  logger,
		scope:   scope,
	}
}

// Root returns the engine's workspace root path.
func (w *Workspace) Root() string {
	return w.root
}

// Activate publishes the client configuration and returns the session's
// Translator. The handshake handler is the sole caller; activating twice in
// one session is a wiring bug and panics.
func (w *Workspace) Activate(cfg entity.ClientConfig) *Translator {
	t := &Translator{
		root:         w.root,
		cfg:          cfg,
		ignore:       w.ignore,
		missing:      w.missing,
		logger:       w.logger,
		unrecognized: w.scope.Counter("uri_unrecognized"),
	}
	if !w.translator.CompareAndSwap(nil, t) {
		panic("cannot call Activate twice in one session")
	}
	return t
}

// Activated reports whether the client configuration has been published.
func (w *Workspace) Activated() bool {
	return w.translator.Load() != nil
}

// Translator returns the published Translator. Calling it before Activate is
// a wiring bug and panics.
func (w *Workspace) Translator() *Translator {
	t := w.translator.Load()
	if t == nil {
		panic("translator is not activated")
	}
	return t
}

// MarkInitialized records that the session finished startup bookkeeping. The
// flag flips once and provides no ordering guarantee beyond atomicity.
func (w *Workspace) MarkInitialized() {
	w.initialized.Store(true)
}

// Initialized reports whether the session finished startup bookkeeping.
func (w *Workspace) Initialized() bool {
	return w.initialized.Load()
}
