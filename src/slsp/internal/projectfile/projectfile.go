// Package projectfile loads per-workspace settings from a .slsp.yaml file at
// the workspace root.
package projectfile

import (
	"fmt"
	"path"
	"strings"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/fs"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up at the workspace root.
const FileName = ".slsp.yaml"

// Module provides a new Loader.
var Module = fx.Provide(New)

// Project holds the per-workspace settings of a .slsp.yaml file. Entries are
// merged over the daemon configuration defaults.
type Project struct {
	// Ignore lists exclusion patterns. Entries starting with "/" match from
	// the workspace root; all others match a path component at any depth.
	Ignore []string `yaml:"ignore"`

	// IgnoreGlobs lists ** glob exclusions applied to root-relative paths.
	IgnoreGlobs []string `yaml:"ignoreGlobs"`

	// MissingFromClient names root directories that exist for the engine but
	// are absent from the client's checkout. Entries must start with "/".
	MissingFromClient []string `yaml:"missingFromClient"`

	// Indexes lists root-relative paths of scip-ruby index files to serve.
	Indexes []string `yaml:"indexes"`

	// IndexBuildCommand is an argv vector run from the workspace root to
	// produce missing index files. Empty means indexes are built elsewhere.
	IndexBuildCommand []string `yaml:"indexBuildCommand"`

	// TypecheckDebounceMs delays typecheck run classification after an edit.
	TypecheckDebounceMs int `yaml:"typecheckDebounceMs"`
}

// Loader reads workspace project files.
type Loader interface {
	// Load reads the project file at the given workspace root. A missing
	// file yields the zero Project and no error.
	Load(root string) (Project, error)
}

// Params are the parameters to create a new Loader.
type Params struct {
	fx.In

	FS     fs.SlspFS
	Logger *zap.SugaredLogger
}

type loader struct {
	fs     fs.SlspFS
	logger *zap.SugaredLogger
}

// New creates a new Loader.
func New(p Params) Loader {
	return &loader{
		fs:     p.FS,
		logger: p.Logger,
	}
}

func (l *loader) Load(root string) (Project, error) {
	target := path.Join(root, FileName)
	ok, err := l.fs.FileExists(target)
	if err != nil {
		return Project{}, fmt.Errorf("checking for %s: %w", FileName, err)
	}
	if !ok {
		l.logger.Debugf("no %s found at %q", FileName, target)
		return Project{}, nil
	}

	data, err := l.fs.ReadFile(target)
	if err != nil {
		return Project{}, fmt.Errorf("reading %q: %w", target, err)
	}

	project, err := Parse(data)
	if err != nil {
		return project, fmt.Errorf("loading %q: %w", target, err)
	}
	l.logger.Infof("loaded workspace settings from %q", target)
	return project, nil
}

// Parse decodes project file contents. Validation is best effort: Parse may
// return partially valid content along with errors describing every issue it
// ran into.
func Parse(data []byte) (Project, error) {
	var project Project
	if e := yaml.Unmarshal(data, &project); e != nil {
		return Project{}, fmt.Errorf("parsing project file: %w", e)
	}

	var err error
	for _, dir := range project.MissingFromClient {
		if !strings.HasPrefix(dir, "/") {
			err = multierr.Append(err, fmt.Errorf("missingFromClient entry %q does not start with /", dir))
		}
	}
	for _, idx := range project.Indexes {
		if idx == "" {
			err = multierr.Append(err, fmt.Errorf("indexes entries must not be empty"))
		}
	}
	for _, arg := range project.IndexBuildCommand {
		if arg == "" {
			err = multierr.Append(err, fmt.Errorf("indexBuildCommand arguments must not be empty"))
		}
	}
	if project.TypecheckDebounceMs < 0 {
		err = multierr.Append(err, fmt.Errorf("typecheckDebounceMs must not be negative, got %d", project.TypecheckDebounceMs))
	}
	return project, err
}
