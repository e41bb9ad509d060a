// Package serverinfofile maintains the discovery file a running daemon uses to
// advertise its listen addresses. Editor tooling reads the file to find the
// JSON-RPC and admin ports of an already-running slsp daemon instead of
// spawning another one.
package serverinfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _configKeyInfoFile = "serverInfoFilePath"

// Module provides the ServerInfoFile.
var Module = fx.Provide(New)

// ServerInfoFile manages the daemon's discovery file. Each transport publishes
// its address through UpdateField as it starts listening; the file is removed
// when the daemon stops.
type ServerInfoFile interface {
	UpdateField(key string, value string) error
}

// Params are the inbound parameters to construct a ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

type infoFile struct {
	path   string
	logger *zap.SugaredLogger

	mu     sync.Mutex
	fields map[string]string
}

// New constructs a ServerInfoFile at the path named by the daemon
// configuration and registers its removal on shutdown.
func New(p Params) (ServerInfoFile, error) {
	f := infoFile{
		logger: p.Logger,
		fields: make(map[string]string),
	}
	if err := f.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: f.OnStop,
	})
	return &f, nil
}

// UpdateField stores the key and rewrites the whole file. The file holds one
// flat JSON object so a reader never sees a partially appended entry.
func (f *infoFile) UpdateField(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fields[key] = value
	out, err := json.Marshal(f.fields)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := os.WriteFile(f.path, out, 0644); err != nil {
		return fmt.Errorf("creating info file: %w", err)
	}
	f.logger.Infow("connection info saved", zap.String("file", f.path), zap.String(key, value))
	return nil
}

// OnStop removes the discovery file so stale addresses never outlive the
// daemon. A file that was never written is not an error.
func (f *infoFile) OnStop(ctx context.Context) error {
	if f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *infoFile) processConfig(cfg config.Provider) error {
	if err := cfg.Get(_configKeyInfoFile).Populate(&f.path); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}
	if f.path == "" {
		// The key or its value is absent from the yaml.
		return fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}
	return nil
}
