package yarpcfx

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/yarpc"
	"go.uber.org/yarpc/api/transport"
	yarpchttp "go.uber.org/yarpc/transport/http"
	"go.uber.org/zap"
)

const (
	_configKeyYARPC    = "yarpc"
	_configKeyName     = "yarpc.name"
	_configKeyInbounds = "yarpc.inbounds"

	_transportHTTP = "http"
)

// Module is an fx module to serve admin procedures over yarpc.
var Module = fx.Provide(New)

// YARPCModule represents a module to manage the admin inbound dispatcher.
type YARPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
}

type dispatcherConfig struct {
	Name     string                   `yaml:"name"`
	Inbounds map[string]inboundConfig `yaml:"inbounds"`
}

type inboundConfig struct {
	Address string `yaml:"address"`
}

type module struct {
	cfg dispatcherConfig

	dispatcher *yarpc.Dispatcher
	logger     *zap.SugaredLogger
}

// Params define values to be used by the yarpc dispatcher.
type Params struct {
	fx.In

	Config     config.Provider
	Lifecycle  fx.Lifecycle
	Logger     *zap.SugaredLogger
	Procedures []transport.Procedure `group:"yarpcprocedures"`
}

// New creates a new dispatcher to serve the registered procedures on the configured inbounds.
func New(p Params) (YARPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := module{
		logger: p.Logger,
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	inbounds, err := m.inbounds()
	if err != nil {
		return nil, err
	}

	m.dispatcher = yarpc.NewDispatcher(yarpc.Config{
		Name:     m.cfg.Name,
		Inbounds: inbounds,
	})
	m.dispatcher.Register(p.Procedures)

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return &m, nil
}

// OnStart brings up the dispatcher and all of its inbounds.
func (m *module) OnStart(ctx context.Context) error {
	if err := m.dispatcher.Start(); err != nil {
		return err
	}

	for key, inbound := range m.cfg.Inbounds {
		m.logger.Infow("started yarpc inbound", zap.String("transport", key), zap.String("address", inbound.Address))
	}
	return nil
}

// OnStop drains and shuts down the dispatcher.
func (m *module) OnStop(ctx context.Context) error {
	return m.dispatcher.Stop()
}

// inbounds maps each configured inbound entry to its transport implementation.
func (m *module) inbounds() (yarpc.Inbounds, error) {
	result := make(yarpc.Inbounds, 0, len(m.cfg.Inbounds))
	for key, inbound := range m.cfg.Inbounds {
		switch key {
		case _transportHTTP:
			result = append(result, yarpchttp.NewTransport().NewInbound(inbound.Address))
		default:
			return nil, fmt.Errorf("unsupported inbound transport %q", key)
		}
	}
	return result, nil
}

// processConfig will parse the configuration for any values required by this module.
func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyYARPC)
	if err := val.Populate(&m.cfg); err != nil {
		// incorrectly formatted config
		return fmt.Errorf("getting config field %q: %w", _configKeyYARPC, err)
	}

	if m.cfg.Name == "" {
		return fmt.Errorf("missing field %q in config", _configKeyName)
	}

	if len(m.cfg.Inbounds) == 0 {
		return fmt.Errorf("missing field %q in config", _configKeyInbounds)
	}

	for key, inbound := range m.cfg.Inbounds {
		if inbound.Address == "" {
			return fmt.Errorf("missing address for inbound %q in config", key)
		}
	}

	return nil
}
