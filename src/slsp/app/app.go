package app

import (
	"context"
	"time"

	"github.com/sorbet-tools/sorbet-lsp/src/slsp/gateway"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/handler"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/core"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/executor"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/filestore"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/fs"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/jsonrpcfx"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/projectfile"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/serverinfofile"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/workspace"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/yarpcfx"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the slsp-daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	yarpcfx.Module,
	fs.Module,
	executor.Module,
	serverinfofile.Module,
	workspace.Module,
	filestore.Module,
	projectfile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "slsp-daemon",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Invoke(func(m yarpcfx.YARPCModule) {}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)
