package handler

import (
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/handler/admin"
	handler "github.com/sorbet-tools/sorbet-lsp/src/slsp/handler/slsp-daemon"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/repository/session"
	"go.uber.org/fx"
)

// Module provides the slsp-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	admin.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputYARPCConnectionInfo),
	fx.Invoke(func(m handler.Handler) {}),
)
