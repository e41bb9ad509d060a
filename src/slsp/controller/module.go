package controller

import (
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/codeintel"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/docstore"
	slspdaemon "github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/slsp-daemon"
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/controller/typecheck"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(slspdaemon.New),
	fx.Provide(docstore.New),
	fx.Provide(codeintel.New),
	fx.Provide(typecheck.New),
)
