package main

import (
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
