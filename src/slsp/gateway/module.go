// Package gateway provides access for outbound calls to the connected IDE clients.
package gateway

import (
	ideclient "github.com/sorbet-tools/sorbet-lsp/src/slsp/gateway/ide-client"
	"go.uber.org/fx"
)

// Module provides the gateways used for outbound calls.
var Module = fx.Options(
	fx.Provide(ideclient.New),
)
