// Package factory provides test object factories shared across packages.
package factory

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// JSONRPCNotification is a user-defined factory for a JSON-RPC notification containing the specified method and parameters.
func JSONRPCNotification(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewNotification(method, params)
	return req
}
