package protocol

// Method names for the sorbet: protocol extensions negotiated through
// initializationOptions at handshake time.
const (
	// MethodShowOperation notifies the client that a long-running server
	// operation started or ended. Sent only when the client opted in via
	// supportsOperationNotifications.
	MethodShowOperation = "sorbet/showOperation"

	// MethodTypecheckRunInfo reports typecheck run transitions. Sent only
	// when the client opted in via enableTypecheckInfo.
	MethodTypecheckRunInfo = "sorbet/typecheckRunInfo"

	// MethodReadFile lets the client fetch the contents behind a sorbet:
	// URI, since such files are not present in its workspace.
	MethodReadFile = "sorbet/readFile"
)

// OperationStatus marks the boundary of a server operation.
type OperationStatus string

const (
	OperationStart OperationStatus = "start"
	OperationEnd   OperationStatus = "end"
)

// ShowOperationParams describes a server operation in progress, e.g.
// "Indexing" or "Typechecking". The client typically renders the
// description in its status area until the matching end notification.
type ShowOperationParams struct {
	OperationName string          `json:"operationName"`
	Description   string          `json:"description"`
	Status        OperationStatus `json:"status"`
}

// TypecheckRunStatus is the lifecycle state of a typecheck run.
type TypecheckRunStatus string

const (
	TypecheckRunStarted   TypecheckRunStatus = "started"
	TypecheckRunEnded     TypecheckRunStatus = "ended"
	TypecheckRunCancelled TypecheckRunStatus = "cancelled"
)

// TypecheckRunInfo reports one typecheck run transition, including whether
// the run took the incremental fast path and which files it covered.
type TypecheckRunInfo struct {
	Status           TypecheckRunStatus `json:"status"`
	IsFastPath       bool               `json:"isFastPath"`
	FilesTypechecked []string           `json:"filesTypechecked,omitempty"`
}
