package mapper

import (
	"github.com/sorbet-tools/sorbet-lsp/src/slsp/internal/errors"
	"go.uber.org/yarpc/yarpcerrors"
)

// ToYARPCError translates service domain errors into transport errors for the
// admin procedures. Errors with no domain mapping pass through unchanged.
func ToYARPCError(e error) error {
	if errors.IsBadRequest(e) {
		return yarpcerrors.InvalidArgumentErrorf("%s", e.Error())
	}

	if _, ok := errors.NotFoundUUID(e); ok {
		return yarpcerrors.NotFoundErrorf("%s", e.Error())
	}

	if _, ok := errors.NotFoundFile(e); ok {
		return yarpcerrors.NotFoundErrorf("%s", e.Error())
	}

	return e
}
