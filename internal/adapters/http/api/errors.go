package api

import (
	"errors"

	"github.com/okian/bfhl/internal/domain/operation"
)

// Messages returned in the error field. Causes never leave the process.
const (
	MsgOperationCount = "Exactly one operation is required"
	MsgInvalidRequest = "Invalid request"
)

// Sentinel kinds for API errors.
var (
	ErrReadBody = errors.New("read request body")
	ErrPanic    = errors.New("handler panic")
)

// publicMessage collapses err to one of the two client-facing messages.
func publicMessage(err error) string {
	if errors.Is(err, operation.ErrOperationCount) {
		return MsgOperationCount
	}
	return MsgInvalidRequest
}
