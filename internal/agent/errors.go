package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrInterpreterUnavailable covers transport failures, timeouts and
	// unrecognized responses from the remote interpreter. It is always
	// recovered locally by falling back to heuristic parsing and is
	// never surfaced to the end user on its own.
	ErrInterpreterUnavailable = errors.New("interpreter unavailable")

	// ErrNoItemsRecognized means neither the interpreter nor local
	// extraction found anything usable in the message.
	ErrNoItemsRecognized = errors.New("no items recognized")

	// ErrProductNotFound is returned by strict-mode resolution when a
	// name matches nothing in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrPersistence means the posting could not be durably recorded.
	// The posting unit guarantees no partial ledger effects remain.
	ErrPersistence = errors.New("transaction could not be recorded")
)

// ProductNotFoundError carries the unresolved name so the user-facing
// message can quote it.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found in inventory", e.Name)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
