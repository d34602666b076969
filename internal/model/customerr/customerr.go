package customerr

import "fmt"

// ValidationError rejects malformed input to add/edit. The operation is
// aborted and no state is mutated.
type ValidationError struct {
	Err string
}

func (e *ValidationError) Error() string {
	return e.Err
}

// NotFoundError marks an edit/delete referencing an id absent from the
// record list. The operation is a no-op.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.ID)
}

// StorageError wraps a collaborator failure to read or write persisted
// state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
