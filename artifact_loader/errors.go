package artifact_loader

import "fmt"

// StructuralCorruptionError is returned when a container claims a format it does not have,
// e.g. a .gz object which is not gzip data. It aborts the table sync
type StructuralCorruptionError struct {
	Name string
	Err  error
}

func (e *StructuralCorruptionError) Error() string {
	return fmt.Sprintf("%s is corrupt: %v", e.Name, e.Err)
}

func (e *StructuralCorruptionError) Unwrap() error {
	return e.Err
}
