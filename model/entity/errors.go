package entity

import "errors"

var ErrLoad = errors.New("entity config load")

// LoadError reports an unresolvable entity type or malformed entity metadata.
type LoadError struct {
	TypeName string
	Reason   string
	Err      error
}

func (e *LoadError) Error() string {
	msg := "load entity " + e.TypeName + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func loadErr(typeName, reason string, err error) *LoadError {
	return &LoadError{TypeName: typeName, Reason: reason, Err: err}
}
