package catalog

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned by Browser.Load when no DataSource was given.
var ErrNoSource = errors.New("catalog: no data source configured")

// LoadError wraps a failed load attempt (transport or payload error).
// Any failure is terminal for that attempt; recovery is a manual reload.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load failed: %v", e.Err)
	}
	return fmt.Sprintf("load %s failed: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
