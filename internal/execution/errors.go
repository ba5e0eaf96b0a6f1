package execution

import "errors"

// Sentinel errors.
var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrEngineNotFound = errors.New("engine executable not found")
	ErrBusy           = errors.New("an engine invocation is already in flight")
)
