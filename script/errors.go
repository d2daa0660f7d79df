package script

import "errors"

// ErrEngineClosed is returned when running a script on a closed engine.
var ErrEngineClosed = errors.New("script: engine is closed")
