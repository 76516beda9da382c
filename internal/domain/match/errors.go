package match

import "errors"

// Sentinel kinds for matching errors.
var (
	ErrUnknownMode = errors.New("unknown match mode")
)
