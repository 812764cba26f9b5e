package highlight

import "errors"

// Sentinel errors for highlighting.
var (
	ErrUnknownStyle   = errors.New("unknown highlight style")
	ErrInvalidOptions = errors.New("invalid highlight options")
	ErrInvalidMeta    = errors.New("invalid code block meta")
	ErrHighlight      = errors.New("highlighting failed")
)
