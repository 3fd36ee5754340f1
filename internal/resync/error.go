package resync

import "errors"

// ErrNoLiterals indicates that a literal finder was requested without any
// non-empty literal.
var ErrNoLiterals = errors.New("resync: no literals")
