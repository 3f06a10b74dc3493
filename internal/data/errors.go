package data

import "errors"

// ErrNotConfigured is returned by repositories constructed without a
// database handle.
var ErrNotConfigured = errors.New("repository is not configured")
