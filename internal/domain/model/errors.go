package model

import "errors"

// ErrResultNotFound means no result exists for the given execution ID: the
// webhook cache entry expired, or the execution produced no object output.
// The client may recover from its own cached copy. An execution that exists
// but has not finished is not an error; it resolves to a Resolution with
// Finished false.
var ErrResultNotFound = errors.New("scan result not found")

// ErrUserExists is returned when registering an email that is already taken.
var ErrUserExists = errors.New("user already exists")
