package database

import "errors"

// ErrNoDatabase indicates a repository was used without an open database context.
var ErrNoDatabase = errors.New("database: missing database context")
