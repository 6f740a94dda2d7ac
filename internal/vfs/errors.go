package vfs

import "errors"

var (
	ErrOutsideJail       = errors.New("path resolves outside the home directory")
	ErrNotFound          = errors.New("no such file or directory")
	ErrNotDirectory      = errors.New("not a directory")
	ErrDestinationExists = errors.New("destination already exists")
)
