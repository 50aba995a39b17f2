package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrRootNotFound   = errors.New("root directory not found")
	ErrRootUnreadable = errors.New("root directory unreadable")
	ErrNotADirectory  = errors.New("root is not a directory")
)
