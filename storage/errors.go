package storage

import (
	"errors"

	"github.com/go-redsync/redsync/v4"
)

var (
	ErrLockFailed         = redsync.ErrFailed
	ErrLockAlreadyExpired = redsync.ErrLockAlreadyExpired
	ErrArtifactInvalid    = errors.New("artifact is invalid")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrNoActiveVersion    = errors.New("no active pipeline version")
	ErrEmptyFile          = errors.New("empty file")
)
