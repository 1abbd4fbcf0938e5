package persistence

import "errors"

var ErrUnknownSnapshotFormat = errors.New("unknown snapshot format")
