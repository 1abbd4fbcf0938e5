package billing

import "errors"

var ErrUnknownPackage = errors.New("unknown package identifier")
