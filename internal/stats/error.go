package stats

import "errors"

var ErrUnauthorized = errors.New("unauthorized")
