package entity

import "errors"

// ErrJobNotFound is returned by job and status stores for unknown ids.
var ErrJobNotFound = errors.New("job not found")
