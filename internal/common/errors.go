// Package common provides shared utilities used across all features
package common

import "errors"

// ErrInvalidArgument covers malformed caller input: non-positive amounts,
// zero sample counts, degenerate token pairs. It is fatal to the call that
// produced it and is never folded into a partial result.
var ErrInvalidArgument = errors.New("invalid argument")
