// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoProject      = errors.New(`you must specify a project name using the "--project" flag`)
	ErrOperationAbort = errors.New("operation aborted")
)
