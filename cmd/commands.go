// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

// Command names exported for testing
const (
	KernelCmd      = "kernel"
	MachineTypeCmd = "machinetype"
	OperationCmd   = "operation"
	InstanceCmd    = "instance"
	GemCmd         = "gem"
	TaskCmd        = "task"
	ConfigCmd      = "config"

	// top-level task aliases
	InstallCmd    = "install"
	TestCmd       = "test"
	PrepdeployCmd = "prepdeploy"
	GemdeployCmd  = "gemdeploy"
)
