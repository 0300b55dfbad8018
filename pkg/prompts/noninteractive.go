// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompts

// NonInteractivePrompter implements Prompter without a terminal: every
// question is answered with its default, which is always no.
type NonInteractivePrompter struct{}

func NewNonInteractivePrompter() *NonInteractivePrompter {
	return &NonInteractivePrompter{}
}

func (*NonInteractivePrompter) CaptureYesNo(string) (bool, error) {
	return false, nil
}

func (*NonInteractivePrompter) CaptureNoYes(string) (bool, error) {
	return false, nil
}
