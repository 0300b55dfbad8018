// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/googleapi"
)

// CommandError is a user-facing failure of a compute command.
type CommandError struct {
	Msg string
}

func (e *CommandError) Error() string {
	return e.Msg
}

func NewCommandError(format string, args ...interface{}) error {
	return &CommandError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrAborted        = NewCommandError("Operation aborted")
	ErrUnknownVersion = errors.New("unknown API version")
)

// HTTPErrorMessage renders an API error the way it is shown to users: the
// set of distinct messages carried in the body, falling back to the status.
func HTTPErrorMessage(err error) string {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err.Error()
	}

	messages := map[string]struct{}{}
	add := func(m string) {
		if m != "" {
			messages[m] = struct{}{}
		}
	}
	add(gerr.Message)
	for _, item := range gerr.Errors {
		add(item.Message)
	}
	if len(messages) == 0 && gerr.Body != "" {
		var body struct {
			Error struct {
				Message string `json:"message"`
				Errors  []struct {
					Message string `json:"message"`
				} `json:"errors"`
			} `json:"error"`
		}
		if json.Unmarshal([]byte(gerr.Body), &body) == nil {
			add(body.Error.Message)
			for _, item := range body.Error.Errors {
				add(item.Message)
			}
		}
	}
	if len(messages) == 0 {
		return fmt.Sprintf("%d %s", gerr.Code, strings.TrimSpace(gerr.Body))
	}
	out := make([]string, 0, len(messages))
	for m := range messages {
		out = append(out, m)
	}
	sort.Strings(out)
	return strings.Join(out, "\n")
}
