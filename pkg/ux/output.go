// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var Logger *UserLog

type UserLog struct {
	log    *zap.Logger
	writer io.Writer
	color  *colorstring.Colorize
}

func NewUserLog(log *zap.Logger, userwriter io.Writer) {
	if Logger == nil {
		Logger = NewUserLogTo(log, userwriter)
	}
}

// NewUserLogTo builds a standalone UserLog without touching the global one.
func NewUserLogTo(log *zap.Logger, userwriter io.Writer) *UserLog {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserLog{log: log, writer: userwriter, color: colorizer(userwriter)}
}

// colorizer disables color codes unless w is a terminal.
func colorizer(w io.Writer) *colorstring.Colorize {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &colorstring.Colorize{Colors: colorstring.DefaultColors, Disable: !enabled, Reset: true}
}

// Writer returns the writer user output goes to.
func (ul *UserLog) Writer() io.Writer {
	return ul.writer
}

// PrintToUser prints msg directly to stdout (command output)
// Does NOT log to avoid duplication - logs should go to stderr separately
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
}

// Info logs an info message
func (ul *UserLog) Info(msg string, args ...interface{}) {
	ul.log.Info(fmt.Sprintf(msg, args...))
}

// Warn logs a warning message
func (ul *UserLog) Warn(msg string, args ...interface{}) {
	ul.log.Warn(fmt.Sprintf(msg, args...))
}

// PrintLineSeparator prints a line separator
func (ul *UserLog) PrintLineSeparator(msg ...string) {
	separator := "=========================================="
	if len(msg) > 0 && msg[0] != "" {
		separator = msg[0]
	}
	_, _ = fmt.Fprintln(ul.writer, separator)
}

// Error logs an error message
func (ul *UserLog) Error(msg string, args ...interface{}) {
	ul.log.Error(fmt.Sprintf(msg, args...))
}

// RedXToUser prints a red X error message to the user
func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf("✗ %s", fmt.Sprintf(msg, args...))
	_, _ = fmt.Fprintln(ul.writer, ul.color.Color("[red]"+formattedMsg))
	ul.log.Error(formattedMsg)
}

// GreenCheckmarkToUser prints a green checkmark success message to the user
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf("✓ %s", fmt.Sprintf(msg, args...))
	_, _ = fmt.Fprintln(ul.writer, ul.color.Color("[green]"+formattedMsg))
	ul.log.Info(formattedMsg)
}

// PrintError prints a visible error message with ERROR prefix to the user
func (ul *UserLog) PrintError(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintf(ul.writer, "\nERROR: %s\n\n", formattedMsg)
	ul.log.Error(formattedMsg)
}

// StepTracker tracks progress of multi-step operations with elapsed time
type StepTracker struct {
	stepStart time.Time
	stepName  string
	ul        *UserLog
}

func NewStepTracker(ul *UserLog) *StepTracker {
	return &StepTracker{ul: ul}
}

// Start begins tracking a new step
func (st *StepTracker) Start(stepName string) {
	st.stepStart = time.Now()
	st.stepName = stepName
	st.ul.PrintToUser("%s...", stepName)
}

// Elapsed returns the elapsed time for the current step
func (st *StepTracker) Elapsed() time.Duration {
	return time.Since(st.stepStart)
}

// Complete marks the step as done
func (st *StepTracker) Complete() {
	st.ul.log.Debug("step complete",
		zap.String("step", st.stepName),
		zap.Duration("elapsed", st.Elapsed()),
	)
}

// Failed marks the step as failed with an error
func (st *StepTracker) Failed(reason string) {
	st.ul.RedXToUser("%s (%.1fs) - FAILED: %s", st.stepName, st.Elapsed().Seconds(), reason)
}

// ConvertToStringWithThousandSeparator renders 1234567 as 1,234,567.
func ConvertToStringWithThousandSeparator(input float64) string {
	p := message.NewPrinter(language.English)
	if input == float64(int64(input)) {
		return p.Sprintf("%d", int64(input))
	}
	return strings.TrimRight(strings.TrimRight(p.Sprintf("%.2f", input), "0"), ".")
}
