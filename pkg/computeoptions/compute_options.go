// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package computeoptions

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	projectFlag              = "project"
	serviceVersionFlag       = "service-version"
	apiHostFlag              = "api-host"
	traceTokenFlag           = "trace-token"
	credentialsFileFlag      = "credentials-file"
	formatFlag               = "format"
	longValuesFlag           = "long-values-display-format"
	synchronousFlag          = "synchronous-mode"
	sleepBetweenPollsFlag    = "sleep-between-polls"
	maxWaitTimeFlag          = "max-wait-time"
	concurrentOperationsFlag = "concurrent-operations"
)

// ComputeFlags are the flags shared by every compute command.
type ComputeFlags struct {
	Project              string
	ServiceVersion       string
	APIHost              string
	TraceToken           string
	CredentialsFile      string
	Format               string
	LongValues           string
	Synchronous          bool
	SleepBetweenPolls    time.Duration
	MaxWaitTime          time.Duration
	ConcurrentOperations int
}

// AddComputeFlagsToCmd registers the compute flags as persistent flags so
// that every subcommand of cmd accepts them.
func AddComputeFlagsToCmd(cmd *cobra.Command, f *ComputeFlags) {
	AddComputeFlags(cmd.PersistentFlags(), f)
}

func AddComputeFlags(fs *pflag.FlagSet, f *ComputeFlags) {
	fs.StringVar(&f.Project, projectFlag, "", "the name of the Google Compute Engine project")
	fs.StringVar(&f.ServiceVersion, serviceVersionFlag, constants.DefaultServiceVersion,
		fmt.Sprintf("compute API version, one of %v", compute.SupportedVersions))
	fs.StringVar(&f.APIHost, apiHostFlag, constants.DefaultAPIHost, "API host name")
	fs.StringVar(&f.TraceToken, traceTokenFlag, "", "trace the API requests using a trace token provided by Google")
	fs.StringVar(&f.CredentialsFile, credentialsFileFlag, "", "service account key file (default: application default credentials)")
	fs.StringVar(&f.Format, formatFlag, compute.FormatTable, fmt.Sprintf("output format, one of %v", compute.Formats))
	fs.StringVar(&f.LongValues, longValuesFlag, compute.LongValuesElided, "display of long table values (elided or full)")
	fs.BoolVar(&f.Synchronous, synchronousFlag, true, "wait for operations to complete before returning")
	fs.DurationVar(&f.SleepBetweenPolls, sleepBetweenPollsFlag, constants.DefaultSleepBetweenPolls, "time to sleep between operation polls")
	fs.DurationVar(&f.MaxWaitTime, maxWaitTimeFlag, constants.DefaultMaxWaitTime, "maximum time to wait for an operation to complete")
	fs.IntVar(&f.ConcurrentOperations, concurrentOperationsFlag, constants.DefaultConcurrentOperations,
		"maximum number of concurrent operations in progress at once")
}

// resolver picks a value from the command line, then the environment or
// cli.yaml, then the project and global configs.
type resolver struct {
	app    *application.GCloud
	cmd    *cobra.Command
	merged *globalconfig.MergedConfig
}

func (r resolver) str(flagName, viperKey, configKey, flagValue string) string {
	if r.cmd.Flags().Changed(flagName) {
		return flagValue
	}
	if r.app.Conf != nil && viperKey != "" && r.app.Conf.ConfigValueIsSet(viperKey) {
		return r.app.Conf.GetConfigStringValue(viperKey)
	}
	if configKey != "" {
		v, _ := globalconfig.Resolve(r.merged, configKey, flagValue, false)
		return v
	}
	return flagValue
}

// Validate checks option ranges.
func (f *ComputeFlags) Validate() error {
	switch {
	case !slices.Contains(compute.SupportedVersions, f.ServiceVersion):
		return fmt.Errorf("invalid --%s %q: must be one of %v", serviceVersionFlag, f.ServiceVersion, compute.SupportedVersions)
	case !slices.Contains(compute.Formats, f.Format):
		return fmt.Errorf("invalid --%s %q: must be one of %v", formatFlag, f.Format, compute.Formats)
	case f.LongValues != compute.LongValuesElided && f.LongValues != compute.LongValuesFull:
		return fmt.Errorf("invalid --%s %q: must be elided or full", longValuesFlag, f.LongValues)
	case f.SleepBetweenPolls < constants.MinSleepBetweenPolls || f.SleepBetweenPolls > constants.MaxSleepBetweenPolls:
		return fmt.Errorf("--%s must be between %s and %s", sleepBetweenPollsFlag, constants.MinSleepBetweenPolls, constants.MaxSleepBetweenPolls)
	case f.MaxWaitTime < constants.MinMaxWaitTime || f.MaxWaitTime > constants.MaxMaxWaitTime:
		return fmt.Errorf("--%s must be between %s and %s", maxWaitTimeFlag, constants.MinMaxWaitTime, constants.MaxMaxWaitTime)
	case f.ConcurrentOperations < 1 || f.ConcurrentOperations > constants.MaxConcurrentOperations:
		return fmt.Errorf("--%s must be between 1 and %d", concurrentOperationsFlag, constants.MaxConcurrentOperations)
	}
	return nil
}

// Session bundles what a compute command needs.
type Session struct {
	Service  compute.Service
	Printer  *compute.Printer
	Executor *compute.Executor
	Waiter   *compute.Waiter
	Flags    ComputeFlags
	Log      *zap.Logger

	app *application.GCloud
}

// Resolve returns a copy of f with values not given on the command line
// filled in from the environment and the config files.
func Resolve(app *application.GCloud, cmd *cobra.Command, f *ComputeFlags) ComputeFlags {
	merged, err := app.GetEffectiveConfig()
	if err != nil {
		app.Log.Debug("could not load config files", zap.Error(err))
	}
	r := resolver{app: app, cmd: cmd, merged: merged}

	out := *f
	out.Project = r.str(projectFlag, constants.ConfigProject, "compute.project", f.Project)
	out.ServiceVersion = r.str(serviceVersionFlag, constants.ConfigServiceVersion, "compute.serviceVersion", f.ServiceVersion)
	out.APIHost = r.str(apiHostFlag, constants.ConfigAPIHost, "compute.apiHost", f.APIHost)
	out.CredentialsFile = r.str(credentialsFileFlag, constants.ConfigCredentialsFile, "compute.credentialsFile", f.CredentialsFile)
	out.Format = r.str(formatFlag, constants.ConfigFormat, "compute.format", f.Format)
	if !cmd.Flags().Changed(concurrentOperationsFlag) {
		v := r.str(concurrentOperationsFlag, "", "compute.concurrentOperations", "")
		if _, err := fmt.Sscanf(v, "%d", &out.ConcurrentOperations); err != nil {
			out.ConcurrentOperations = f.ConcurrentOperations
		}
	}
	return out
}

// NewSession resolves the flags and connects to the compute API.
func NewSession(ctx context.Context, app *application.GCloud, cmd *cobra.Command, f *ComputeFlags) (*Session, error) {
	flags := Resolve(app, cmd, f)
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	project, err := compute.ResolveProject(ctx, flags.Project, app.Log)
	if err != nil {
		return nil, err
	}
	flags.Project = project

	client, err := compute.NewClient(ctx, compute.ClientOptions{
		Project:         project,
		APIHost:         flags.APIHost,
		Version:         flags.ServiceVersion,
		TraceToken:      flags.TraceToken,
		CredentialsFile: flags.CredentialsFile,
		Log:             app.Log,
	})
	if err != nil {
		return nil, err
	}
	return NewSessionWith(app, client, flags, os.Stdout, os.Stderr), nil
}

// NewSessionWith builds a session over an existing service.
func NewSessionWith(app *application.GCloud, svc compute.Service, flags ComputeFlags, out, progress io.Writer) *Session {
	waiter := compute.NewWaiter(svc, flags.SleepBetweenPolls, flags.MaxWaitTime, app.Log)
	executor := &compute.Executor{Concurrency: flags.ConcurrentOperations, Progress: progress}
	if flags.Synchronous {
		executor.Waiter = waiter
	}
	return &Session{
		Service:  svc,
		Printer:  compute.NewPrinter(out, flags.Format, flags.LongValues, svc.Project(), svc.Namer(), app.Log),
		Executor: executor,
		Waiter:   waiter,
		Flags:    flags,
		Log:      app.Log,
		app:      app,
	}
}

// Remember caches the project and zone of a successful command.
func (s *Session) Remember(zone string) {
	if zone == constants.GlobalZoneName {
		zone = ""
	}
	s.app.RememberFlags(s.Service.Project(), zone)
}

// ResolveZone returns the zone flag, falling back to the remembered one.
func ResolveZone(app *application.GCloud, cmd *cobra.Command, flagName, zone string) string {
	if cmd.Flags().Changed(flagName) || zone != "" {
		return zone
	}
	if app.Conf != nil && app.Conf.ConfigValueIsSet(constants.ConfigZone) {
		return app.Conf.GetConfigStringValue(constants.ConfigZone)
	}
	merged, err := app.GetEffectiveConfig()
	if err != nil {
		return zone
	}
	v, _ := globalconfig.Resolve(merged, "compute.zone", zone, false)
	return v
}
