// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/palladius/gcloud/cmd/configcmd"
	"github.com/palladius/gcloud/cmd/gemcmd"
	"github.com/palladius/gcloud/cmd/instancecmd"
	"github.com/palladius/gcloud/cmd/kernelcmd"
	"github.com/palladius/gcloud/cmd/machinetypecmd"
	"github.com/palladius/gcloud/cmd/operationcmd"
	"github.com/palladius/gcloud/cmd/taskcmd"
	"github.com/palladius/gcloud/pkg/application"
	"github.com/palladius/gcloud/pkg/compute"
	"github.com/palladius/gcloud/pkg/computeoptions"
	"github.com/palladius/gcloud/pkg/config"
	"github.com/palladius/gcloud/pkg/constants"
	"github.com/palladius/gcloud/pkg/globalconfig"
	"github.com/palladius/gcloud/pkg/prompts"
	"github.com/palladius/gcloud/pkg/tasks"
	"github.com/palladius/gcloud/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "gcloud.log"

var (
	app          *application.GCloud
	computeFlags computeoptions.ComputeFlags

	logLevel       string
	cfgFile        string
	nonInteractive bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "gcloud",
		Long: `gcloud - command line tools for Google Compute Engine.

COMMAND OVERVIEW:

  kernel        Inspect kernels (get/list)
  machinetype   Inspect machine types (get/list)
  operation     Inspect and delete operations (get/delete/list)
  instance      Move instances between zones (move/resume-move)
  gem           Package and release the gem (manifest/gemspec/build/release)
  task          Run task aliases (run/list)
  config        Read and change settings

TASK ALIASES:

  install       Install gcloud with the remote installer script
  test          Run the test suite
  prepdeploy    Write the Manifest and the gemspec
  gemdeploy     Build and release the gem

Settings are read from flags, then GCLOUD_* environment variables, then
~/.gcloud/cli.yaml, then the project and global configs.

For detailed command help, use: gcloud <command> --help`,
		PersistentPreRunE: createApp,
		Version:           constants.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gcloud/cli.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level for the application")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false,
		"Disable prompts and answer them with their defaults (also enabled when stdin is not a TTY or CI=1)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Show only errors (quiet mode)")
	computeoptions.AddComputeFlagsToCmd(rootCmd, &computeFlags)

	// compute nouns
	rootCmd.AddCommand(kernelcmd.NewCmd(app, &computeFlags))
	rootCmd.AddCommand(machinetypecmd.NewCmd(app, &computeFlags))
	rootCmd.AddCommand(operationcmd.NewCmd(app, &computeFlags))
	rootCmd.AddCommand(instancecmd.NewCmd(app, &computeFlags))

	// packaging
	rootCmd.AddCommand(gemcmd.NewCmd(app, &computeFlags))
	rootCmd.AddCommand(taskcmd.NewCmd(app))
	for _, cmd := range taskcmd.NewAliasCmds(app) {
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(configcmd.NewCmd(app))
	return rootCmd
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	switch {
	case cmd.Flags().Changed("debug"):
		level.SetLevel(zapcore.DebugLevel)
	case cmd.Flags().Changed("verbose"):
		level.SetLevel(zapcore.InfoLevel)
	case cmd.Flags().Changed("quiet"):
		level.SetLevel(zapcore.ErrorLevel)
	case logLevel != "":
		if err := level.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
	}
	log, err := setupLogging(baseDir, level)
	if err != nil {
		return err
	}

	// CI systems other than the ones setting CI=1 are detected too
	if !nonInteractive && !globalconfig.IsInteractiveRecommended() {
		nonInteractive = true
	}
	// propagate --non-interactive so IsInteractive() sees it
	if nonInteractive {
		_ = os.Setenv(constants.EnvNonInteractive, "1")
	}
	prompter := prompts.NewPrompterForMode(nonInteractive)
	app.Setup(baseDir, log, config.New(), prompter, application.NewDownloader())

	initConfig()
	return nil
}

func setupEnv() (string, error) {
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(usr.HomeDir, constants.BaseDirName)
	if err := os.MkdirAll(filepath.Join(baseDir, constants.LogDir), 0o750); err != nil {
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

// setupLogging logs to stderr at level and everything at debug to
// <baseDir>/logs/gcloud.log.
func setupLogging(baseDir string, level zap.AtomicLevel) (*zap.Logger, error) {
	logPath := filepath.Join(baseDir, constants.LogDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.WriteReadReadPerms)
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zapcore.DebugLevel),
	)
	log := zap.New(core, zap.AddCaller())

	// create the user facing logger as a global var
	// User output goes to stdout, logs go to stderr
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(app.GetBaseDir())
		viper.SetConfigType(constants.DefaultConfigFileType)
		viper.SetConfigName(constants.DefaultConfigFileName)
	}

	// GCLOUD_SERVICE_VERSION -> service-version, etc.
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		app.Log.Debug("using config file", zap.String("config-file", viper.ConfigFileUsed()))
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", compute.HTTPErrorMessage(err))
		if app.Log != nil {
			_ = app.Log.Sync()
		}
		os.Exit(tasks.ExitCode(err))
	}
}
