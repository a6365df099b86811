package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chapa-go/chapa/libs/clients"
	appctx "github.com/chapa-go/chapa/libs/context"
	errorutils "github.com/chapa-go/chapa/libs/errors"
	"github.com/chapa-go/chapa/libs/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// RootCmd is the base command (what the binary is called)
	RootCmd = &cobra.Command{
		Use:   "chapa",
		Short: "chapa provides command line access to the chapa payment api",
	}
	ctx = context.Background()
)

// Execute - the main entrypoint for all subcommands in chapa
func Execute(version, commit, buildTime string) {
	// setup context with logging, but first we need to setup the environment
	var logger *zerolog.Logger
	ctx = context.WithValue(ctx, appctx.EnvironmentCTXKey, viper.GetString("environment"))
	ctx = context.WithValue(ctx, appctx.DebugLoggingCTXKey, viper.GetBool("debug"))
	ctx = context.WithValue(ctx, appctx.LogLevelCTXKey, viper.GetString("log-level"))
	ctx, logger = logging.SetupLogger(ctx)

	ctx = context.WithValue(ctx, appctx.VersionCTXKey, version)
	ctx = context.WithValue(ctx, appctx.CommitCTXKey, commit)
	ctx = context.WithValue(ctx, appctx.BuildTimeCTXKey, buildTime)

	// execute the root cmd
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("./chapa command encountered an error")
		os.Exit(1)
	}
}

func init() {
	// env - defaults to local
	RootCmd.PersistentFlags().String("environment", "local",
		"the default environment")
	Must(viper.BindPFlag("environment", RootCmd.PersistentFlags().Lookup("environment")))
	Must(viper.BindEnv("environment", "ENV"))

	// debug logging - defaults to off
	RootCmd.PersistentFlags().Bool("debug", false, "turn on debug logging")
	Must(viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug")))
	Must(viper.BindEnv("debug", "DEBUG"))

	// log level - defaults to info
	RootCmd.PersistentFlags().String("log-level", "info", "the log level")
	Must(viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level")))
	Must(viper.BindEnv("log-level", "LOG_LEVEL"))

	RootCmd.AddCommand(VersionCmd)
}

// VersionCmd is the command to get the code's version information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "get the version of this binary",
	Run:   versionRun,
}

func versionRun(command *cobra.Command, args []string) {
	version, _ := appctx.GetStringFromContext(command.Context(), appctx.VersionCTXKey)
	commit, _ := appctx.GetStringFromContext(command.Context(), appctx.CommitCTXKey)
	buildTime, _ := appctx.GetStringFromContext(command.Context(), appctx.BuildTimeCTXKey)
	fmt.Fprintf(command.OutOrStdout(), "version: %s\ncommit: %s\nbuild time: %s\n",
		version, commit, buildTime,
	)
}

// Context returns the command context with a logger configured from the parsed
// debug and log-level flags
func Context(command *cobra.Command) context.Context {
	commandCtx := command.Context()
	if commandCtx == nil {
		commandCtx = context.Background()
	}
	commandCtx = context.WithValue(commandCtx, appctx.DebugLoggingCTXKey, viper.GetBool("debug"))
	commandCtx = context.WithValue(commandCtx, appctx.LogLevelCTXKey, viper.GetString("log-level"))
	commandCtx, _ = logging.SetupLogger(commandCtx)
	return commandCtx
}

// Perform performs a run
func Perform(action string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		err := fn(cmd, args)
		if err != nil {
			logger := logging.FromContext(cmd.Context())
			LogError(logger, action, err)
		}
		<-time.After(10 * time.Millisecond)
		if err != nil {
			os.Exit(1)
		}
	}
}

// LogError logs err, with the http state of the failed request when err carries one
func LogError(logger *zerolog.Logger, action string, err error) {
	var bundle *errorutils.ErrorBundle

	log := logger.Err(err).Str("action", action)
	if state, serr := clients.UnwrapHTTPState(err); serr == nil {
		log = log.Int("status", state.Status).
			Str("path", state.Path).
			Interface("data", state.Body)
	} else if errors.As(err, &bundle) {
		log = log.Str("data", bundle.DataToString())
	}
	log.Msg("failed")
}
