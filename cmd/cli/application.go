package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/build"
	"github.com/temirov/workspaces/internal/clean"
	"github.com/temirov/workspaces/internal/install"
	"github.com/temirov/workspaces/internal/npmrun"
	"github.com/temirov/workspaces/internal/release"
	"github.com/temirov/workspaces/internal/utils"
	"github.com/temirov/workspaces/internal/workspace"
)

const (
	rootCommandUseConstant              = "workspaces"
	rootCommandShortDescriptionConstant = "Run npm and git tasks across monorepo workspace packages"
	rootCommandLongDescriptionConstant  = "workspaces sequences and parallelizes npm and git invocations across the packages of a monorepo."

	configurationFlagNameConstant      = "config"
	configurationFlagUsageConstant     = "Path to the configuration file"
	logLevelFlagNameConstant           = "log-level"
	logLevelFlagUsageConstant          = "Log level (debug, info, warn, error)"
	logFormatFlagNameConstant          = "log-format"
	logFormatFlagUsageConstant         = "Log format (structured, console)"
	packageFilterFlagNameConstant      = "packages"
	packageFilterFlagUsageConstant     = "Comma-separated substrings selecting packages by directory name"
	configurationNameConstant          = "config"
	configurationTypeConstant          = "yaml"
	environmentPrefixConstant          = "WORKSPACES"
	currentDirectorySearchPathConstant = "."
	workspaceConfigurationKeyConstant  = "tools.workspaces"
	commonLogLevelConfigurationKey     = "common.log_level"
	commonLogFormatConfigurationKey    = "common.log_format"

	installCommandNameConstant      = "ci"
	buildCommandNameConstant        = "build"
	cleanCommandNameConstant        = "clean"
	npmCommandNameConstant          = "npm"
	versionCheckCommandNameConstant = "version-check"
	statusCommandNameConstant       = "status"
	diffCommandNameConstant         = "diff"
	publishCommandNameConstant      = "publish"

	workingDirectoryErrorTemplate       = "unable to determine working directory: %w"
	loggerCreationErrorTemplateConstant = "unable to create logger: %w"
	commandBuildErrorTemplateConstant   = "unable to build %s command: %w"
	loggerFlushErrorTemplateConstant    = "failed to flush logger: %v\n"
	applicationStartedLogMessage        = "workspaces initialized"
	logFieldConfigurationFileConstant   = "configuration_file"
	logFieldWorkspaceRootConstant       = "workspace_root"
)

// CommonConfiguration captures settings shared by every subcommand.
type CommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ToolsConfiguration groups per-tool configuration sections.
type ToolsConfiguration struct {
	Workspaces workspace.Configuration `mapstructure:"workspaces"`
}

// ApplicationConfiguration mirrors the application configuration file layout.
type ApplicationConfiguration struct {
	Common CommonConfiguration `mapstructure:"common"`
	Tools  ToolsConfiguration  `mapstructure:"tools"`
}

// Application owns the root command, configuration state, and logger lifecycle.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	commandContextAccessor utils.CommandContextAccessor

	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	logger                *zap.Logger
	workspaceRoot         string

	configurationFilePathFlagValue string
	logLevelFlagValue              string
	logFormatFlagValue             string
	packageFilterFlagValue         string
}

// NewApplication assembles the root command and all subcommands.
func NewApplication() (*Application, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return nil, fmt.Errorf(workingDirectoryErrorTemplate, workingDirectoryError)
	}

	application := &Application{
		configurationLoader: utils.ConfigurationLoader{
			ConfigurationName:     configurationNameConstant,
			ConfigurationType:     configurationTypeConstant,
			EnvironmentPrefix:     environmentPrefixConstant,
			SearchPaths:           []string{currentDirectorySearchPathConstant},
			EmbeddedConfiguration: embeddedDefaultConfiguration,
		},
		loggerFactory:          utils.NewLoggerFactory(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		logger:                 zap.NewNop(),
		workspaceRoot:          workingDirectory,
	}

	rootCommand := &cobra.Command{
		Use:           rootCommandUseConstant,
		Short:         rootCommandShortDescriptionConstant,
		Long:          rootCommandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initialize(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePathFlagValue, configurationFlagNameConstant, "", configurationFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	persistentFlags.StringVar(&application.packageFilterFlagValue, packageFilterFlagNameConstant, "", packageFilterFlagUsageConstant)

	application.rootCommand = rootCommand

	if registrationError := application.registerSubcommands(); registrationError != nil {
		return nil, registrationError
	}

	return application, nil
}

// RootCommand exposes the assembled Cobra command, mainly for embedding and tests.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// WorkspaceConfiguration returns the workspace settings resolved during
// initialization.
func (application *Application) WorkspaceConfiguration() workspace.Configuration {
	return application.configuration.Tools.Workspaces
}

// Execute runs the root command and flushes the logger before returning.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	application.flushLogger()
	return executionError
}

func (application *Application) initialize(command *cobra.Command) error {
	defaultValues := workspace.DefaultConfigurationValues(workspaceConfigurationKeyConstant)
	defaultValues[commonLogLevelConfigurationKey] = string(utils.LogLevelInfo)
	defaultValues[commonLogFormatConfigurationKey] = string(utils.LogFormatStructured)

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePathFlagValue, defaultValues, &application.configuration)
	if loadError != nil {
		return loadError
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	createdLogger, loggerError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
	}
	application.logger = createdLogger

	application.logger.Debug(applicationStartedLogMessage,
		zap.String(logFieldConfigurationFileConstant, loadedConfiguration.ConfigFileUsed),
		zap.String(logFieldWorkspaceRootConstant, application.workspaceRoot),
	)

	command.SetContext(application.commandContextAccessor.WithWorkspaceRoot(command.Context(), application.workspaceRoot))

	return nil
}

func (application *Application) registerSubcommands() error {
	installBuilder := &install.CommandBuilder{
		LoggerProvider:               application.loggerProvider(),
		ConfigurationProvider:        application.workspaceConfigurationProvider(),
		PackageFilterProvider:        application.packageFilterProvider(),
		HumanReadableLoggingProvider: application.humanReadableLoggingProvider(),
		WorkingDirectory:             application.workspaceRoot,
	}
	installCommand, installBuildError := installBuilder.Build()
	if installBuildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, installCommandNameConstant, installBuildError)
	}
	application.rootCommand.AddCommand(installCommand)

	buildBuilder := &build.CommandBuilder{
		LoggerProvider:               application.loggerProvider(),
		ConfigurationProvider:        application.workspaceConfigurationProvider(),
		PackageFilterProvider:        application.packageFilterProvider(),
		HumanReadableLoggingProvider: application.humanReadableLoggingProvider(),
		WorkingDirectory:             application.workspaceRoot,
	}
	buildCommand, buildBuildError := buildBuilder.Build()
	if buildBuildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, buildCommandNameConstant, buildBuildError)
	}
	application.rootCommand.AddCommand(buildCommand)

	cleanBuilder := &clean.CommandBuilder{
		LoggerProvider:               application.loggerProvider(),
		ConfigurationProvider:        application.workspaceConfigurationProvider(),
		PackageFilterProvider:        application.packageFilterProvider(),
		HumanReadableLoggingProvider: application.humanReadableLoggingProvider(),
		WorkingDirectory:             application.workspaceRoot,
	}
	cleanCommand, cleanBuildError := cleanBuilder.Build()
	if cleanBuildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, cleanCommandNameConstant, cleanBuildError)
	}
	application.rootCommand.AddCommand(cleanCommand)

	npmBuilder := &npmrun.CommandBuilder{
		LoggerProvider:               application.loggerProvider(),
		ConfigurationProvider:        application.workspaceConfigurationProvider(),
		PackageFilterProvider:        application.packageFilterProvider(),
		HumanReadableLoggingProvider: application.humanReadableLoggingProvider(),
		WorkingDirectory:             application.workspaceRoot,
	}
	npmCommand, npmBuildError := npmBuilder.Build()
	if npmBuildError != nil {
		return fmt.Errorf(commandBuildErrorTemplateConstant, npmCommandNameConstant, npmBuildError)
	}
	application.rootCommand.AddCommand(npmCommand)

	releaseBuilder := &release.CommandBuilder{
		LoggerProvider:               application.loggerProvider(),
		ConfigurationProvider:        application.workspaceConfigurationProvider(),
		PackageFilterProvider:        application.packageFilterProvider(),
		HumanReadableLoggingProvider: application.humanReadableLoggingProvider(),
		WorkingDirectory:             application.workspaceRoot,
		Output:                       utils.NewFlushingWriter(os.Stdout),
	}

	releaseCommandFactories := []struct {
		commandName string
		buildFunc   func() (*cobra.Command, error)
	}{
		{commandName: versionCheckCommandNameConstant, buildFunc: releaseBuilder.BuildVersionCheckCommand},
		{commandName: statusCommandNameConstant, buildFunc: releaseBuilder.BuildStatusCommand},
		{commandName: diffCommandNameConstant, buildFunc: releaseBuilder.BuildDiffCommand},
		{commandName: publishCommandNameConstant, buildFunc: releaseBuilder.BuildPublishCommand},
	}
	for _, releaseCommandFactory := range releaseCommandFactories {
		releaseCommand, releaseBuildError := releaseCommandFactory.buildFunc()
		if releaseBuildError != nil {
			return fmt.Errorf(commandBuildErrorTemplateConstant, releaseCommandFactory.commandName, releaseBuildError)
		}
		application.rootCommand.AddCommand(releaseCommand)
	}

	return nil
}

func (application *Application) loggerProvider() func() *zap.Logger {
	return func() *zap.Logger {
		return application.logger
	}
}

func (application *Application) workspaceConfigurationProvider() func() workspace.Configuration {
	return func() workspace.Configuration {
		return application.configuration.Tools.Workspaces
	}
}

func (application *Application) packageFilterProvider() func() string {
	return func() string {
		return application.packageFilterFlagValue
	}
}

func (application *Application) humanReadableLoggingProvider() func() bool {
	return func() bool {
		return utils.LogFormat(application.configuration.Common.LogFormat) == utils.LogFormatConsole
	}
}

func (application *Application) persistentFlagChanged(flagName string) bool {
	flag := application.rootCommand.PersistentFlags().Lookup(flagName)
	return flag != nil && flag.Changed
}

func (application *Application) flushLogger() {
	if application.logger == nil {
		return
	}

	syncError := application.logger.Sync()
	if syncError == nil {
		return
	}

	// Syncing stdout or stderr fails on some platforms and is safe to ignore.
	if errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) || errors.Is(syncError, syscall.EBADF) {
		return
	}

	fmt.Fprintf(os.Stderr, loggerFlushErrorTemplateConstant, syncError)
}

// Execute builds the application and runs the root command.
func Execute() error {
	application, creationError := NewApplication()
	if creationError != nil {
		return creationError
	}
	return application.Execute()
}
