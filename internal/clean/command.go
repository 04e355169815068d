package clean

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/ui"
	utilflags "github.com/temirov/workspaces/internal/utils/flags"
	"github.com/temirov/workspaces/internal/workspace"
)

const (
	commandUseConstant                    = "clean"
	commandShortDescriptionConstant       = "Delete dist and node_modules folders"
	commandLongDescriptionConstant        = "clean deletes dist and node_modules folders across selected packages and runs each package's clean script when present."
	unexpectedArgumentsMessageConstant    = "clean does not accept positional arguments"
	commandExecutionErrorTemplateConstant = "clean failed: %w"
	flagDistOnlyNameConstant              = "dist-only"
	flagDistOnlyDescriptionConstant       = "Only delete dist directories"
	flagNodeModulesOnlyNameConstant       = "node-modules-only"
	flagNodeModulesOnlyDescription        = "Only delete node_modules directories"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current workspace configuration.
type ConfigurationProvider func() workspace.Configuration

// PackageFilterProvider returns the comma-separated package filter expression.
type PackageFilterProvider func() string

// HumanReadableLoggingProvider reports whether console-style output is enabled.
type HumanReadableLoggingProvider func() bool

// PackageSelector computes the ordered package list for the command.
type PackageSelector interface {
	Select(filterExpression string) ([]string, error)
}

// CommandBuilder assembles the Cobra command for workspace cleanup.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	PackageFilterProvider        PackageFilterProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	WorkingDirectory             string
	Executor                     CleanExecutor
	Selector                     PackageSelector

	distOnlyFlagValue        bool
	nodeModulesOnlyFlagValue bool
}

// Build constructs the clean command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	utilflags.AddToggleFlag(command.Flags(), &builder.distOnlyFlagValue, flagDistOnlyNameConstant, false, flagDistOnlyDescriptionConstant)
	utilflags.AddToggleFlag(command.Flags(), &builder.nodeModulesOnlyFlagValue, flagNodeModulesOnlyNameConstant, false, flagNodeModulesOnlyDescription)
	command.MarkFlagsMutuallyExclusive(flagDistOnlyNameConstant, flagNodeModulesOnlyNameConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	selector := builder.resolveSelector(configuration, logger)
	selectedPackages, selectionError := selector.Select(builder.resolvePackageFilter())
	if selectionError != nil {
		return selectionError
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(logger, executor, builder.WorkingDirectory, configuration.WorkerCount)
	if serviceError != nil {
		return serviceError
	}

	cleanOptions := Options{
		DistOnly:        builder.distOnlyFlagValue,
		NodeModulesOnly: builder.nodeModulesOnlyFlagValue,
	}

	if cleanError := service.Clean(command.Context(), selectedPackages, cleanOptions); cleanError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, cleanError)
	}

	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() workspace.Configuration {
	if builder.ConfigurationProvider == nil {
		return workspace.DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolvePackageFilter() string {
	if builder.PackageFilterProvider == nil {
		return ""
	}
	return builder.PackageFilterProvider()
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveSelector(configuration workspace.Configuration, logger *zap.Logger) PackageSelector {
	if builder.Selector != nil {
		return builder.Selector
	}
	return workspace.NewSelector(configuration, builder.WorkingDirectory, logger)
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CleanExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	humanReadable := builder.humanReadableLoggingEnabled()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadable)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadable {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return shellExecutor, nil
}
