package build

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/ui"
	"github.com/temirov/workspaces/internal/workspace"
)

const (
	commandUseConstant                    = "build"
	commandShortDescriptionConstant       = "Build all selected packages"
	commandLongDescriptionConstant        = "build runs npm run build in every selected workspace package, one package at a time; run ci first."
	unexpectedArgumentsMessageConstant    = "build does not accept positional arguments"
	commandExecutionErrorTemplateConstant = "build failed: %w"
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

// CommandBuilder assembles the Cobra command for package builds.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	PackageFilterProvider        PackageFilterProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	WorkingDirectory             string
	Executor                     BuildExecutor
	Selector                     PackageSelector
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

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

	service, serviceError := NewService(logger, executor, builder.WorkingDirectory, configuration.StaticPackage)
	if serviceError != nil {
		return serviceError
	}

	if buildError := service.BuildPackages(command.Context(), selectedPackages); buildError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, buildError)
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

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (BuildExecutor, error) {
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
