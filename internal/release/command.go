package release

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/ui"
	"github.com/temirov/workspaces/internal/utils"
	utilflags "github.com/temirov/workspaces/internal/utils/flags"
	"github.com/temirov/workspaces/internal/workspace"
)

const (
	versionCheckCommandUseConstant     = "version-check"
	versionCheckCommandShortConstant   = "Check version consistency across packages"
	versionCheckCommandLongConstant    = "version-check runs the external consistency-check script over every workspace package manifest."
	versionCheckErrorTemplateConstant  = "version check failed: %w"
	statusCommandUseConstant           = "status"
	statusCommandShortConstant         = "Show files changed since the last version change"
	statusCommandLongConstant          = "status lists, for every selected package, the files changed since the commit that last changed the package version."
	statusErrorTemplateConstant        = "status failed: %w"
	diffCommandUseConstant             = "diff"
	diffCommandShortConstant           = "Show the diff since the last version change"
	diffCommandLongConstant            = "diff shows, for every selected package, the full diff since the commit that last changed the package version."
	diffErrorTemplateConstant          = "diff failed: %w"
	publishCommandUseConstant          = "publish"
	publishCommandShortConstant        = "Show publish status for selected packages"
	publishCommandLongConstant         = "publish prints each selected package's working tree status; version bumping and registry publishing are not implemented."
	publishErrorTemplateConstant       = "publish failed: %w"
	unexpectedArgumentsMessageConstant = "release commands do not accept positional arguments"
	flagMajorNameConstant              = "major"
	flagMajorDescriptionConstant       = "Request a major version update"
	flagMinorNameConstant              = "minor"
	flagMinorDescriptionConstant       = "Request a minor version update"
	flagBugfixNameConstant             = "bugfix"
	flagBugfixDescriptionConstant      = "Request a bugfix version update"
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

// CommandBuilder assembles the Cobra commands for the version-oriented operations.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	PackageFilterProvider        PackageFilterProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	WorkingDirectory             string
	Executor                     ReleaseExecutor
	Selector                     PackageSelector
	Output                       io.Writer

	majorFlagValue  bool
	minorFlagValue  bool
	bugfixFlagValue bool
}

// BuildVersionCheckCommand constructs the version-check command.
func (builder *CommandBuilder) BuildVersionCheckCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   versionCheckCommandUseConstant,
		Short: versionCheckCommandShortConstant,
		Long:  versionCheckCommandLongConstant,
		RunE:  builder.runVersionCheck,
	}

	return command, nil
}

// BuildStatusCommand constructs the status command.
func (builder *CommandBuilder) BuildStatusCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   statusCommandUseConstant,
		Short: statusCommandShortConstant,
		Long:  statusCommandLongConstant,
		RunE:  builder.runStatus,
	}

	return command, nil
}

// BuildDiffCommand constructs the diff command.
func (builder *CommandBuilder) BuildDiffCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   diffCommandUseConstant,
		Short: diffCommandShortConstant,
		Long:  diffCommandLongConstant,
		RunE:  builder.runDiff,
	}

	return command, nil
}

// BuildPublishCommand constructs the publish command.
func (builder *CommandBuilder) BuildPublishCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortConstant,
		Long:  publishCommandLongConstant,
		RunE:  builder.runPublish,
	}

	utilflags.AddToggleFlag(command.Flags(), &builder.majorFlagValue, flagMajorNameConstant, false, flagMajorDescriptionConstant)
	utilflags.AddToggleFlag(command.Flags(), &builder.minorFlagValue, flagMinorNameConstant, false, flagMinorDescriptionConstant)
	utilflags.AddToggleFlag(command.Flags(), &builder.bugfixFlagValue, flagBugfixNameConstant, false, flagBugfixDescriptionConstant)
	command.MarkFlagsMutuallyExclusive(flagMajorNameConstant, flagMinorNameConstant, flagBugfixNameConstant)

	return command, nil
}

func (builder *CommandBuilder) runVersionCheck(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	service, _, serviceError := builder.resolveService(builder.resolveLogger())
	if serviceError != nil {
		return serviceError
	}

	if checkError := service.VerifyVersionConsistency(command.Context()); checkError != nil {
		return fmt.Errorf(versionCheckErrorTemplateConstant, checkError)
	}

	return nil
}

func (builder *CommandBuilder) runStatus(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger()
	service, selectedPackages, serviceError := builder.resolveServiceWithPackages(logger)
	if serviceError != nil {
		return serviceError
	}

	if statusError := service.ReportStatus(command.Context(), selectedPackages); statusError != nil {
		return fmt.Errorf(statusErrorTemplateConstant, statusError)
	}

	return nil
}

func (builder *CommandBuilder) runDiff(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger()
	service, selectedPackages, serviceError := builder.resolveServiceWithPackages(logger)
	if serviceError != nil {
		return serviceError
	}

	if diffError := service.ReportDiff(command.Context(), selectedPackages); diffError != nil {
		return fmt.Errorf(diffErrorTemplateConstant, diffError)
	}

	return nil
}

func (builder *CommandBuilder) runPublish(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger()
	service, selectedPackages, serviceError := builder.resolveServiceWithPackages(logger)
	if serviceError != nil {
		return serviceError
	}

	if publishError := service.PublishPackages(command.Context(), selectedPackages, builder.requestedBumpLevel()); publishError != nil {
		return fmt.Errorf(publishErrorTemplateConstant, publishError)
	}

	return nil
}

func (builder *CommandBuilder) requestedBumpLevel() VersionBumpLevel {
	switch {
	case builder.majorFlagValue:
		return VersionBumpMajor
	case builder.minorFlagValue:
		return VersionBumpMinor
	case builder.bugfixFlagValue:
		return VersionBumpBugfix
	default:
		return VersionBumpUnspecified
	}
}

func (builder *CommandBuilder) resolveServiceWithPackages(logger *zap.Logger) (*Service, []string, error) {
	service, configuration, serviceError := builder.resolveService(logger)
	if serviceError != nil {
		return nil, nil, serviceError
	}

	selector := builder.resolveSelector(configuration, logger)
	selectedPackages, selectionError := selector.Select(builder.resolvePackageFilter())
	if selectionError != nil {
		return nil, nil, selectionError
	}

	return service, selectedPackages, nil
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger) (*Service, workspace.Configuration, error) {
	configuration := builder.resolveConfiguration()

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return nil, configuration, executorError
	}

	service, serviceError := NewService(
		logger,
		executor,
		builder.resolveOutput(),
		builder.WorkingDirectory,
		configuration.ManifestName,
		configuration.VersionCheckScript,
	)
	if serviceError != nil {
		return nil, configuration, serviceError
	}

	return service, configuration, nil
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

func (builder *CommandBuilder) resolveOutput() io.Writer {
	if builder.Output != nil {
		return builder.Output
	}
	return utils.NewFlushingWriter(os.Stdout)
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (ReleaseExecutor, error) {
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
