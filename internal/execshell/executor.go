package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandNpmStringConstant                     = "npm"
	commandGitStringConstant                     = "git"
	loggerNotConfiguredMessageConstant           = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant    = "shell executor requires a command runner"
	programNameRequiredMessageConstant           = "program name must not be empty"
	commandFailedErrorTemplateConstant           = "command '%s' failed with exit code %d"
	commandExecutionErrorTemplateConstant        = "command '%s' failed: %v"
	commandPartsJoinSeparatorConstant            = " "
	executionStartedLogMessageConstant           = "executing command"
	executionCompletedLogMessageConstant         = "command completed"
	executionFailedLogMessageConstant            = "command execution failed"
	logFieldCommandConstant                      = "command"
	logFieldWorkingDirectoryConstant             = "working_directory"
	logFieldExitCodeConstant                     = "exit_code"
	logFieldStandardErrorConstant                = "standard_error"
	unknownExecutionFailureErrorMessageConstant  = "unknown execution failure"
	standardOutputTrailingNewlineTrimSetConstant = "\n"
)

// CommandName identifies a supported executable.
type CommandName string

// Supported executable enumerations.
const (
	CommandNpm CommandName = CommandName(commandNpmStringConstant)
	CommandGit CommandName = CommandName(commandGitStringConstant)
)

// CommandDetails describes a single tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines a CommandName with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// String renders the literal command line, e.g. "npm run build".
func (command ShellCommand) String() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandPartsJoinSeparatorConstant)
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// TrimmedStandardOutput returns decoded standard output without a trailing newline.
func (result ExecutionResult) TrimmedStandardOutput() string {
	return strings.TrimRight(result.StandardOutput, standardOutputTrailingNewlineTrimSetConstant)
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	ErrProgramNameRequired        = errors.New(programNameRequiredMessageConstant)
)

// CommandFailedError reports a command that ran and returned a nonzero exit status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including its literal command line.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.String(), failure.Result.ExitCode)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure including its literal command line.
func (failure CommandExecutionError) Error() string {
	causeDescription := unknownExecutionFailureErrorMessageConstant
	if failure.Cause != nil {
		causeDescription = failure.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.String(), causeDescription)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor coordinates command execution, logging, and event notification.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	eventObserver        CommandEventObserver
	humanReadableLogging bool
}

// NewShellExecutor validates collaborators and assembles a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging ...bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	humanReadable := false
	if len(humanReadableLogging) > 0 {
		humanReadable = humanReadableLogging[0]
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		eventObserver:        noopCommandEventObserver{},
		humanReadableLogging: humanReadable,
	}, nil
}

// SetCommandEventObserver replaces the observer receiving command lifecycle events.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if executor == nil {
		return
	}
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteNpm runs npm with the provided invocation details.
func (executor *ShellExecutor) ExecuteNpm(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandNpm, Details: details})
}

// ExecuteGit runs git with the provided invocation details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteProgram runs an arbitrary executable, such as a helper script, with the provided invocation details.
func (executor *ShellExecutor) ExecuteProgram(executionContext context.Context, programName string, details CommandDetails) (ExecutionResult, error) {
	trimmedProgramName := strings.TrimSpace(programName)
	if len(trimmedProgramName) == 0 {
		return ExecutionResult{}, ErrProgramNameRequired
	}
	return executor.Execute(executionContext, ShellCommand{Name: CommandName(trimmedProgramName), Details: details})
}

// Execute runs the supplied command, emits lifecycle logs and events, and translates failures into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logCommandStart(command)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logExecutionFailure(command, runError)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.logCommandCompletion(command, executionResult)
	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

func (executor *ShellExecutor) logCommandStart(command ShellCommand) {
	if executor.humanReadableLogging {
		// The configured event observer renders human-readable messages.
		return
	}
	executor.logger.Info(
		executionStartedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.String()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) logCommandCompletion(command ShellCommand, result ExecutionResult) {
	if executor.humanReadableLogging {
		return
	}

	if result.ExitCode == 0 {
		executor.logger.Info(
			executionCompletedLogMessageConstant,
			zap.String(logFieldCommandConstant, command.String()),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
		)
		return
	}

	executor.logger.Warn(
		executionCompletedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.String()),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, strings.TrimSpace(result.StandardError)),
	)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	if executor.humanReadableLogging {
		return
	}
	executor.logger.Error(
		executionFailedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.String()),
		zap.Error(failure),
	)
}
