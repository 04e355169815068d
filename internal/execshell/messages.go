package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	npmCISubcommandNameConstant        = "ci"
	npmRunSubcommandNameConstant       = "run"
	npmRunBuildScriptNameConstant      = "build"
	npmRunCleanScriptNameConstant      = "clean"
	gitBlameSubcommandNameConstant     = "blame"
	gitDiffSubcommandNameConstant      = "diff"
	gitStatusSubcommandNameConstant    = "status"
	flagArgumentPrefixConstant         = "-"
	whitespaceCutSetConstant           = " \t"
	manifestFallbackLabelConstant      = "the package manifest"
	diffTargetFallbackLabelConstant    = "the working tree"
	npmScriptFallbackLabelConstant     = "script"
	npmGenericArgumentsLabelSeparator  = " "
	npmGenericStartTemplateConstant    = "Running npm %s in %s"
	npmGenericSuccessTemplateConstant  = "Completed npm %s in %s"
	npmGenericFailureTemplateConstant  = "npm %s failed in %s (exit code %d%s)"
	npmGenericExecutionTemplate        = "Unable to run npm %s in %s: %s"
	npmInstallStartTemplateConstant    = "Installing dependencies in %s"
	npmInstallSuccessTemplateConstant  = "Installed dependencies in %s"
	npmInstallFailureTemplateConstant  = "Dependency install failed in %s (exit code %d%s)"
	npmInstallExecutionTemplate        = "Unable to install dependencies in %s: %s"
	npmBuildStartTemplateConstant      = "Building %s"
	npmBuildSuccessTemplateConstant    = "Built %s"
	npmBuildFailureTemplateConstant    = "Build failed in %s (exit code %d%s)"
	npmBuildExecutionTemplate          = "Unable to build %s: %s"
	npmCleanStartTemplateConstant      = "Cleaning %s"
	npmCleanSuccessTemplateConstant    = "Cleaned %s"
	npmCleanFailureTemplateConstant    = "Clean failed in %s (exit code %d%s)"
	npmCleanExecutionTemplate          = "Unable to clean %s: %s"
	gitBlameStartTemplateConstant      = "Locating last version change of %s in %s"
	gitBlameSuccessTemplateConstant    = "Located last version change of %s in %s"
	gitBlameFailureTemplateConstant    = "Failed to locate last version change of %s in %s (exit code %d%s)"
	gitBlameExecutionTemplate          = "Unable to locate last version change of %s in %s: %s"
	gitDiffStartTemplateConstant       = "Comparing %s against %s"
	gitDiffSuccessTemplateConstant     = "Compared %s against %s"
	gitDiffFailureTemplateConstant     = "Failed to compare %s against %s (exit code %d%s)"
	gitDiffExecutionTemplate           = "Unable to compare %s against %s: %s"
	gitStatusStartTemplateConstant     = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant   = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant   = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionTemplateConstant = "Unable to review working tree status in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, messageStageStart, ExecutionResult{}, nil)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, messageStageSuccess, ExecutionResult{}, nil)
}

// BuildFailureMessage formats the message describing a command that returned a nonzero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, messageStageFailure, result, nil)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, messageStageExecutionFailure, ExecutionResult{}, failure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	switch command.Name {
	case CommandNpm:
		return formatter.buildNpmMessage(command, stage, result, failure)
	case CommandGit:
		return formatter.buildGitMessage(command, stage, result, failure)
	default:
		return formatter.buildGenericMessage(command, stage, result, failure)
	}
}

func (formatter CommandMessageFormatter) buildNpmMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	directoryLabel := formatter.workingDirectoryLabel(command)
	arguments := command.Details.Arguments

	if formatter.firstArgumentEquals(arguments, npmCISubcommandNameConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(npmInstallStartTemplateConstant, directoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(npmInstallSuccessTemplateConstant, directoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(npmInstallFailureTemplateConstant, directoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(npmInstallExecutionTemplate, directoryLabel, formatter.failureDescription(failure))
		}
	}

	if formatter.firstArgumentEquals(arguments, npmRunSubcommandNameConstant) {
		scriptName := formatter.secondArgument(arguments)
		switch scriptName {
		case npmRunBuildScriptNameConstant:
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(npmBuildStartTemplateConstant, directoryLabel)
			case messageStageSuccess:
				return fmt.Sprintf(npmBuildSuccessTemplateConstant, directoryLabel)
			case messageStageFailure:
				return fmt.Sprintf(npmBuildFailureTemplateConstant, directoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			default:
				return fmt.Sprintf(npmBuildExecutionTemplate, directoryLabel, formatter.failureDescription(failure))
			}
		case npmRunCleanScriptNameConstant:
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(npmCleanStartTemplateConstant, directoryLabel)
			case messageStageSuccess:
				return fmt.Sprintf(npmCleanSuccessTemplateConstant, directoryLabel)
			case messageStageFailure:
				return fmt.Sprintf(npmCleanFailureTemplateConstant, directoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			default:
				return fmt.Sprintf(npmCleanExecutionTemplate, directoryLabel, formatter.failureDescription(failure))
			}
		}
	}

	argumentsLabel := strings.Join(arguments, npmGenericArgumentsLabelSeparator)
	if len(strings.TrimSpace(argumentsLabel)) == 0 {
		argumentsLabel = npmScriptFallbackLabelConstant
	}
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(npmGenericStartTemplateConstant, argumentsLabel, directoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(npmGenericSuccessTemplateConstant, argumentsLabel, directoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(npmGenericFailureTemplateConstant, argumentsLabel, directoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(npmGenericExecutionTemplate, argumentsLabel, directoryLabel, formatter.failureDescription(failure))
	}
}

func (formatter CommandMessageFormatter) buildGitMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	directoryLabel := formatter.workingDirectoryLabel(command)
	arguments := command.Details.Arguments

	switch {
	case formatter.firstArgumentEquals(arguments, gitBlameSubcommandNameConstant):
		manifestLabel := formatter.extractFirstNonFlagArgument(arguments[1:])
		if len(manifestLabel) == 0 {
			manifestLabel = manifestFallbackLabelConstant
		}
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitBlameStartTemplateConstant, manifestLabel, directoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(gitBlameSuccessTemplateConstant, manifestLabel, directoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(gitBlameFailureTemplateConstant, manifestLabel, directoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitBlameExecutionTemplate, manifestLabel, directoryLabel, formatter.failureDescription(failure))
		}
	case formatter.firstArgumentEquals(arguments, gitDiffSubcommandNameConstant):
		revisionLabel := formatter.extractFirstNonFlagArgument(arguments[1:])
		if len(revisionLabel) == 0 {
			revisionLabel = diffTargetFallbackLabelConstant
		}
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitDiffStartTemplateConstant, directoryLabel, revisionLabel)
		case messageStageSuccess:
			return fmt.Sprintf(gitDiffSuccessTemplateConstant, directoryLabel, revisionLabel)
		case messageStageFailure:
			return fmt.Sprintf(gitDiffFailureTemplateConstant, directoryLabel, revisionLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitDiffExecutionTemplate, directoryLabel, revisionLabel, formatter.failureDescription(failure))
		}
	case formatter.firstArgumentEquals(arguments, gitStatusSubcommandNameConstant):
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitStatusStartTemplateConstant, directoryLabel)
		case messageStageSuccess:
			return fmt.Sprintf(gitStatusSuccessTemplateConstant, directoryLabel)
		case messageStageFailure:
			return fmt.Sprintf(gitStatusFailureTemplateConstant, directoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitStatusExecutionTemplateConstant, directoryLabel, formatter.failureDescription(failure))
		}
	}

	return formatter.buildGenericMessage(command, stage, result, failure)
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, stage messageStage, result ExecutionResult, failure error) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.failureDescription(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

func (formatter CommandMessageFormatter) workingDirectoryLabel(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) firstArgumentEquals(arguments []string, expected string) bool {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		return trimmed == expected
	}
	return false
}

func (formatter CommandMessageFormatter) secondArgument(arguments []string) string {
	seenFirst := false
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if !seenFirst {
			seenFirst = true
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.Trim(argument, whitespaceCutSetConstant)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, flagArgumentPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) failureDescription(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
