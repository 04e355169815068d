package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/ui"
)

const (
	testStartedEventCaseNameConstant          = "command_started"
	testCompletedEventCaseNameConstant        = "command_completed"
	testFailedEventCaseNameConstant           = "command_failed_exit_code"
	testExecutionFailureEventCaseNameConstant = "command_execution_failed"
	testEventDirectoryConstant                = "packages/cdn"
)

func TestConsoleCommandEventLoggerRendersLifecycleMessages(testInstance *testing.T) {
	installCommand := execshell.ShellCommand{
		Name:    execshell.CommandNpm,
		Details: execshell.CommandDetails{Arguments: []string{"ci"}, WorkingDirectory: testEventDirectoryConstant},
	}

	testCases := []struct {
		name            string
		emitEvent       func(eventLogger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: testStartedEventCaseNameConstant,
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandStarted(installCommand)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Installing dependencies in packages/cdn",
		},
		{
			name: testCompletedEventCaseNameConstant,
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(installCommand, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Installed dependencies in packages/cdn",
		},
		{
			name: testFailedEventCaseNameConstant,
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(installCommand, execshell.ExecutionResult{ExitCode: 1, StandardError: "lockfile mismatch"})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "Dependency install failed in packages/cdn (exit code 1: lockfile mismatch)",
		},
		{
			name: testExecutionFailureEventCaseNameConstant,
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandExecutionFailed(installCommand, errors.New("npm not found"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "Unable to install dependencies in packages/cdn: npm not found",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observedCore, observedLogs := observer.New(zap.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observedCore))

			testCase.emitEvent(eventLogger)

			require.Equal(testInstance, 1, observedLogs.Len())
			loggedEntry := observedLogs.All()[0]
			require.Equal(testInstance, testCase.expectedLevel, loggedEntry.Level)
			require.Equal(testInstance, testCase.expectedMessage, loggedEntry.Message)
		})
	}
}

func TestNewConsoleCommandEventLoggerToleratesNilLogger(testInstance *testing.T) {
	eventLogger := ui.NewConsoleCommandEventLogger(nil)
	require.NotNil(testInstance, eventLogger)
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandGit})
	})
}
