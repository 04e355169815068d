package install_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/install"
)

const (
	testWorkspaceRootConstant   = "/monorepo"
	testFailingExitCodeConstant = 1
)

type scriptedNpmExecutor struct {
	failOnInvocation int
	invocationCount  int
	recordedDetails  []execshell.CommandDetails
}

func (executor *scriptedNpmExecutor) ExecuteNpm(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocationCount++
	executor.recordedDetails = append(executor.recordedDetails, details)

	if executor.failOnInvocation == executor.invocationCount {
		command := execshell.ShellCommand{Name: execshell.CommandNpm, Details: details}
		result := execshell.ExecutionResult{ExitCode: testFailingExitCodeConstant}
		return result, execshell.CommandFailedError{Command: command, Result: result}
	}

	return execshell.ExecutionResult{ExitCode: 0}, nil
}

func TestNewServiceValidatesCollaborators(testInstance *testing.T) {
	_, loggerError := install.NewService(nil, &scriptedNpmExecutor{}, testWorkspaceRootConstant)
	require.ErrorIs(testInstance, loggerError, install.ErrLoggerNotConfigured)

	_, executorError := install.NewService(zap.NewNop(), nil, testWorkspaceRootConstant)
	require.ErrorIs(testInstance, executorError, install.ErrExecutorNotConfigured)
}

func TestInstallDependenciesRunsSeriallyInOrder(testInstance *testing.T) {
	executor := &scriptedNpmExecutor{}
	service, creationError := install.NewService(zap.NewNop(), executor, testWorkspaceRootConstant)
	require.NoError(testInstance, creationError)

	packagePaths := []string{"packages/cdn", "smc-util", "smc-hub"}
	require.NoError(testInstance, service.InstallDependencies(context.Background(), packagePaths))

	require.Len(testInstance, executor.recordedDetails, len(packagePaths))
	for detailsIndex, details := range executor.recordedDetails {
		require.Equal(testInstance, []string{"ci"}, details.Arguments)
		require.Equal(testInstance, filepath.Join(testWorkspaceRootConstant, packagePaths[detailsIndex]), details.WorkingDirectory)
	}
}

func TestInstallDependenciesStopsAtFirstFailure(testInstance *testing.T) {
	executor := &scriptedNpmExecutor{failOnInvocation: 4}
	service, creationError := install.NewService(zap.NewNop(), executor, testWorkspaceRootConstant)
	require.NoError(testInstance, creationError)

	packagePaths := []string{"packages/cdn", "smc-util", "smc-hub", "smc-webapp", "webapp-lib"}
	installError := service.InstallDependencies(context.Background(), packagePaths)

	require.Error(testInstance, installError)
	require.Equal(testInstance, 4, executor.invocationCount)

	var commandFailedError execshell.CommandFailedError
	require.ErrorAs(testInstance, installError, &commandFailedError)
	require.Equal(testInstance, filepath.Join(testWorkspaceRootConstant, "smc-webapp"), commandFailedError.Command.Details.WorkingDirectory)
}

func TestInstallDependenciesHandlesEmptyPackageList(testInstance *testing.T) {
	executor := &scriptedNpmExecutor{}
	service, creationError := install.NewService(zap.NewNop(), executor, testWorkspaceRootConstant)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.InstallDependencies(context.Background(), nil))
	require.Zero(testInstance, executor.invocationCount)
}
