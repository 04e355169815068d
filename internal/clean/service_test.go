package clean_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/clean"
	"github.com/temirov/workspaces/internal/execshell"
)

const (
	testBothFoldersCaseNameConstant     = "both_folders"
	testDistOnlyCaseNameConstant        = "dist_only"
	testNodeModulesOnlyCaseNameConstant = "node_modules_only"
	testSerialWorkerLimitConstant       = 1
)

type concurrentCleanExecutor struct {
	mutex           sync.Mutex
	recordedDetails []execshell.CommandDetails
}

func (executor *concurrentCleanExecutor) ExecuteNpm(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.recordedDetails = append(executor.recordedDetails, details)
	return execshell.ExecutionResult{ExitCode: 0}, nil
}

func (executor *concurrentCleanExecutor) workingDirectories() []string {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()

	directories := make([]string, 0, len(executor.recordedDetails))
	for _, details := range executor.recordedDetails {
		directories = append(directories, details.WorkingDirectory)
	}
	sort.Strings(directories)
	return directories
}

func createPackageWithFolders(testInstance *testing.T, workspaceRoot string, packagePath string, folderNames ...string) {
	testInstance.Helper()

	require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, packagePath), 0o755))
	for _, folderName := range folderNames {
		require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, packagePath, folderName), 0o755))
	}
}

func TestNewServiceValidatesCollaborators(testInstance *testing.T) {
	_, loggerError := clean.NewService(nil, &concurrentCleanExecutor{}, testInstance.TempDir(), testSerialWorkerLimitConstant)
	require.ErrorIs(testInstance, loggerError, clean.ErrLoggerNotConfigured)

	_, executorError := clean.NewService(zap.NewNop(), nil, testInstance.TempDir(), testSerialWorkerLimitConstant)
	require.ErrorIs(testInstance, executorError, clean.ErrExecutorNotConfigured)
}

func TestCleanRemovesTargetFolders(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		options                 clean.Options
		expectedRemovedFolders  []string
		expectedSurvivedFolders []string
	}{
		{
			name:                    testBothFoldersCaseNameConstant,
			options:                 clean.Options{},
			expectedRemovedFolders:  []string{"node_modules", "dist"},
			expectedSurvivedFolders: []string{},
		},
		{
			name:                    testDistOnlyCaseNameConstant,
			options:                 clean.Options{DistOnly: true},
			expectedRemovedFolders:  []string{"dist"},
			expectedSurvivedFolders: []string{"node_modules"},
		},
		{
			name:                    testNodeModulesOnlyCaseNameConstant,
			options:                 clean.Options{NodeModulesOnly: true},
			expectedRemovedFolders:  []string{"node_modules"},
			expectedSurvivedFolders: []string{"dist"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workspaceRoot := testInstance.TempDir()
			createPackageWithFolders(testInstance, workspaceRoot, "packages/cdn", "node_modules", "dist")

			executor := &concurrentCleanExecutor{}
			service, creationError := clean.NewService(zap.NewNop(), executor, workspaceRoot, testSerialWorkerLimitConstant)
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, service.Clean(context.Background(), []string{"packages/cdn"}, testCase.options))

			for _, removedFolder := range testCase.expectedRemovedFolders {
				_, statError := os.Stat(filepath.Join(workspaceRoot, "packages/cdn", removedFolder))
				require.True(testInstance, os.IsNotExist(statError))
			}
			for _, survivedFolder := range testCase.expectedSurvivedFolders {
				_, statError := os.Stat(filepath.Join(workspaceRoot, "packages/cdn", survivedFolder))
				require.NoError(testInstance, statError)
			}
		})
	}
}

func TestCleanRunsCleanScriptInEveryPackage(testInstance *testing.T) {
	workspaceRoot := testInstance.TempDir()
	packagePaths := []string{"packages/cdn", "smc-util", "smc-hub"}
	for _, packagePath := range packagePaths {
		createPackageWithFolders(testInstance, workspaceRoot, packagePath)
	}

	executor := &concurrentCleanExecutor{}
	service, creationError := clean.NewService(zap.NewNop(), executor, workspaceRoot, testSerialWorkerLimitConstant)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Clean(context.Background(), packagePaths, clean.Options{}))

	expectedDirectories := make([]string, 0, len(packagePaths))
	for _, packagePath := range packagePaths {
		expectedDirectories = append(expectedDirectories, filepath.Join(workspaceRoot, packagePath))
	}
	sort.Strings(expectedDirectories)
	require.Equal(testInstance, expectedDirectories, executor.workingDirectories())

	for _, details := range executor.recordedDetails {
		require.Equal(testInstance, []string{"run", "clean", "--if-present"}, details.Arguments)
	}
}

func TestCleanWithoutRemovableDirectoriesStillRunsCleanScripts(testInstance *testing.T) {
	workspaceRoot := testInstance.TempDir()
	createPackageWithFolders(testInstance, workspaceRoot, "packages/cdn")

	executor := &concurrentCleanExecutor{}
	service, creationError := clean.NewService(zap.NewNop(), executor, workspaceRoot, testSerialWorkerLimitConstant)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Clean(context.Background(), []string{"packages/cdn"}, clean.Options{DistOnly: true}))
	require.Len(testInstance, executor.recordedDetails, 1)
}
