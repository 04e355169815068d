package clean

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/taskpool"
)

const (
	npmRunSubcommandConstant                 = "run"
	npmCleanScriptNameConstant               = "clean"
	npmIfPresentFlagConstant                 = "--if-present"
	nodeModulesDirectoryNameConstant         = "node_modules"
	distDirectoryNameConstant                = "dist"
	serviceLoggerRequiredMessageConstant     = "clean service requires a logger"
	serviceExecutorRequiredMessageConstant   = "clean service requires an executor"
	directoryRemovalErrorTemplateConstant    = "failed to remove %s: %w"
	noRemovableDirectoriesLogMessageConstant = "no node_modules or dist directories"
	removingDirectoriesLogMessageConstant    = "deleting directories"
	directoryRemovedLogMessageConstant       = "removed directory"
	runningCleanScriptsLogMessageConstant    = "running clean scripts where present"
	logFieldDirectoriesConstant              = "directories"
	logFieldDirectoryConstant                = "directory"
	logFieldTargetFoldersConstant            = "target_folders"
)

// Validation errors reported during service construction.
var (
	ErrLoggerNotConfigured   = errors.New(serviceLoggerRequiredMessageConstant)
	ErrExecutorNotConfigured = errors.New(serviceExecutorRequiredMessageConstant)
)

// CleanExecutor is the minimal interface required from execshell.ShellExecutor.
type CleanExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Options narrow the set of folder names removed from every package.
type Options struct {
	DistOnly        bool
	NodeModulesOnly bool
}

// Service removes build artifacts and dependency directories from workspace packages.
type Service struct {
	logger        *zap.Logger
	executor      CleanExecutor
	workspaceRoot string
	workerLimit   int
}

// NewService validates collaborators and constructs a clean service.
func NewService(logger *zap.Logger, executor CleanExecutor, workspaceRoot string, workerLimit int) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if workerLimit <= 0 {
		workerLimit = taskpool.DefaultWorkerLimit
	}
	return &Service{
		logger:        logger,
		executor:      executor,
		workspaceRoot: workspaceRoot,
		workerLimit:   workerLimit,
	}, nil
}

// Clean deletes the configured folders from every package in parallel, then
// runs npm run clean --if-present in every package in parallel. Packages
// without a clean script are a no-op thanks to --if-present.
func (service *Service) Clean(executionContext context.Context, packagePaths []string, options Options) error {
	targetFolders := resolveTargetFolders(options)

	removableDirectories := service.collectRemovableDirectories(packagePaths, targetFolders)
	if len(removableDirectories) == 0 {
		service.logger.Info(
			noRemovableDirectoriesLogMessageConstant,
			zap.Strings(logFieldTargetFoldersConstant, targetFolders),
		)
	} else {
		service.logger.Info(
			removingDirectoriesLogMessageConstant,
			zap.Strings(logFieldDirectoriesConstant, removableDirectories),
		)
		removalError := taskpool.ForEach(executionContext, removableDirectories, service.workerLimit, service.removeDirectory)
		if removalError != nil {
			return removalError
		}
	}

	service.logger.Info(runningCleanScriptsLogMessageConstant)
	return taskpool.ForEach(executionContext, packagePaths, service.workerLimit, service.runCleanScript)
}

func (service *Service) collectRemovableDirectories(packagePaths []string, targetFolders []string) []string {
	removableDirectories := []string{}
	for _, packagePath := range packagePaths {
		for _, targetFolder := range targetFolders {
			candidateDirectory := filepath.Join(service.workspaceRoot, packagePath, targetFolder)
			if _, statError := os.Stat(candidateDirectory); statError != nil {
				continue
			}
			removableDirectories = append(removableDirectories, candidateDirectory)
		}
	}
	return removableDirectories
}

func (service *Service) removeDirectory(_ context.Context, directoryPath string) error {
	service.logger.Info(directoryRemovedLogMessageConstant, zap.String(logFieldDirectoryConstant, directoryPath))
	if removalError := os.RemoveAll(directoryPath); removalError != nil {
		return fmt.Errorf(directoryRemovalErrorTemplateConstant, directoryPath, removalError)
	}
	return nil
}

func (service *Service) runCleanScript(executionContext context.Context, packagePath string) error {
	cleanDetails := execshell.CommandDetails{
		Arguments:        []string{npmRunSubcommandConstant, npmCleanScriptNameConstant, npmIfPresentFlagConstant},
		WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
	}
	_, executionError := service.executor.ExecuteNpm(executionContext, cleanDetails)
	return executionError
}

func resolveTargetFolders(options Options) []string {
	switch {
	case options.DistOnly:
		return []string{distDirectoryNameConstant}
	case options.NodeModulesOnly:
		return []string{nodeModulesDirectoryNameConstant}
	default:
		return []string{nodeModulesDirectoryNameConstant, distDirectoryNameConstant}
	}
}
