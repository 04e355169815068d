package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
)

const (
	npmRunSubcommandConstant               = "run"
	npmBuildScriptNameConstant             = "build"
	distDirectoryNameConstant              = "dist"
	serviceLoggerRequiredMessageConstant   = "build service requires a logger"
	serviceExecutorRequiredMessageConstant = "build service requires an executor"
	distRemovalErrorTemplateConstant       = "failed to remove %s: %w"
	distRemovedLogMessageConstant          = "removed stale output directory"
	packageBuiltLogMessageConstant         = "package built"
	logFieldPackageConstant                = "package"
	logFieldDirectoryConstant              = "directory"
	logFieldDurationConstant               = "duration"
)

// Validation errors reported during service construction.
var (
	ErrLoggerNotConfigured   = errors.New(serviceLoggerRequiredMessageConstant)
	ErrExecutorNotConfigured = errors.New(serviceExecutorRequiredMessageConstant)
)

// BuildExecutor is the minimal interface required from execshell.ShellExecutor.
type BuildExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service builds workspace packages.
type Service struct {
	logger        *zap.Logger
	executor      BuildExecutor
	workspaceRoot string
	staticPackage string
}

// NewService validates collaborators and constructs a build service.
func NewService(logger *zap.Logger, executor BuildExecutor, workspaceRoot string, staticPackage string) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Service{
		logger:        logger,
		executor:      executor,
		workspaceRoot: workspaceRoot,
		staticPackage: staticPackage,
	}, nil
}

// BuildPackages builds every package serially in list order. Each package's
// existing dist directory is deleted first, except for the static package,
// which owns its output directory. Build durations are logged per package.
func (service *Service) BuildPackages(executionContext context.Context, packagePaths []string) error {
	for _, packagePath := range packagePaths {
		if packagePath != service.staticPackage {
			if removalError := service.removeStaleDistDirectory(packagePath); removalError != nil {
				return removalError
			}
		}

		buildDetails := execshell.CommandDetails{
			Arguments:        []string{npmRunSubcommandConstant, npmBuildScriptNameConstant},
			WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
		}

		buildStartTime := time.Now()
		if _, executionError := service.executor.ExecuteNpm(executionContext, buildDetails); executionError != nil {
			return executionError
		}

		service.logger.Info(
			packageBuiltLogMessageConstant,
			zap.String(logFieldPackageConstant, packagePath),
			zap.Duration(logFieldDurationConstant, time.Since(buildStartTime)),
		)
	}

	return nil
}

func (service *Service) removeStaleDistDirectory(packagePath string) error {
	distDirectoryPath := filepath.Join(service.workspaceRoot, packagePath, distDirectoryNameConstant)
	if _, statError := os.Stat(distDirectoryPath); statError != nil {
		if os.IsNotExist(statError) {
			return nil
		}
		return fmt.Errorf(distRemovalErrorTemplateConstant, distDirectoryPath, statError)
	}

	if removalError := os.RemoveAll(distDirectoryPath); removalError != nil {
		return fmt.Errorf(distRemovalErrorTemplateConstant, distDirectoryPath, removalError)
	}

	service.logger.Info(distRemovedLogMessageConstant, zap.String(logFieldDirectoryConstant, distDirectoryPath))
	return nil
}
