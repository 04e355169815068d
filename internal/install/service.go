package install

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
)

const (
	npmInstallSubcommandConstant           = "ci"
	serviceLoggerRequiredMessageConstant   = "install service requires a logger"
	serviceExecutorRequiredMessageConstant = "install service requires an executor"
	installCompletedLogMessageConstant     = "dependencies installed"
	logFieldPackageConstant                = "package"
	logFieldPackageCountConstant           = "package_count"
	installRunCompletedLogMessageConstant  = "dependency installation completed"
)

// Validation errors reported during service construction.
var (
	ErrLoggerNotConfigured   = errors.New(serviceLoggerRequiredMessageConstant)
	ErrExecutorNotConfigured = errors.New(serviceExecutorRequiredMessageConstant)
)

// DependencyExecutor is the minimal interface required from execshell.ShellExecutor.
type DependencyExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service installs dependencies across workspace packages.
type Service struct {
	logger        *zap.Logger
	executor      DependencyExecutor
	workspaceRoot string
}

// NewService validates collaborators and constructs an install service.
func NewService(logger *zap.Logger, executor DependencyExecutor, workspaceRoot string) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Service{logger: logger, executor: executor, workspaceRoot: workspaceRoot}, nil
}

// InstallDependencies runs npm ci in every package, one at a time in list
// order. The first failure aborts the run; remaining packages are never
// attempted.
func (service *Service) InstallDependencies(executionContext context.Context, packagePaths []string) error {
	for _, packagePath := range packagePaths {
		installDetails := execshell.CommandDetails{
			Arguments:        []string{npmInstallSubcommandConstant},
			WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
		}
		if _, executionError := service.executor.ExecuteNpm(executionContext, installDetails); executionError != nil {
			return executionError
		}
		service.logger.Info(installCompletedLogMessageConstant, zap.String(logFieldPackageConstant, packagePath))
	}

	service.logger.Info(
		installRunCompletedLogMessageConstant,
		zap.Int(logFieldPackageCountConstant, len(packagePaths)),
	)
	return nil
}
