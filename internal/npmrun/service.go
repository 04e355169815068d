package npmrun

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
	"github.com/temirov/workspaces/internal/taskpool"
)

const (
	serviceLoggerRequiredMessageConstant   = "npm passthrough service requires a logger"
	serviceExecutorRequiredMessageConstant = "npm passthrough service requires an executor"
	commandCompletedLogMessageConstant     = "npm command completed"
	logFieldPackageConstant                = "package"
	logFieldArgumentsConstant              = "arguments"
	logFieldDurationConstant               = "duration"
)

// Validation errors reported during service construction.
var (
	ErrLoggerNotConfigured   = errors.New(serviceLoggerRequiredMessageConstant)
	ErrExecutorNotConfigured = errors.New(serviceExecutorRequiredMessageConstant)
)

// PassthroughExecutor is the minimal interface required from execshell.ShellExecutor.
type PassthroughExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service runs arbitrary npm invocations across workspace packages.
type Service struct {
	logger        *zap.Logger
	executor      PassthroughExecutor
	workspaceRoot string
	workerLimit   int
}

// NewService validates collaborators and constructs a passthrough service.
func NewService(logger *zap.Logger, executor PassthroughExecutor, workspaceRoot string, workerLimit int) (*Service, error) {
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

// RunInPackages executes npm with the supplied arguments in every package
// through the bounded pool, logging each package's wall-clock duration.
func (service *Service) RunInPackages(executionContext context.Context, packagePaths []string, npmArguments []string) error {
	return taskpool.ForEach(executionContext, packagePaths, service.workerLimit, func(taskContext context.Context, packagePath string) error {
		commandDetails := execshell.CommandDetails{
			Arguments:        append([]string{}, npmArguments...),
			WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
		}

		commandStartTime := time.Now()
		if _, executionError := service.executor.ExecuteNpm(taskContext, commandDetails); executionError != nil {
			return executionError
		}

		service.logger.Info(
			commandCompletedLogMessageConstant,
			zap.String(logFieldPackageConstant, packagePath),
			zap.Strings(logFieldArgumentsConstant, npmArguments),
			zap.Duration(logFieldDurationConstant, time.Since(commandStartTime)),
		)
		return nil
	})
}
