package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/workspaces/internal/execshell"
)

const (
	gitBlameSubcommandConstant             = "blame"
	gitDiffSubcommandConstant              = "diff"
	gitStatusSubcommandConstant            = "status"
	gitNameStatusFlagConstant              = "--name-status"
	currentDirectoryPathspecConstant       = "."
	manifestVersionFieldMarkerConstant     = `  "version":`
	serviceLoggerRequiredMessageConstant   = "release service requires a logger"
	serviceExecutorRequiredMessageConstant = "release service requires an executor"
	versionCommitErrorTemplateConstant     = "no version change found in blame output of %s for %s"
	versionCheckStartedLogMessageConstant  = "running version consistency check"
	versionCommitLocatedLogMessageConstant = "located last version change commit"
	publishStubLogMessageConstant          = "publish is not implemented; showing working tree status only"
	logFieldScriptConstant                 = "script"
	logFieldPackageConstant                = "package"
	logFieldCommitConstant                 = "commit"
	logFieldBumpLevelConstant              = "bump_level"
)

// Validation errors reported during service construction.
var (
	ErrLoggerNotConfigured   = errors.New(serviceLoggerRequiredMessageConstant)
	ErrExecutorNotConfigured = errors.New(serviceExecutorRequiredMessageConstant)
)

// VersionBumpLevel names the requested semantic version increment.
type VersionBumpLevel string

// Accepted version bump levels. publish records the request but performs no bump.
const (
	VersionBumpUnspecified VersionBumpLevel = ""
	VersionBumpMajor       VersionBumpLevel = "major"
	VersionBumpMinor       VersionBumpLevel = "minor"
	VersionBumpBugfix      VersionBumpLevel = "bugfix"
)

// ReleaseExecutor is the minimal interface required from execshell.ShellExecutor.
type ReleaseExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteProgram(executionContext context.Context, programName string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service implements the version-oriented operations over workspace packages.
type Service struct {
	logger             *zap.Logger
	executor           ReleaseExecutor
	output             io.Writer
	workspaceRoot      string
	manifestName       string
	versionCheckScript string
}

// NewService validates collaborators and constructs a release service.
func NewService(logger *zap.Logger, executor ReleaseExecutor, output io.Writer, workspaceRoot string, manifestName string, versionCheckScript string) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if output == nil {
		output = io.Discard
	}
	return &Service{
		logger:             logger,
		executor:           executor,
		output:             output,
		workspaceRoot:      workspaceRoot,
		manifestName:       manifestName,
		versionCheckScript: versionCheckScript,
	}, nil
}

// VerifyVersionConsistency invokes the external consistency-check script with
// no arguments and surfaces its failure as-is.
func (service *Service) VerifyVersionConsistency(executionContext context.Context) error {
	service.logger.Info(versionCheckStartedLogMessageConstant, zap.String(logFieldScriptConstant, service.versionCheckScript))
	_, executionError := service.executor.ExecuteProgram(executionContext, service.versionCheckScript, execshell.CommandDetails{
		WorkingDirectory: service.workspaceRoot,
	})
	return executionError
}

// ReportStatus prints, for every package, the name-status diff between the
// commit that last changed the package version and the working tree.
func (service *Service) ReportStatus(executionContext context.Context, packagePaths []string) error {
	return service.reportSinceVersionChange(executionContext, packagePaths, true)
}

// ReportDiff prints, for every package, the full diff between the commit that
// last changed the package version and the working tree.
func (service *Service) ReportDiff(executionContext context.Context, packagePaths []string) error {
	return service.reportSinceVersionChange(executionContext, packagePaths, false)
}

// PublishPackages is a stub: it prints each package's working tree status and
// records the requested bump level without mutating any version, creating any
// commit, or pushing to any registry.
func (service *Service) PublishPackages(executionContext context.Context, packagePaths []string, bumpLevel VersionBumpLevel) error {
	service.logger.Debug(publishStubLogMessageConstant, zap.String(logFieldBumpLevelConstant, string(bumpLevel)))

	for _, packagePath := range packagePaths {
		statusDetails := execshell.CommandDetails{
			Arguments:        []string{gitStatusSubcommandConstant, currentDirectoryPathspecConstant},
			WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
		}
		statusResult, executionError := service.executor.ExecuteGit(executionContext, statusDetails)
		if executionError != nil {
			return executionError
		}
		if _, writeError := fmt.Fprintln(service.output, statusResult.TrimmedStandardOutput()); writeError != nil {
			return writeError
		}
	}

	return nil
}

func (service *Service) reportSinceVersionChange(executionContext context.Context, packagePaths []string, nameStatusOnly bool) error {
	for _, packagePath := range packagePaths {
		versionCommit, commitError := service.lastVersionChangeCommit(executionContext, packagePath)
		if commitError != nil {
			return commitError
		}

		service.logger.Debug(
			versionCommitLocatedLogMessageConstant,
			zap.String(logFieldPackageConstant, packagePath),
			zap.String(logFieldCommitConstant, versionCommit),
		)

		diffArguments := []string{gitDiffSubcommandConstant}
		if nameStatusOnly {
			diffArguments = append(diffArguments, gitNameStatusFlagConstant)
		}
		diffArguments = append(diffArguments, versionCommit, currentDirectoryPathspecConstant)

		diffDetails := execshell.CommandDetails{
			Arguments:        diffArguments,
			WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
		}
		diffResult, executionError := service.executor.ExecuteGit(executionContext, diffDetails)
		if executionError != nil {
			return executionError
		}

		diffOutput := diffResult.TrimmedStandardOutput()
		if len(diffOutput) == 0 {
			continue
		}
		if _, writeError := fmt.Fprintln(service.output, diffOutput); writeError != nil {
			return writeError
		}
	}

	return nil
}

// lastVersionChangeCommit blames the package manifest and returns the first
// whitespace-delimited token of the line carrying the version field, which is
// the commit that last touched the package version.
func (service *Service) lastVersionChangeCommit(executionContext context.Context, packagePath string) (string, error) {
	blameDetails := execshell.CommandDetails{
		Arguments:        []string{gitBlameSubcommandConstant, service.manifestName},
		WorkingDirectory: filepath.Join(service.workspaceRoot, packagePath),
	}
	blameResult, executionError := service.executor.ExecuteGit(executionContext, blameDetails)
	if executionError != nil {
		return "", executionError
	}

	for _, blameLine := range strings.Split(blameResult.StandardOutput, "\n") {
		if !strings.Contains(blameLine, manifestVersionFieldMarkerConstant) {
			continue
		}
		lineTokens := strings.Fields(blameLine)
		if len(lineTokens) == 0 {
			continue
		}
		return lineTokens[0], nil
	}

	return "", fmt.Errorf(versionCommitErrorTemplateConstant, service.manifestName, packagePath)
}
