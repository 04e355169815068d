package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	filterTermSeparatorConstant           = ","
	packagesRootReadErrorTemplateConstant = "failed to enumerate packages root %s: %w"
	selectedPackagesLogMessageConstant    = "selected workspace packages"
	logFieldPackagesConstant              = "packages"
	logFieldFilterConstant                = "filter"
)

// Selector computes the ordered package list for a single invocation. The
// list is recomputed from the filesystem every time and never cached.
type Selector struct {
	configuration Configuration
	workspaceRoot string
	logger        *zap.Logger
}

// NewSelector constructs a Selector rooted at the provided monorepo directory.
func NewSelector(configuration Configuration, workspaceRoot string, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		configuration: configuration.Sanitize(),
		workspaceRoot: workspaceRoot,
		logger:        logger,
	}
}

// Select returns the ordered workspace packages matching the filter
// expression. Seed packages always come first, in their declared order;
// directories discovered under the packages root follow in enumeration
// order; no path appears twice.
func (selector *Selector) Select(filterExpression string) ([]string, error) {
	orderedPackages := append([]string{}, selector.configuration.SeedPackages...)
	knownPackages := make(map[string]struct{}, len(orderedPackages))
	for _, seedPackage := range orderedPackages {
		knownPackages[seedPackage] = struct{}{}
	}

	packagesRootPath := filepath.Join(selector.workspaceRoot, selector.configuration.PackagesRoot)
	rootEntries, readError := os.ReadDir(packagesRootPath)
	if readError != nil {
		return nil, fmt.Errorf(packagesRootReadErrorTemplateConstant, selector.configuration.PackagesRoot, readError)
	}

	for _, rootEntry := range rootEntries {
		if !rootEntry.IsDir() {
			continue
		}
		packagePath := filepath.Join(selector.configuration.PackagesRoot, rootEntry.Name())
		if _, alreadyKnown := knownPackages[packagePath]; alreadyKnown {
			continue
		}
		knownPackages[packagePath] = struct{}{}
		orderedPackages = append(orderedPackages, packagePath)
	}

	selectedPackages := filterPackages(orderedPackages, filterExpression)

	selector.logger.Info(
		selectedPackagesLogMessageConstant,
		zap.Strings(logFieldPackagesConstant, selectedPackages),
		zap.String(logFieldFilterConstant, filterExpression),
	)

	return selectedPackages, nil
}

// WorkspaceRoot exposes the monorepo root directory the selector operates in.
func (selector *Selector) WorkspaceRoot() string {
	return selector.workspaceRoot
}

// Configuration exposes the sanitized workspace configuration in effect.
func (selector *Selector) Configuration() Configuration {
	return selector.configuration
}

func filterPackages(candidatePackages []string, filterExpression string) []string {
	filterTerms := parseFilterTerms(filterExpression)
	if len(filterTerms) == 0 {
		return candidatePackages
	}

	matchingPackages := make([]string, 0, len(candidatePackages))
	for _, candidatePackage := range candidatePackages {
		if packageMatchesFilter(candidatePackage, filterTerms) {
			matchingPackages = append(matchingPackages, candidatePackage)
		}
	}
	return matchingPackages
}

func parseFilterTerms(filterExpression string) []string {
	if len(strings.TrimSpace(filterExpression)) == 0 {
		return nil
	}

	rawTerms := strings.Split(filterExpression, filterTermSeparatorConstant)
	filterTerms := make([]string, 0, len(rawTerms))
	for _, rawTerm := range rawTerms {
		if len(rawTerm) == 0 {
			continue
		}
		filterTerms = append(filterTerms, rawTerm)
	}
	return filterTerms
}

// packageMatchesFilter reports whether the package's final path segment
// contains any filter term. Matching is case-sensitive, OR across terms.
func packageMatchesFilter(packagePath string, filterTerms []string) bool {
	packageName := filepath.Base(packagePath)
	for _, filterTerm := range filterTerms {
		if strings.Contains(packageName, filterTerm) {
			return true
		}
	}
	return false
}
