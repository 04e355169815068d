package workspace

import (
	"strings"

	"github.com/temirov/workspaces/internal/taskpool"
)

const (
	defaultPackagesRootConstant       = "packages"
	defaultStaticPackageConstant      = "packages/static"
	defaultManifestNameConstant       = "package.json"
	defaultVersionCheckScriptConstant = "scripts/check_npm_packages.py"
	packagesRootConfigKeySuffix       = ".packages_root"
	seedPackagesConfigKeySuffix       = ".seed_packages"
	staticPackageConfigKeySuffix      = ".static_package"
	manifestNameConfigKeySuffix       = ".manifest_name"
	workerCountConfigKeySuffix        = ".workers"
	versionCheckScriptConfigKeySuffix = ".version_check_script"
)

// defaultSeedPackages lists packages that must be processed before discovered
// ones. The relative order is a hard invariant: smc-hub assumes packages/cdn
// is already built.
var defaultSeedPackages = []string{
	"packages/cdn",
	"smc-util",
	"smc-hub",
	"smc-webapp",
	"webapp-lib",
}

// Configuration aggregates workspace layout settings shared by every command.
type Configuration struct {
	PackagesRoot       string   `mapstructure:"packages_root"`
	SeedPackages       []string `mapstructure:"seed_packages"`
	StaticPackage      string   `mapstructure:"static_package"`
	ManifestName       string   `mapstructure:"manifest_name"`
	WorkerCount        int      `mapstructure:"workers"`
	VersionCheckScript string   `mapstructure:"version_check_script"`
}

// DefaultConfiguration supplies baseline values for workspace configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		PackagesRoot:       defaultPackagesRootConstant,
		SeedPackages:       append([]string{}, defaultSeedPackages...),
		StaticPackage:      defaultStaticPackageConstant,
		ManifestName:       defaultManifestNameConstant,
		WorkerCount:        taskpool.DefaultWorkerLimit,
		VersionCheckScript: defaultVersionCheckScriptConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		configurationKeyPrefix + packagesRootConfigKeySuffix:       defaults.PackagesRoot,
		configurationKeyPrefix + seedPackagesConfigKeySuffix:       defaults.SeedPackages,
		configurationKeyPrefix + staticPackageConfigKeySuffix:      defaults.StaticPackage,
		configurationKeyPrefix + manifestNameConfigKeySuffix:       defaults.ManifestName,
		configurationKeyPrefix + workerCountConfigKeySuffix:        defaults.WorkerCount,
		configurationKeyPrefix + versionCheckScriptConfigKeySuffix: defaults.VersionCheckScript,
	}
}

// Sanitize trims configured values and substitutes defaults for empty entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.PackagesRoot = selectStringValue(configuration.PackagesRoot, defaultPackagesRootConstant)
	sanitized.SeedPackages = sanitizeSeedPackages(configuration.SeedPackages)
	sanitized.StaticPackage = selectStringValue(configuration.StaticPackage, defaultStaticPackageConstant)
	sanitized.ManifestName = selectStringValue(configuration.ManifestName, defaultManifestNameConstant)
	sanitized.VersionCheckScript = selectStringValue(configuration.VersionCheckScript, defaultVersionCheckScriptConstant)
	if sanitized.WorkerCount <= 0 {
		sanitized.WorkerCount = taskpool.DefaultWorkerLimit
	}
	return sanitized
}

func sanitizeSeedPackages(candidateSeedPackages []string) []string {
	if candidateSeedPackages == nil {
		return append([]string{}, defaultSeedPackages...)
	}

	sanitizedSeedPackages := make([]string, 0, len(candidateSeedPackages))
	for _, seedPackageCandidate := range candidateSeedPackages {
		trimmedSeedPackage := strings.TrimSpace(seedPackageCandidate)
		if len(trimmedSeedPackage) == 0 {
			continue
		}
		sanitizedSeedPackages = append(sanitizedSeedPackages, trimmedSeedPackage)
	}
	return sanitizedSeedPackages
}

func selectStringValue(candidateValue string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return trimmedValue
}
