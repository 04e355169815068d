package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workspaces/internal/workspace"
)

const (
	testEmptyConfigurationCaseNameConstant    = "empty_values_replaced"
	testExplicitConfigurationCaseNameConstant = "explicit_values_kept"
	testBlankSeedPackagesCaseNameConstant     = "blank_seed_entries_dropped"
)

func TestConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		configuration         workspace.Configuration
		expectedConfiguration workspace.Configuration
	}{
		{
			name:                  testEmptyConfigurationCaseNameConstant,
			configuration:         workspace.Configuration{},
			expectedConfiguration: workspace.DefaultConfiguration(),
		},
		{
			name: testExplicitConfigurationCaseNameConstant,
			configuration: workspace.Configuration{
				PackagesRoot:       "modules",
				SeedPackages:       []string{"modules/core"},
				StaticPackage:      "modules/assets",
				ManifestName:       "manifest.json",
				WorkerCount:        3,
				VersionCheckScript: "scripts/verify.sh",
			},
			expectedConfiguration: workspace.Configuration{
				PackagesRoot:       "modules",
				SeedPackages:       []string{"modules/core"},
				StaticPackage:      "modules/assets",
				ManifestName:       "manifest.json",
				WorkerCount:        3,
				VersionCheckScript: "scripts/verify.sh",
			},
		},
		{
			name: testBlankSeedPackagesCaseNameConstant,
			configuration: workspace.Configuration{
				PackagesRoot: "packages",
				SeedPackages: []string{" packages/cdn ", "", "  "},
				WorkerCount:  10,
			},
			expectedConfiguration: workspace.Configuration{
				PackagesRoot:       "packages",
				SeedPackages:       []string{"packages/cdn"},
				StaticPackage:      "packages/static",
				ManifestName:       "package.json",
				WorkerCount:        10,
				VersionCheckScript: "scripts/check_npm_packages.py",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedConfiguration, testCase.configuration.Sanitize())
		})
	}
}

func TestDefaultConfigurationValuesCarryPrefix(testInstance *testing.T) {
	defaultValues := workspace.DefaultConfigurationValues("tools.workspaces")

	require.Equal(testInstance, "packages", defaultValues["tools.workspaces.packages_root"])
	require.Equal(testInstance, "packages/static", defaultValues["tools.workspaces.static_package"])
	require.Equal(testInstance, "package.json", defaultValues["tools.workspaces.manifest_name"])
	require.Equal(testInstance, 10, defaultValues["tools.workspaces.workers"])
	require.Equal(testInstance, "scripts/check_npm_packages.py", defaultValues["tools.workspaces.version_check_script"])
	require.Equal(testInstance, workspace.DefaultConfiguration().SeedPackages, defaultValues["tools.workspaces.seed_packages"])
}
