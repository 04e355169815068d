package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workspaces/internal/utils"
)

const (
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testEnvironmentPrefixConstant     = "WORKSPACES"
	testConfigurationFileNameConstant = "config.yaml"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Tools struct {
		Workspaces struct {
			PackagesRoot string `mapstructure:"packages_root"`
			Workers      int    `mapstructure:"workers"`
		} `mapstructure:"workspaces"`
	} `mapstructure:"tools"`
}

func newTestConfigurationLoader(embeddedConfiguration []byte) utils.ConfigurationLoader {
	return utils.ConfigurationLoader{
		ConfigurationName:     testConfigurationNameConstant,
		ConfigurationType:     testConfigurationTypeConstant,
		EnvironmentPrefix:     testEnvironmentPrefixConstant,
		EmbeddedConfiguration: embeddedConfiguration,
	}
}

func TestLoadConfigurationUsesDefaultsWithoutFile(testInstance *testing.T) {
	loader := newTestConfigurationLoader(nil)
	defaultValues := map[string]any{
		"common.log_level":               "info",
		"tools.workspaces.packages_root": "packages",
		"tools.workspaces.workers":       10,
	}

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", defaultValues, &configuration)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "packages", configuration.Tools.Workspaces.PackagesRoot)
	require.Equal(testInstance, 10, configuration.Tools.Workspaces.Workers)
}

func TestLoadConfigurationFileOverridesDefaults(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
	configurationFileContent := "common:\n  log_level: debug\ntools:\n  workspaces:\n    packages_root: modules\n"
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationFileContent), 0o644))

	loader := newTestConfigurationLoader(nil)
	defaultValues := map[string]any{
		"common.log_level":               "info",
		"tools.workspaces.packages_root": "packages",
		"tools.workspaces.workers":       10,
	}

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationFilePath, defaultValues, &configuration)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "modules", configuration.Tools.Workspaces.PackagesRoot)
	require.Equal(testInstance, 10, configuration.Tools.Workspaces.Workers)
}

func TestLoadConfigurationMergesEmbeddedBaseline(testInstance *testing.T) {
	embeddedConfiguration := []byte("common:\n  log_level: warn\n")
	loader := newTestConfigurationLoader(embeddedConfiguration)

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", map[string]any{}, &configuration)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
}

func TestLoadConfigurationEnvironmentOverride(testInstance *testing.T) {
	testInstance.Setenv("WORKSPACES_COMMON_LOG_LEVEL", "error")

	loader := newTestConfigurationLoader(nil)
	defaultValues := map[string]any{"common.log_level": "info"}

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", defaultValues, &configuration)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "error", configuration.Common.LogLevel)
}

func TestLoadConfigurationRejectsMalformedFile(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("common: ["), 0o644))

	loader := newTestConfigurationLoader(nil)

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration(configurationFilePath, map[string]any{}, &configuration)
	require.Error(testInstance, loadError)
}
