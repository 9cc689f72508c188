package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/framepipe/pkg/configdef"
	"github.com/tauraamui/framepipe/pkg/log"
)

func overloadUserConfigDir(dir string) func() {
	userConfigDirRef := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	return func() { userConfigDir = userConfigDirRef }
}

type LoadConfigTestSuite struct {
	suite.Suite
	configResolver          configdef.Resolver
	fs                      afero.Fs
	path                    string
	configFile              afero.File
	resetUserConfigDir      func()
	resetLogging            func()
	existingConfigEnvValue  string
	existingConfigEnvExists bool
}

func (suite *LoadConfigTestSuite) SetupSuite() {
	suite.fs = afero.NewMemMapFs()
	suite.configResolver = DefaultResolver()
	suite.resetUserConfigDir = overloadUserConfigDir("/testroot/.config")
	suite.resetLogging = log.Silence()
	suite.existingConfigEnvValue, suite.existingConfigEnvExists = os.LookupEnv(configEnvKey)
	os.Unsetenv(configEnvKey)

	// use in memory FS in implementation for tests
	fs = suite.fs
}

func (suite *LoadConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
	suite.resetUserConfigDir()
	suite.resetLogging()
	if suite.existingConfigEnvExists {
		os.Setenv(configEnvKey, suite.existingConfigEnvValue)
	}
}

func (suite *LoadConfigTestSuite) SetupTest() {
	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm))
	suite.path = path

	configFile, err := suite.fs.Create(path)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), configFile)

	suite.configFile = configFile

	suite.overwriteTestConfig(
		`{
			"debug": true,
			"pipeline": {
				"width": 320,
				"height": 240,
				"capacity": 8,
				"generator": "label",
				"title": "test feed",
				"fps": 30,
				"pop_timeout_ms": 250,
				"stop_timeout_ms": 1000
			},
			"display": {
				"width": 640,
				"height": 480,
				"fps": 30
			}
		}`,
	)
}

func (suite *LoadConfigTestSuite) overwriteTestConfig(config string) {
	require.NoError(suite.T(), suite.configFile.Truncate(0))
	_, err := suite.configFile.Seek(0, 0)
	require.NoError(suite.T(), err)
	_, err = suite.configFile.WriteString(config)
	assert.NoError(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TearDownTest() {
	require.NoError(suite.T(), suite.configFile.Close())
	suite.fs.Remove(suite.path)
}

func (suite *LoadConfigTestSuite) TestResolvedPathUsesVendorAndAppDirs() {
	assert.Equal(suite.T(), "/testroot/.config/tacusci/framepipe/config.json", suite.path)
}

func (suite *LoadConfigTestSuite) TestLoadConfig() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), true, config.Debug)
	assert.Equal(suite.T(), configdef.Pipeline{
		Width:         320,
		Height:        240,
		Capacity:      8,
		Generator:     "label",
		Title:         "test feed",
		FPS:           30,
		PopTimeoutMS:  250,
		StopTimeoutMS: 1000,
	}, config.Pipeline)
	assert.Equal(suite.T(), configdef.Display{Width: 640, Height: 480, FPS: 30}, config.Display)
}

func (suite *LoadConfigTestSuite) TestLoadConfigFillsMissingFieldsWithDefaults() {
	suite.overwriteTestConfig(`{"pipeline": {"width": 64}}`)

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 64, config.Pipeline.Width)
	assert.Equal(suite.T(), 200, config.Pipeline.Height)
	assert.Equal(suite.T(), 20, config.Pipeline.Capacity)
	assert.Equal(suite.T(), "solid", config.Pipeline.Generator)
	assert.Equal(suite.T(), 5000, config.Pipeline.StopTimeoutMS)
	assert.Equal(suite.T(), 60, config.Display.FPS)
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsValidationOnZeroCapacity() {
	suite.overwriteTestConfig(`{"pipeline": {"capacity": 0}}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, `Validation error in field "Capacity" of type "int" using validator "gte=1"`)
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsOnMalformedJSON() {
	suite.overwriteTestConfig(`{"pipeline": `)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.Contains(suite.T(), err.Error(), "parsing configuration error")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsOnMissingFile() {
	require.NoError(suite.T(), suite.fs.Remove(suite.path))

	_, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, os.ErrNotExist)
}

func (suite *LoadConfigTestSuite) TestConfigPathFromEnvironment() {
	os.Setenv(configEnvKey, "/etc/framepipe.json")
	defer os.Unsetenv(configEnvKey)

	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/etc/framepipe.json", path)
}

func TestLoadConfigTestSuite(t *testing.T) {
	suite.Run(t, &LoadConfigTestSuite{})
}
