package config

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/framepipe/pkg/configdef"
	"github.com/tauraamui/framepipe/pkg/log"
)

type CreateConfigTestSuite struct {
	suite.Suite
	is                   *is.I
	configCreateResolver configdef.CreateResolver
	configDestroyer      configdef.Destroyer
	fs                   afero.Fs
	resetUserConfigDir   func()
	resetLogging         func()
}

func (suite *CreateConfigTestSuite) SetupSuite() {
	suite.is = is.New(suite.T())
	suite.fs = afero.NewMemMapFs()
	suite.configCreateResolver = DefaultCreateResolver()
	suite.configDestroyer = DefaultDestroyer()
	suite.resetUserConfigDir = overloadUserConfigDir("/testroot/.config")
	suite.resetLogging = log.Silence()
	os.Unsetenv(configEnvKey)

	// use in memory FS in implementation for tests
	fs = suite.fs
}

func (suite *CreateConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
	suite.resetUserConfigDir()
	suite.resetLogging()
}

func (suite *CreateConfigTestSuite) TearDownTest() {
	suite.is.NoErr(suite.fs.RemoveAll("/testroot"))
}

func (suite *CreateConfigTestSuite) TestConfigCreate() {
	require.NoError(suite.T(), suite.configCreateResolver.Create())
	loadedConfig, err := suite.configCreateResolver.Resolve()

	assert.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), defaultValues(), loadedConfig)
}

func (suite *CreateConfigTestSuite) TestCreatedConfigPassesValidation() {
	require.NoError(suite.T(), defaultValues().RunValidate())
}

func (suite *CreateConfigTestSuite) TestConfigCreateFailsDueToAlreadyExisting() {
	suite.is.NoErr(suite.configCreateResolver.Create())
	err := suite.configCreateResolver.Create()
	suite.is.Equal(err.Error(), "config file already exists")
	suite.is.True(errors.Is(err, configdef.ErrConfigAlreadyExists))
}

func (suite *CreateConfigTestSuite) TestConfigDestroyRemovesFile() {
	suite.is.NoErr(suite.configCreateResolver.Create())
	suite.is.NoErr(suite.configDestroyer.Destroy())

	_, err := suite.configCreateResolver.Resolve()
	suite.is.True(errors.Is(err, os.ErrNotExist))

	// nothing left to remove is not an error
	suite.is.NoErr(suite.configDestroyer.Destroy())
}

func TestCreateConfigTestSuite(t *testing.T) {
	suite.Run(t, &CreateConfigTestSuite{})
}
