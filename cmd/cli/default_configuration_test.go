package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/cadcam2oshpark/cmd/cli"
)

type embeddedConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Repackage struct {
		StartDirectory string `yaml:"start_directory"`
		WaitForExit    bool   `yaml:"wait_for_exit"`
		Color          bool   `yaml:"color"`
	} `yaml:"repackage"`
}

func TestEmbeddedDefaultConfiguration(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var document embeddedConfigurationDocument
	decoder := yaml.NewDecoder(bytes.NewReader(configurationData))
	decoder.KnownFields(true)
	require.NoError(testInstance, decoder.Decode(&document))

	require.Equal(testInstance, "warn", document.Common.LogLevel)
	require.Equal(testInstance, "console", document.Common.LogFormat)
	require.Equal(testInstance, ".", document.Repackage.StartDirectory)
	require.True(testInstance, document.Repackage.WaitForExit)
	require.True(testInstance, document.Repackage.Color)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, firstCopy)
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), secondCopy[0])
}
