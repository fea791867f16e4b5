package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	workingDirectorySearchPathConstant = "."
	sliceValueSeparatorConstant        = ","
	readErrorTemplateConstant          = "failed to read configuration: %w"
	decodeErrorTemplateConstant        = "failed to parse configuration: %w"
	embeddedErrorTemplateConstant      = "failed to merge embedded configuration: %w"
)

var environmentKeyReplacer = strings.NewReplacer(".", "_")

// ConfigurationLoader resolves configuration in increasing precedence:
// embedded document, caller defaults for absent keys, configuration file, environment.
type ConfigurationLoader struct {
	name              string
	format            string
	environmentPrefix string
	searchPaths       []string
	embedded          embeddedDocument
}

type embeddedDocument struct {
	content []byte
	format  string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader looking for name.format under searchPaths
// and reading PREFIX_SECTION_KEY environment overrides.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		name:              configurationName,
		format:            configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// DefaultSearchPaths returns the working directory followed by the per-user configuration directory of the application.
func DefaultSearchPaths(applicationName string) []string {
	userConfigurationDirectory, userConfigurationError := os.UserConfigDir()
	if userConfigurationError != nil || len(userConfigurationDirectory) == 0 {
		return []string{workingDirectorySearchPathConstant}
	}
	return []string{workingDirectorySearchPathConstant, filepath.Join(userConfigurationDirectory, applicationName)}
}

// SetEmbeddedConfiguration registers the lowest precedence document. An empty format falls back to the loader format.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embedded = embeddedDocument{
		content: bytes.Clone(configurationData),
		format:  strings.TrimSpace(configurationType),
	}
}

// LoadConfiguration decodes the layered configuration into targetConfiguration.
// Text unmarshalers, durations, and comma separated slices are decoded through hooks.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	store, storeError := loader.newStore(defaultValues)
	if storeError != nil {
		return LoadedConfiguration{}, storeError
	}

	if len(configurationFilePath) > 0 {
		store.SetConfigFile(configurationFilePath)
	}

	if mergeError := store.MergeInConfig(); mergeError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(mergeError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(readErrorTemplateConstant, mergeError)
		}
	}

	if decodeError := store.Unmarshal(targetConfiguration, viper.DecodeHook(configurationDecodeHook())); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(decodeErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: store.ConfigFileUsed()}, nil
}

func (loader *ConfigurationLoader) newStore(defaultValues map[string]any) (*viper.Viper, error) {
	store := viper.New()

	if len(loader.embedded.content) > 0 {
		embeddedFormat := loader.embedded.format
		if len(embeddedFormat) == 0 {
			embeddedFormat = loader.format
		}
		store.SetConfigType(embeddedFormat)
		if mergeError := store.MergeConfig(bytes.NewReader(loader.embedded.content)); mergeError != nil {
			return nil, fmt.Errorf(embeddedErrorTemplateConstant, mergeError)
		}
	}

	store.SetConfigName(loader.name)
	store.SetConfigType(loader.format)
	for _, searchPath := range loader.searchPaths {
		store.AddConfigPath(searchPath)
	}

	store.SetEnvPrefix(loader.environmentPrefix)
	store.SetEnvKeyReplacer(environmentKeyReplacer)
	store.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		store.SetDefault(defaultKey, defaultValue)
	}

	return store, nil
}

func configurationDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(sliceValueSeparatorConstant),
	)
}
