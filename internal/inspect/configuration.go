package inspect

import "github.com/temirov/ghrepo/internal/utils/flags"

const protectionFormatFlagNameConstant = "protection-format"

// ProtectionFormat selects how branch protection documents are rendered.
type ProtectionFormat string

// Supported protection document formats.
const (
	ProtectionFormatJSON ProtectionFormat = ProtectionFormat("json")
	ProtectionFormatYAML ProtectionFormat = ProtectionFormat("yaml")
)

var protectionFormatChoices = []string{string(ProtectionFormatJSON), string(ProtectionFormatYAML)}

// ParseProtectionFormat validates a protection format value. An empty value selects JSON.
func ParseProtectionFormat(value string) (ProtectionFormat, error) {
	if len(value) == 0 {
		return ProtectionFormatJSON, nil
	}
	parsedValue, parseError := flags.ParseChoice(protectionFormatFlagNameConstant, value, protectionFormatChoices)
	if parseError != nil {
		return "", parseError
	}
	return ProtectionFormat(parsedValue), nil
}

// UnmarshalText validates formats decoded from configuration.
func (format *ProtectionFormat) UnmarshalText(text []byte) error {
	parsedFormat, parseError := ParseProtectionFormat(string(text))
	if parseError != nil {
		return parseError
	}
	*format = parsedFormat
	return nil
}

// Configuration captures persistent settings for the inspect command.
type Configuration struct {
	ProtectionFormat ProtectionFormat `mapstructure:"protection_format"`
}

// DefaultConfiguration renders protection documents as JSON.
func DefaultConfiguration() Configuration {
	return Configuration{ProtectionFormat: ProtectionFormatJSON}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	if len(sanitized.ProtectionFormat) == 0 {
		sanitized.ProtectionFormat = ProtectionFormatJSON
	}
	return sanitized
}
