package inspect

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

const (
	jsonIndentPrefixConstant = ""
	jsonIndentConstant       = "  "
	yamlIndentConstant       = 2
)

// renderDocument formats an opaque API document for display.
func renderDocument(document map[string]any, format ProtectionFormat) (string, error) {
	if format == ProtectionFormatYAML {
		buffer := &bytes.Buffer{}
		encoder := yaml.NewEncoder(buffer)
		encoder.SetIndent(yamlIndentConstant)
		if encodeError := encoder.Encode(document); encodeError != nil {
			return "", encodeError
		}
		if closeError := encoder.Close(); closeError != nil {
			return "", closeError
		}
		return string(bytes.TrimRight(buffer.Bytes(), "\n")), nil
	}

	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(jsonIndentPrefixConstant, jsonIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return "", encodeError
	}
	return string(bytes.TrimRight(buffer.Bytes(), "\n")), nil
}
