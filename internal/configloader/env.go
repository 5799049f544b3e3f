package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/rustgen/pkg/format"
)

// envVarPrefix is the prefix for all rustgen environment variables.
const envVarPrefix = "RUSTGEN_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"EDITION":     {field: "rustfmt.edition", typ: envTypeString},
	"RUSTFMT":     {field: "rustfmt.path", typ: envTypeString},
	"SKIP_FORMAT": {field: "rustfmt.skip_final_format", typ: envTypeBool},
	"BASE_PATH":   {field: "base_path", typ: envTypeString},
	"JOBS":        {field: "jobs", typ: envTypeInt},
}

// applyEnv applies environment variable overrides to the loaded configuration.
// Environment variables are prefixed with RUSTGEN_ (e.g., RUSTGEN_EDITION).
func applyEnv(loaded *Loaded) error {
	if loaded == nil || loaded.Config == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(loaded, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value.
func applyEnvValue(loaded *Loaded, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(loaded, mapping.field, value, envVar)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(loaded, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(loaded, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the loaded config by field path.
func setStringField(loaded *Loaded, field, value, envVar string) error {
	switch field {
	case "rustfmt.edition":
		edition := format.Edition(value)
		if !edition.Valid() {
			return fmt.Errorf("invalid edition for %s: %q", envVar, value)
		}
		loaded.Config.General.RustFmt.Edition = value
	case "rustfmt.path":
		loaded.Config.General.RustFmt.Path = value
	case "base_path":
		loaded.Config.General.BasePath = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the loaded config by field path.
func setBoolField(loaded *Loaded, field string, value bool) error {
	switch field {
	case "rustfmt.skip_final_format":
		loaded.Config.General.RustFmt.SkipFinalFormat = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the loaded config by field path.
func setIntField(loaded *Loaded, field string, value int) error {
	switch field {
	case "jobs":
		loaded.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"RUSTGEN_EDITION":     "Rust edition passed to rustfmt: 2015, 2018, or 2021",
		"RUSTGEN_RUSTFMT":     "Path to the rustfmt executable",
		"RUSTGEN_SKIP_FORMAT": "Skip the final rustfmt pass: true or false",
		"RUSTGEN_BASE_PATH":   "Base directory for generated files",
		"RUSTGEN_JOBS":        "Number of parallel workers (0 = auto)",
	}
}
