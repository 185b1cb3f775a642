// Package manifest declares record classes in YAML, JSON or TOML.
//
// A manifest lists classes whose payload is a plain record of named values:
//
//	classes:
//	  - name: widget
//	    properties:
//	      - name: label
//	        type: string
//	        default: untitled
//	      - name: width
//	        type: int
//	        coerce: true
//	  - name: checkbox
//	    parent: widget
//	    properties:
//	      - name: checked
//	        type: bool
//	      - name: id
//	        type: string
//	        access: r
//
// Types are the names accepted by schema.ParseType. Access is "rw" (the
// default), "r" or "w". A coerce property weakly converts mismatched
// writes ("5" to 5) and falls back to its default when that fails.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is a manifest document.
type File struct {
	Classes []ClassSpec `yaml:"classes" json:"classes" mapstructure:"classes"`
}

// ClassSpec declares one record class.
type ClassSpec struct {
	Name       string         `yaml:"name" json:"name" mapstructure:"name"`
	Parent     string         `yaml:"parent" json:"parent" mapstructure:"parent"`
	Doc        string         `yaml:"doc" json:"doc" mapstructure:"doc"`
	Properties []PropertySpec `yaml:"properties" json:"properties" mapstructure:"properties"`
}

// PropertySpec declares one property of a record class.
type PropertySpec struct {
	Name    string `yaml:"name" json:"name" mapstructure:"name"`
	Type    string `yaml:"type" json:"type" mapstructure:"type"`
	Default any    `yaml:"default" json:"default" mapstructure:"default"`
	Access  string `yaml:"access" json:"access" mapstructure:"access"`
	Coerce  bool   `yaml:"coerce" json:"coerce" mapstructure:"coerce"`
	Doc     string `yaml:"doc" json:"doc" mapstructure:"doc"`
}

// Format names a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension. Anything but .json and
// .toml is read as YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// ReadFile reads and parses a manifest file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	f, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest json: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest yaml: %w", err)
		}
	}
	return Decode(raw)
}

// Decode builds a File from already-decoded data, such as a table handed
// over by a script.
func Decode(raw any) (*File, error) {
	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &f, nil
}
