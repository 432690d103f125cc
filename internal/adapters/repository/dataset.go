// Package repository holds the in-memory state of the service: the dataset
// currently served, viewer sessions, and the loaders that read datasets
// from disk.
package repository

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/okian/skillwheel/internal/domain/model"
)

// Format names a dataset file encoding.
type Format string

// Supported dataset encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

//go:embed sample.json
var sampleJSON []byte

// SampleSource is the source name reported for the embedded dataset.
const SampleSource = "embedded:sample.json"

// wireCompetence keeps the skill lists as pointers so a missing field can be
// told apart from an empty one.
type wireCompetence struct {
	Name        string    `json:"name" yaml:"name" toml:"name"`
	MainSkills  *[]string `json:"mainSkills" yaml:"mainSkills" toml:"mainSkills"`
	OtherSkills *[]string `json:"otherSkills" yaml:"otherSkills" toml:"otherSkills"`
}

// tomlDocument is the TOML shape: an array of [[competence]] tables.
type tomlDocument struct {
	Competence []wireCompetence `toml:"competence"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and decodes the dataset at path.
func LoadFile(path string) (model.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return Decode(bytes.NewReader(raw), format)
}

// Sample returns the embedded sample dataset.
func Sample() model.Dataset {
	ds, err := Decode(bytes.NewReader(sampleJSON), FormatJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded sample dataset: %v", err))
	}
	return ds
}

// Decode reads a dataset in the given format. A competence missing either
// skill list yields a *model.MalformedEntityError.
func Decode(r io.Reader, format Format) (model.Dataset, error) {
	var wire []wireCompetence
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&wire); err != nil {
			return nil, fmt.Errorf("%w: json: %w", ErrDecode, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&wire); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: yaml: %w", ErrDecode, err)
		}
	case FormatTOML:
		var doc tomlDocument
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: toml: %w", ErrDecode, err)
		}
		wire = doc.Competence
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return toDataset(wire)
}

func toDataset(wire []wireCompetence) (model.Dataset, error) {
	ds := make(model.Dataset, 0, len(wire))
	for i, w := range wire {
		switch {
		case w.MainSkills == nil:
			return nil, &model.MalformedEntityError{Index: i, Name: w.Name, Field: "mainSkills"}
		case w.OtherSkills == nil:
			return nil, &model.MalformedEntityError{Index: i, Name: w.Name, Field: "otherSkills"}
		}
		ds = append(ds, model.Competence{
			Name:        w.Name,
			MainSkills:  append([]string{}, (*w.MainSkills)...),
			OtherSkills: append([]string{}, (*w.OtherSkills)...),
		})
	}
	return ds, nil
}
