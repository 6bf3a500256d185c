// Package config loads the form definition from TOML or YAML files and the
// process settings from the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formserve/pkg/schema"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// File mirrors the on-disk layout. Keys match the TOML tables operators
// already write: top-level form metadata plus one [[fields]] table per field.
type File struct {
	JSONOutput        string  `toml:"json_output" yaml:"json_output"`
	FormTitle         string  `toml:"form_title" yaml:"form_title"`
	SubmitButton      string  `toml:"submit_button" yaml:"submit_button"`
	Lang              string  `toml:"lang" yaml:"lang"`
	MaxLength         int     `toml:"max_length" yaml:"max_length"`
	SanitizeFragments bool    `toml:"sanitize_fragments" yaml:"sanitize_fragments"`
	Fields            []Field `toml:"fields" yaml:"fields"`
}

// Field is one [[fields]] entry.
type Field struct {
	Name        string   `toml:"name" yaml:"name"`
	Title       string   `toml:"title" yaml:"title"`
	Description string   `toml:"description" yaml:"description"`
	AnswerType  string   `toml:"answer_type" yaml:"answer_type"`
	HTMLBefore  *string  `toml:"html_before" yaml:"html_before"`
	HTMLAfter   *string  `toml:"html_after" yaml:"html_after"`
	Options     []string `toml:"options" yaml:"options"`
	Default     *string  `toml:"default" yaml:"default"`
	Placeholder string   `toml:"placeholder" yaml:"placeholder"`
	MaxLength   int      `toml:"max_length" yaml:"max_length"`
}

// Load reads path, picking the decoder from the file extension, and returns
// the validated form. Unknown keys are rejected so that typos surface at
// startup instead of silently changing the form.
func Load(path string) (schema.FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes data according to ext (".toml", ".yaml" or ".yml").
func Parse(ext string, data []byte) (schema.FormSchema, error) {
	var (
		file File
		err  error
	)
	switch strings.ToLower(ext) {
	case ".toml":
		file, err = decodeTOML(data)
	case ".yaml", ".yml":
		file, err = decodeYAML(data)
	default:
		return schema.FormSchema{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return schema.FormSchema{}, err
	}
	return file.Schema()
}

// Schema converts the file representation into a validated form schema.
func (f File) Schema() (schema.FormSchema, error) {
	form := schema.FormSchema{
		Title:             f.FormTitle,
		SubmitButtonText:  f.SubmitButton,
		OutputPath:        strings.TrimSpace(f.JSONOutput),
		MaxLength:         f.MaxLength,
		Lang:              f.Lang,
		SanitizeFragments: f.SanitizeFragments,
		Fields:            make([]schema.FieldSchema, 0, len(f.Fields)),
	}
	for idx, field := range f.Fields {
		answerType, err := schema.ParseAnswerType(field.AnswerType)
		if err != nil {
			return schema.FormSchema{}, &schema.ConfigError{Field: field.Name, Index: idx, Message: err.Error()}
		}
		form.Fields = append(form.Fields, schema.FieldSchema{
			Name:        field.Name,
			Title:       field.Title,
			Description: field.Description,
			AnswerType:  answerType,
			HTMLBefore:  field.HTMLBefore,
			HTMLAfter:   field.HTMLAfter,
			Options:     field.Options,
			Default:     field.Default,
			Placeholder: field.Placeholder,
			MaxLength:   field.MaxLength,
		})
	}
	if err := form.Validate(); err != nil {
		return schema.FormSchema{}, err
	}
	return form, nil
}

func decodeTOML(data []byte) (File, error) {
	var file File
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return File{}, configError("parse toml: " + perr.ErrorWithPosition())
		}
		return File{}, configError("decode toml: " + err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return File{}, configError("unknown keys: " + strings.Join(keys, ", "))
	}
	return file, nil
}

func decodeYAML(data []byte) (File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, configError("parse yaml: " + err.Error())
	}
	return file, nil
}

func configError(message string) error {
	return &schema.ConfigError{Index: -1, Message: message}
}
