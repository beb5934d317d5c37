package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	FragmentsConfig struct {
		Enable bool `yaml:"enable"`
	}

	HighlightConfig struct {
		Style       string `yaml:"style" validate:"required"`
		ClassPrefix string `yaml:"class_prefix"`
		TabWidth    int    `yaml:"tab_width" validate:"min=1,max=16"`
		CSSPath     string `yaml:"css_path,omitempty" validate:"omitempty,filepath"`
	}

	CopyButtonConfig struct {
		Enable        bool   `yaml:"enable"`
		TitleTemplate string `yaml:"title_template" validate:"required_if=Enable true"`
		Icon          string `yaml:"icon"`
	}

	DocumentConfig struct {
		Extensions []string         `yaml:"extensions" validate:"min=1,dive,required,startswith=."`
		Encoding   string           `yaml:"encoding"`
		Fragments  FragmentsConfig  `yaml:"fragments"`
		Highlight  HighlightConfig  `yaml:"highlight"`
		CopyButton CopyButtonConfig `yaml:"copy_button"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, copy button title is expanded
	// per code block, not when configuration is loaded
	CopyTitleTemplateFieldName TemplateFieldName = "title_template"
	CopyIconFieldName          TemplateFieldName = "icon"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(CopyTitleTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(CopyIconFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
