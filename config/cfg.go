package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	RenderConfig struct {
		DefaultTheme          string `yaml:"default_theme" validate:"oneof=light dark"`
		Language              string `yaml:"language" validate:"required,bcp47_language_tag"`
		Title                 string `yaml:"title" validate:"required"`
		StylesheetPath        string `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		CheckStylesheet       bool   `yaml:"check_stylesheet"`
		OutputNameTemplate    string `yaml:"output_name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	IconsConfig struct {
		// Assets maps social platform key to static asset reference (URL or
		// file path when embedding).
		Assets map[string]string `yaml:"assets" validate:"dive,keys,oneof=whatsapp instagram facebook twitter,endkeys,required"`
		Embed  bool              `yaml:"embed"`
		Size   int               `yaml:"size" validate:"min=8,max=512"`
	}

	HTTPStoreConfig struct {
		BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
		Token   SecretString  `yaml:"token,omitempty"`
		Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	}

	SQLiteStoreConfig struct {
		Path string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	StoreConfig struct {
		Kind   string            `yaml:"kind" validate:"oneof=none http sqlite"`
		HTTP   HTTPStoreConfig   `yaml:"http"`
		SQLite SQLiteStoreConfig `yaml:"sqlite"`
	}

	ServerConfig struct {
		Listen      string `yaml:"listen" validate:"required,hostname_port"`
		ReleaseMode bool   `yaml:"release_mode"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Render    RenderConfig   `yaml:"render"`
		Icons     IconsConfig    `yaml:"icons"`
		Store     StoreConfig    `yaml:"store"`
		Server    ServerConfig   `yaml:"server"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
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
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
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
