// Package config loads the svlex YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Separator is the single character tokens are split on
	Separator string `yaml:"separator" validate:"required,singlechar"`
	// Mode selects the segmentation strategy
	Mode string `yaml:"mode" validate:"oneof=delim whitespace words graphemes sentences phrases"`
	// Format selects the output encoding
	Format string `yaml:"format" validate:"oneof=text yaml json"`
	// Workers bounds how many sources are lexed at once
	Workers int   `yaml:"workers" validate:"min=1,max=64"`
	Chunk   Chunk `yaml:"chunk"`
	S3      S3    `yaml:"s3"`
}

type Chunk struct {
	// Size of zero disables chunking
	Size     int    `yaml:"size" validate:"min=0"`
	Overlap  int    `yaml:"overlap" validate:"min=0"`
	Counter  string `yaml:"counter" validate:"oneof=tokens runes graphemes words phrases sentences tiktoken"`
	Encoding string `yaml:"encoding"`
}

type S3 struct {
	Region string `yaml:"region"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Separator: " ",
		Mode:      "delim",
		Format:    "text",
		Workers:   4,
		Chunk: Chunk{
			Counter:  "tokens",
			Encoding: "cl100k_base",
		},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("singlechar", singleChar); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(chunkOverlap, Chunk{})
	return v
}

// chunkOverlap requires the overlap to stay below an enabled chunk size.
func chunkOverlap(sl validator.StructLevel) {
	c := sl.Current().Interface().(Chunk)
	if c.Size > 0 && c.Overlap >= c.Size {
		sl.ReportError(c.Overlap, "Overlap", "Overlap", "ltsize", "")
	}
}

// singleChar accepts strings of exactly one rune.
func singleChar(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) == 1
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s failed on %s", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// SeparatorRune returns the configured separator.
func (c *Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}
