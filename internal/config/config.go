// Package config is the plugin-option surface (spec §6): whether the
// generator runs at all, its log verbosity, its output directory, and
// the annotation names it recognizes.
//
// Follows internal/eval_harness/spec.go's LoadSpec shape: a plain
// struct with yaml tags, loaded with gopkg.in/yaml.v3 and validated
// with explicit field checks rather than a schema-validation library.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the generator's configuration (spec §6's plugin options).
type Options struct {
	Enabled         bool     `yaml:"enabled"`
	Debug           bool     `yaml:"debug"`
	OutputDir       string   `yaml:"outputDir"`
	AnnotationNames []string `yaml:"annotationNames"`
}

// Default returns the spec's documented defaults: enabled, not
// debugging, persistence disabled (no outputDir), recognizing only the
// tool's own `Fake` annotation.
func Default() Options {
	return Options{
		Enabled:         true,
		Debug:           false,
		OutputDir:       "",
		AnnotationNames: []string{"Fake"},
	}
}

// Load reads Options from a YAML file, applying Default() for any
// field the file omits.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if len(opts.AnnotationNames) == 0 {
		opts.AnnotationNames = []string{"Fake"}
	}
	return opts, nil
}

// MatchesAnnotation reports whether name is one of the configured
// recognized annotation names (spec §6: "Multiple names may be
// configured; any match triggers processing").
func (o Options) MatchesAnnotation(name string) bool {
	for _, n := range o.AnnotationNames {
		if n == name {
			return true
		}
	}
	return false
}
