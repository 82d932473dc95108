package main

import (
	"flag"
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// Config holds the shell settings that can be given in a config file. Flags
// override values from the file.
type Config struct {
	// Prompt is printed before each line read from a terminal.
	Prompt string `yaml:"prompt"`
	// Format is the fmt verb used to print results.
	Format string `yaml:"format"`
	// Echo prints the parsed form of each expression before its result.
	Echo bool `yaml:"echo"`
	// Color enables colored error messages.
	Color bool `yaml:"color"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
	// Vars are variables defined at the start of the session.
	Vars map[string]float64 `yaml:"vars"`
}

// DefaultConfig returns the settings used when there is no config file.
func DefaultConfig() Config {
	return Config{
		Prompt:   ">> ",
		Format:   "%g",
		Color:    true,
		LogLevel: "warn",
	}
}

// LoadConfig reads a YAML config file. Settings missing from the file keep
// their default values.
func LoadConfig(name string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(name)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", name, err)
	}
	for k := range cfg.Vars {
		if _, err := varName(k); err != nil {
			return cfg, fmt.Errorf("config %s: %w", name, err)
		}
	}
	return cfg, nil
}

// override returns cfg with the settings for flags set explicitly in fs
// replaced by their values in opts.
func (cfg Config) override(fs *flag.FlagSet, opts *options) Config {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fmt":
			cfg.Format = opts.verb
		case "echo":
			cfg.Echo = opts.echo
		case "no-color":
			cfg.Color = !opts.nocolor
		case "log-level":
			cfg.LogLevel = opts.level
		}
	})
	return cfg
}

// Context creates a session context holding the configured variables.
func (cfg Config) Context() *calc.Context {
	ctx := calc.NewContext()
	for k, v := range cfg.Vars {
		// LoadConfig has already checked the names.
		r, _ := utf8.DecodeRuneInString(k)
		ctx.Set(r, v)
	}
	return ctx
}

// varName checks that s is a valid variable name, i.e. a single letter.
func varName(s string) (rune, error) {
	r, sz := utf8.DecodeRuneInString(s)
	if sz == 0 || sz != len(s) || !unicode.IsLetter(r) {
		return 0, fmt.Errorf("variable names must be a single letter, not %q", s)
	}
	return r, nil
}
