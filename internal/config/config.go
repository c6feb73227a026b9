// Package config holds the configuration of the buildgen tool itself.
//
// Values are layered, lowest precedence first: defaults, a buildgen.yaml or
// buildgen.toml next to the target package (or the file named by --config),
// BUILDGEN_* environment variables, then command-line flags bound by the CLI.
package config

import (
	"go/token"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/podhmo/buildgen/internal/analyzer"
	"github.com/podhmo/buildgen/internal/casing"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by buildgen.
const EnvPrefix = "BUILDGEN"

// Keys understood in config files and as BUILDGEN_<KEY> variables.
const (
	KeyFlagStyle    = "flag_style"
	KeyFlagPrefix   = "flag_prefix"
	KeySegmentStyle = "segment_style"
	KeyPathSuffix   = "path_suffix"
	KeyArgsSuffix   = "args_suffix"
	KeyOutput       = "output"
	KeyHeader       = "header"
)

// Config holds the configuration for the buildgen tool.
type Config struct {
	FlagStyle    string `mapstructure:"flag_style"`    // Casing of derived flag names
	FlagPrefix   string `mapstructure:"flag_prefix"`   // Prefix of derived flag names
	SegmentStyle string `mapstructure:"segment_style"` // Casing of derived literal segments
	PathSuffix   string `mapstructure:"path_suffix"`
	ArgsSuffix   string `mapstructure:"args_suffix"`
	Output       string `mapstructure:"output"` // Output file name; {package} is replaced by the package name
	Header       string `mapstructure:"header"` // Extra comment placed below the generated-code marker

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	defaults := analyzer.DefaultOptions()
	v.SetDefault(KeyFlagStyle, defaults.FlagStyle.String())
	v.SetDefault(KeyFlagPrefix, defaults.FlagPrefix)
	v.SetDefault(KeySegmentStyle, defaults.SegmentStyle.String())
	v.SetDefault(KeyPathSuffix, defaults.PathSuffix)
	v.SetDefault(KeyArgsSuffix, defaults.ArgsSuffix)
	v.SetDefault(KeyOutput, "{package}_buildgen.go")
	v.SetDefault(KeyHeader, "")
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configFile, or buildgen.{yaml,toml} in dir when configFile is
// empty, and validates the merged result. A missing buildgen.* in dir is not
// an error; a missing explicit configFile is.
func Load(v *viper.Viper, dir, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("buildgen")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading buildgen config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decoding buildgen config")
	}
	c.File = v.ConfigFileUsed()
	if _, err := c.AnalyzerOptions(); err != nil {
		if c.File != "" {
			return nil, errors.Wrapf(err, "config %s", c.File)
		}
		return nil, err
	}
	return &c, nil
}

// AnalyzerOptions converts the naming settings into analyzer options.
func (c *Config) AnalyzerOptions() (analyzer.Options, error) {
	flagStyle, err := casing.ParseStyle(c.FlagStyle)
	if err != nil {
		return analyzer.Options{}, errors.Wrap(err, KeyFlagStyle)
	}
	segmentStyle, err := casing.ParseStyle(c.SegmentStyle)
	if err != nil {
		return analyzer.Options{}, errors.Wrap(err, KeySegmentStyle)
	}
	for _, kv := range [][2]string{{KeyPathSuffix, c.PathSuffix}, {KeyArgsSuffix, c.ArgsSuffix}} {
		if kv[1] == "" || !token.IsIdentifier("X"+kv[1]) {
			return analyzer.Options{}, errors.WithHint(
				errors.Newf("%s: %q cannot end a Go type name", kv[0], kv[1]),
				"use a non-empty identifier such as Path or Args")
		}
	}
	if strings.ContainsAny(c.FlagPrefix, " \t") {
		return analyzer.Options{}, errors.Newf("%s: %q contains whitespace", KeyFlagPrefix, c.FlagPrefix)
	}
	return analyzer.Options{
		FlagStyle:    flagStyle,
		FlagPrefix:   c.FlagPrefix,
		SegmentStyle: segmentStyle,
		PathSuffix:   c.PathSuffix,
		ArgsSuffix:   c.ArgsSuffix,
	}, nil
}

// OutputPath returns where the generated file of package pkg goes in dir.
func (c *Config) OutputPath(dir, pkg string) string {
	name := strings.ReplaceAll(c.Output, "{package}", pkg)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
