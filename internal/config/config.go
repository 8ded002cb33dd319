// Package config loads the optional HCL runtime configuration file.
//
// A configuration file looks like:
//
//	resource   = "/cpu/self"
//	log_level  = env.CEED_LOG_LEVEL
//	log_format = "json"
//
//	alias "fast" {
//	  resource = "/cpu/self/opt/blocked"
//	}
//
// Environment variables are available to expressions as env.<NAME>.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Defaults applied when a value is not configured.
const (
	DefaultResource  = "/cpu/self"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the resolved runtime configuration.
type Config struct {
	Resource  string
	LogLevel  string
	LogFormat string
	// Aliases maps short names to resources.
	Aliases map[string]string
}

// fileRoot is the decoded top level of a configuration file.
type fileRoot struct {
	Resource  *string  `hcl:"resource,optional"`
	LogLevel  *string  `hcl:"log_level,optional"`
	LogFormat *string  `hcl:"log_format,optional"`
	Aliases   []*alias `hcl:"alias,block"`
}

type alias struct {
	Name     string `hcl:"name,label"`
	Resource string `hcl:"resource"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Resource:  DefaultResource,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Aliases:   make(map[string]string),
	}
}

// Load reads the file at path. An empty path or a missing file yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error accessing config %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if root.Resource != nil {
		cfg.Resource = *root.Resource
	}
	if root.LogLevel != nil {
		cfg.LogLevel = *root.LogLevel
	}
	if root.LogFormat != nil {
		cfg.LogFormat = *root.LogFormat
	}
	for _, a := range root.Aliases {
		if _, dup := cfg.Aliases[a.Name]; dup {
			return nil, fmt.Errorf("config %s: duplicate alias %q", path, a.Name)
		}
		if a.Resource == "" {
			return nil, fmt.Errorf("config %s: alias %q has an empty resource", path, a.Name)
		}
		cfg.Aliases[a.Name] = a.Resource
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings and lowercases the log level and format.
func (c *Config) Validate() error {
	level, format := strings.ToLower(c.LogLevel), strings.ToLower(c.LogFormat)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	c.LogLevel, c.LogFormat = level, format
	if c.Resource == "" {
		return errors.New("empty resource")
	}
	return nil
}

// Expand replaces an alias name at the start of resource with its target.
// Options after ":" are kept, so "fast:device_id=1" expands to the alias
// resource with the same options appended.
func (c *Config) Expand(resource string) string {
	name, opts, hasOpts := strings.Cut(resource, ":")
	target, ok := c.Aliases[name]
	if !ok {
		return resource
	}
	if !hasOpts {
		return target
	}
	if strings.Contains(target, ":") {
		return target + "," + opts
	}
	return target + ":" + opts
}

// evalContext exposes the process environment as the env object.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
