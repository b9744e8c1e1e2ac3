package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/mitchellh/go-homedir"
	"github.com/turbot/go-kit/helpers"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Load reads and parses the config file at path
func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses HCL config bytes, validates the result and expands any home-relative paths
func Parse(data []byte, filename string) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		slog.Error("Parse: failed to parse config", "filename", filename, "diags", diags)
		return nil, diagsToError("failed to parse config", diags)
	}

	var c Config
	if diags := decode(file.Body, &c); diags.HasErrors() {
		return nil, diagsToError("failed to decode config", diags)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if c.Catalog != nil {
		p, err := homedir.Expand(*c.Catalog)
		if err != nil {
			return nil, err
		}
		c.Catalog = &p
	}
	if c.State != nil {
		p, err := homedir.Expand(c.State.Path)
		if err != nil {
			return nil, err
		}
		c.State.Path = p
	}
	if c.Sink != nil && c.Sink.Path != nil {
		p, err := homedir.Expand(*c.Sink.Path)
		if err != nil {
			return nil, err
		}
		c.Sink.Path = &p
	}
	return &c, nil
}

// DecodeBody decodes a remaining HCL body (e.g. the body of a source block) into a new T
func DecodeBody[T any](body hcl.Body) (T, error) {
	var target T
	if body == nil {
		return target, nil
	}
	if diags := decode(body, &target); diags.HasErrors() {
		return target, diagsToError("failed to decode block", diags)
	}
	return target, nil
}

func decode(body hcl.Body, target any) (diags hcl.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "unexpected error decoding config",
				Detail:   helpers.ToError(r).Error()})
		}
	}()
	return gohcl.DecodeBody(body, evalContext(), target)
}

// evalContext exposes the process environment as env.<NAME>, so secrets need not be written into config
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: make(map[string]function.Function),
	}
}

func diagsToError(prefix string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, d.Detail)
		}
		if d.Subject != nil {
			msg = fmt.Sprintf("%s (%s)", msg, d.Subject.String())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%s: %s", prefix, strings.Join(msgs, "; "))
}
