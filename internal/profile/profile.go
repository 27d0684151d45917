// Package profile resolves profile recipes, compiles them into runtimes and
// selects a profile for a document path.
package profile

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/dwg/internal/config"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Preset is a built-in profile shipped with the binary.
type Preset struct {
	Description          string `yaml:"description"`
	config.ProfileConfig `yaml:",inline"`
}

// LoadBuiltin loads a built-in preset by name.
func LoadBuiltin(name string) (*Preset, error) {
	filename := name + ".yaml"
	data, err := builtinFS.ReadFile("builtin/" + filename)
	if err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: unknown profile %q: %w", name, err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: parse %q: %w", name, err)
	}
	return &p, nil
}

// List returns the names of all built-in presets.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Builtins loads every built-in preset as a profile config.
func Builtins() ([]config.ProfileConfig, error) {
	names, err := List()
	if err != nil {
		return nil, fmt.Errorf("profile.Builtins: %w", err)
	}
	out := make([]config.ProfileConfig, 0, len(names))
	for _, n := range names {
		p, err := LoadBuiltin(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p.ProfileConfig)
	}
	return out, nil
}

// Describe renders a resolved recipe as Markdown for `dwg profiles show`.
func Describe(r *Recipe, description string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Profile: %s\n\n", r.Name)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(description))
	}
	if r.Extends != "" {
		fmt.Fprintf(&b, "Extends: %s\n\n", r.Extends)
	}
	if len(r.Globs) > 0 {
		b.WriteString("### Globs\n\n")
		for _, g := range r.Globs {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	rules := rulesMap(r.Rules)
	if len(rules) > 0 {
		b.WriteString("### Rules\n\n")
		renderRules(&b, rules, "")
		b.WriteString("\n")
	}
	return b.String()
}

// rulesMap round-trips rules through YAML so only set keys remain.
func rulesMap(r config.ProfileRules) map[string]interface{} {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func renderRules(b *strings.Builder, m map[string]interface{}, indent string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := m[key]
		switch v := val.(type) {
		case map[string]interface{}:
			fmt.Fprintf(b, "%s- %s:\n", indent, key)
			renderRules(b, v, indent+"  ")
		case []interface{}:
			fmt.Fprintf(b, "%s- %s:\n", indent, key)
			for _, item := range v {
				fmt.Fprintf(b, "%s  - %v\n", indent, item)
			}
		default:
			fmt.Fprintf(b, "%s- %s: %v\n", indent, key, v)
		}
	}
}
