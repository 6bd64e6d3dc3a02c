// Package recipe loads and renders recipe files: declarative, linear
// step pipelines (query, transforms, export) whose step configs bind
// caller parameters with "{{ PARAM }}" placeholders.
package recipe

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apirecipes "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/recipes"
)

const dateFormat = "2006-01-02"

// ParamType is the declared type of a recipe parameter.
type ParamType string

const (
	TypeString     ParamType = "string"
	TypeInt        ParamType = "int"
	TypeBool       ParamType = "bool"
	TypeDate       ParamType = "date"
	TypeStringList ParamType = "stringlist"
)

func knownType(t ParamType) bool {
	switch t {
	case TypeString, TypeInt, TypeBool, TypeDate, TypeStringList:
		return true
	}
	return false
}

// Param declares one parameter a recipe accepts.
type Param struct {
	Name        string    `yaml:"name"`
	Type        ParamType `yaml:"type"`
	Required    bool      `yaml:"required"`
	Default     any       `yaml:"default"`
	Description string    `yaml:"description"`
}

// Step names a processing operation of the external pipeline library
// and its configuration.
type Step struct {
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:"config"`
}

// Recipe is one declarative pipeline.
type Recipe struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	AdminOnly   bool    `yaml:"admin_only"`
	Params      []Param `yaml:"params"`
	Steps       []Step  `yaml:"steps"`
}

// Load reads and verifies a recipe file.
func Load(path string) (Recipe, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, err
	}
	return Unmarshal(content)
}

// Unmarshal parses and verifies recipe YAML.
func Unmarshal(content []byte) (Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(content, &r); err != nil {
		return Recipe{}, err
	}
	if err := r.verify(); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

func (r Recipe) verify() error {
	if r.Name == "" {
		return fmt.Errorf("recipe has no name")
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %s: no steps", r.Name)
	}
	seen := map[string]bool{}
	for _, p := range r.Params {
		if p.Name == "" {
			return fmt.Errorf("recipe %s: unnamed param", r.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("recipe %s: param %s declared twice", r.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Type == "" {
			continue // defaults to string
		}
		if !knownType(p.Type) {
			return fmt.Errorf("recipe %s: param %s: unknown type %q", r.Name, p.Name, p.Type)
		}
	}
	for _, s := range r.Steps {
		if s.Name == "" {
			return fmt.Errorf("recipe %s: unnamed step", r.Name)
		}
	}
	return nil
}

// Schema is the parameter schema in API form.
func (r Recipe) Schema() apirecipes.Schema {
	params := make([]apirecipes.ParamSpec, 0, len(r.Params))
	for _, p := range r.Params {
		t := p.Type
		if t == "" {
			t = TypeString
		}
		params = append(params, apirecipes.ParamSpec{
			Name:        p.Name,
			Type:        string(t),
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		})
	}
	return apirecipes.Schema{Recipe: r.Name, Params: params}
}

// Summary is the recipe in API catalog form.
func (r Recipe) Summary() apirecipes.Summary {
	return apirecipes.Summary{
		Name:        r.Name,
		Description: r.Description,
		AdminOnly:   r.AdminOnly,
	}
}

// ValidateParams checks the given values against the declared params,
// applies defaults, and returns the effective parameter set.
//
// Unknown parameter names are rejected so that typos don't silently
// leave a placeholder bound to its default.
func (r Recipe) ValidateParams(values map[string]any) (map[string]any, error) {
	declared := map[string]Param{}
	for _, p := range r.Params {
		declared[p.Name] = p
	}
	for name := range values {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("recipe %s: unknown parameter %q", r.Name, name)
		}
	}

	out := map[string]any{}
	for _, p := range r.Params {
		v, given := values[p.Name]
		if !given {
			if p.Default != nil {
				out[p.Name] = p.Default
				continue
			}
			if p.Required {
				return nil, fmt.Errorf("recipe %s: missing required parameter %q", r.Name, p.Name)
			}
			continue
		}
		coerced, err := coerce(p, v)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: parameter %q: %w", r.Name, p.Name, err)
		}
		out[p.Name] = coerced
	}
	return out, nil
}

func coerce(p Param, v any) (any, error) {
	t := p.Type
	if t == "" {
		t = TypeString
	}
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	case TypeInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			// JSON numbers decode as float64.
			if n != float64(int(n)) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil
	case TypeDate:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected date string (%s), got %T", dateFormat, v)
		}
		if _, err := time.Parse(dateFormat, s); err != nil {
			return nil, fmt.Errorf("expected date in %s format: %w", dateFormat, err)
		}
		return s, nil
	case TypeStringList:
		switch l := v.(type) {
		case string:
			return []string{l}, nil
		case []string:
			return l, nil
		case []any:
			out := make([]string, 0, len(l))
			for _, e := range l {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("expected list of strings, found %T element", e)
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
	return nil, fmt.Errorf("unknown type %q", t)
}
