package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Render interpolates the (already validated) parameter values into the
// recipe's step configs and returns runnable step configurations.
//
// A config value which is exactly one placeholder takes the bound value
// with its type intact (lists stay lists). Placeholders embedded in a
// longer string are stringified in place. An unbound placeholder is an
// error, never passed through.
func (r Recipe) Render(values map[string]any) ([]Step, error) {
	rendered := make([]Step, 0, len(r.Steps))
	for _, s := range r.Steps {
		conf, err := renderValue(s.Config, values)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: step %s: %w", r.Name, s.Name, err)
		}
		out := Step{Name: s.Name}
		if conf != nil {
			out.Config = conf.(map[string]any)
		}
		rendered = append(rendered, out)
	}
	return rendered, nil
}

func renderValue(v any, values map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		return renderString(t, values)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			r, err := renderValue(e, values)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			r, err := renderValue(e, values)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return v, nil
	}
}

func renderString(s string, values map[string]any) (any, error) {
	// whole-value placeholder keeps the bound value's type
	if m := placeholder.FindStringSubmatch(s); m != nil && m[0] == strings.TrimSpace(s) {
		bound, ok := values[m[1]]
		if !ok {
			return nil, fmt.Errorf("unbound placeholder %q", m[1])
		}
		return bound, nil
	}

	var missing []string
	out := placeholder.ReplaceAllStringFunc(s, func(tok string) string {
		name := placeholder.FindStringSubmatch(tok)[1]
		bound, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return tok
		}
		return stringify(bound)
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("unbound placeholder %q", missing[0])
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
