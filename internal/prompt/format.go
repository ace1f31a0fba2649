package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// variablePattern matches single-brace {name} substitution markers with
// identifier-shaped names.
var variablePattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// TemplateVariables returns the variable names referenced by {name}
// markers in a single-brace template, deduplicated in order of first
// appearance. This is a render-time helper; DecodeChat deliberately does
// not use it to fill in decoded Variables fields.
func TemplateVariables(template string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, match := range variablePattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// FormatTemplate substitutes {name} markers with the given values. Every
// referenced variable must have a value; missing names are reported in a
// single error.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var missing []string
	out := variablePattern.ReplaceAllStringFunc(template, func(marker string) string {
		name := marker[1 : len(marker)-1]
		value, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return marker
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing values for variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
