// Package template renders message bodies with {{ name }} placeholders.
package template

import (
	"fmt"
	"regexp"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

type Validation struct {
	Valid            bool     `json:"valid"`
	MissingVariables []string `json:"missingVariables"`
}

type PreviewResult struct {
	Validation
	RequiredVariables []string `json:"requiredVariables"`
	// Message is empty unless every required variable was supplied.
	Message string `json:"message,omitempty"`
}

// Render replaces each placeholder with the string form of its variable.
// Placeholders without a variable are left as written.
func Render(body string, vars map[string]any) string {
	return placeholder.ReplaceAllStringFunc(body, func(token string) string {
		name := placeholder.FindStringSubmatch(token)[1]
		v, ok := vars[name]
		if !ok {
			return token
		}
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// RequiredVariables lists the distinct placeholder names in order of first appearance.
func RequiredVariables(body string) []string {
	matches := placeholder.FindAllStringSubmatch(body, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func Validate(body string, vars map[string]any) Validation {
	missing := []string{}
	for _, name := range RequiredVariables(body) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return Validation{Valid: len(missing) == 0, MissingVariables: missing}
}

// Preview reports what a send would produce without sending anything.
func Preview(body string, vars map[string]any) PreviewResult {
	res := PreviewResult{
		Validation:        Validate(body, vars),
		RequiredVariables: RequiredVariables(body),
	}
	if res.Valid {
		res.Message = Render(body, vars)
	}
	return res
}
