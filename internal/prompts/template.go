// Package prompts provides helpers shared by the per-stage prompt
// subpackages. Each stage embeds its prompt text as a Go template and
// exposes a typed Params struct; builders are pure and perform no I/O.
package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

// variablePattern matches Go template variable references like {{.VarName}} or {{ .VarName }}.
var variablePattern = regexp.MustCompile(`\{\{\s*\.([a-zA-Z_][a-zA-Z0-9_.]*)\s*\}\}`)

// ExtractVariables extracts template variable names from a Go template string.
// For example, "Hello {{.Name}}, you have {{.Count}} items" returns ["Count", "Name"].
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var vars []string

	for _, match := range matches {
		if len(match) > 1 {
			varName := match[1]
			if !seen[varName] {
				seen[varName] = true
				vars = append(vars, varName)
			}
		}
	}

	sort.Strings(vars)
	return vars
}

// HashText returns a SHA256 hash of the text for change detection.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// MustParse parses an embedded prompt template, panicking on error.
// Templates are compiled in as literals, so a parse failure is a
// programming error caught by the stage packages' tests.
func MustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

// Render executes a parsed template against params and returns the
// prompt string.
func Render(t *template.Template, params any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, params); err != nil {
		return "", err
	}
	return sb.String(), nil
}
