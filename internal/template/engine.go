// Package template renders notification subjects and bodies from named
// placeholders. Rendering is best-effort display logic: missing keys become
// empty strings and malformed markup is left literal, never an error.
package template

import (
	"regexp"
	"strings"
)

// Template pairs a subject line with a body.
type Template struct {
	Subject string
	Body    string
}

var (
	condPattern = regexp.MustCompile(`(?s)\{\{#if\s+([A-Za-z0-9_]+)\}\}(.*?)\{\{/if\}\}`)
	varPattern  = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
)

// Render substitutes every {{key}} with data[key] and resolves
// {{#if key}}...{{/if}} blocks. A block is emitted only when data[key] is
// truthy; nested conditionals are not supported.
func Render(tpl Template, data map[string]string) Template {
	return Template{
		Subject: renderText(tpl.Subject, data),
		Body:    renderText(tpl.Body, data),
	}
}

func renderText(text string, data map[string]string) string {
	text = condPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := condPattern.FindStringSubmatch(match)
		if truthy(data[groups[1]]) {
			return groups[2]
		}
		return ""
	})
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := varPattern.FindStringSubmatch(match)[1]
		return data[key]
	})
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false":
		return false
	}
	return true
}
